package shop

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ConserveLee/seedbot/internal/engine/screen"
)

// RarityTemplate is the reference icon for one rarity label.
type RarityTemplate struct {
	Rarity string
	Image  *image.Gray
}

// TemplatePath is where the icon for rarity is expected inside dir.
func TemplatePath(dir, rarity string) string {
	return filepath.Join(dir, strings.ToLower(rarity)+".png")
}

// LoadTemplates reads <dir>/<rarity>.png for every label in order. Missing or
// unreadable files are logged and skipped.
func LoadTemplates(dir string, rarities []string, log zerolog.Logger) []RarityTemplate {
	templates := make([]RarityTemplate, 0, len(rarities))
	for _, rarity := range rarities {
		path := TemplatePath(dir, rarity)
		img, err := screen.LoadImage(path)
		if err != nil {
			log.Warn().Err(err).Str("rarity", rarity).Str("path", path).Msg("[Detector] template not loaded")
			continue
		}
		templates = append(templates, RarityTemplate{Rarity: rarity, Image: screen.Grayscale(img)})
		log.Debug().Str("rarity", rarity).Str("path", path).Msg("[Detector] template loaded")
	}
	return templates
}

// Detector locates rarity icons in a shop capture.
type Detector struct {
	matcher   ImageMatcher
	templates []RarityTemplate
	layout    Layout
	threshold float32
	tolerance int
	log       zerolog.Logger
}

func NewDetector(matcher ImageMatcher, templates []RarityTemplate, layout Layout, threshold float64, tolerance int, log zerolog.Logger) *Detector {
	return &Detector{
		matcher:   matcher,
		templates: templates,
		layout:    layout,
		threshold: float32(threshold),
		tolerance: tolerance,
		log:       log,
	}
}

// Rarities lists the labels that have a loaded template.
func (d *Detector) Rarities() []string {
	out := make([]string, 0, len(d.templates))
	for _, t := range d.templates {
		out = append(out, t.Rarity)
	}
	return out
}

// Detect returns suppressed hits ordered top to bottom. Anchors are relative
// to the capture's top-left corner.
func (d *Detector) Detect(img image.Image) []Detection {
	gray := screen.Grayscale(img)
	var found []Detection
	for _, tmpl := range d.templates {
		hits, err := d.scan(gray, tmpl)
		if err != nil {
			d.log.Error().Err(err).Str("rarity", tmpl.Rarity).Msg("[Detector] match failed")
			continue
		}
		found = append(found, hits...)
	}
	kept := Suppress(found, d.tolerance)
	if len(kept) > 0 {
		d.log.Debug().Int("raw", len(found)).Int("kept", len(kept)).
			Str("first", fmt.Sprintf("%s@%v", kept[0].Rarity, kept[0].Anchor)).Msg("[Detector] hits")
	}
	return kept
}

func (d *Detector) scan(gray *image.Gray, tmpl RarityTemplate) ([]Detection, error) {
	scores, err := d.matcher.Match(gray, tmpl.Image)
	if err != nil {
		return nil, err
	}
	size := tmpl.Image.Bounds().Size()
	var hits []Detection
	for y := 0; y < scores.Height; y++ {
		for x := 0; x < scores.Width; x++ {
			s := scores.At(x, y)
			if s < d.threshold {
				continue
			}
			center := image.Pt(x+size.X/2, y+size.Y/2)
			if !d.layout.InValidBand(center) {
				continue
			}
			hits = append(hits, Detection{Rarity: tmpl.Rarity, Anchor: center, Size: size, Score: s})
		}
	}
	return hits, nil
}

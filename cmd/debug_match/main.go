package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/rs/zerolog"

	"github.com/ConserveLee/seedbot/internal/config"
	"github.com/ConserveLee/seedbot/internal/engine/screen"
	"github.com/ConserveLee/seedbot/internal/ocr"
	"github.com/ConserveLee/seedbot/internal/shop"
)

// Runs the rarity detector (and optionally OCR) on a saved screenshot so
// thresholds and offsets can be tuned without the game running.
func main() {
	imgPath := flag.String("image", "debug_shop.png", "screenshot to analyse")
	cfgPath := flag.String("config", "", "path to config.json (defaults are used when empty)")
	full := flag.Bool("full", false, "image is a whole display; crop the shop region first")
	withOCR := flag.Bool("ocr", false, "also read name and stock of each detection")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Printf("Failed to load config: %v\n", err)
			return
		}
		cfg = loaded
	}
	layout := cfg.Layout()

	img, err := screen.LoadImage(*imgPath)
	if err != nil {
		fmt.Printf("Failed to load image: %v\n", err)
		return
	}
	if *full {
		crop, ok := screen.Crop(img, layout.ShopRegion)
		if !ok {
			fmt.Printf("Shop region %v is outside the %v image\n", layout.ShopRegion, img.Bounds().Size())
			return
		}
		img = crop
	}
	fmt.Printf("Shop capture size: %dx%d\n", img.Bounds().Dx(), img.Bounds().Dy())

	templates := shop.LoadTemplates(cfg.TemplateDir, cfg.Rarities, log)
	if len(templates) == 0 {
		fmt.Printf("No templates in %s\n", cfg.TemplateDir)
		return
	}

	var rec shop.TextRecognizer
	if *withOCR {
		tess, err := ocr.New(cfg.OCRLanguage, cfg.OCRUpscale)
		if err != nil {
			fmt.Printf("Failed to init OCR: %v\n", err)
			return
		}
		defer tess.Close()
		rec = tess
	}

	matcher := screen.DefaultMatcher()
	for _, threshold := range []float64{cfg.MatchThreshold, 0.75, 0.65} {
		det := shop.NewDetector(matcher, templates, layout, threshold, cfg.NMSTolerance, log)
		dets := det.Detect(img)
		fmt.Printf("\n=== Threshold %.2f: %d detections ===\n", threshold, len(dets))
		for i, d := range dets {
			abs := layout.ToScreen(d.Anchor)
			fmt.Printf("  #%d %-10s score %.3f local %v screen %v\n", i+1, d.Rarity, d.Score, d.Anchor, abs)
			if rec != nil {
				printFields(rec, layout, img, abs, log)
			}
		}
		if threshold == cfg.MatchThreshold && len(dets) > 0 {
			// Lower thresholds only matter when nothing was found
			break
		}
	}
}

func printFields(rec shop.TextRecognizer, layout shop.Layout, img image.Image, anchor image.Point, log zerolog.Logger) {
	ex := shop.NewExtractor(rec, layout, nil, log)
	name := ex.Name(img, anchor)
	stock := ex.Stock(img, anchor)
	fmt.Printf("      name %q stock %s\n", name, stock)
}

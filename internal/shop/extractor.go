package shop

import (
	"image"
	"strconv"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/ConserveLee/seedbot/internal/engine/screen"
)

// Extractor reads the name and stock fields next to a detected rarity anchor.
type Extractor struct {
	rec    TextRecognizer
	layout Layout
	sink   FrameSink
	log    zerolog.Logger
}

func NewExtractor(rec TextRecognizer, layout Layout, sink FrameSink, log zerolog.Logger) *Extractor {
	if sink == nil {
		sink = nopSink{}
	}
	return &Extractor{rec: rec, layout: layout, sink: sink, log: log}
}

// Name returns the trimmed seed name, or "" when nothing could be read.
func (e *Extractor) Name(img image.Image, anchor image.Point) string {
	text, ok := e.read(img, anchor, e.layout.NameBox, CharsetText, "name")
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}

// Stock returns the parsed quantity.
func (e *Extractor) Stock(img image.Image, anchor image.Point) Reading[int] {
	text, ok := e.read(img, anchor, e.layout.StockBox, CharsetDigits, "stock")
	if !ok {
		return Unrecognized[int]()
	}
	return ParseStock(text)
}

// Entry saves the whole seed row to the frame sink.
func (e *Extractor) Entry(img image.Image, anchor image.Point) {
	if crop, ok := screen.Crop(img, e.layout.FieldRect(anchor, e.layout.EntryBox)); ok {
		e.sink.Save("entry", crop)
	}
}

func (e *Extractor) read(img image.Image, anchor image.Point, box Box, hint Charset, label string) (string, bool) {
	crop, ok := screen.Crop(img, e.layout.FieldRect(anchor, box))
	if !ok {
		e.log.Debug().Str("field", label).Interface("anchor", anchor).Msg("[Extract] field outside capture")
		return "", false
	}
	e.sink.Save(label, crop)
	text, err := e.rec.Recognize(crop, hint)
	if err != nil {
		e.log.Warn().Err(err).Str("field", label).Msg("[Extract] recognition failed")
		return "", false
	}
	return text, true
}

// ParseStock keeps only the digits of text. No digits, or a number too large
// to hold, is unrecognized.
func ParseStock(text string) Reading[int] {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, text)
	if digits == "" {
		return Unrecognized[int]()
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return Unrecognized[int]()
	}
	return Known(n)
}

package shop

import (
	"image"
	"time"

	"github.com/ConserveLee/seedbot/internal/engine/screen"
)

// Charset narrows the characters a recognizer may return.
type Charset int

const (
	CharsetText Charset = iota
	CharsetDigits
	CharsetClock // digits and ':'
)

func (c Charset) String() string {
	switch c {
	case CharsetDigits:
		return "digits"
	case CharsetClock:
		return "clock"
	default:
		return "text"
	}
}

// ScreenIO captures absolute screen regions and injects pointer input.
type ScreenIO interface {
	Capture(region image.Rectangle) (image.Image, error)
	Click(p image.Point) error
	Scroll(p image.Point, count int) error
}

// TextRecognizer turns a cropped image into a single line of text.
type TextRecognizer interface {
	Recognize(img image.Image, hint Charset) (string, error)
}

// ImageMatcher scores every placement of tmpl inside img with normalized
// correlation coefficients in [-1, 1].
type ImageMatcher interface {
	Match(img, tmpl *image.Gray) (screen.ScoreMap, error)
}

// FrameSink receives intermediate images for offline inspection.
type FrameSink interface {
	Save(label string, img image.Image)
}

type nopSink struct{}

func (nopSink) Save(string, image.Image) {}

// Clock abstracts wall time so sessions can be replayed without waiting.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

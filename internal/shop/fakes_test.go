package shop

import (
	"errors"
	"image"
	"time"

	"github.com/ConserveLee/seedbot/internal/engine/screen"
)

type scrollCall struct {
	At    image.Point
	Count int
}

type fakeScreen struct {
	captures   []image.Rectangle
	clicks     []image.Point
	scrolls    []scrollCall
	scrolledAt []int // len(clicks) when each scroll happened
	captureErr error
	failAfter  int // Clicks beyond this count fail; 0 means never
}

func (f *fakeScreen) Capture(r image.Rectangle) (image.Image, error) {
	f.captures = append(f.captures, r)
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	return image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy())), nil
}

func (f *fakeScreen) Click(p image.Point) error {
	if f.failAfter > 0 && len(f.clicks) >= f.failAfter {
		return errors.New("input blocked")
	}
	f.clicks = append(f.clicks, p)
	return nil
}

func (f *fakeScreen) Scroll(p image.Point, count int) error {
	f.scrolls = append(f.scrolls, scrollCall{At: p, Count: count})
	f.scrolledAt = append(f.scrolledAt, len(f.clicks))
	return nil
}

// fakeMatcher answers the n-th Match call with a 0.95 score at each listed
// top-left position.
type fakeMatcher struct {
	calls int
	hits  map[int][]image.Point
	err   error
}

func (m *fakeMatcher) Match(img, tmpl *image.Gray) (screen.ScoreMap, error) {
	defer func() { m.calls++ }()
	if m.err != nil {
		return screen.ScoreMap{}, m.err
	}
	w := img.Bounds().Dx() - tmpl.Bounds().Dx() + 1
	h := img.Bounds().Dy() - tmpl.Bounds().Dy() + 1
	out := screen.ScoreMap{Width: w, Height: h, Scores: make([]float32, w*h)}
	for _, p := range m.hits[m.calls] {
		out.Scores[p.Y*w+p.X] = 0.95
	}
	return out, nil
}

// fakeRecognizer pops scripted answers per charset.
type fakeRecognizer struct {
	texts map[Charset][]string
	calls map[Charset]int
	err   error
}

func newFakeRecognizer(texts map[Charset][]string) *fakeRecognizer {
	return &fakeRecognizer{texts: texts, calls: make(map[Charset]int)}
}

func (r *fakeRecognizer) Recognize(_ image.Image, hint Charset) (string, error) {
	i := r.calls[hint]
	r.calls[hint]++
	if r.err != nil {
		return "", r.err
	}
	if i >= len(r.texts[hint]) {
		return "", nil
	}
	return r.texts[hint][i], nil
}

type fakeClock struct {
	now   time.Time
	slept time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept += d
	c.now = c.now.Add(d)
}

func template(rarity string) RarityTemplate {
	return RarityTemplate{Rarity: rarity, Image: image.NewGray(image.Rect(0, 0, 20, 20))}
}

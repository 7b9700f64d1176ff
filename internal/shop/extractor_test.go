package shop

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseStock(t *testing.T) {
	cases := []struct {
		in    string
		want  int
		known bool
	}{
		{"12", 12, true},
		{" x12 \n", 12, true},
		{"0", 0, true},
		{"1 2", 12, true},
		{"", 0, false},
		{"abc", 0, false},
		{"99999999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseStock(tc.in).Get()
		assert.Equal(t, tc.known, ok, "ParseStock(%q)", tc.in)
		assert.Equal(t, tc.want, got, "ParseStock(%q)", tc.in)
	}
}

func TestReadingDistinguishesZeroFromUnknown(t *testing.T) {
	zero := Known(0)
	unknown := Unrecognized[int]()
	assert.True(t, zero.IsKnown())
	assert.False(t, unknown.IsKnown())
	assert.Equal(t, zero.OrZero(), unknown.OrZero())
	assert.Equal(t, "0", zero.String())
	assert.Equal(t, "?", unknown.String())
}

func TestExtractorReadsFields(t *testing.T) {
	rec := newFakeRecognizer(map[Charset][]string{
		CharsetText:   {"  Moon Mango \n"},
		CharsetDigits: {"x4"},
	})
	e := NewExtractor(rec, DefaultLayout(), nil, zerolog.Nop())
	img := shopCapture()
	anchor := image.Pt(1183, 530)

	assert.Equal(t, "Moon Mango", e.Name(img, anchor))
	assert.Equal(t, Known(4), e.Stock(img, anchor))
}

func TestExtractorCropOutsideSkipsRecognizer(t *testing.T) {
	rec := newFakeRecognizer(nil)
	e := NewExtractor(rec, DefaultLayout(), nil, zerolog.Nop())
	far := image.Pt(-5000, -5000)

	assert.Equal(t, "", e.Name(shopCapture(), far))
	assert.False(t, e.Stock(shopCapture(), far).IsKnown())
	assert.Empty(t, rec.calls)
}

func TestExtractorRecognizerError(t *testing.T) {
	rec := newFakeRecognizer(nil)
	rec.err = errors.New("engine gone")
	e := NewExtractor(rec, DefaultLayout(), nil, zerolog.Nop())

	assert.Equal(t, "", e.Name(shopCapture(), image.Pt(1183, 530)))
	assert.False(t, e.Stock(shopCapture(), image.Pt(1183, 530)).IsKnown())
}

func TestParseCountdown(t *testing.T) {
	cases := []struct {
		in    string
		want  time.Duration
		known bool
	}{
		{"2:30", 150 * time.Second, true},
		{"12:05", 725 * time.Second, true},
		{"Restock in 4:07 ", 247 * time.Second, true},
		{"230", 150 * time.Second, true},
		{"0230", 150 * time.Second, true},
		{"1230", 750 * time.Second, true},
		{"123045", 750 * time.Second, true},
		{"99:59", 99*time.Minute + 59*time.Second, true},
		{"45", 0, false},
		{"", 0, false},
		{"99999999999999:00", 0, false},
		{"100:00", 0, false},
		{"5:75", 0, false},
		{"1275", 0, false},
		{"975", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseCountdown(tc.in).Get()
		assert.Equal(t, tc.known, ok, "ParseCountdown(%q)", tc.in)
		assert.Equal(t, tc.want, got, "ParseCountdown(%q)", tc.in)
	}
}

func TestRestockReader(t *testing.T) {
	sio := &fakeScreen{}
	rec := newFakeRecognizer(map[Charset][]string{CharsetClock: {"2:30"}})
	l := DefaultLayout()
	r := NewRestockReader(sio, rec, l.RestockRegion, 150, nil, zerolog.Nop())

	d, ok := r.Read().Get()
	assert.True(t, ok)
	assert.Equal(t, 150*time.Second, d)
	assert.Equal(t, []image.Rectangle{image.Rect(855, 246, 952, 285)}, sio.captures)
}

func TestRestockReaderCaptureFailure(t *testing.T) {
	sio := &fakeScreen{captureErr: errors.New("no display")}
	rec := newFakeRecognizer(nil)
	r := NewRestockReader(sio, rec, DefaultLayout().RestockRegion, 150, nil, zerolog.Nop())

	assert.False(t, r.Read().IsKnown())
	assert.Empty(t, rec.calls)
}

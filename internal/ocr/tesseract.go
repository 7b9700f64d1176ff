package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"golang.org/x/image/draw"

	"github.com/ConserveLee/seedbot/internal/shop"
)

// Whitelists per charset. Free text is unrestricted.
var whitelists = map[shop.Charset]string{
	shop.CharsetDigits: "0123456789",
	shop.CharsetClock:  "0123456789:",
}

// Tesseract recognizes single text lines. One client is kept per charset so
// whitelists never leak between fields.
type Tesseract struct {
	mu      sync.Mutex
	clients map[shop.Charset]*gosseract.Client
	scale   float64
}

// New prepares clients for language (e.g. "eng"). Crops are upscaled by
// scale before recognition; values <= 1 disable upscaling.
func New(language string, scale float64) (*Tesseract, error) {
	t := &Tesseract{
		clients: make(map[shop.Charset]*gosseract.Client),
		scale:   scale,
	}
	for _, cs := range []shop.Charset{shop.CharsetText, shop.CharsetDigits, shop.CharsetClock} {
		c := gosseract.NewClient()
		if err := configure(c, language, whitelists[cs]); err != nil {
			c.Close()
			t.Close()
			return nil, fmt.Errorf("configure %s client: %w", cs, err)
		}
		t.clients[cs] = c
	}
	return t, nil
}

func configure(c *gosseract.Client, language, whitelist string) error {
	if err := c.SetLanguage(language); err != nil {
		return err
	}
	if err := c.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return err
	}
	if whitelist != "" {
		if err := c.SetWhitelist(whitelist); err != nil {
			return err
		}
	}
	return nil
}

// Recognize returns the raw recognized line.
func (t *Tesseract) Recognize(img image.Image, hint shop.Charset) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.clients[hint]
	if !ok {
		c = t.clients[shop.CharsetText]
	}
	data, err := encode(upscale(img, t.scale))
	if err != nil {
		return "", err
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize %s: %w", hint, err)
	}
	return text, nil
}

func (t *Tesseract) Close() error {
	for cs, c := range t.clients {
		c.Close()
		delete(t.clients, cs)
	}
	return nil
}

func upscale(img image.Image, scale float64) image.Image {
	if scale <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(b.Dx())*scale), int(float64(b.Dy())*scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode crop: %w", err)
	}
	return buf.Bytes(), nil
}

package screen

import (
	"image"
	"image/color"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patterned(w, h int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.SetGray(x, y, color.Gray{Y: uint8((x*37 + y*91 + x*y*13) % 251)})
		}
	}
	return g
}

func TestNCCMatcherFindsExactPatch(t *testing.T) {
	img := patterned(64, 48)
	tmpl := img.SubImage(image.Rect(20, 11, 30, 19)).(*image.Gray)

	scores, err := NCCMatcher{Workers: 3}.Match(img, tmpl)
	require.NoError(t, err)
	assert.Equal(t, 55, scores.Width)
	assert.Equal(t, 41, scores.Height)
	assert.InDelta(t, 1.0, scores.At(20, 11), 1e-4)

	best, bx, by := float32(-2), -1, -1
	for y := 0; y < scores.Height; y++ {
		for x := 0; x < scores.Width; x++ {
			if s := scores.At(x, y); s > best {
				best, bx, by = s, x, y
			}
		}
	}
	assert.Equal(t, 20, bx)
	assert.Equal(t, 11, by)
}

func TestNCCMatcherTemplateLargerThanImage(t *testing.T) {
	scores, err := NCCMatcher{}.Match(patterned(8, 8), patterned(10, 4))
	require.NoError(t, err)
	assert.Empty(t, scores.Scores)
}

func TestNCCMatcherFlatTemplateScoresZero(t *testing.T) {
	flat := image.NewGray(image.Rect(0, 0, 4, 4))
	scores, err := NCCMatcher{}.Match(patterned(16, 16), flat)
	require.NoError(t, err)
	for _, s := range scores.Scores {
		assert.Zero(t, s)
	}
}

func TestNCCMatcherEmptyTemplate(t *testing.T) {
	_, err := NCCMatcher{}.Match(patterned(8, 8), image.NewGray(image.Rect(0, 0, 0, 0)))
	assert.ErrorIs(t, err, ErrEmptyTemplate)
}

func TestBinarizeThreshold(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.SetGray(0, 0, color.Gray{Y: 150})
	img.SetGray(1, 0, color.Gray{Y: 151})
	img.SetGray(2, 0, color.Gray{Y: 20})

	out := Binarize(img, 150)
	assert.Equal(t, uint8(0), out.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), out.GrayAt(1, 0).Y)
	assert.Equal(t, uint8(0), out.GrayAt(2, 0).Y)
}

func TestGrayscaleWeights(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	assert.Equal(t, uint8(76), Grayscale(img).GrayAt(0, 0).Y)
}

func TestCropTruncatesToImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))

	sub, ok := Crop(img, image.Rect(90, 40, 120, 70))
	require.True(t, ok)
	assert.Equal(t, 10, sub.Bounds().Dx())
	assert.Equal(t, 10, sub.Bounds().Dy())

	_, ok = Crop(img, image.Rect(-40, -40, -10, -10))
	assert.False(t, ok)
}

func TestDebugDumperSkipsIdenticalFrames(t *testing.T) {
	dir := t.TempDir()
	d := NewDebugDumper(dir, true, 0, zerolog.Nop())

	frame := patterned(64, 64)
	d.Save("shop", frame)
	d.Save("shop", frame)
	d.Save("name", frame)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	require.NoError(t, d.Clear())
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDebugDumperDisabled(t *testing.T) {
	dir := t.TempDir()
	d := NewDebugDumper(dir, false, 0, zerolog.Nop())
	d.Save("shop", patterned(8, 8))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseDisplay(t *testing.T) {
	assert.Equal(t, 2, ParseDisplay("Display 2 (2560x1440)"))
	assert.Equal(t, 0, ParseDisplay("Display 0 (Default)"))
	assert.Equal(t, 0, ParseDisplay("garbage"))
}

func TestHotKeyKeys(t *testing.T) {
	keys, err := HotKeyKeys("ctrl+e")
	require.NoError(t, err)
	assert.Equal(t, []string{"e", "ctrl"}, keys)

	keys, err = HotKeyKeys(" Ctrl + Shift + Q ")
	require.NoError(t, err)
	assert.Equal(t, []string{"q", "ctrl", "shift"}, keys)

	keys, err = HotKeyKeys("f12")
	require.NoError(t, err)
	assert.Equal(t, []string{"f12"}, keys)

	for _, bad := range []string{"", "ctrl+", "+e", "ctrl++e"} {
		_, err := HotKeyKeys(bad)
		assert.Error(t, err, bad)
	}
}

func TestHotKeyString(t *testing.T) {
	h, err := NewHotKey("ctrl+shift+q")
	require.NoError(t, err)
	assert.Equal(t, "ctrl+shift+q", h.String())
}

package screen

import (
	"image"
	"image/color"
	"image/draw"
)

// Grayscale converts img using Y = 0.299R + 0.587G + 0.114B, keeping its bounds.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			lum := uint8(0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8))
			gray.SetGray(x, y, color.Gray{Y: lum})
		}
	}
	return gray
}

// Binarize maps pixels brighter than threshold to white and the rest to black.
func Binarize(img image.Image, threshold uint8) *image.Gray {
	src := Grayscale(img)
	bounds := src.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if src.GrayAt(x, y).Y > threshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// Crop returns the part of img covered by r, where r is relative to the
// image's top-left corner. The rectangle is truncated to the image; ok is
// false when nothing is left.
func Crop(img image.Image, r image.Rectangle) (image.Image, bool) {
	b := img.Bounds()
	r = r.Add(b.Min).Intersect(b)
	if r.Empty() {
		return nil, false
	}
	if sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(r), true
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out, true
}

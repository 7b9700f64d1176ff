//go:build gocv

package screen

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// CVMatcher delegates to OpenCV's TM_CCOEFF_NORMED.
type CVMatcher struct{}

// DefaultMatcher returns the OpenCV matcher.
func DefaultMatcher() Matcher {
	return CVMatcher{}
}

func (CVMatcher) Match(img, tmpl *image.Gray) (ScoreMap, error) {
	if tmpl.Bounds().Empty() {
		return ScoreMap{}, ErrEmptyTemplate
	}
	if img.Bounds().Dx() < tmpl.Bounds().Dx() || img.Bounds().Dy() < tmpl.Bounds().Dy() {
		return ScoreMap{}, nil
	}

	src, err := gocv.ImageGrayToMatGray(compact(img))
	if err != nil {
		return ScoreMap{}, fmt.Errorf("convert image: %w", err)
	}
	defer src.Close()
	t, err := gocv.ImageGrayToMatGray(compact(tmpl))
	if err != nil {
		return ScoreMap{}, fmt.Errorf("convert template: %w", err)
	}
	defer t.Close()

	res := gocv.NewMat()
	defer res.Close()
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.MatchTemplate(src, t, &res, gocv.TmCcoeffNormed, mask)

	out := ScoreMap{Width: res.Cols(), Height: res.Rows()}
	out.Scores = make([]float32, out.Width*out.Height)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			out.Scores[y*out.Width+x] = res.GetFloatAt(y, x)
		}
	}
	return out, nil
}

// compact copies sub-images into a tightly packed buffer at the origin.
func compact(g *image.Gray) *image.Gray {
	b := g.Bounds()
	if b.Min == (image.Point{}) && g.Stride == b.Dx() {
		return g
	}
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		copy(out.Pix[y*out.Stride:(y+1)*out.Stride], g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return out
}

package screen

import (
	"errors"
	"image"
	"math"
	"runtime"
	"sync"
)

// ErrEmptyTemplate is returned for a template with no pixels.
var ErrEmptyTemplate = errors.New("template has no pixels")

// ScoreMap holds one correlation score per template placement. Index (x, y)
// is the template's top-left corner relative to the searched image.
type ScoreMap struct {
	Width, Height int
	Scores        []float32
}

func (m ScoreMap) At(x, y int) float32 {
	return m.Scores[y*m.Width+x]
}

// Matcher scores every placement of tmpl inside img.
type Matcher interface {
	Match(img, tmpl *image.Gray) (ScoreMap, error)
}

// NCCMatcher computes normalized correlation coefficients (the measure
// OpenCV calls TM_CCOEFF_NORMED) in pure Go. Window sums come from integral
// images; rows are spread across Workers goroutines.
type NCCMatcher struct {
	Workers int
}

func (m NCCMatcher) Match(img, tmpl *image.Gray) (ScoreMap, error) {
	ib, tb := img.Bounds(), tmpl.Bounds()
	tw, th := tb.Dx(), tb.Dy()
	if tw == 0 || th == 0 {
		return ScoreMap{}, ErrEmptyTemplate
	}
	iw, ih := ib.Dx(), ib.Dy()
	w, h := iw-tw+1, ih-th+1
	if w <= 0 || h <= 0 {
		return ScoreMap{}, nil
	}
	out := ScoreMap{Width: w, Height: h, Scores: make([]float32, w*h)}

	n := float64(tw * th)
	tz := make([]float64, tw*th)
	var tsum float64
	for y := 0; y < th; y++ {
		for x := 0; x < tw; x++ {
			v := float64(tmpl.GrayAt(tb.Min.X+x, tb.Min.Y+y).Y)
			tz[y*tw+x] = v
			tsum += v
		}
	}
	mean := tsum / n
	var tss float64
	for i := range tz {
		tz[i] -= mean
		tss += tz[i] * tz[i]
	}
	if tss == 0 {
		return out, nil
	}

	px := make([]float64, iw*ih)
	for y := 0; y < ih; y++ {
		for x := 0; x < iw; x++ {
			px[y*iw+x] = float64(img.GrayAt(ib.Min.X+x, ib.Min.Y+y).Y)
		}
	}
	s1, s2 := integrals(px, iw, ih)
	stride := iw + 1
	window := func(sum []float64, u, v int) float64 {
		return sum[(v+th)*stride+u+tw] - sum[v*stride+u+tw] - sum[(v+th)*stride+u] + sum[v*stride+u]
	}

	workers := m.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	var wg sync.WaitGroup
	for k := 0; k < workers; k++ {
		wg.Add(1)
		go func(first int) {
			defer wg.Done()
			for v := first; v < h; v += workers {
				for u := 0; u < w; u++ {
					ws := window(s1, u, v)
					wvar := window(s2, u, v) - ws*ws/n
					if wvar <= 1e-6 {
						continue
					}
					var num float64
					for y := 0; y < th; y++ {
						row := px[(v+y)*iw+u : (v+y)*iw+u+tw]
						trow := tz[y*tw : (y+1)*tw]
						for x, t := range trow {
							num += t * row[x]
						}
					}
					score := num / math.Sqrt(tss*wvar)
					out.Scores[v*w+u] = float32(math.Max(-1, math.Min(1, score)))
				}
			}
		}(k)
	}
	wg.Wait()
	return out, nil
}

// integrals returns summed-area tables of px and px² with a zero first row
// and column.
func integrals(px []float64, w, h int) ([]float64, []float64) {
	stride := w + 1
	s1 := make([]float64, stride*(h+1))
	s2 := make([]float64, stride*(h+1))
	for y := 0; y < h; y++ {
		var r1, r2 float64
		for x := 0; x < w; x++ {
			v := px[y*w+x]
			r1 += v
			r2 += v * v
			s1[(y+1)*stride+x+1] = s1[y*stride+x+1] + r1
			s2[(y+1)*stride+x+1] = s2[y*stride+x+1] + r2
		}
	}
	return s1, s2
}

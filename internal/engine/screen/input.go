package screen

import (
	"image"
	"time"

	"github.com/go-vgo/robotgo"
)

// Desktop pairs a Searcher with robotgo pointer input on the same display.
type Desktop struct {
	*Searcher

	MoveSettle time.Duration // Pause between moving the cursor and clicking
	ScrollGap  time.Duration // Pause between consecutive scroll-up clicks
}

func NewDesktop(moveSettle, scrollGap time.Duration) *Desktop {
	return &Desktop{
		Searcher:   NewSearcher(),
		MoveSettle: moveSettle,
		ScrollGap:  scrollGap,
	}
}

// Click moves to p (display-relative) and presses the left button once.
func (d *Desktop) Click(p image.Point) error {
	g := p.Add(d.Origin())
	robotgo.MoveMouse(g.X, g.Y)
	if d.MoveSettle > 0 {
		time.Sleep(d.MoveSettle)
	}
	robotgo.Click("left")
	return nil
}

// Scroll presses the list's scroll-up control at p count times.
func (d *Desktop) Scroll(p image.Point, count int) error {
	for i := 0; i < count; i++ {
		if err := d.Click(p); err != nil {
			return err
		}
		time.Sleep(d.ScrollGap)
	}
	return nil
}

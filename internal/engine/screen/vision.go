package screen

import (
	"errors"
	"fmt"
	"image"
	_ "image/png" // Register PNG decoder for image.Decode
	"os"
	"sync"

	"github.com/kbinani/screenshot"
)

// ErrEmptyRegion is returned when a capture region has no area.
var ErrEmptyRegion = errors.New("capture region is empty")

// Searcher captures regions of one display. Regions are expressed relative
// to the display's top-left corner so calibrated coordinates survive a
// change of monitor.
type Searcher struct {
	mu           sync.Mutex
	DisplayIndex int
}

// NewSearcher creates a new instance
func NewSearcher() *Searcher {
	return &Searcher{
		DisplayIndex: 0, // Default to main display
	}
}

// SetDisplayID sets the target display index for capturing
func (s *Searcher) SetDisplayID(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DisplayIndex = index
}

// Origin returns the virtual-desktop position of the selected display.
func (s *Searcher) Origin() image.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return screenshot.GetDisplayBounds(s.DisplayIndex).Min
}

// Capture grabs region (display-relative) and returns it with bounds
// starting at (0, 0).
func (s *Searcher) Capture(region image.Rectangle) (image.Image, error) {
	if region.Empty() {
		return nil, ErrEmptyRegion
	}
	abs := region.Add(s.Origin())
	img, err := screenshot.CaptureRect(abs)
	if err != nil {
		return nil, fmt.Errorf("capture %v on display %d: %w", region, s.DisplayIndex, err)
	}
	return img, nil
}

// CaptureScreen returns the whole selected display
func (s *Searcher) CaptureScreen() (image.Image, error) {
	s.mu.Lock()
	bounds := screenshot.GetDisplayBounds(s.DisplayIndex)
	s.mu.Unlock()

	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen %d: %w", s.DisplayIndex, err)
	}
	return img, nil
}

// Displays lists "Display N (WxH)" labels for every active monitor.
func Displays() []string {
	n := screenshot.NumActiveDisplays()
	options := make([]string, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		options = append(options, fmt.Sprintf("Display %d (%dx%d)", i, b.Dx(), b.Dy()))
	}
	if len(options) == 0 {
		options = []string{"Display 0 (Default)"}
	}
	return options
}

// LoadImage loads an image from the filesystem
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// ParseDisplay returns the index in a label produced by Displays, or 0.
func ParseDisplay(label string) int {
	var id int
	if _, err := fmt.Sscanf(label, "Display %d", &id); err != nil {
		return 0
	}
	return id
}

package shop

import (
	"image"
	"sort"
	"strings"
)

// Detection is a rarity icon found in a shop capture.
type Detection struct {
	Rarity string
	Anchor image.Point // Template center, capture-local
	Size   image.Point
	Score  float32
}

// Suppress collapses detections closer than tol pixels on both axes. Input is
// stable-sorted by anchor Y and each candidate is compared only with the last
// kept one, so applying it twice changes nothing.
func Suppress(dets []Detection, tol int) []Detection {
	if len(dets) == 0 {
		return nil
	}
	sorted := make([]Detection, len(dets))
	copy(sorted, dets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Anchor.Y < sorted[j].Anchor.Y
	})

	kept := []Detection{sorted[0]}
	for _, d := range sorted[1:] {
		last := kept[len(kept)-1]
		if abs(d.Anchor.X-last.Anchor.X) > tol || abs(d.Anchor.Y-last.Anchor.Y) > tol {
			kept = append(kept, d)
		}
	}
	return kept
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// SeedID identifies a seed within one scan: trimmed lowercase name plus rarity.
func SeedID(name, rarity string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + rarity
}

// Session is the mutable state of one top-to-bottom scan.
type Session struct {
	Slot       int
	NoProgress int
	Last       image.Point // Position the next slot is measured from

	processed map[string]struct{}
}

func NewSession(first image.Point) *Session {
	return &Session{
		Last:      first,
		processed: make(map[string]struct{}),
	}
}

// Seen reports whether id was already recorded in this session.
func (s *Session) Seen(id string) bool {
	_, ok := s.processed[id]
	return ok
}

// Mark records id as processed.
func (s *Session) Mark(id string) {
	s.processed[id] = struct{}{}
}

func (s *Session) Processed() int { return len(s.processed) }

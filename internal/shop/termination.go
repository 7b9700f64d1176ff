package shop

import (
	"strings"

	"github.com/ConserveLee/seedbot/internal/constants"
)

// TerminationPolicy decides when a scan session is over.
type TerminationPolicy struct {
	SentinelMarker string // Name fragment of the last seed in the list
	EmptyMarker    string // Name fragment OCR produces for a blank panel
	MaxNoProgress  int
	MaxSlots       int
}

func DefaultPolicy() TerminationPolicy {
	return TerminationPolicy{
		SentinelMarker: constants.SentinelMarker,
		EmptyMarker:    constants.EmptyMarker,
		MaxNoProgress:  constants.MaxNoProgress,
		MaxSlots:       constants.MaxSlots,
	}
}

// IsSentinel reports whether name marks the bottom of the list.
func (p TerminationPolicy) IsSentinel(name string) bool {
	return p.SentinelMarker != "" && containsFold(name, p.SentinelMarker)
}

// IsEmpty reports whether name carries no seed.
func (p TerminationPolicy) IsEmpty(name string) bool {
	if strings.TrimSpace(name) == "" {
		return true
	}
	return p.EmptyMarker != "" && containsFold(name, p.EmptyMarker)
}

func (p TerminationPolicy) NoProgressExhausted(count int) bool {
	return count >= p.MaxNoProgress
}

// SlotLimitReached reports whether slot (1-based) is past the limit.
func (p TerminationPolicy) SlotLimitReached(slot int) bool {
	return slot > p.MaxSlots
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

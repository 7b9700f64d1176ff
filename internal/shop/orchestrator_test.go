package shop

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slotHit places the icon so its center lands on the first row: (1183, 530).
var slotHit = image.Pt(573, 270)

type rig struct {
	screen *fakeScreen
	match  *fakeMatcher
	rec    *fakeRecognizer
	clock  *fakeClock
	status []string
	orch   *Orchestrator
	ledger *Ledger
}

func newRig(t *testing.T, hits map[int][]image.Point, texts map[Charset][]string) *rig {
	t.Helper()
	r := &rig{
		screen: &fakeScreen{},
		match:  &fakeMatcher{hits: hits},
		rec:    newFakeRecognizer(texts),
		clock:  newFakeClock(),
		ledger: NewLedger(),
	}
	layout := DefaultLayout()
	log := zerolog.Nop()
	r.orch = NewOrchestrator(OrchestratorOptions{
		Screen:    r.screen,
		Detector:  NewDetector(r.match, []RarityTemplate{template("Mythical")}, layout, 0.85, 10, log),
		Extractor: NewExtractor(r.rec, layout, nil, log),
		Purchaser: NewPurchaseController(r.screen, layout, []string{"Divine", "Mythical"}, 50, 0, r.clock, log),
		Policy:    DefaultPolicy(),
		Layout:    layout,
		Clock:     r.clock,
		Logger:    log,
		Status:    func(s string) { r.status = append(r.status, s) },
	})
	return r
}

func TestScanBuysEligibleSeedAndStopsOnNoProgress(t *testing.T) {
	r := newRig(t,
		map[int][]image.Point{0: {slotHit}},
		map[Charset][]string{CharsetText: {"Moon Mango"}, CharsetDigits: {"4"}},
	)

	res := r.orch.Scan(context.Background(), r.ledger)

	assert.Equal(t, StopNoProgress, res.Reason)
	assert.Equal(t, 4, res.Slots)
	assert.Equal(t, 1, res.NewSightings)
	assert.Equal(t, 1, res.Purchases)

	sightings := r.ledger.Sightings()
	require.Len(t, sightings, 1)
	assert.Equal(t, "Moon Mango", sightings[0].Name)
	assert.Equal(t, "Mythical", sightings[0].Rarity)
	assert.Equal(t, Known(4), sightings[0].Stock)
	require.Len(t, r.ledger.Purchases(), 1)

	first, buy, closeAt, next := image.Pt(1183, 519), image.Pt(762, 642), image.Pt(871, 472), image.Pt(1183, 680)
	assert.Equal(t, []image.Point{
		first,
		buy, buy, buy, buy,
		closeAt,
		next, next, next,
		first,
	}, r.screen.clicks)
	assert.Equal(t, []scrollCall{{At: image.Pt(964, 330), Count: 18}}, r.screen.scrolls)
	assert.Contains(t, r.status, "Status: Buying")
	assert.Equal(t, StateIdle, r.orch.State())
}

func TestScanStopsAtSentinel(t *testing.T) {
	r := newRig(t,
		map[int][]image.Point{0: {slotHit}, 1: {slotHit}},
		map[Charset][]string{CharsetText: {"Carrot", "Cacao"}, CharsetDigits: {"5", "2"}},
	)

	res := r.orch.Scan(context.Background(), r.ledger)

	assert.Equal(t, StopSentinel, res.Reason)
	assert.Equal(t, 2, res.NewSightings)
	assert.Equal(t, 2, res.Purchases)
	assert.Len(t, r.ledger.Sightings(), 2)
	assert.Len(t, r.screen.scrolls, 1)

	// The last seed's panel is closed before the list is scrolled back up.
	require.Len(t, r.screen.scrolledAt, 1)
	before := r.screen.clicks[:r.screen.scrolledAt[0]]
	require.NotEmpty(t, before)
	assert.Equal(t, image.Pt(871, 472), before[len(before)-1])
	assert.Equal(t, image.Pt(1183, 519), r.screen.clicks[len(r.screen.clicks)-1])
}

func TestScanSentinelWaitsBeforeClosing(t *testing.T) {
	r := newRig(t,
		map[int][]image.Point{0: {slotHit}},
		map[Charset][]string{CharsetText: {"Cacao"}, CharsetDigits: {"2"}},
	)
	delays := Delays{AfterBuy: 700 * time.Millisecond, BeforeClose: 700 * time.Millisecond, AfterClose: time.Second}
	r.orch.delays = delays

	res := r.orch.Scan(context.Background(), r.ledger)

	assert.Equal(t, StopSentinel, res.Reason)
	assert.Equal(t, 1, res.Purchases)
	assert.Contains(t, r.screen.clicks, image.Pt(871, 472))
	assert.Contains(t, r.status, "Status: Closing detail")
	assert.GreaterOrEqual(t, r.clock.slept, delays.AfterBuy+delays.BeforeClose+delays.AfterClose)
}

func TestScanFirstSlotEmpty(t *testing.T) {
	r := newRig(t, nil, nil)

	res := r.orch.Scan(context.Background(), r.ledger)

	assert.Equal(t, StopEmpty, res.Reason)
	assert.Equal(t, 1, res.Slots)
	assert.Empty(t, r.ledger.Sightings())
	assert.Equal(t, []image.Point{image.Pt(1183, 519), image.Pt(1183, 519)}, r.screen.clicks)
	assert.Len(t, r.screen.scrolls, 1)
}

func TestScanNoneNameCountsAsEmpty(t *testing.T) {
	r := newRig(t,
		map[int][]image.Point{0: {slotHit}},
		map[Charset][]string{CharsetText: {"None"}},
	)

	res := r.orch.Scan(context.Background(), r.ledger)
	assert.Equal(t, StopEmpty, res.Reason)
	assert.Empty(t, r.ledger.Sightings())
}

func TestScanSkipsDuplicates(t *testing.T) {
	r := newRig(t,
		map[int][]image.Point{0: {slotHit}, 1: {slotHit}, 2: {slotHit}, 3: {slotHit}},
		map[Charset][]string{
			CharsetText:   {"Carrot", "carrot", "Carrot ", "CARROT"},
			CharsetDigits: {"3", "3", "3", "3"},
		},
	)

	res := r.orch.Scan(context.Background(), r.ledger)

	assert.Equal(t, StopNoProgress, res.Reason)
	assert.Equal(t, 1, res.NewSightings)
	assert.Len(t, r.ledger.Sightings(), 1)
	assert.Equal(t, 1, res.Purchases)
}

func TestScanHonoursSlotLimit(t *testing.T) {
	hits := map[int][]image.Point{}
	names := []string{}
	for i := 0; i < 5; i++ {
		hits[i] = []image.Point{slotHit}
		names = append(names, string(rune('A'+i))+" Bean")
	}
	r := newRig(t, hits, map[Charset][]string{CharsetText: names})
	r.orch.policy.MaxSlots = 3

	res := r.orch.Scan(context.Background(), r.ledger)

	assert.Equal(t, StopSlotLimit, res.Reason)
	assert.Equal(t, 3, res.Slots)
	assert.Len(t, r.ledger.Sightings(), 3)
}

func TestScanCancelledSkipsReset(t *testing.T) {
	r := newRig(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := r.orch.Scan(ctx, r.ledger)

	assert.Equal(t, StopCancelled, res.Reason)
	assert.Empty(t, r.screen.clicks)
	assert.Empty(t, r.screen.scrolls)
}

func TestResetToTopIsRepeatable(t *testing.T) {
	r := newRig(t, nil, nil)
	r.orch.ResetToTop()
	r.orch.ResetToTop()

	assert.Equal(t, []image.Point{image.Pt(1183, 519), image.Pt(1183, 519)}, r.screen.clicks)
	assert.Len(t, r.screen.scrolls, 2)
}

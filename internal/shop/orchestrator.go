package shop

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog"
)

// State is the orchestrator's position in the per-slot cycle.
type State int

const (
	StateIdle State = iota
	StateSelectSlot
	StateDetect
	StateExtract
	StateBuy
	StateCloseDetail
	StateAdvance
	StateResetToTop
)

func (s State) String() string {
	switch s {
	case StateSelectSlot:
		return "Selecting slot"
	case StateDetect:
		return "Detecting rarity"
	case StateExtract:
		return "Reading fields"
	case StateBuy:
		return "Buying"
	case StateCloseDetail:
		return "Closing detail"
	case StateAdvance:
		return "Advancing"
	case StateResetToTop:
		return "Resetting to top"
	default:
		return "Idle"
	}
}

// StopReason explains why a session ended.
type StopReason int

const (
	StopSentinel StopReason = iota
	StopEmpty
	StopNoProgress
	StopSlotLimit
	StopCancelled
)

func (r StopReason) String() string {
	switch r {
	case StopSentinel:
		return "reached last seed"
	case StopEmpty:
		return "first slot empty"
	case StopNoProgress:
		return "no progress"
	case StopSlotLimit:
		return "slot limit"
	case StopCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("StopReason(%d)", int(r))
	}
}

// SessionResult summarizes one scan.
type SessionResult struct {
	Slots        int
	NewSightings int
	Purchases    int
	Reason       StopReason
}

// Delays are the pauses the shop UI needs between actions.
type Delays struct {
	SlotSettle  time.Duration
	AfterBuy    time.Duration
	BeforeClose time.Duration
	AfterClose  time.Duration
	AfterReset  time.Duration
}

// OrchestratorOptions wires an Orchestrator. Sink, Clock and Status are optional.
type OrchestratorOptions struct {
	Screen    ScreenIO
	Detector  *Detector
	Extractor *Extractor
	Purchaser *PurchaseController
	Policy    TerminationPolicy
	Layout    Layout
	Delays    Delays
	Clock     Clock
	Sink      FrameSink
	Logger    zerolog.Logger
	Status    func(string)
}

// Orchestrator walks the seed list slot by slot.
type Orchestrator struct {
	screen    ScreenIO
	detector  *Detector
	extractor *Extractor
	purchaser *PurchaseController
	policy    TerminationPolicy
	layout    Layout
	delays    Delays
	clock     Clock
	sink      FrameSink
	log       zerolog.Logger
	status    func(string)

	state State
}

func NewOrchestrator(opts OrchestratorOptions) *Orchestrator {
	o := &Orchestrator{
		screen:    opts.Screen,
		detector:  opts.Detector,
		extractor: opts.Extractor,
		purchaser: opts.Purchaser,
		policy:    opts.Policy,
		layout:    opts.Layout,
		delays:    opts.Delays,
		clock:     opts.Clock,
		sink:      opts.Sink,
		log:       opts.Logger,
		status:    opts.Status,
	}
	if o.clock == nil {
		o.clock = SystemClock
	}
	if o.sink == nil {
		o.sink = nopSink{}
	}
	if o.status == nil {
		o.status = func(string) {}
	}
	return o
}

func (o *Orchestrator) State() State { return o.state }

func (o *Orchestrator) setState(s State) {
	o.state = s
	o.status("Status: " + s.String())
}

// observation is what one slot showed.
type observation struct {
	Name   string
	Rarity string
	Stock  Reading[int]
	Anchor image.Point // Absolute
}

// Scan runs one session from the top of the list and records into ledger.
// Unless cancelled, the list is scrolled back to the top afterwards.
func (o *Orchestrator) Scan(ctx context.Context, ledger *Ledger) SessionResult {
	s := NewSession(o.layout.FirstSlot)
	var res SessionResult
	res.Reason = o.walk(ctx, ledger, s, &res)
	res.Slots = min(s.Slot, o.policy.MaxSlots)

	o.log.Info().Int("slots", res.Slots).Int("unique", s.Processed()).Int("new", res.NewSightings).
		Int("purchases", res.Purchases).Str("reason", res.Reason.String()).Msg("[Scan] session finished")
	if res.Reason != StopCancelled {
		o.ResetToTop()
	}
	o.setState(StateIdle)
	return res
}

func (o *Orchestrator) walk(ctx context.Context, ledger *Ledger, s *Session, res *SessionResult) StopReason {
	for s.Slot = 1; ; s.Slot++ {
		if ctx.Err() != nil {
			return StopCancelled
		}
		if o.policy.SlotLimitReached(s.Slot) {
			return StopSlotLimit
		}

		pos := o.layout.FirstSlot
		if s.Slot > 1 {
			pos = o.layout.NextSlot(s.Last)
		}
		o.setState(StateSelectSlot)
		o.click(pos)
		o.clock.Sleep(o.delays.SlotSettle)

		obs, found := o.inspect()
		switch {
		case found && o.policy.IsSentinel(obs.Name):
			o.log.Info().Str("name", obs.Name).Msg("[Scan] sentinel seed reached")
			o.record(ledger, obs, res)
			o.finish(ledger, obs, res)
			return StopSentinel

		case !found || o.policy.IsEmpty(obs.Name):
			if s.Slot == 1 {
				o.log.Warn().Msg("[Scan] first slot shows no seed")
				return StopEmpty
			}
			s.NoProgress++
			o.log.Debug().Int("slot", s.Slot).Int("no_progress", s.NoProgress).Msg("[Scan] empty slot")
			if o.policy.NoProgressExhausted(s.NoProgress) {
				return StopNoProgress
			}
			continue

		case s.Seen(SeedID(obs.Name, obs.Rarity)):
			s.NoProgress++
			o.log.Debug().Str("name", obs.Name).Int("no_progress", s.NoProgress).Msg("[Scan] already seen")
			if o.policy.NoProgressExhausted(s.NoProgress) {
				return StopNoProgress
			}
			continue
		}

		s.NoProgress = 0
		s.Mark(SeedID(obs.Name, obs.Rarity))
		s.Last = obs.Anchor
		o.record(ledger, obs, res)
		o.finish(ledger, obs, res)
		o.setState(StateAdvance)
	}
}

// finish buys the entry if eligible and closes its detail panel.
func (o *Orchestrator) finish(ledger *Ledger, obs observation, res *SessionResult) {
	if o.buy(ledger, obs, res) {
		o.clock.Sleep(o.delays.AfterBuy)
	}
	o.setState(StateCloseDetail)
	o.clock.Sleep(o.delays.BeforeClose)
	o.click(o.layout.ClosePoint(obs.Anchor))
	o.clock.Sleep(o.delays.AfterClose)
}

// inspect captures the shop and reads the topmost detected seed.
func (o *Orchestrator) inspect() (observation, bool) {
	o.setState(StateDetect)
	img, err := o.screen.Capture(o.layout.ShopRegion)
	if err != nil {
		o.log.Error().Err(err).Msg("[Scan] shop capture failed")
		return observation{}, false
	}
	o.sink.Save("shop", img)

	dets := o.detector.Detect(img)
	if len(dets) == 0 {
		return observation{}, false
	}
	top := dets[0]
	anchor := o.layout.ToScreen(top.Anchor)

	o.setState(StateExtract)
	obs := observation{
		Name:   o.extractor.Name(img, anchor),
		Rarity: top.Rarity,
		Stock:  o.extractor.Stock(img, anchor),
		Anchor: anchor,
	}
	o.extractor.Entry(img, anchor)
	o.log.Info().Str("name", obs.Name).Str("rarity", obs.Rarity).Str("stock", obs.Stock.String()).
		Msg("[Scan] seed read")
	return obs, true
}

func (o *Orchestrator) record(ledger *Ledger, obs observation, res *SessionResult) {
	ledger.RecordSighting(SeedSighting{
		Time:   o.clock.Now(),
		Name:   obs.Name,
		Rarity: obs.Rarity,
		Stock:  obs.Stock,
	})
	res.NewSightings++
}

func (o *Orchestrator) buy(ledger *Ledger, obs observation, res *SessionResult) bool {
	if !o.purchaser.Eligible(obs.Rarity, obs.Stock) {
		return false
	}
	o.setState(StateBuy)
	if o.purchaser.Buy(ledger, obs.Anchor, obs.Name, obs.Rarity, obs.Stock) == 0 {
		return false
	}
	res.Purchases++
	return true
}

// ResetToTop scrolls the list up and reselects the first slot.
func (o *Orchestrator) ResetToTop() {
	o.setState(StateResetToTop)
	if err := o.screen.Scroll(o.layout.ScrollUp, o.layout.ScrollUpCount); err != nil {
		o.log.Error().Err(err).Msg("[Scan] scroll up failed")
	}
	o.clock.Sleep(o.delays.AfterReset)
	o.click(o.layout.FirstSlot)
}

func (o *Orchestrator) click(p image.Point) {
	if err := o.screen.Click(p); err != nil {
		o.log.Error().Err(err).Interface("point", p).Msg("[Scan] click failed")
	}
}

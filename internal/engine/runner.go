package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ConserveLee/seedbot/internal/constants"
	"github.com/ConserveLee/seedbot/internal/shop"
)

// BotStatus represents the current state of the runner
type BotStatus int

const (
	StatusStopped BotStatus = iota
	StatusRunning
)

// Scanner runs one pass over the shop list.
type Scanner interface {
	Scan(ctx context.Context, ledger *shop.Ledger) shop.SessionResult
}

// RestockSource reads the time left until the shop refreshes.
type RestockSource interface {
	Read() shop.Reading[time.Duration]
}

// ReportSink persists the ledger.
type ReportSink interface {
	Flush(ledger *shop.Ledger) error
}

// DumpCleaner empties the debug frame folder.
type DumpCleaner interface {
	Clear() error
}

// KillSwitch calls fire when the operator asks for an emergency stop. It
// stops watching once ctx is done.
type KillSwitch interface {
	Watch(ctx context.Context, fire func())
}

// RunnerConfig holds the outer loop timings
type RunnerConfig struct {
	StartCountdown time.Duration // Time to focus the game window before each scan
	RestockBuffer  time.Duration // Added to the parsed restock countdown
	DefaultWait    time.Duration // Used when the countdown is unreadable
	Step           time.Duration
	LogEvery       time.Duration
	LogTail        time.Duration
}

func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		StartCountdown: constants.StartCountdown,
		RestockBuffer:  constants.RestockBuffer,
		DefaultWait:    constants.DefaultWait,
		Step:           constants.WaitStep,
		LogEvery:       constants.WaitLogEvery,
		LogTail:        constants.WaitLogTail,
	}
}

// Runner repeats scan, report and restock wait until stopped.
type Runner struct {
	Status BotStatus
	Config RunnerConfig

	// Callbacks for UI updates
	StatusFunc func(string)             // Transient status (Label)
	OnCycle    func(shop.SessionResult) // After each scan has been flushed
	OnStopped  func()                   // After Stop, including stops from the kill switch

	Kill KillSwitch // Optional

	ledger  *shop.Ledger
	scanner Scanner
	restock RestockSource
	reports ReportSink
	dump    DumpCleaner
	clock   shop.Clock
	log     zerolog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRunner creates a runner. dump and clock may be nil.
func NewRunner(ledger *shop.Ledger, scanner Scanner, restock RestockSource, reports ReportSink, dump DumpCleaner, clock shop.Clock, log zerolog.Logger) *Runner {
	if clock == nil {
		clock = shop.SystemClock
	}
	return &Runner{
		Status:     StatusStopped,
		Config:     DefaultRunnerConfig(),
		StatusFunc: func(string) {},
		ledger:     ledger,
		scanner:    scanner,
		restock:    restock,
		reports:    reports,
		dump:       dump,
		clock:      clock,
		log:        log,
	}
}

func (r *Runner) Ledger() *shop.Ledger { return r.ledger }

// Running reports whether the background loop is active
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Status == StatusRunning
}

// Start begins the automation loop in the background
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Status == StatusRunning {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.Status = StatusRunning
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.Run(ctx)
	}()
	r.log.Info().Msg("[Runner] started")
}

// Stop cancels the loop and waits for the final flush
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.Status == StatusStopped {
		r.mu.Unlock()
		return
	}

	r.cancel()
	r.wg.Wait()
	r.Status = StatusStopped
	onStopped := r.OnStopped
	r.mu.Unlock()

	r.log.Info().Msg("[Runner] stopped")
	r.StatusFunc("Status: Stopped")
	if onStopped != nil {
		onStopped()
	}
}

// Run blocks until ctx is cancelled or the kill switch fires, then flushes
// the ledger one last time.
func (r *Runner) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if r.Kill != nil {
		r.Kill.Watch(ctx, func() {
			r.log.Warn().Msg("[Runner] kill hot key pressed, stopping")
			cancel()
			// Resets Status under Start; a no-op for a direct Run.
			go r.Stop()
		})
	}

	defer func() {
		r.log.Info().Msg("[Runner] interrupted, saving reports")
		_ = r.reports.Flush(r.ledger)
	}()

	for cycle := 1; ; cycle++ {
		if ctx.Err() != nil {
			return
		}
		if r.dump != nil {
			if err := r.dump.Clear(); err != nil {
				r.log.Warn().Err(err).Msg("[Runner] cannot clear debug frames")
			}
		}

		r.StatusFunc("Status: Starting")
		r.log.Info().Int("cycle", cycle).Dur("in", r.Config.StartCountdown).Msg("[Runner] switch to the game window")
		if !r.wait(ctx, r.Config.StartCountdown, "scan start") {
			return
		}

		res := r.scanner.Scan(ctx, r.ledger)
		if res.Reason == shop.StopCancelled {
			return
		}
		_ = r.reports.Flush(r.ledger)
		if r.OnCycle != nil {
			r.OnCycle(res)
		}

		wait := r.Config.DefaultWait
		if d, ok := r.restock.Read().Get(); ok {
			wait = d + r.Config.RestockBuffer
		} else {
			r.log.Warn().Dur("wait", wait).Msg("[Runner] restock timer unreadable, using default wait")
		}
		r.StatusFunc("Status: Waiting for restock")
		if !r.wait(ctx, wait, "restock") {
			return
		}
	}
}

// wait sleeps d in Config.Step increments and reports false if ctx was
// cancelled first.
func (r *Runner) wait(ctx context.Context, d time.Duration, what string) bool {
	step := r.Config.Step
	if step <= 0 {
		step = time.Second
	}
	for remaining := d; remaining > 0; remaining -= step {
		if ctx.Err() != nil {
			return false
		}
		if r.shouldLog(d, remaining) {
			r.log.Info().Dur("remaining", remaining).Msgf("[Runner] waiting for %s", what)
		}
		r.clock.Sleep(min(step, remaining))
	}
	return ctx.Err() == nil
}

func (r *Runner) shouldLog(total, remaining time.Duration) bool {
	if remaining <= r.Config.LogTail {
		return true
	}
	if r.Config.LogEvery <= 0 {
		return false
	}
	return (total-remaining)%r.Config.LogEvery == 0
}

package engine

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ConserveLee/seedbot/internal/config"
	"github.com/ConserveLee/seedbot/internal/constants"
	"github.com/ConserveLee/seedbot/internal/engine/screen"
	"github.com/ConserveLee/seedbot/internal/ocr"
	"github.com/ConserveLee/seedbot/internal/report"
	"github.com/ConserveLee/seedbot/internal/shop"
	"github.com/ConserveLee/seedbot/internal/storage"
)

// Stack is every live component built from one configuration.
type Stack struct {
	Desktop      *screen.Desktop
	OCR          *ocr.Tesseract
	Dumper       *screen.DebugDumper
	History      *storage.DB // nil when the history database could not be opened
	Detector     *shop.Detector
	Extractor    *shop.Extractor
	Orchestrator *shop.Orchestrator
	Restock      *shop.RestockReader
	Reports      *report.Writer
	Ledger       *shop.Ledger
	Runner       *Runner
}

// Build wires the desktop adapters, OCR, detector and reporting from cfg.
// status receives orchestrator and runner state changes and may be nil.
func Build(cfg *config.Config, log zerolog.Logger, status func(string)) (*Stack, error) {
	if status == nil {
		status = func(string) {}
	}

	templates := shop.LoadTemplates(cfg.TemplateDir, cfg.Rarities, log)
	if len(templates) == 0 {
		return nil, fmt.Errorf("no rarity templates found in %s", cfg.TemplateDir)
	}

	var kill *screen.HotKey
	if cfg.KillHotkey != "" {
		hk, err := screen.NewHotKey(cfg.KillHotkey)
		if err != nil {
			return nil, fmt.Errorf("kill hot key: %w", err)
		}
		kill = hk
	}

	tess, err := ocr.New(cfg.OCRLanguage, cfg.OCRUpscale)
	if err != nil {
		return nil, fmt.Errorf("init ocr: %w", err)
	}

	s := &Stack{
		Desktop: screen.NewDesktop(cfg.ClickMoveSettle(), cfg.ScrollClickGap()),
		OCR:     tess,
		Dumper:  screen.NewDebugDumper(cfg.DebugDir, cfg.DebugDump, constants.DebugHashDist, log),
		Ledger:  shop.NewLedger(),
	}
	s.Desktop.SetDisplayID(cfg.DisplayID)

	var archive report.Archive
	if cfg.HistoryDB != "" {
		db, err := storage.Open(cfg.HistoryDB)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.HistoryDB).Msg("[History] disabled")
		} else {
			s.History = db
			archive = db
		}
	}

	layout := cfg.Layout()
	s.Detector = shop.NewDetector(screen.DefaultMatcher(), templates, layout, cfg.MatchThreshold, cfg.NMSTolerance, log)
	s.Extractor = shop.NewExtractor(tess, layout, s.Dumper, log)
	s.Restock = shop.NewRestockReader(s.Desktop, tess, layout.RestockRegion, uint8(cfg.RestockThreshold), s.Dumper, log)
	s.Reports = report.NewWriter(cfg.ReportDir, archive, log)

	purchaser := shop.NewPurchaseController(s.Desktop, layout, cfg.BuyRarities, cfg.PurchaseCeiling, cfg.BuyClickSettle(), shop.SystemClock, log)
	s.Orchestrator = shop.NewOrchestrator(shop.OrchestratorOptions{
		Screen:    s.Desktop,
		Detector:  s.Detector,
		Extractor: s.Extractor,
		Purchaser: purchaser,
		Policy:    cfg.Policy(),
		Layout:    layout,
		Delays:    cfg.Delays(),
		Sink:      s.Dumper,
		Logger:    log,
		Status:    status,
	})

	s.Runner = NewRunner(s.Ledger, s.Orchestrator, s.Restock, s.Reports, s.Dumper, nil, log)
	s.Runner.Config.StartCountdown = cfg.StartCountdown()
	s.Runner.Config.RestockBuffer = cfg.RestockBuffer()
	s.Runner.Config.DefaultWait = cfg.DefaultWait()
	s.Runner.StatusFunc = status
	if kill != nil {
		s.Runner.Kill = kill
		log.Info().Str("hotkey", kill.String()).Msg("[Engine] press the kill hot key to stop scanning")
	}

	log.Info().Strs("rarities", s.Detector.Rarities()).Strs("buy", cfg.BuyRarities).
		Int("display", cfg.DisplayID).Msg("[Engine] ready")
	return s, nil
}

// Close stops the runner and releases OCR and database handles.
func (s *Stack) Close() error {
	s.Runner.Stop()
	var errs []error
	if err := s.OCR.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.History != nil {
		if err := s.History.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

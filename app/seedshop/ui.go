package seedshop

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ConserveLee/seedbot/internal/config"
	"github.com/ConserveLee/seedbot/internal/engine"
	"github.com/ConserveLee/seedbot/internal/engine/screen"
	"github.com/ConserveLee/seedbot/internal/logger"
	"github.com/ConserveLee/seedbot/internal/report"
	"github.com/ConserveLee/seedbot/internal/shop"
	"github.com/ConserveLee/seedbot/internal/storage"
)

// Panel is the seed shop tab: display selection, start/stop, live log and
// the aggregated tables of the running session.
type Panel struct {
	win     fyne.Window
	cfg     *config.Config
	log     *logger.AppLogger
	logData binding.StringList
	stack   *engine.Stack

	status        binding.String
	stockText     *widget.Label
	boughtText    *widget.Label
	historyText   *widget.Label
	startBtn      *widget.Button
	stopBtn       *widget.Button
	displaySelect *widget.Select
}

// NewPanel builds the tab. The engine itself is built on the first Start so
// templates captured in the tools tab are picked up.
func NewPanel(win fyne.Window, cfg *config.Config, log *logger.AppLogger, logData binding.StringList) *Panel {
	p := &Panel{
		win:     win,
		cfg:     cfg,
		log:     log,
		logData: logData,
		status:  binding.NewString(),
	}
	_ = p.status.Set("Status: Ready")
	return p
}

// Content lays out the widgets.
func (p *Panel) Content() fyne.CanvasObject {
	// 1. Screen Selector
	displayOptions := screen.Displays()
	p.displaySelect = widget.NewSelect(displayOptions, func(selected string) {
		id := screen.ParseDisplay(selected)
		p.cfg.DisplayID = id
		if p.stack != nil {
			p.stack.Desktop.SetDisplayID(id)
		}
		p.log.Info("Switched to Display %d", id)
	})
	if p.cfg.DisplayID >= 0 && p.cfg.DisplayID < len(displayOptions) {
		p.displaySelect.SetSelected(displayOptions[p.cfg.DisplayID])
	} else {
		p.displaySelect.SetSelected(displayOptions[0])
	}

	// 2. Status & Logs
	statusLabel := widget.NewLabelWithData(p.status)
	statusLabel.TextStyle = fyne.TextStyle{Bold: true}

	logList := widget.NewListWithData(
		p.logData,
		func() fyne.CanvasObject { return widget.NewLabel("Log entry template") },
		func(i binding.DataItem, o fyne.CanvasObject) { o.(*widget.Label).Bind(i.(binding.String)) },
	)
	p.logData.AddListener(binding.NewDataListener(func() {
		if p.logData.Length() > 0 {
			logList.ScrollToBottom()
		}
	}))

	mono := fyne.TextStyle{Monospace: true}
	p.stockText = widget.NewLabelWithStyle("", fyne.TextAlignLeading, mono)
	p.boughtText = widget.NewLabelWithStyle("", fyne.TextAlignLeading, mono)
	p.historyText = widget.NewLabelWithStyle("", fyne.TextAlignLeading, mono)
	p.refreshSummary()

	// 3. Buttons
	p.startBtn = widget.NewButton("Start", p.start)
	p.stopBtn = widget.NewButton("Stop", p.stop)
	p.stopBtn.Disable()

	// --- Layout ---
	controls := container.NewVBox(
		widget.NewLabel("Seed shop monitor"),
		container.NewHBox(widget.NewLabel("Screen:"), p.displaySelect),
		statusLabel,
		container.NewHBox(p.startBtn, p.stopBtn),
		widget.NewSeparator(),
	)
	summary := container.NewVScroll(container.NewVBox(p.stockText, p.boughtText, p.historyText))
	tabs := container.NewAppTabs(
		container.NewTabItem("Log", logList),
		container.NewTabItem("Summary", summary),
	)
	return container.NewBorder(controls, nil, nil, nil, tabs)
}

func (p *Panel) setStatus(msg string) {
	fyne.Do(func() { _ = p.status.Set(msg) })
}

func (p *Panel) start() {
	if p.stack == nil {
		stack, err := engine.Build(p.cfg, p.log.Zerolog(), p.setStatus)
		if err != nil {
			p.log.Error("Startup Error: %v", err)
			dialog.ShowError(err, p.win)
			return
		}
		stack.Runner.OnCycle = func(res shop.SessionResult) {
			seen, bought := stack.Ledger.Counts()
			p.log.Info("Scan done: %d slots, %d new, %d bought (%s). Session total: %d seen, %d bought",
				res.Slots, res.NewSightings, res.Purchases, res.Reason, seen, bought)
			fyne.Do(p.refreshSummary)
		}
		stack.Runner.OnStopped = func() { fyne.Do(p.stopped) }
		p.stack = stack
	}

	_ = p.status.Set("Status: Running")
	p.startBtn.Disable()
	p.stopBtn.Enable()
	p.displaySelect.Disable()
	p.stack.Runner.Start()
}

// stop waits for the current scan step and the final flush off the UI thread.
// The runner's OnStopped restores the controls.
func (p *Panel) stop() {
	p.stopBtn.Disable()
	_ = p.status.Set("Status: Stopping")
	go p.stack.Runner.Stop()
}

// stopped runs on the UI thread once the runner has flushed, whether the Stop
// button or the kill hot key ended the run.
func (p *Panel) stopped() {
	p.refreshSummary()
	p.stopBtn.Disable()
	p.startBtn.Enable()
	p.displaySelect.Enable()
}

func (p *Panel) refreshSummary() {
	var ledger *shop.Ledger
	var history *storage.DB
	if p.stack != nil {
		ledger, history = p.stack.Ledger, p.stack.History
	}
	stock, bought := summaryTables(ledger)
	p.stockText.SetText(stock)
	p.boughtText.SetText(bought)
	p.historyText.SetText(historyTable(history))
}

// Close stops the runner and releases the engine.
func (p *Panel) Close() {
	if p.stack == nil {
		return
	}
	if err := p.stack.Close(); err != nil {
		p.log.Error("Shutdown: %v", err)
	}
}

// summaryTables renders the session's aggregated stock and purchases. A nil
// ledger renders as empty tables.
func summaryTables(l *shop.Ledger) (stock, bought string) {
	if l == nil {
		l = shop.NewLedger()
	}
	stock = report.FormatTable("Seeds in stock (this session)", "Stock", shop.AggregateStock(l.Sightings()))
	bought = report.FormatTable("Seeds purchased (this session)", "Count", shop.AggregatePurchases(l.Purchases()))
	return stock, bought
}

func historyTable(db *storage.DB) string {
	if db == nil {
		return "Purchase history unavailable"
	}
	rows, err := db.PurchaseTotals()
	if err != nil {
		return fmt.Sprintf("Purchase history unavailable: %v", err)
	}
	return report.FormatTable("Seeds purchased (all runs)", "Count", rows)
}

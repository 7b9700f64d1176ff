package constants

import "time"

// Seed shop calibration. Coordinates are absolute screen pixels for the
// reference 1920x1080 layout the templates were cropped from.
const (
	// Shop list capture (x, y, width, height)
	ShopRegionX = 600
	ShopRegionY = 250
	ShopRegionW = 750
	ShopRegionH = 650

	// Detections whose absolute center Y falls outside this band are ignored
	ValidMinY = 494
	ValidMaxY = 900

	// Restock countdown capture (x, y, width, height)
	RestockRegionX = 855
	RestockRegionY = 246
	RestockRegionW = 97
	RestockRegionH = 39

	// Slot navigation
	FirstSlotX   = 1183
	FirstSlotY   = 519
	SlotSpacingY = 150 // Vertical distance from one seed row to the next
	ScrollUpX    = 964
	ScrollUpY    = 330
	ScrollUpHits = 18 // Clicks on the scroll-up control to get back to the top

	// Offsets relative to the detected rarity anchor
	BuyButtonDX   = -421
	BuyButtonDY   = 112
	CloseDetailDX = -312 // Clicking the stock box collapses the detail panel
	CloseDetailDY = -58

	// Field boxes relative to the anchor (dx, dy, width, height)
	NameBoxDX  = -364
	NameBoxDY  = -172
	NameBoxW   = 457
	NameBoxH   = 63
	StockBoxDX = -367
	StockBoxDY = -75
	StockBoxW  = 149
	StockBoxH  = 36
	EntryBoxDX = -576
	EntryBoxDY = -178
	EntryBoxW  = 682
	EntryBoxH  = 219
)

// Matching
const (
	MatchThreshold   = 0.85 // Minimum normalized correlation for a rarity hit
	NMSTolerance     = 10   // Pixels; hits closer than this on both axes collapse
	RestockThreshold = 150  // Luminance cut for the countdown binarization
	DebugHashDist    = 2    // Perceptual hash distance treated as an identical frame
)

// Session limits
const (
	MaxSlots        = 30
	MaxNoProgress   = 3
	PurchaseCeiling = 50 // Upper bound on buy clicks for a single item
	SentinelMarker  = "cacao"
	EmptyMarker     = "none"
)

// Interaction delays
const (
	SlotSettle      = 700 * time.Millisecond // Detail panel animation after selecting a slot
	BuyClickSettle  = 500 * time.Millisecond // Between consecutive buy clicks
	AfterBuy        = 700 * time.Millisecond // After the last buy click
	BeforeClose     = 700 * time.Millisecond // Before collapsing the detail panel
	AfterClose      = 1 * time.Second        // After collapsing the detail panel
	ScrollClickGap  = 50 * time.Millisecond  // Between scroll-up clicks
	AfterReset      = 500 * time.Millisecond // Between scrolling up and reselecting slot 1
	ClickMoveSettle = 100 * time.Millisecond // Cursor travel before a click lands
	StartCountdown  = 5 * time.Second        // Time to focus the game window before a scan
	RestockBuffer   = 5 * time.Second        // Added on top of the parsed countdown
	DefaultWait     = 60 * time.Second       // Used when the countdown cannot be read
	WaitStep        = 1 * time.Second        // Granularity of the restock wait
	WaitLogEvery    = 30 * time.Second       // Countdown log cadence
	WaitLogTail     = 10 * time.Second       // Log every step once this close to the end
)

// Rarities in template load order. The buy list defaults to the first two.
var (
	Rarities      = []string{"Divine", "Mythical", "Legendary", "Rare", "Uncommon", "Common"}
	BuyRarities   = []string{"Divine", "Mythical"}
	TimestampFmt  = "2006-01-02 15:04:05"
	DebugDump     = false
	TemplateDir   = "templates"
	ReportDir     = "reports"
	DebugDir      = "debug"
	HistoryDB     = "seed_history.db"
	OCRLanguage   = "eng"
	OCRUpscale    = 2.0
	UILogMaxLines = 100
	KillHotkey    = "ctrl+e" // Emergency stop while the bot drives the mouse
)

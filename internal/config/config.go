package config

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/ConserveLee/seedbot/internal/constants"
	"github.com/ConserveLee/seedbot/internal/engine/screen"
	"github.com/ConserveLee/seedbot/internal/shop"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Region is an x/y/width/height rectangle. For field boxes X and Y are
// offsets from the rarity anchor.
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func (r Region) Rect() image.Rectangle { return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H) }
func (r Region) Box() shop.Box         { return shop.Box{DX: r.X, DY: r.Y, W: r.W, H: r.H} }

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) Pt() image.Point     { return image.Pt(p.X, p.Y) }
func (p Point) Offset() shop.Offset { return shop.Offset{DX: p.X, DY: p.Y} }

// Geometry is the calibrated screen layout.
type Geometry struct {
	ShopRegion    Region `json:"shop_region"`
	RestockRegion Region `json:"restock_region"`
	ValidMinY     int    `json:"valid_min_y"`
	ValidMaxY     int    `json:"valid_max_y"`
	FirstSlot     Point  `json:"first_slot"`
	SlotSpacing   int    `json:"slot_spacing"`
	ScrollUp      Point  `json:"scroll_up"`
	ScrollUpCount int    `json:"scroll_up_count"`
	BuyButton     Point  `json:"buy_button_offset"`
	CloseDetail   Point  `json:"close_detail_offset"`
	NameBox       Region `json:"name_box"`
	StockBox      Region `json:"stock_box"`
	EntryBox      Region `json:"entry_box"`
}

// Timings are expressed in milliseconds in the file.
type Timings struct {
	SlotSettle      int `json:"slot_settle"`
	BuyClickSettle  int `json:"buy_click_settle"`
	AfterBuy        int `json:"after_buy"`
	BeforeClose     int `json:"before_close"`
	AfterClose      int `json:"after_close"`
	AfterReset      int `json:"after_reset"`
	ScrollClickGap  int `json:"scroll_click_gap"`
	ClickMoveSettle int `json:"click_move_settle"`
	StartCountdown  int `json:"start_countdown"`
	RestockBuffer   int `json:"restock_buffer"`
	DefaultWait     int `json:"default_wait"`
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

type Config struct {
	DisplayID   int    `json:"display_id"`
	TemplateDir string `json:"template_dir"`
	ReportDir   string `json:"report_dir"`
	HistoryDB   string `json:"history_db"`
	DebugDir    string `json:"debug_dir"`
	DebugDump   bool   `json:"debug_dump"`
	LogFile     string `json:"log_file"`
	KillHotkey  string `json:"kill_hotkey"` // Empty disables the global hot key

	Rarities         []string `json:"rarities"`
	BuyRarities      []string `json:"buy_rarities"`
	MatchThreshold   float64  `json:"match_threshold"`
	NMSTolerance     int      `json:"nms_tolerance"`
	RestockThreshold int      `json:"restock_threshold"`
	OCRLanguage      string   `json:"ocr_language"`
	OCRUpscale       float64  `json:"ocr_upscale"`

	MaxSlots        int    `json:"max_slots"`
	MaxNoProgress   int    `json:"max_no_progress"`
	PurchaseCeiling int    `json:"purchase_ceiling"`
	SentinelMarker  string `json:"sentinel_marker"`

	Geometry Geometry `json:"geometry"`
	Timings  Timings  `json:"timings_ms"`
}

// Default returns the calibrated configuration.
func Default() *Config {
	return &Config{
		TemplateDir:      constants.TemplateDir,
		ReportDir:        constants.ReportDir,
		HistoryDB:        constants.HistoryDB,
		DebugDir:         constants.DebugDir,
		DebugDump:        constants.DebugDump,
		KillHotkey:       constants.KillHotkey,
		Rarities:         append([]string(nil), constants.Rarities...),
		BuyRarities:      append([]string(nil), constants.BuyRarities...),
		MatchThreshold:   constants.MatchThreshold,
		NMSTolerance:     constants.NMSTolerance,
		RestockThreshold: constants.RestockThreshold,
		OCRLanguage:      constants.OCRLanguage,
		OCRUpscale:       constants.OCRUpscale,
		MaxSlots:         constants.MaxSlots,
		MaxNoProgress:    constants.MaxNoProgress,
		PurchaseCeiling:  constants.PurchaseCeiling,
		SentinelMarker:   constants.SentinelMarker,
		Geometry: Geometry{
			ShopRegion:    Region{constants.ShopRegionX, constants.ShopRegionY, constants.ShopRegionW, constants.ShopRegionH},
			RestockRegion: Region{constants.RestockRegionX, constants.RestockRegionY, constants.RestockRegionW, constants.RestockRegionH},
			ValidMinY:     constants.ValidMinY,
			ValidMaxY:     constants.ValidMaxY,
			FirstSlot:     Point{constants.FirstSlotX, constants.FirstSlotY},
			SlotSpacing:   constants.SlotSpacingY,
			ScrollUp:      Point{constants.ScrollUpX, constants.ScrollUpY},
			ScrollUpCount: constants.ScrollUpHits,
			BuyButton:     Point{constants.BuyButtonDX, constants.BuyButtonDY},
			CloseDetail:   Point{constants.CloseDetailDX, constants.CloseDetailDY},
			NameBox:       Region{constants.NameBoxDX, constants.NameBoxDY, constants.NameBoxW, constants.NameBoxH},
			StockBox:      Region{constants.StockBoxDX, constants.StockBoxDY, constants.StockBoxW, constants.StockBoxH},
			EntryBox:      Region{constants.EntryBoxDX, constants.EntryBoxDY, constants.EntryBoxW, constants.EntryBoxH},
		},
		Timings: Timings{
			SlotSettle:      int(constants.SlotSettle.Milliseconds()),
			BuyClickSettle:  int(constants.BuyClickSettle.Milliseconds()),
			AfterBuy:        int(constants.AfterBuy.Milliseconds()),
			BeforeClose:     int(constants.BeforeClose.Milliseconds()),
			AfterClose:      int(constants.AfterClose.Milliseconds()),
			AfterReset:      int(constants.AfterReset.Milliseconds()),
			ScrollClickGap:  int(constants.ScrollClickGap.Milliseconds()),
			ClickMoveSettle: int(constants.ClickMoveSettle.Milliseconds()),
			StartCountdown:  int(constants.StartCountdown.Milliseconds()),
			RestockBuffer:   int(constants.RestockBuffer.Milliseconds()),
			DefaultWait:     int(constants.DefaultWait.Milliseconds()),
		},
	}
}

// Validate rejects values the bot cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.MatchThreshold <= 0 || c.MatchThreshold > 1:
		return fmt.Errorf("%w: match_threshold %v outside (0, 1]", ErrInvalid, c.MatchThreshold)
	case c.MaxSlots <= 0:
		return fmt.Errorf("%w: max_slots must be positive", ErrInvalid)
	case c.MaxNoProgress <= 0:
		return fmt.Errorf("%w: max_no_progress must be positive", ErrInvalid)
	case c.PurchaseCeiling <= 0:
		return fmt.Errorf("%w: purchase_ceiling must be positive", ErrInvalid)
	case c.RestockThreshold < 0 || c.RestockThreshold > 255:
		return fmt.Errorf("%w: restock_threshold %d outside [0, 255]", ErrInvalid, c.RestockThreshold)
	case c.Geometry.ShopRegion.Rect().Empty():
		return fmt.Errorf("%w: shop_region is empty", ErrInvalid)
	case c.Geometry.RestockRegion.Rect().Empty():
		return fmt.Errorf("%w: restock_region is empty", ErrInvalid)
	case len(c.Rarities) == 0:
		return fmt.Errorf("%w: no rarities configured", ErrInvalid)
	case c.TemplateDir == "":
		return fmt.Errorf("%w: template_dir is empty", ErrInvalid)
	}
	if c.KillHotkey != "" {
		if _, err := screen.HotKeyKeys(c.KillHotkey); err != nil {
			return fmt.Errorf("%w: kill_hotkey: %v", ErrInvalid, err)
		}
	}
	return nil
}

// Layout converts the geometry section.
func (c *Config) Layout() shop.Layout {
	g := c.Geometry
	return shop.Layout{
		ShopRegion:    g.ShopRegion.Rect(),
		RestockRegion: g.RestockRegion.Rect(),
		ValidMinY:     g.ValidMinY,
		ValidMaxY:     g.ValidMaxY,
		FirstSlot:     g.FirstSlot.Pt(),
		SlotSpacing:   g.SlotSpacing,
		ScrollUp:      g.ScrollUp.Pt(),
		ScrollUpCount: g.ScrollUpCount,
		BuyButton:     g.BuyButton.Offset(),
		CloseDetail:   g.CloseDetail.Offset(),
		NameBox:       g.NameBox.Box(),
		StockBox:      g.StockBox.Box(),
		EntryBox:      g.EntryBox.Box(),
	}
}

func (c *Config) Delays() shop.Delays {
	return shop.Delays{
		SlotSettle:  ms(c.Timings.SlotSettle),
		AfterBuy:    ms(c.Timings.AfterBuy),
		BeforeClose: ms(c.Timings.BeforeClose),
		AfterClose:  ms(c.Timings.AfterClose),
		AfterReset:  ms(c.Timings.AfterReset),
	}
}

func (c *Config) Policy() shop.TerminationPolicy {
	return shop.TerminationPolicy{
		SentinelMarker: c.SentinelMarker,
		EmptyMarker:    constants.EmptyMarker,
		MaxNoProgress:  c.MaxNoProgress,
		MaxSlots:       c.MaxSlots,
	}
}

func (c *Config) BuyClickSettle() time.Duration  { return ms(c.Timings.BuyClickSettle) }
func (c *Config) ScrollClickGap() time.Duration  { return ms(c.Timings.ScrollClickGap) }
func (c *Config) ClickMoveSettle() time.Duration { return ms(c.Timings.ClickMoveSettle) }
func (c *Config) StartCountdown() time.Duration  { return ms(c.Timings.StartCountdown) }
func (c *Config) RestockBuffer() time.Duration   { return ms(c.Timings.RestockBuffer) }
func (c *Config) DefaultWait() time.Duration     { return ms(c.Timings.DefaultWait) }

package shop

import (
	"image"

	"github.com/ConserveLee/seedbot/internal/constants"
)

// Offset is a displacement from an anchor point.
type Offset struct {
	DX, DY int
}

// From applies the offset to p.
func (o Offset) From(p image.Point) image.Point {
	return p.Add(image.Pt(o.DX, o.DY))
}

// Box is a rectangle whose top-left corner is an offset from an anchor.
type Box struct {
	DX, DY, W, H int
}

// At places the box relative to p.
func (b Box) At(p image.Point) image.Rectangle {
	tl := p.Add(image.Pt(b.DX, b.DY))
	return image.Rectangle{Min: tl, Max: tl.Add(image.Pt(b.W, b.H))}
}

// Layout is the calibrated geometry of the shop screen. Points and regions
// are absolute (display-relative) unless noted.
type Layout struct {
	ShopRegion    image.Rectangle
	RestockRegion image.Rectangle

	ValidMinY, ValidMaxY int

	FirstSlot     image.Point
	SlotSpacing   int
	ScrollUp      image.Point
	ScrollUpCount int

	BuyButton   Offset
	CloseDetail Offset

	NameBox  Box
	StockBox Box
	EntryBox Box
}

// DefaultLayout returns the 1920x1080 calibration.
func DefaultLayout() Layout {
	return Layout{
		ShopRegion: image.Rect(constants.ShopRegionX, constants.ShopRegionY,
			constants.ShopRegionX+constants.ShopRegionW, constants.ShopRegionY+constants.ShopRegionH),
		RestockRegion: image.Rect(constants.RestockRegionX, constants.RestockRegionY,
			constants.RestockRegionX+constants.RestockRegionW, constants.RestockRegionY+constants.RestockRegionH),
		ValidMinY:     constants.ValidMinY,
		ValidMaxY:     constants.ValidMaxY,
		FirstSlot:     image.Pt(constants.FirstSlotX, constants.FirstSlotY),
		SlotSpacing:   constants.SlotSpacingY,
		ScrollUp:      image.Pt(constants.ScrollUpX, constants.ScrollUpY),
		ScrollUpCount: constants.ScrollUpHits,
		BuyButton:     Offset{DX: constants.BuyButtonDX, DY: constants.BuyButtonDY},
		CloseDetail:   Offset{DX: constants.CloseDetailDX, DY: constants.CloseDetailDY},
		NameBox:       Box{DX: constants.NameBoxDX, DY: constants.NameBoxDY, W: constants.NameBoxW, H: constants.NameBoxH},
		StockBox:      Box{DX: constants.StockBoxDX, DY: constants.StockBoxDY, W: constants.StockBoxW, H: constants.StockBoxH},
		EntryBox:      Box{DX: constants.EntryBoxDX, DY: constants.EntryBoxDY, W: constants.EntryBoxW, H: constants.EntryBoxH},
	}
}

// ToScreen converts a point inside a shop capture to absolute coordinates.
func (l Layout) ToScreen(local image.Point) image.Point {
	return local.Add(l.ShopRegion.Min)
}

// ToLocal converts an absolute point to shop-capture coordinates.
func (l Layout) ToLocal(abs image.Point) image.Point {
	return abs.Sub(l.ShopRegion.Min)
}

// InValidBand reports whether a capture-local center lies in the usable rows.
func (l Layout) InValidBand(local image.Point) bool {
	y := local.Y + l.ShopRegion.Min.Y
	return y >= l.ValidMinY && y <= l.ValidMaxY
}

// NextSlot is the blind position of the row below prev.
func (l Layout) NextSlot(prev image.Point) image.Point {
	return prev.Add(image.Pt(0, l.SlotSpacing))
}

func (l Layout) BuyPoint(anchor image.Point) image.Point   { return l.BuyButton.From(anchor) }
func (l Layout) ClosePoint(anchor image.Point) image.Point { return l.CloseDetail.From(anchor) }

// FieldRect places box around an absolute anchor, in capture-local coordinates.
func (l Layout) FieldRect(anchor image.Point, box Box) image.Rectangle {
	return box.At(l.ToLocal(anchor))
}

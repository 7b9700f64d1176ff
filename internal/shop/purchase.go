package shop

import (
	"image"
	"time"

	"github.com/rs/zerolog"
)

// PurchaseController issues buy clicks for eligible seeds. Clicks are not
// verified and never retried.
type PurchaseController struct {
	screen  ScreenIO
	layout  Layout
	buyList map[string]struct{}
	ceiling int
	settle  time.Duration
	clock   Clock
	log     zerolog.Logger
}

func NewPurchaseController(sio ScreenIO, layout Layout, buyList []string, ceiling int, settle time.Duration, clock Clock, log zerolog.Logger) *PurchaseController {
	set := make(map[string]struct{}, len(buyList))
	for _, r := range buyList {
		set[r] = struct{}{}
	}
	return &PurchaseController{
		screen:  sio,
		layout:  layout,
		buyList: set,
		ceiling: ceiling,
		settle:  settle,
		clock:   clock,
		log:     log,
	}
}

// Eligible is true for buy-list rarities with a known, positive stock.
func (c *PurchaseController) Eligible(rarity string, stock Reading[int]) bool {
	if _, ok := c.buyList[rarity]; !ok {
		return false
	}
	n, ok := stock.Get()
	return ok && n > 0
}

// Buy clicks the buy button min(stock, ceiling) times and records one
// purchase event when at least one click went out. It returns the number of
// clicks issued.
func (c *PurchaseController) Buy(ledger *Ledger, anchor image.Point, name, rarity string, stock Reading[int]) int {
	if !c.Eligible(rarity, stock) {
		return 0
	}
	n, _ := stock.Get()
	attempts := min(n, c.ceiling)
	target := c.layout.BuyPoint(anchor)

	clicks := 0
	for i := 0; i < attempts; i++ {
		if err := c.screen.Click(target); err != nil {
			c.log.Error().Err(err).Str("name", name).Int("clicks", clicks).Msg("[Buy] click failed, abandoning item")
			break
		}
		clicks++
		c.clock.Sleep(c.settle)
	}
	if clicks == 0 {
		return 0
	}

	ledger.RecordPurchase(PurchaseEvent{Time: c.clock.Now(), Name: name, Rarity: rarity})
	c.log.Info().Str("name", name).Str("rarity", rarity).Int("stock", n).Int("clicks", clicks).Msg("[Buy] purchased")
	return clicks
}

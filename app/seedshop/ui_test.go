package seedshop

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ConserveLee/seedbot/internal/shop"
	"github.com/ConserveLee/seedbot/internal/storage"
)

func TestSummaryTablesNilLedger(t *testing.T) {
	stock, bought := summaryTables(nil)
	assert.Contains(t, stock, "(none)")
	assert.Contains(t, bought, "(none)")
}

func TestSummaryTables(t *testing.T) {
	l := shop.NewLedger()
	l.RecordSighting(shop.SeedSighting{Time: time.Now(), Name: "Moon Mango", Rarity: "Mythical", Stock: shop.Known(3)})
	l.RecordPurchase(shop.PurchaseEvent{Time: time.Now(), Name: "Moon Mango", Rarity: "Mythical"})

	stock, bought := summaryTables(l)
	assert.Contains(t, stock, "Moon Mango")
	assert.Contains(t, stock, "3")
	assert.Contains(t, bought, "Mythical")
}

func TestHistoryTable(t *testing.T) {
	assert.Equal(t, "Purchase history unavailable", historyTable(nil))

	db, err := storage.Open(filepath.Join(t.TempDir(), "h.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AddPurchases([]shop.PurchaseEvent{{Time: time.Now(), Name: "Sunflower", Rarity: "Divine"}}))

	out := historyTable(db)
	assert.Contains(t, out, "all runs")
	assert.Contains(t, out, "Sunflower")
}

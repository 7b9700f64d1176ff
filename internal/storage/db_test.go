package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ConserveLee/seedbot/internal/shop"
	"github.com/ConserveLee/seedbot/internal/storage"
)

func openTemp(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "history", "seeds.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSightingsRoundTrip(t *testing.T) {
	db := openTemp(t)
	ts := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

	require.NoError(t, db.AddSightings([]shop.SeedSighting{
		{Time: ts, Name: "Moon Mango", Rarity: "Mythical", Stock: shop.Known(4)},
		{Time: ts, Name: "Carrot", Rarity: "Common", Stock: shop.Unrecognized[int]()},
	}))

	got, err := db.Sightings()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Moon Mango", got[0].Name)
	assert.Equal(t, shop.Known(4), got[0].Stock)
	assert.True(t, ts.Equal(got[0].Time))
	assert.False(t, got[1].Stock.IsKnown())
}

func TestPurchaseTotalsGroupCaseInsensitively(t *testing.T) {
	db := openTemp(t)
	now := time.Now()

	require.NoError(t, db.AddPurchases([]shop.PurchaseEvent{
		{Time: now, Name: "Moon Mango", Rarity: "Mythical"},
		{Time: now, Name: "moon mango", Rarity: "Mythical"},
		{Time: now, Name: "Sunflower", Rarity: "Divine"},
	}))

	totals, err := db.PurchaseTotals()
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "Divine", totals[0].Rarity)
	assert.Equal(t, 1, totals[0].Total)
	assert.Equal(t, "Mythical", totals[1].Rarity)
	assert.Equal(t, 2, totals[1].Total)
}

func TestEmptyBatchesAreNoops(t *testing.T) {
	db := openTemp(t)
	require.NoError(t, db.AddSightings(nil))
	require.NoError(t, db.AddPurchases(nil))

	got, err := db.Sightings()
	require.NoError(t, err)
	assert.Empty(t, got)
}

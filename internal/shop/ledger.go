package shop

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// SeedSighting is one observation of a seed during a scan.
type SeedSighting struct {
	Time   time.Time
	Name   string
	Rarity string
	Stock  Reading[int]
}

// PurchaseEvent records that buy clicks were issued for a seed.
type PurchaseEvent struct {
	Time   time.Time
	Name   string
	Rarity string
}

// Ledger is the append-only history of one process run. Readers get copies.
type Ledger struct {
	mu        sync.RWMutex
	sightings []SeedSighting
	purchases []PurchaseEvent
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) RecordSighting(s SeedSighting) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sightings = append(l.sightings, s)
}

func (l *Ledger) RecordPurchase(p PurchaseEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.purchases = append(l.purchases, p)
}

func (l *Ledger) Sightings() []SeedSighting {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]SeedSighting, len(l.sightings))
	copy(out, l.sightings)
	return out
}

func (l *Ledger) Purchases() []PurchaseEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]PurchaseEvent, len(l.purchases))
	copy(out, l.purchases)
	return out
}

// Counts returns the number of sightings and purchases recorded so far.
func (l *Ledger) Counts() (sightings, purchases int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sightings), len(l.purchases)
}

// AggregateRow is a per-seed total.
type AggregateRow struct {
	Name   string
	Rarity string
	Total  int
}

// AggregateStock sums stock per (name, rarity). Names compare
// case-insensitively; the first spelling seen is kept. Unknown stock adds 0.
func AggregateStock(sightings []SeedSighting) []AggregateRow {
	g := newGrouper()
	for _, s := range sightings {
		g.add(s.Name, s.Rarity, s.Stock.OrZero())
	}
	return g.rows()
}

// AggregatePurchases counts purchase events per (name, rarity).
func AggregatePurchases(purchases []PurchaseEvent) []AggregateRow {
	g := newGrouper()
	for _, p := range purchases {
		g.add(p.Name, p.Rarity, 1)
	}
	return g.rows()
}

type grouper struct {
	index map[string]int
	out   []AggregateRow
}

func newGrouper() *grouper {
	return &grouper{index: make(map[string]int)}
}

func (g *grouper) add(name, rarity string, n int) {
	name = strings.TrimSpace(name)
	key := strings.ToLower(name) + "|" + rarity
	i, ok := g.index[key]
	if !ok {
		i = len(g.out)
		g.index[key] = i
		g.out = append(g.out, AggregateRow{Name: name, Rarity: rarity})
	}
	g.out[i].Total += n
}

func (g *grouper) rows() []AggregateRow {
	sort.SliceStable(g.out, func(i, j int) bool {
		if g.out[i].Rarity != g.out[j].Rarity {
			return g.out[i].Rarity < g.out[j].Rarity
		}
		return strings.ToLower(g.out[i].Name) < strings.ToLower(g.out[j].Name)
	})
	return g.out
}

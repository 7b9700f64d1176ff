package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/ConserveLee/seedbot/internal/constants"
	"github.com/ConserveLee/seedbot/internal/shop"
)

const (
	StockRawFile     = "seeds_in_stock_raw.csv"
	PurchasedRawFile = "seeds_purchased_raw.csv"
	StockAggFile     = "seeds_in_stock_aggregated.csv"
	PurchasedAggFile = "seeds_purchased_aggregated.csv"
	CombinedFile     = "all_seed_data.csv"
	typeInStock      = "In_Stock"
	typePurchased    = "Purchased"
)

// Archive receives ledger rows that have not been archived yet.
type Archive interface {
	AddSightings([]shop.SeedSighting) error
	AddPurchases([]shop.PurchaseEvent) error
}

// Writer persists a ledger as CSV files and, optionally, into an archive.
type Writer struct {
	dir     string
	archive Archive
	log     zerolog.Logger
	create  func(path string) (io.WriteCloser, error)

	mu                sync.Mutex
	archivedSightings int
	archivedPurchases int
}

// NewWriter writes into dir. archive may be nil.
func NewWriter(dir string, archive Archive, log zerolog.Logger) *Writer {
	return &Writer{dir: dir, archive: archive, log: log, create: createFile}
}

func createFile(path string) (io.WriteCloser, error) { return os.Create(path) }

// Flush rewrites every report file from the ledger's current contents, logs
// the aggregated tables and archives rows added since the previous flush.
// Each failure is logged; the joined error is returned for callers that care.
func (w *Writer) Flush(ledger *shop.Ledger) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	sightings := ledger.Sightings()
	purchases := ledger.Purchases()
	stockAgg := shop.AggregateStock(sightings)
	purchaseAgg := shop.AggregatePurchases(purchases)

	w.log.Info().Msg("[Report]\n" + FormatTable("Seeds in stock", "Stock", stockAgg))
	w.log.Info().Msg("[Report]\n" + FormatTable("Seeds purchased", "Count", purchaseAgg))

	var errs []error
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		errs = append(errs, fmt.Errorf("create report dir: %w", err))
	} else {
		if len(sightings) > 0 {
			errs = append(errs,
				w.write(StockRawFile, []string{"Timestamp", "Name", "Rarity", "Stock"}, stockRawRows(sightings)),
				w.write(StockAggFile, []string{"Name", "Rarity", "Stock"}, aggRows(stockAgg)),
			)
		}
		if len(purchases) > 0 {
			errs = append(errs,
				w.write(PurchasedRawFile, []string{"Timestamp", "Name", "Rarity"}, purchaseRawRows(purchases)),
				w.write(PurchasedAggFile, []string{"Name", "Rarity", "Count"}, aggRows(purchaseAgg)),
			)
		}
		errs = append(errs, w.write(CombinedFile, []string{"Type", "Timestamp", "Name", "Rarity", "Stock/Count"}, combinedRows(sightings, purchases)))
	}
	errs = append(errs, w.archiveNew(sightings, purchases))

	err := errors.Join(errs...)
	if err != nil {
		w.log.Error().Err(err).Str("dir", w.dir).Msg("[Report] flush incomplete")
	} else {
		w.log.Info().Int("sightings", len(sightings)).Int("purchases", len(purchases)).Str("dir", w.dir).Msg("[Report] saved")
	}
	return err
}

func (w *Writer) archiveNew(sightings []shop.SeedSighting, purchases []shop.PurchaseEvent) error {
	if w.archive == nil {
		return nil
	}
	if w.archivedSightings < len(sightings) {
		if err := w.archive.AddSightings(sightings[w.archivedSightings:]); err != nil {
			return fmt.Errorf("archive sightings: %w", err)
		}
		w.archivedSightings = len(sightings)
	}
	if w.archivedPurchases < len(purchases) {
		if err := w.archive.AddPurchases(purchases[w.archivedPurchases:]); err != nil {
			return fmt.Errorf("archive purchases: %w", err)
		}
		w.archivedPurchases = len(purchases)
	}
	return nil
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	f, err := w.create(filepath.Join(w.dir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	cw := csv.NewWriter(f)
	err = cw.Write(header)
	if err == nil {
		err = cw.WriteAll(rows)
	}
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}

func stamp(s shop.SeedSighting) string { return s.Time.Format(constants.TimestampFmt) }

func stockRawRows(sightings []shop.SeedSighting) [][]string {
	rows := make([][]string, 0, len(sightings))
	for _, s := range sightings {
		stock := ""
		if n, ok := s.Stock.Get(); ok {
			stock = strconv.Itoa(n)
		}
		rows = append(rows, []string{stamp(s), s.Name, s.Rarity, stock})
	}
	return rows
}

func purchaseRawRows(purchases []shop.PurchaseEvent) [][]string {
	rows := make([][]string, 0, len(purchases))
	for _, p := range purchases {
		rows = append(rows, []string{p.Time.Format(constants.TimestampFmt), p.Name, p.Rarity})
	}
	return rows
}

func aggRows(agg []shop.AggregateRow) [][]string {
	rows := make([][]string, 0, len(agg))
	for _, r := range agg {
		rows = append(rows, []string{r.Name, r.Rarity, strconv.Itoa(r.Total)})
	}
	return rows
}

func combinedRows(sightings []shop.SeedSighting, purchases []shop.PurchaseEvent) [][]string {
	rows := make([][]string, 0, len(sightings)+len(purchases))
	for _, s := range sightings {
		rows = append(rows, []string{typeInStock, stamp(s), s.Name, s.Rarity, strconv.Itoa(s.Stock.OrZero())})
	}
	for _, p := range purchases {
		rows = append(rows, []string{typePurchased, p.Time.Format(constants.TimestampFmt), p.Name, p.Rarity, "1"})
	}
	return rows
}

// FormatTable renders aggregated rows as an aligned text table.
func FormatTable(title, totalHeader string, rows []shop.AggregateRow) string {
	var b strings.Builder
	b.WriteString(title + "\n")
	if len(rows) == 0 {
		b.WriteString("  (none)\n")
		return b.String()
	}
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Name\tRarity\t%s\n", totalHeader)
	for _, r := range rows {
		fmt.Fprintf(tw, "  %s\t%s\t%d\n", r.Name, r.Rarity, r.Total)
	}
	_ = tw.Flush()
	return b.String()
}

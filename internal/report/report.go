// Package report renders the per-category totals of a pipeline run, either
// as the console report or as a CSV summary export.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"pankki-csv/internal/logging"
	"pankki-csv/internal/models"
	"pankki-csv/internal/pipeline"
	"pankki-csv/internal/store"
)

// SummaryRow is one line of the CSV summary export.
type SummaryRow struct {
	Direction  string `csv:"direction"`
	CategoryID int64  `csv:"category_id"`
	Category   string `csv:"category"`
	Total      string `csv:"total"`
}

// Render writes the totals report to w in category-id order per direction.
// Expense categories come first, mirroring the run's spending focus. Ids
// present in the totals but missing from the store are reported with a
// blank name rather than dropped.
func Render(ctx context.Context, w io.Writer, summary pipeline.Summary, s store.Store) error {
	fmt.Fprintln(w, "Transaction Categorization and Analysis Report")
	fmt.Fprintln(w, "---------------------------------------------")

	fmt.Fprintln(w, "Spent Categories:")
	totalSpent, err := renderDirection(ctx, w, summary, s, models.Expense)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "\nReceived Categories:")
	totalReceived, err := renderDirection(ctx, w, summary, s, models.Income)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "---------------------------------------------")
	fmt.Fprintf(w, "Total Spent: %s EUR\n", totalSpent.StringFixed(2))
	fmt.Fprintf(w, "Total Received: %s EUR\n", totalReceived.StringFixed(2))
	fmt.Fprintln(w, "---------------------------------------------")
	return nil
}

func renderDirection(ctx context.Context, w io.Writer, summary pipeline.Summary, s store.Store, dir models.Direction) (decimal.Decimal, error) {
	totals := summary.For(dir)
	total := decimal.Zero

	categories, err := s.ListCategories(ctx, dir)
	if err != nil {
		return total, fmt.Errorf("list %s categories: %w", dir, err)
	}

	seen := make(map[int64]bool, len(categories))
	for _, c := range categories {
		amount, ok := totals[c.ID]
		if !ok {
			amount = decimal.Zero
		}
		seen[c.ID] = true
		fmt.Fprintf(w, "%s: %s EUR\n", c.Name, amount.StringFixed(2))
		total = total.Add(amount)
	}

	// Totals can carry ids the store no longer knows; report them by id.
	var orphans []int64
	for id := range totals {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i] < orphans[j] })
	for _, id := range orphans {
		name, err := s.CategoryName(ctx, id)
		if err != nil {
			return total, err
		}
		fmt.Fprintf(w, "%s (id %d): %s EUR\n", name, id, totals[id].StringFixed(2))
		total = total.Add(totals[id])
	}

	return total, nil
}

// BuildRows flattens a Summary into export rows, expense first, id order.
func BuildRows(ctx context.Context, summary pipeline.Summary, s store.Store) ([]SummaryRow, error) {
	var rows []SummaryRow
	for _, dir := range []models.Direction{models.Expense, models.Income} {
		categories, err := s.ListCategories(ctx, dir)
		if err != nil {
			return nil, fmt.Errorf("list %s categories: %w", dir, err)
		}
		totals := summary.For(dir)
		for _, c := range categories {
			amount, ok := totals[c.ID]
			if !ok {
				amount = decimal.Zero
			}
			rows = append(rows, SummaryRow{
				Direction:  dir.String(),
				CategoryID: c.ID,
				Category:   c.Name,
				Total:      amount.StringFixed(2),
			})
		}
	}
	return rows, nil
}

// WriteSummaryCSV writes the export rows to csvFile with the given
// delimiter.
func WriteSummaryCSV(rows []SummaryRow, csvFile string, delimiter rune, logger logging.Logger) error {
	if logger == nil {
		logger = logging.GetLogger()
	}

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating summary file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close summary file")
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing summary data: %w", err)
	}

	logger.Info("Wrote summary CSV",
		logging.Field{Key: "file", Value: csvFile},
		logging.Field{Key: "rows", Value: len(rows)})
	return nil
}

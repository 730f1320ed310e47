// Package pipeline streams a bank ledger export through categorization:
// each row is read, classified, written out augmented, and added to the
// per-category running totals, strictly one row at a time.
package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"pankki-csv/internal/categorizer"
	"pankki-csv/internal/ledgererror"
	"pankki-csv/internal/logging"
	"pankki-csv/internal/models"
	"pankki-csv/internal/store"
)

// Column names fixed by the upstream bank export. They are part of the wire
// contract and stay in the source language.
const (
	colDate        = "Maksupäivä"
	colAmount      = "Summa"
	colType        = "Tapahtumalaji"
	colPayer       = "Maksaja"
	colDescription = "Saajan nimi"
	colMessage     = "Viesti"
)

// fallbackCategory marks rows emitted without a successful categorization.
const fallbackCategory = "uncategorized"

// Totals maps category ids to accumulated absolute amounts.
type Totals map[int64]decimal.Decimal

// Summary holds the per-direction totals of one run. Every category id
// known at run start has an entry, even with nothing matched.
type Summary struct {
	Income  Totals
	Expense Totals
}

// For returns the totals map for one direction.
func (s Summary) For(dir models.Direction) Totals {
	if dir.Incoming() {
		return s.Income
	}
	return s.Expense
}

// Pipeline is the streaming orchestrator over one ledger file.
type Pipeline struct {
	categorizer *categorizer.Categorizer
	store       store.Store
	delimiter   rune
	log         logging.Logger
}

// New creates a Pipeline with its collaborators injected.
func New(cat *categorizer.Categorizer, s store.Store, delimiter rune, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if delimiter == 0 {
		delimiter = ';'
	}
	return &Pipeline{categorizer: cat, store: s, delimiter: delimiter, log: logger}
}

// columnIndex maps the required export columns to their header positions.
type columnIndex struct {
	date, amount, typ, payer, description, message int
}

func indexHeader(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[name] = i
	}

	idx := columnIndex{}
	for _, req := range []struct {
		name string
		dst  *int
	}{
		{colDate, &idx.date},
		{colAmount, &idx.amount},
		{colType, &idx.typ},
		{colPayer, &idx.payer},
		{colDescription, &idx.description},
		{colMessage, &idx.message},
	} {
		pos, ok := positions[req.name]
		if !ok {
			return columnIndex{}, &ledgererror.HeaderError{Column: req.name}
		}
		*req.dst = pos
	}
	return idx, nil
}

// Run streams the ledger from in to out and returns the per-category
// totals. Every input row yields exactly one output row in input order with
// the `incoming` and `category` fields appended; rows are flushed as they
// are written, never buffered whole-file.
//
// A malformed amount aborts the run before its row is emitted. A
// categorization failure emits the row with the fallback marking first and
// then aborts; the output written so far is valid partial output.
func (p *Pipeline) Run(ctx context.Context, in io.Reader, out io.Writer) (Summary, error) {
	summary := Summary{Income: Totals{}, Expense: Totals{}}

	reader := csv.NewReader(in)
	reader.Comma = p.delimiter

	header, err := reader.Read()
	if err != nil {
		return summary, fmt.Errorf("read ledger header: %w", err)
	}
	idx, err := indexHeader(header)
	if err != nil {
		return summary, err
	}

	writer := csv.NewWriter(out)
	writer.Comma = p.delimiter
	if err := writeRow(writer, append(append([]string{}, header...), "incoming", "category")); err != nil {
		return summary, err
	}

	// Pre-populate both totals so the final report enumerates the full
	// category set, not just the ids seen in this ledger.
	for _, dir := range []models.Direction{models.Income, models.Expense} {
		categories, err := p.store.ListCategories(ctx, dir)
		if err != nil {
			return summary, fmt.Errorf("list %s categories: %w", dir, err)
		}
		for _, c := range categories {
			summary.For(dir)[c.ID] = decimal.Zero
		}
	}

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("read ledger row: %w", err)
		}
		rows++

		tx := models.Transaction{
			Date:        record[idx.date],
			Amount:      record[idx.amount],
			Type:        record[idx.typ],
			Payer:       record[idx.payer],
			Description: record[idx.description],
			Message:     record[idx.message],
		}

		amount, err := models.ParseAmount(tx.Amount)
		if err != nil {
			return summary, err
		}
		dir := models.DirectionOf(amount)

		categoryID, err := p.categorizer.Categorize(ctx, dir, tx.Description, tx)
		if err != nil {
			// The row is never dropped: mark it with the fallback and get it
			// onto disk before the error stops the run.
			if werr := writeRow(writer, append(record, "0", fallbackCategory)); werr != nil {
				p.log.WithError(werr).Error("Failed to write fallback row")
			}
			return summary, err
		}

		name, err := p.store.CategoryName(ctx, categoryID)
		if err != nil {
			return summary, err
		}

		incoming := "0"
		if dir.Incoming() {
			incoming = "1"
		}
		if err := writeRow(writer, append(record, incoming, name)); err != nil {
			return summary, err
		}

		totals := summary.For(dir)
		totals[categoryID] = totals[categoryID].Add(amount.Abs())
	}

	p.log.Info("Ledger processed", logging.Field{Key: "rows", Value: rows})
	return summary, nil
}

// writeRow emits one record and flushes it immediately.
func writeRow(w *csv.Writer, record []string) error {
	if err := w.Write(record); err != nil {
		return fmt.Errorf("write output row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output row: %w", err)
	}
	return nil
}

// RunFiles runs the pipeline between two file paths. Both files stay open
// for the whole run and are closed on any exit path; on error the output
// file keeps the rows written so far.
func (p *Pipeline) RunFiles(ctx context.Context, inputPath, outputPath string) (Summary, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return Summary{}, fmt.Errorf("open ledger file: %w", err)
	}
	defer func() {
		if err := in.Close(); err != nil {
			p.log.WithError(err).Warn("Failed to close input file")
		}
	}()

	out, err := os.Create(outputPath)
	if err != nil {
		return Summary{}, fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if err := out.Close(); err != nil {
			p.log.WithError(err).Warn("Failed to close output file")
		}
	}()

	p.log.Info("Processing ledger",
		logging.Field{Key: "input", Value: inputPath},
		logging.Field{Key: "output", Value: outputPath})
	return p.Run(ctx, in, out)
}

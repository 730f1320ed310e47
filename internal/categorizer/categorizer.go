// Package categorizer resolves the category for one transaction at a time:
// a stored association wins, otherwise an injected Resolver supplies the
// answer and the choice is written back to the store for reuse.
package categorizer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pankki-csv/internal/ledgererror"
	"pankki-csv/internal/logging"
	"pankki-csv/internal/models"
	"pankki-csv/internal/store"
)

// Resolver supplies a category choice for a transaction that has no stored
// association yet. Implementations may prompt a human on the console, call
// an AI model, or return canned answers in tests. The reply is the raw
// textual id; validation stays with the Categorizer.
type Resolver interface {
	Resolve(ctx context.Context, dir models.Direction, categories []models.Category, tx models.Transaction) (string, error)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(ctx context.Context, dir models.Direction, categories []models.Category, tx models.Transaction) (string, error)

func (f ResolverFunc) Resolve(ctx context.Context, dir models.Direction, categories []models.Category, tx models.Transaction) (string, error) {
	return f(ctx, dir, categories, tx)
}

// Categorizer resolves category ids against a Store, falling back to a
// Resolver for first-time descriptions.
type Categorizer struct {
	store    store.Store
	resolver Resolver
	log      logging.Logger
}

// New creates a Categorizer with its dependencies injected.
func New(s store.Store, resolver Resolver, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Categorizer{store: s, resolver: resolver, log: logger}
}

// Categorize returns the category id for one transaction.
//
// A stored association for the (direction, description) pair is returned
// as-is with no side effects, so repeated calls are idempotent and silent.
// Otherwise the resolver is consulted with the full category listing for the
// direction; its reply must parse as an integer and name one of the listed
// ids, and the validated choice is persisted before it is returned. An
// invalid reply is a SelectionError and aborts the row.
func (c *Categorizer) Categorize(ctx context.Context, dir models.Direction, description string, tx models.Transaction) (int64, error) {
	id, err := c.store.LookupAssociation(ctx, dir, description)
	if err == nil {
		c.log.Debug("Resolved category from store",
			logging.Field{Key: "description", Value: description},
			logging.Field{Key: "direction", Value: dir.String()},
			logging.Field{Key: "category_id", Value: id})
		return id, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return 0, fmt.Errorf("association lookup: %w", err)
	}

	categories, err := c.store.ListCategories(ctx, dir)
	if err != nil {
		return 0, fmt.Errorf("list categories: %w", err)
	}

	reply, err := c.resolver.Resolve(ctx, dir, categories, tx)
	if err != nil {
		return 0, fmt.Errorf("resolve category for %q: %w", description, err)
	}

	id, err = validateSelection(reply, dir, categories)
	if err != nil {
		return 0, err
	}

	if err := c.store.UpsertAssociation(ctx, dir, description, id); err != nil {
		return 0, fmt.Errorf("store association: %w", err)
	}

	c.log.Info("Learned new association",
		logging.Field{Key: "description", Value: description},
		logging.Field{Key: "direction", Value: dir.String()},
		logging.Field{Key: "category_id", Value: id})
	return id, nil
}

// validateSelection checks that a resolver reply parses as an integer and
// names one of the offered ids.
func validateSelection(reply string, dir models.Direction, categories []models.Category) (int64, error) {
	trimmed := strings.TrimSpace(reply)
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, &ledgererror.SelectionError{
			Reply:     reply,
			Direction: dir.String(),
			Reason:    "not a number",
		}
	}
	for _, c := range categories {
		if c.ID == id {
			return id, nil
		}
	}
	return 0, &ledgererror.SelectionError{
		Reply:     reply,
		Direction: dir.String(),
		Reason:    "not among the offered category ids",
	}
}

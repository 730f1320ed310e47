// Package store owns the durable mapping of category ids to names and the
// learned description-to-category associations. The durable implementation
// is a single SQLite file reused across runs; an in-memory implementation
// with identical semantics exists for tests.
package store

import (
	"context"
	"errors"

	"pankki-csv/internal/models"
)

// ErrNotFound is returned by LookupAssociation when no association exists
// for a description in the requested direction. "No row at all" and "row
// exists but the direction's field is unset" both map to it.
var ErrNotFound = errors.New("association not found")

// Store is the interface the categorizer and the pipeline depend on.
type Store interface {
	// ListCategories returns all categories of one direction, ordered by
	// ascending id.
	ListCategories(ctx context.Context, dir models.Direction) ([]models.Category, error)

	// LookupAssociation resolves a description (matched case-insensitively)
	// to the category id previously chosen for the given direction.
	LookupAssociation(ctx context.Context, dir models.Direction, description string) (int64, error)

	// UpsertAssociation records the chosen category for a description in one
	// direction, creating the association row if needed and leaving the
	// opposite direction's field untouched.
	UpsertAssociation(ctx context.Context, dir models.Direction, description string, categoryID int64) error

	// CategoryName returns the display name for a category id, or "" if the
	// id is unknown. An unknown id is not an error.
	CategoryName(ctx context.Context, categoryID int64) (string, error)

	// AddCategory creates a category with a fresh id. Ids are monotonically
	// increasing and never reused, even after removal.
	AddCategory(ctx context.Context, dir models.Direction, name string) (int64, error)

	// RenameCategory renames a category, scoped to the given direction.
	// Renaming an id that does not exist in that direction is an error,
	// never a silent no-op.
	RenameCategory(ctx context.Context, dir models.Direction, categoryID int64, name string) error

	// RemoveCategory deletes a category and clears the direction's
	// association fields that reference it. Association rows left with
	// neither direction set are pruned.
	RemoveCategory(ctx context.Context, dir models.Direction, categoryID int64) error
}

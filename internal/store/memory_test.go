package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pankki-csv/internal/models"
)

// MemoryStore must behave exactly like a freshly seeded SQLite store, since
// the categorizer and pipeline tests rely on it as a drop-in double.

func TestMemoryStoreSeed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	income, err := s.ListCategories(ctx, models.Income)
	require.NoError(t, err)
	require.Len(t, income, 4)
	assert.Equal(t, int64(1), income[0].ID)
	assert.Equal(t, "Salary", income[0].Name)

	expense, err := s.ListCategories(ctx, models.Expense)
	require.NoError(t, err)
	require.Len(t, expense, 14)
	assert.Equal(t, int64(5), expense[0].ID)
	assert.Equal(t, "Housing and Utilities", expense[0].Name)
	assert.Equal(t, "Uncategorized", expense[13].Name)
}

func TestMemoryStoreAssociations(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.LookupAssociation(ctx, models.Income, "Acme Oy")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.UpsertAssociation(ctx, models.Income, "Acme Oy", 1))

	id, err := s.LookupAssociation(ctx, models.Income, "ACME oy")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = s.LookupAssociation(ctx, models.Expense, "Acme Oy")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreManagement(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.AddCategory(ctx, models.Income, "Pension")
	require.NoError(t, err)
	assert.Equal(t, int64(19), id)

	require.NoError(t, s.RenameCategory(ctx, models.Income, id, "Pensions"))
	name, err := s.CategoryName(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Pensions", name)

	assert.Error(t, s.RenameCategory(ctx, models.Expense, id, "Nope"))

	require.NoError(t, s.UpsertAssociation(ctx, models.Income, "Kela", id))
	require.NoError(t, s.RemoveCategory(ctx, models.Income, id))
	_, err = s.LookupAssociation(ctx, models.Income, "Kela")
	assert.ErrorIs(t, err, ErrNotFound)

	// Removed id is not handed out again
	next, err := s.AddCategory(ctx, models.Income, "Other")
	require.NoError(t, err)
	assert.Equal(t, int64(20), next)

	name, err = s.CategoryName(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "", name)
}

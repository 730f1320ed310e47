package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pankki-csv/internal/logging"
	"pankki-csv/internal/models"
)

func openTestStore(t *testing.T, dbPath string) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(dbPath, "", logging.NewSilentLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, s.Close())
	})
	return s
}

func TestSeedDeterminism(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))

	income, err := s.ListCategories(ctx, models.Income)
	require.NoError(t, err)
	require.Len(t, income, 4)
	for i, want := range []string{"Salary", "Interaccount transfer", "Direct transfer", "Debt returnal"} {
		assert.Equal(t, want, income[i].Name)
		assert.Equal(t, int64(i+1), income[i].ID)
	}

	expense, err := s.ListCategories(ctx, models.Expense)
	require.NoError(t, err)
	require.Len(t, expense, 14)
	wantExpense := []string{
		"Housing and Utilities", "Transportation", "Groceries",
		"Cafes & Restaurants", "Personal Care", "Healthcare", "Entertainment",
		"Debt Payments", "Savings and Investments", "Gifts and Donations",
		"Insurance", "Utilities", "Miscellaneous", "Uncategorized",
	}
	for i, want := range wantExpense {
		assert.Equal(t, want, expense[i].Name)
		// Expense ids continue after the 4 income seeds
		assert.Equal(t, int64(i+5), expense[i].ID)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s := openTestStore(t, dbPath)
	require.NoError(t, s.Close())

	// Reopening must not seed again
	s2 := openTestStore(t, dbPath)
	income, err := s2.ListCategories(ctx, models.Income)
	require.NoError(t, err)
	assert.Len(t, income, 4)
	expense, err := s2.ListCategories(ctx, models.Expense)
	require.NoError(t, err)
	assert.Len(t, expense, 14)
}

func TestSeedOverrideFromYAML(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	categoriesFile := filepath.Join(dir, "categories.yaml")
	require.NoError(t, writeTestFile(categoriesFile, `income:
  - Wages
expense:
  - Food
  - Rent
`))

	s, err := OpenSQLite(filepath.Join(dir, "test.db"), categoriesFile, logging.NewSilentLogger())
	require.NoError(t, err)
	defer s.Close()

	income, err := s.ListCategories(ctx, models.Income)
	require.NoError(t, err)
	require.Len(t, income, 1)
	assert.Equal(t, "Wages", income[0].Name)
	assert.Equal(t, int64(1), income[0].ID)

	expense, err := s.ListCategories(ctx, models.Expense)
	require.NoError(t, err)
	require.Len(t, expense, 2)
	assert.Equal(t, "Food", expense[0].Name)
}

func TestLookupAssociation(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))

	_, err := s.LookupAssociation(ctx, models.Income, "Acme Oy")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.UpsertAssociation(ctx, models.Income, "Acme Oy", 1))

	id, err := s.LookupAssociation(ctx, models.Income, "Acme Oy")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	// Case-insensitive match resolves to the same association row
	id, err = s.LookupAssociation(ctx, models.Income, "ACME OY")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	// The expense direction is independent: row exists, field unset
	_, err = s.LookupAssociation(ctx, models.Expense, "Acme Oy")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertAssociationKeepsOtherDirection(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))

	require.NoError(t, s.UpsertAssociation(ctx, models.Income, "Acme Oy", 1))
	require.NoError(t, s.UpsertAssociation(ctx, models.Expense, "acme oy", 7))

	incomeID, err := s.LookupAssociation(ctx, models.Income, "Acme Oy")
	require.NoError(t, err)
	assert.Equal(t, int64(1), incomeID)

	expenseID, err := s.LookupAssociation(ctx, models.Expense, "Acme Oy")
	require.NoError(t, err)
	assert.Equal(t, int64(7), expenseID)

	// Re-categorization overwrites in place, silently
	require.NoError(t, s.UpsertAssociation(ctx, models.Income, "ACME OY", 2))
	incomeID, err = s.LookupAssociation(ctx, models.Income, "Acme Oy")
	require.NoError(t, err)
	assert.Equal(t, int64(2), incomeID)

	expenseID, err = s.LookupAssociation(ctx, models.Expense, "Acme Oy")
	require.NoError(t, err)
	assert.Equal(t, int64(7), expenseID)
}

func TestCategoryName(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))

	name, err := s.CategoryName(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Salary", name)

	// Unknown id yields an empty string, not an error
	name, err = s.CategoryName(ctx, 9999)
	require.NoError(t, err)
	assert.Equal(t, "", name)
}

func TestAddCategory(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))

	id, err := s.AddCategory(ctx, models.Expense, "Subscriptions")
	require.NoError(t, err)
	assert.Equal(t, int64(19), id)

	expense, err := s.ListCategories(ctx, models.Expense)
	require.NoError(t, err)
	assert.Equal(t, "Subscriptions", expense[len(expense)-1].Name)

	_, err = s.AddCategory(ctx, models.Expense, "  ")
	assert.Error(t, err)
}

func TestRenameCategoryIsDirectionScoped(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))

	// Id 1 is the income category "Salary"; renaming it as expense must fail
	err := s.RenameCategory(ctx, models.Expense, 1, "Wages")
	assert.Error(t, err)

	require.NoError(t, s.RenameCategory(ctx, models.Income, 1, "Wages"))
	name, err := s.CategoryName(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Wages", name)
}

func TestRemoveCategoryCleansAssociations(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))

	require.NoError(t, s.UpsertAssociation(ctx, models.Income, "Acme Oy", 1))
	require.NoError(t, s.UpsertAssociation(ctx, models.Expense, "Acme Oy", 7))

	require.NoError(t, s.RemoveCategory(ctx, models.Income, 1))

	// Income side cleared, expense side untouched
	_, err := s.LookupAssociation(ctx, models.Income, "Acme Oy")
	assert.ErrorIs(t, err, ErrNotFound)
	expenseID, err := s.LookupAssociation(ctx, models.Expense, "Acme Oy")
	require.NoError(t, err)
	assert.Equal(t, int64(7), expenseID)

	// Removing a nonexistent (direction, id) pair is an error, not a no-op
	err = s.RemoveCategory(ctx, models.Income, 1)
	assert.Error(t, err)

	// Ids are never reused after removal
	id, err := s.AddCategory(ctx, models.Income, "Pension")
	require.NoError(t, err)
	assert.Greater(t, id, int64(18))
}

func TestAssociationsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s := openTestStore(t, dbPath)
	require.NoError(t, s.UpsertAssociation(ctx, models.Income, "Acme Oy", 1))
	require.NoError(t, s.Close())

	s2 := openTestStore(t, dbPath)
	id, err := s2.LookupAssociation(ctx, models.Income, "acme oy")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestErrNotFoundIsSentinel(t *testing.T) {
	assert.True(t, errors.Is(ErrNotFound, ErrNotFound))
}

func writeTestFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}

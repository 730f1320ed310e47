package categorizer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pankki-csv/internal/ledgererror"
	"pankki-csv/internal/logging"
	"pankki-csv/internal/models"
	"pankki-csv/internal/store"
)

// countingResolver replies with a fixed answer and counts how often it was
// consulted.
type countingResolver struct {
	reply string
	calls int
}

func (r *countingResolver) Resolve(context.Context, models.Direction, []models.Category, models.Transaction) (string, error) {
	r.calls++
	return r.reply, nil
}

func testTransaction(description string) models.Transaction {
	return models.Transaction{
		Date:        "01.01.2024",
		Amount:      "100,00",
		Type:        "TILISIIRTO",
		Payer:       "Maksaja X",
		Description: description,
		Message:     "Kiitos",
	}
}

func TestCategorizeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	resolver := &countingResolver{reply: "1"}
	cat := New(store.NewMemoryStore(), resolver, logging.NewSilentLogger())

	id, err := cat.Categorize(ctx, models.Income, "Acme Oy", testTransaction("Acme Oy"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, 1, resolver.calls)

	// The second call resolves from the store, with no further prompting
	id, err = cat.Categorize(ctx, models.Income, "Acme Oy", testTransaction("Acme Oy"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, 1, resolver.calls)
}

func TestCategorizeCaseInsensitiveKey(t *testing.T) {
	ctx := context.Background()
	resolver := &countingResolver{reply: "1"}
	cat := New(store.NewMemoryStore(), resolver, logging.NewSilentLogger())

	_, err := cat.Categorize(ctx, models.Income, "ACME Ltd", testTransaction("ACME Ltd"))
	require.NoError(t, err)

	id, err := cat.Categorize(ctx, models.Income, "acme ltd", testTransaction("acme ltd"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, 1, resolver.calls)
}

func TestCategorizeDirectionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	incomeResolver := &countingResolver{reply: "1"}
	_, err := New(s, incomeResolver, logging.NewSilentLogger()).
		Categorize(ctx, models.Income, "Acme Oy", testTransaction("Acme Oy"))
	require.NoError(t, err)

	// The same description in the expense direction still needs resolution
	expenseResolver := &countingResolver{reply: "7"}
	id, err := New(s, expenseResolver, logging.NewSilentLogger()).
		Categorize(ctx, models.Expense, "Acme Oy", testTransaction("Acme Oy"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, 1, expenseResolver.calls)
}

func TestCategorizeInvalidSelection(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "not a number", reply: "salary"},
		{name: "empty reply", reply: ""},
		{name: "id of other direction", reply: "7"}, // expense id offered as income
		{name: "unknown id", reply: "999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := store.NewMemoryStore()
			cat := New(s, &countingResolver{reply: tt.reply}, logging.NewSilentLogger())

			_, err := cat.Categorize(ctx, models.Income, "Acme Oy", testTransaction("Acme Oy"))
			require.Error(t, err)
			var selErr *ledgererror.SelectionError
			assert.ErrorAs(t, err, &selErr)

			// A failed selection must not be learned
			_, err = s.LookupAssociation(ctx, models.Income, "Acme Oy")
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestCategorizeWhitespaceReplyAccepted(t *testing.T) {
	ctx := context.Background()
	cat := New(store.NewMemoryStore(), &countingResolver{reply: " 2\n"}, logging.NewSilentLogger())

	id, err := cat.Categorize(ctx, models.Income, "Acme Oy", testTransaction("Acme Oy"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestCategorizeResolverError(t *testing.T) {
	ctx := context.Background()
	resolver := ResolverFunc(func(context.Context, models.Direction, []models.Category, models.Transaction) (string, error) {
		return "", fmt.Errorf("input closed")
	})
	cat := New(store.NewMemoryStore(), resolver, logging.NewSilentLogger())

	_, err := cat.Categorize(ctx, models.Income, "Acme Oy", testTransaction("Acme Oy"))
	assert.Error(t, err)
}

func TestConsoleResolverPromptsAndReads(t *testing.T) {
	ctx := context.Background()
	in := strings.NewReader("1\n")
	var out strings.Builder

	s := store.NewMemoryStore()
	categories, err := s.ListCategories(ctx, models.Income)
	require.NoError(t, err)

	resolver := NewConsoleResolver(in, &out)
	reply, err := resolver.Resolve(ctx, models.Income, categories, testTransaction("Acme Oy"))
	require.NoError(t, err)
	assert.Equal(t, "1", reply)

	prompt := out.String()
	assert.Contains(t, prompt, "Available income categories:")
	assert.Contains(t, prompt, "1: Salary")
	assert.Contains(t, prompt, "4: Debt returnal")
	assert.Contains(t, prompt, "Saajan nimi: Acme Oy")
	assert.Contains(t, prompt, "Please enter a category ID")
}

func TestConsoleResolverLastLineWithoutNewline(t *testing.T) {
	ctx := context.Background()
	resolver := NewConsoleResolver(strings.NewReader("3"), &strings.Builder{})

	reply, err := resolver.Resolve(ctx, models.Income, nil, models.Transaction{})
	require.NoError(t, err)
	assert.Equal(t, "3", reply)
}

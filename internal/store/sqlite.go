package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pankki-csv/internal/logging"
	"pankki-csv/internal/models"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the durable Store backed by a single SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	log logging.Logger
}

// OpenSQLite opens (creating if necessary) the store at dbPath, runs schema
// migrations and seeds the default categories when the category table is
// empty. Opening an already-initialized store is a no-op beyond the
// migration check, so initialization is idempotent.
//
// categoriesFile optionally points at a YAML file overriding the built-in
// seed lists; it is only consulted for a brand-new store.
func OpenSQLite(dbPath, categoriesFile string, logger logging.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &SQLiteStore{db: db, log: logger}
	if err := s.seed(context.Background(), categoriesFile); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// seed populates the category table on first use. Income categories go in
// first so that "Salary" gets id 1; ids then run contiguously through the
// expense list.
func (s *SQLiteStore) seed(ctx context.Context, categoriesFile string) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	income, expense, err := loadSeed(categoriesFile)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range income {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (name, incoming) VALUES (?, 1)`, name); err != nil {
			return fmt.Errorf("seed income category %q: %w", name, err)
		}
	}
	for _, name := range expense {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (name, incoming) VALUES (?, 0)`, name); err != nil {
			return fmt.Errorf("seed expense category %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}

	s.log.Info("Seeded category store",
		logging.Field{Key: "income", Value: len(income)},
		logging.Field{Key: "expense", Value: len(expense)})
	return nil
}

func incomingFlag(dir models.Direction) int {
	if dir.Incoming() {
		return 1
	}
	return 0
}

// associationColumn maps a direction to its field in the association row.
// Column names are fixed by the schema, never caller input.
func associationColumn(dir models.Direction) string {
	if dir.Incoming() {
		return "income_category_id"
	}
	return "expense_category_id"
}

// ListCategories returns all categories of one direction ordered by id.
func (s *SQLiteStore) ListCategories(ctx context.Context, dir models.Direction) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM categories WHERE incoming = ? ORDER BY id ASC`, incomingFlag(dir))
	if err != nil {
		return nil, fmt.Errorf("list %s categories: %w", dir, err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c := models.Category{Direction: dir}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s categories: %w", dir, err)
	}
	return categories, nil
}

// LookupAssociation resolves a description to its stored category id for
// one direction. The description column carries COLLATE NOCASE, so the
// equality match is case-insensitive.
func (s *SQLiteStore) LookupAssociation(ctx context.Context, dir models.Direction, description string) (int64, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM transaction_categories WHERE description = ?`, associationColumn(dir))

	var id sql.NullInt64
	err := s.db.QueryRowContext(ctx, query, description).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup association for %q: %w", description, err)
	}
	if !id.Valid {
		// Row exists but was only ever categorized in the other direction
		return 0, ErrNotFound
	}
	return id.Int64, nil
}

// UpsertAssociation writes the chosen category for a description. A single
// upsert statement keeps the insert-or-update decision atomic.
func (s *SQLiteStore) UpsertAssociation(ctx context.Context, dir models.Direction, description string, categoryID int64) error {
	col := associationColumn(dir)
	query := fmt.Sprintf(
		`INSERT INTO transaction_categories (description, %s) VALUES (?, ?)
		 ON CONFLICT(description) DO UPDATE SET %s = excluded.%s`, col, col, col)

	if _, err := s.db.ExecContext(ctx, query, description, categoryID); err != nil {
		return fmt.Errorf("upsert association for %q: %w", description, err)
	}

	s.log.Debug("Stored association",
		logging.Field{Key: "description", Value: description},
		logging.Field{Key: "direction", Value: dir.String()},
		logging.Field{Key: "category_id", Value: categoryID})
	return nil
}

// CategoryName returns the display name for an id, or "" if the id is not
// in the store. Callers treat the empty string as "unknown category".
func (s *SQLiteStore) CategoryName(ctx context.Context, categoryID int64) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM categories WHERE id = ?`, categoryID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("category name for id %d: %w", categoryID, err)
	}
	return name, nil
}

// AddCategory creates a category in one direction. AUTOINCREMENT guarantees
// the id is never reused, even after a removal.
func (s *SQLiteStore) AddCategory(ctx context.Context, dir models.Direction, name string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("category name must not be empty")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, incoming) VALUES (?, ?)`, name, incomingFlag(dir))
	if err != nil {
		return 0, fmt.Errorf("add %s category %q: %w", dir, name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add %s category %q: %w", dir, name, err)
	}

	s.log.Info("Added category",
		logging.Field{Key: "direction", Value: dir.String()},
		logging.Field{Key: "id", Value: id},
		logging.Field{Key: "name", Value: name})
	return id, nil
}

// RenameCategory renames one category, scoped to the direction.
func (s *SQLiteStore) RenameCategory(ctx context.Context, dir models.Direction, categoryID int64, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("category name must not be empty")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE id = ? AND incoming = ?`,
		name, categoryID, incomingFlag(dir))
	if err != nil {
		return fmt.Errorf("rename %s category %d: %w", dir, categoryID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename %s category %d: %w", dir, categoryID, err)
	}
	if affected == 0 {
		return fmt.Errorf("no %s category with id %d", dir, categoryID)
	}
	return nil
}

// RemoveCategory deletes a category and clears association references to it
// in the same direction. Association rows with neither direction left set
// are pruned.
func (s *SQLiteStore) RemoveCategory(ctx context.Context, dir models.Direction, categoryID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("remove %s category %d: %w", dir, categoryID, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND incoming = ?`, categoryID, incomingFlag(dir))
	if err != nil {
		return fmt.Errorf("remove %s category %d: %w", dir, categoryID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove %s category %d: %w", dir, categoryID, err)
	}
	if affected == 0 {
		return fmt.Errorf("no %s category with id %d", dir, categoryID)
	}

	col := associationColumn(dir)
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(
		`UPDATE transaction_categories SET %s = NULL WHERE %s = ?`, col, col), categoryID); err != nil {
		return fmt.Errorf("clear associations for %s category %d: %w", dir, categoryID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM transaction_categories
		 WHERE income_category_id IS NULL AND expense_category_id IS NULL`); err != nil {
		return fmt.Errorf("prune empty associations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("remove %s category %d: %w", dir, categoryID, err)
	}

	s.log.Info("Removed category",
		logging.Field{Key: "direction", Value: dir.String()},
		logging.Field{Key: "id", Value: categoryID})
	return nil
}

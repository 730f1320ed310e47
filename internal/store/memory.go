package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"pankki-csv/internal/models"
)

// MemoryStore is an in-memory Store with the same semantics as the SQLite
// implementation. It exists so the categorizer and pipeline can be tested
// without touching the filesystem.
type MemoryStore struct {
	mu         sync.RWMutex
	categories []models.Category
	nextID     int64
	// keyed by lower-cased description; values are per-direction ids
	associations map[string]*memoryAssociation
}

type memoryAssociation struct {
	income  *int64
	expense *int64
}

// NewMemoryStore returns a store pre-seeded with the default category
// lists, income first, mirroring a freshly initialized SQLite store.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		nextID:       1,
		associations: make(map[string]*memoryAssociation),
	}
	for _, name := range defaultIncomeCategories {
		s.addLocked(models.Income, name)
	}
	for _, name := range defaultExpenseCategories {
		s.addLocked(models.Expense, name)
	}
	return s
}

func (s *MemoryStore) addLocked(dir models.Direction, name string) int64 {
	id := s.nextID
	s.nextID++
	s.categories = append(s.categories, models.Category{ID: id, Name: name, Direction: dir})
	return id
}

func (s *MemoryStore) ListCategories(_ context.Context, dir models.Direction) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Category
	for _, c := range s.categories {
		if c.Direction == dir {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *MemoryStore) LookupAssociation(_ context.Context, dir models.Direction, description string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assoc, ok := s.associations[strings.ToLower(description)]
	if !ok {
		return 0, ErrNotFound
	}
	field := assoc.expense
	if dir.Incoming() {
		field = assoc.income
	}
	if field == nil {
		return 0, ErrNotFound
	}
	return *field, nil
}

func (s *MemoryStore) UpsertAssociation(_ context.Context, dir models.Direction, description string, categoryID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(description)
	assoc, ok := s.associations[key]
	if !ok {
		assoc = &memoryAssociation{}
		s.associations[key] = assoc
	}
	if dir.Incoming() {
		assoc.income = &categoryID
	} else {
		assoc.expense = &categoryID
	}
	return nil
}

func (s *MemoryStore) CategoryName(_ context.Context, categoryID int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.ID == categoryID {
			return c.Name, nil
		}
	}
	return "", nil
}

func (s *MemoryStore) AddCategory(_ context.Context, dir models.Direction, name string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("category name must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(dir, name), nil
}

func (s *MemoryStore) RenameCategory(_ context.Context, dir models.Direction, categoryID int64, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("category name must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.categories {
		if c.ID == categoryID && c.Direction == dir {
			s.categories[i].Name = name
			return nil
		}
	}
	return fmt.Errorf("no %s category with id %d", dir, categoryID)
}

func (s *MemoryStore) RemoveCategory(_ context.Context, dir models.Direction, categoryID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, c := range s.categories {
		if c.ID == categoryID && c.Direction == dir {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("no %s category with id %d", dir, categoryID)
	}
	s.categories = append(s.categories[:idx], s.categories[idx+1:]...)

	for key, assoc := range s.associations {
		if dir.Incoming() {
			if assoc.income != nil && *assoc.income == categoryID {
				assoc.income = nil
			}
		} else {
			if assoc.expense != nil && *assoc.expense == categoryID {
				assoc.expense = nil
			}
		}
		if assoc.income == nil && assoc.expense == nil {
			delete(s.associations, key)
		}
	}
	return nil
}

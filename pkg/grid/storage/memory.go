package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"immimate-hq/polaris/pkg/grid"
)

// MemoryStore implements grid.Store using in-memory maps.
// This implementation is intended for testing and CLI dry runs.
type MemoryStore struct {
	grids         map[uuid.UUID]*grid.Grid
	categories    map[uuid.UUID][]*grid.Category    // by grid ID
	subcategories map[uuid.UUID][]*grid.Subcategory // by category ID
	fields        map[uuid.UUID][]*grid.Field       // by subcategory ID
	mu            sync.RWMutex
}

// NewMemoryStore creates a new in-memory grid store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		grids:         make(map[uuid.UUID]*grid.Grid),
		categories:    make(map[uuid.UUID][]*grid.Category),
		subcategories: make(map[uuid.UUID][]*grid.Subcategory),
		fields:        make(map[uuid.UUID][]*grid.Field),
	}
}

// FindGridByName returns the most recently effective grid with the given name.
func (s *MemoryStore) FindGridByName(ctx context.Context, name string) (*grid.Grid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *grid.Grid
	for _, g := range s.grids {
		if g.Name != name {
			continue
		}
		if found == nil || g.EffectiveDate.After(found.EffectiveDate) {
			found = g
		}
	}
	if found == nil {
		return nil, grid.NewNotFoundError(name)
	}

	gridCopy := *found
	return &gridCopy, nil
}

// ListGrids returns all grids, newest first.
func (s *MemoryStore) ListGrids(ctx context.Context) ([]*grid.Grid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grids := []*grid.Grid{}
	for _, g := range s.grids {
		gridCopy := *g
		grids = append(grids, &gridCopy)
	}
	sort.Slice(grids, func(i, j int) bool {
		return grids[i].EffectiveDate.After(grids[j].EffectiveDate)
	})
	return grids, nil
}

// ListCategories returns the categories of a grid in declared order.
func (s *MemoryStore) ListCategories(ctx context.Context, gridID uuid.UUID) ([]*grid.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := []*grid.Category{}
	for _, c := range s.categories[gridID] {
		categoryCopy := *c
		categories = append(categories, &categoryCopy)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].SortOrder < categories[j].SortOrder
	})
	return categories, nil
}

// ListSubcategories returns the subcategories of a category in declared order.
func (s *MemoryStore) ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]*grid.Subcategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subcategories := []*grid.Subcategory{}
	for _, sc := range s.subcategories[categoryID] {
		subcategoryCopy := *sc
		subcategories = append(subcategories, &subcategoryCopy)
	}
	sort.Slice(subcategories, func(i, j int) bool {
		return subcategories[i].SortOrder < subcategories[j].SortOrder
	})
	return subcategories, nil
}

// ListFields returns the fields of a subcategory in declared order.
func (s *MemoryStore) ListFields(ctx context.Context, subcategoryID uuid.UUID) ([]*grid.Field, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields := []*grid.Field{}
	for _, f := range s.fields[subcategoryID] {
		fieldCopy := *f
		fields = append(fields, &fieldCopy)
	}
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].SortOrder < fields[j].SortOrder
	})
	return fields, nil
}

// ImportGrid stores a full grid tree, replacing any existing grid with the
// same name and version.
func (s *MemoryStore) ImportGrid(ctx context.Context, def *grid.Definition) (*grid.Grid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Replace an existing grid with the same name+version.
	for id, g := range s.grids {
		if g.Name == def.Grid.Name && g.Version == def.Grid.Version {
			s.removeTree(id)
		}
	}

	g := def.Grid
	s.grids[g.ID] = &g

	for _, cd := range def.Categories {
		c := cd.Category
		s.categories[g.ID] = append(s.categories[g.ID], &c)

		for _, sd := range cd.Subcategories {
			sc := sd.Subcategory
			s.subcategories[c.ID] = append(s.subcategories[c.ID], &sc)

			for _, f := range sd.Fields {
				fieldCopy := f
				s.fields[sc.ID] = append(s.fields[sc.ID], &fieldCopy)
			}
		}
	}

	imported := g
	return &imported, nil
}

// removeTree deletes a grid and all of its descendants. Caller holds the lock.
func (s *MemoryStore) removeTree(gridID uuid.UUID) {
	for _, c := range s.categories[gridID] {
		for _, sc := range s.subcategories[c.ID] {
			delete(s.fields, sc.ID)
		}
		delete(s.subcategories, c.ID)
	}
	delete(s.categories, gridID)
	delete(s.grids, gridID)
}

// Close releases resources held by the store.
func (s *MemoryStore) Close() error {
	return nil
}

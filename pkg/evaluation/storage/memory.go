package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"immimate-hq/polaris/pkg/evaluation"
)

// MemoryStore implements evaluation.Store using in-memory maps.
// This implementation is intended for testing only.
type MemoryStore struct {
	evaluations   map[uuid.UUID]*evaluation.Evaluation
	categories    map[uuid.UUID]*evaluation.Category
	subcategories map[uuid.UUID]*evaluation.Subcategory
	fields        map[uuid.UUID]*evaluation.Field
	order         map[uuid.UUID]int
	seq           int
	mu            sync.RWMutex
}

// NewMemoryStore creates a new in-memory evaluation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		evaluations:   make(map[uuid.UUID]*evaluation.Evaluation),
		categories:    make(map[uuid.UUID]*evaluation.Category),
		subcategories: make(map[uuid.UUID]*evaluation.Subcategory),
		fields:        make(map[uuid.UUID]*evaluation.Field),
		order:         make(map[uuid.UUID]int),
	}
}

// CreateEvaluation persists a new evaluation shell.
func (s *MemoryStore) CreateEvaluation(ctx context.Context, e *evaluation.Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *e
	stored.Categories = nil
	s.evaluations[e.ID] = &stored
	s.recordOrder(e.ID)
	return nil
}

// UpdateEvaluation persists the final total score, status, and insights.
func (s *MemoryStore) UpdateEvaluation(ctx context.Context, e *evaluation.Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.evaluations[e.ID]; !ok {
		return evaluation.NewNotFoundError(e.ID)
	}
	stored := *e
	stored.Categories = nil
	s.evaluations[e.ID] = &stored
	return nil
}

// CreateCategory persists one category result.
func (s *MemoryStore) CreateCategory(ctx context.Context, c *evaluation.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *c
	stored.Subcategories = nil
	s.categories[c.ID] = &stored
	s.recordOrder(c.ID)
	return nil
}

// UpdateCategory persists a category's final score.
func (s *MemoryStore) UpdateCategory(ctx context.Context, c *evaluation.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.categories[c.ID]
	if !ok {
		return evaluation.NewNotFoundError(c.ID)
	}
	existing.UserScore = c.UserScore
	existing.UpdatedAt = c.UpdatedAt
	return nil
}

// CreateSubcategory persists one subcategory result.
func (s *MemoryStore) CreateSubcategory(ctx context.Context, sc *evaluation.Subcategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *sc
	stored.Fields = nil
	s.subcategories[sc.ID] = &stored
	s.recordOrder(sc.ID)
	return nil
}

// UpdateSubcategory persists a subcategory's adjusted score.
func (s *MemoryStore) UpdateSubcategory(ctx context.Context, sc *evaluation.Subcategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.subcategories[sc.ID]
	if !ok {
		return evaluation.NewNotFoundError(sc.ID)
	}
	existing.UserScore = sc.UserScore
	existing.UpdatedAt = sc.UpdatedAt
	return nil
}

// CreateField persists one field result.
func (s *MemoryStore) CreateField(ctx context.Context, f *evaluation.Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *f
	s.fields[f.ID] = &stored
	s.recordOrder(f.ID)
	return nil
}

// FindByID returns one evaluation with its full result tree.
func (s *MemoryStore) FindByID(ctx context.Context, id uuid.UUID) (*evaluation.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.evaluations[id]
	if !ok {
		return nil, evaluation.NewNotFoundError(id)
	}

	e := *stored
	e.Categories = s.categoriesOf(id)
	for _, c := range e.Categories {
		c.Subcategories = s.subcategoriesOf(c.ID)
		for _, sc := range c.Subcategories {
			sc.Fields = s.fieldsOf(sc.ID)
		}
	}
	return &e, nil
}

// ListByApplication returns all evaluations for an application, newest first.
func (s *MemoryStore) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*evaluation.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	evaluations := []*evaluation.Evaluation{}
	for _, stored := range s.evaluations {
		if stored.ApplicationID == applicationID {
			e := *stored
			evaluations = append(evaluations, &e)
		}
	}
	sort.Slice(evaluations, func(i, j int) bool {
		if evaluations[i].CreatedAt.Equal(evaluations[j].CreatedAt) {
			return s.order[evaluations[i].ID] > s.order[evaluations[j].ID]
		}
		return evaluations[i].CreatedAt.After(evaluations[j].CreatedAt)
	})
	return evaluations, nil
}

// LatestByApplication returns the newest evaluation for an application.
func (s *MemoryStore) LatestByApplication(ctx context.Context, applicationID uuid.UUID) (*evaluation.Evaluation, error) {
	evaluations, err := s.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if len(evaluations) == 0 {
		return nil, evaluation.NewNotFoundError(applicationID)
	}
	return evaluations[0], nil
}

// ListCategories returns the category results of an evaluation.
func (s *MemoryStore) ListCategories(ctx context.Context, evaluationID uuid.UUID) ([]*evaluation.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.categoriesOf(evaluationID), nil
}

// ListSubcategories returns the subcategory results of a category evaluation.
func (s *MemoryStore) ListSubcategories(ctx context.Context, categoryEvalID uuid.UUID) ([]*evaluation.Subcategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.subcategoriesOf(categoryEvalID), nil
}

// DeleteEvaluation removes an evaluation and its whole result tree.
func (s *MemoryStore) DeleteEvaluation(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.evaluations[id]; !ok {
		return evaluation.NewNotFoundError(id)
	}
	for cid, c := range s.categories {
		if c.EvaluationID != id {
			continue
		}
		for sid, sc := range s.subcategories {
			if sc.CategoryEvalID != cid {
				continue
			}
			for fid, f := range s.fields {
				if f.SubcategoryEvalID == sid {
					delete(s.fields, fid)
				}
			}
			delete(s.subcategories, sid)
		}
		delete(s.categories, cid)
	}
	delete(s.evaluations, id)
	return nil
}

// ListOlderThan returns evaluations created before the given cutoff.
func (s *MemoryStore) ListOlderThan(ctx context.Context, cutoff time.Time) ([]*evaluation.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	evaluations := []*evaluation.Evaluation{}
	for _, stored := range s.evaluations {
		if stored.CreatedAt.Before(cutoff) {
			e := *stored
			evaluations = append(evaluations, &e)
		}
	}
	sort.Slice(evaluations, func(i, j int) bool {
		return evaluations[i].CreatedAt.Before(evaluations[j].CreatedAt)
	})
	return evaluations, nil
}

// ListApplicationIDs returns the distinct application IDs with evaluations.
func (s *MemoryStore) ListApplicationIDs(ctx context.Context) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[uuid.UUID]bool)
	ids := []uuid.UUID{}
	for _, stored := range s.evaluations {
		if !seen[stored.ApplicationID] {
			seen[stored.ApplicationID] = true
			ids = append(ids, stored.ApplicationID)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids, nil
}

// Close releases resources held by the store.
func (s *MemoryStore) Close() error {
	return nil
}

// recordOrder assigns an insertion sequence number; callers hold the lock.
func (s *MemoryStore) recordOrder(id uuid.UUID) {
	s.seq++
	s.order[id] = s.seq
}

// categoriesOf returns copies in insertion order; callers hold the lock.
func (s *MemoryStore) categoriesOf(evaluationID uuid.UUID) []*evaluation.Category {
	categories := []*evaluation.Category{}
	for _, stored := range s.categories {
		if stored.EvaluationID == evaluationID {
			c := *stored
			categories = append(categories, &c)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		return s.order[categories[i].ID] < s.order[categories[j].ID]
	})
	return categories
}

// subcategoriesOf returns copies in insertion order; callers hold the lock.
func (s *MemoryStore) subcategoriesOf(categoryEvalID uuid.UUID) []*evaluation.Subcategory {
	subcategories := []*evaluation.Subcategory{}
	for _, stored := range s.subcategories {
		if stored.CategoryEvalID == categoryEvalID {
			sc := *stored
			subcategories = append(subcategories, &sc)
		}
	}
	sort.Slice(subcategories, func(i, j int) bool {
		return s.order[subcategories[i].ID] < s.order[subcategories[j].ID]
	})
	return subcategories
}

// fieldsOf returns copies in insertion order; callers hold the lock.
func (s *MemoryStore) fieldsOf(subcategoryEvalID uuid.UUID) []*evaluation.Field {
	fields := []*evaluation.Field{}
	for _, stored := range s.fields {
		if stored.SubcategoryEvalID == subcategoryEvalID {
			f := *stored
			fields = append(fields, &f)
		}
	}
	sort.Slice(fields, func(i, j int) bool {
		return s.order[fields[i].ID] < s.order[fields[j].ID]
	})
	return fields
}

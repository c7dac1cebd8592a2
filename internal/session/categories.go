package session

import (
	"context"

	"github.com/likexephinh-dev/ThuChiPro/internal/apperr"
	"github.com/likexephinh-dev/ThuChiPro/internal/category"
	"github.com/likexephinh-dev/ThuChiPro/internal/storage"
)

func (s *Session) Categories(t category.Type) []category.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.registry.List(t)
}

// FindCategory looks id up in both collections.
func (s *Session) FindCategory(id string) (category.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findCategory(id)
}

func (s *Session) findCategory(id string) (category.Category, error) {
	for _, t := range []category.Type{category.TypeIncome, category.TypeExpense} {
		if c, ok := s.registry.Get(id, t); ok {
			return c, nil
		}
	}

	return category.Category{}, &apperr.NotFoundError{Kind: "category", ID: id}
}

func (s *Session) AddCategory(ctx context.Context, name string, t category.Type) (category.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.registry.Add(name, t)
	s.metrics.Mutation("category", "add", err)

	if err != nil {
		return category.Category{}, err
	}

	s.persist(ctx, categoryKey(t))

	return c, nil
}

// RenameCategory renames a category and rewrites the embedded copy on
// every transaction that references it.
func (s *Session) RenameCategory(ctx context.Context, id string, t category.Type, name string) (category.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.registry.Rename(id, t, name)
	s.metrics.Mutation("category", "rename", err)

	if err != nil {
		return category.Category{}, err
	}

	if n := s.store.PropagateCategoryRename(c); n > 0 {
		s.persist(ctx, categoryKey(t), storage.KeyTransactions)
	} else {
		s.persist(ctx, categoryKey(t))
	}

	return c, nil
}

// DeleteCategory removes a category that no transaction references.
func (s *Session) DeleteCategory(ctx context.Context, id string, t category.Type) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.registry.Delete(id, t, s.store.CountByCategory)
	s.metrics.Mutation("category", "delete", err)

	if err != nil {
		return err
	}

	s.persist(ctx, categoryKey(t))

	return nil
}

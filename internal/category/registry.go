package category

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/likexephinh-dev/ThuChiPro/internal/apperr"
)

// Registry holds the income and expense collections in insertion order.
// It is not safe for concurrent use; the owning session serializes access.
type Registry struct {
	income  []Category
	expense []Category
}

func NewRegistry(income, expense []Category) *Registry {
	r := &Registry{}
	r.Replace(income, expense)

	return r
}

func (r *Registry) collection(t Type) *[]Category {
	if t == TypeIncome {
		return &r.income
	}

	return &r.expense
}

// List returns a copy of the collection for t.
func (r *Registry) List(t Type) []Category {
	if !t.Valid() {
		return nil
	}

	return slices.Clone(*r.collection(t))
}

func (r *Registry) Get(id string, t Type) (Category, bool) {
	if !t.Valid() {
		return Category{}, false
	}

	items := *r.collection(t)

	i := slices.IndexFunc(items, func(c Category) bool { return c.ID == id })
	if i < 0 {
		return Category{}, false
	}

	return items[i], true
}

func (r *Registry) Add(name string, t Type) (Category, error) {
	if !t.Valid() {
		return Category{}, apperr.Invalid("type", fmt.Sprintf("unknown category type %q", t))
	}

	name = normalizeName(name)
	if name == "" {
		return Category{}, apperr.Invalid("name", "must not be empty")
	}

	c := Category{ID: uuid.NewString(), Name: name, Type: t}

	items := r.collection(t)
	*items = append(*items, c)

	return c, nil
}

// Rename changes the name of a category in place and returns the updated
// value. An id missing from the type's collection is a validation error
// that also matches apperr.ErrNotFound. Transactions embedding the
// category are not touched here.
func (r *Registry) Rename(id string, t Type, name string) (Category, error) {
	name = normalizeName(name)
	if name == "" {
		return Category{}, apperr.Invalid("name", "must not be empty")
	}

	if !t.Valid() {
		return Category{}, apperr.Invalid("type", fmt.Sprintf("unknown category type %q", t))
	}

	items := *r.collection(t)

	i := slices.IndexFunc(items, func(c Category) bool { return c.ID == id })
	if i < 0 {
		missing := &apperr.NotFoundError{Kind: "category", ID: id}

		return Category{}, &apperr.ValidationError{Field: "id", Reason: missing.Error(), Err: missing}
	}

	items[i].Name = name

	return items[i], nil
}

// Delete removes a category. refs reports how many transactions reference
// the id; any non-zero count blocks the removal.
func (r *Registry) Delete(id string, t Type, refs func(id string) int) error {
	if !t.Valid() {
		return apperr.Invalid("type", fmt.Sprintf("unknown category type %q", t))
	}

	items := r.collection(t)

	i := slices.IndexFunc(*items, func(c Category) bool { return c.ID == id })
	if i < 0 {
		return &apperr.NotFoundError{Kind: "category", ID: id}
	}

	if n := refs(id); n > 0 {
		return &apperr.InUseError{CategoryID: id, Count: n}
	}

	*items = slices.Delete(*items, i, i+1)

	return nil
}

// Replace swaps both collections wholesale. Entries take the type of the
// collection they are placed in.
func (r *Registry) Replace(income, expense []Category) {
	r.income = withType(income, TypeIncome)
	r.expense = withType(expense, TypeExpense)
}

func withType(items []Category, t Type) []Category {
	out := make([]Category, len(items))
	for i, c := range items {
		c.Type = t
		out[i] = c
	}

	return out
}

package transaction

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/likexephinh-dev/ThuChiPro/internal/apperr"
	"github.com/likexephinh-dev/ThuChiPro/internal/category"
)

// Store is the in-memory transaction collection, newest date first.
// It is not safe for concurrent use.
type Store struct {
	items []Transaction
}

func NewStore(items []Transaction) *Store {
	return &Store{items: slices.Clone(items)}
}

// All returns a copy of every transaction in collection order.
func (s *Store) All() []Transaction {
	return slices.Clone(s.items)
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) Get(id string) (Transaction, bool) {
	i := s.index(id)
	if i < 0 {
		return Transaction{}, false
	}

	return s.items[i], true
}

// Add validates d, assigns an id and inserts the transaction. The
// collection is then stably sorted by date descending, so a new entry
// lands before existing entries on the same date.
func (s *Store) Add(d Draft) (Transaction, error) {
	if err := validate(d.Description, d.Amount, d.Type, d.Category, d.Date); err != nil {
		return Transaction{}, err
	}

	tx := Transaction{
		ID:          uuid.NewString(),
		Description: strings.TrimSpace(d.Description),
		Amount:      d.Amount,
		Type:        d.Type,
		Category:    d.Category,
		Date:        d.Date,
	}

	items := make([]Transaction, 0, len(s.items)+1)
	items = append(items, tx)
	items = append(items, s.items...)

	slices.SortStableFunc(items, func(a, b Transaction) int {
		return strings.Compare(b.Date, a.Date)
	})

	s.items = items

	return tx, nil
}

// Update replaces the transaction with the same id in place. The type of
// an existing transaction cannot change. Order is left as is.
func (s *Store) Update(tx Transaction) (Transaction, error) {
	i := s.index(tx.ID)
	if i < 0 {
		return Transaction{}, &apperr.NotFoundError{Kind: "transaction", ID: tx.ID}
	}

	if tx.Type != s.items[i].Type {
		return Transaction{}, apperr.Invalid("type", "cannot be changed")
	}

	if err := validate(tx.Description, tx.Amount, tx.Type, tx.Category, tx.Date); err != nil {
		return Transaction{}, err
	}

	tx.Description = strings.TrimSpace(tx.Description)
	s.items[i] = tx

	return tx, nil
}

func (s *Store) Delete(id string) error {
	i := s.index(id)
	if i < 0 {
		return &apperr.NotFoundError{Kind: "transaction", ID: id}
	}

	s.items = slices.Delete(s.items, i, i+1)

	return nil
}

// PropagateCategoryRename overwrites the embedded category on every
// transaction referencing c.ID and returns how many were touched.
func (s *Store) PropagateCategoryRename(c category.Category) int {
	n := 0

	for i := range s.items {
		if s.items[i].Category.ID == c.ID {
			s.items[i].Category = c
			n++
		}
	}

	return n
}

// CountByCategory reports how many transactions reference the category id.
func (s *Store) CountByCategory(id string) int {
	n := 0

	for _, tx := range s.items {
		if tx.Category.ID == id {
			n++
		}
	}

	return n
}

// Replace swaps the whole collection without validation or re-sorting.
func (s *Store) Replace(items []Transaction) {
	s.items = slices.Clone(items)
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.items, func(tx Transaction) bool { return tx.ID == id })
}

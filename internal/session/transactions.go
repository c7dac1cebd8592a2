package session

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/likexephinh-dev/ThuChiPro/internal/apperr"
	"github.com/likexephinh-dev/ThuChiPro/internal/category"
	"github.com/likexephinh-dev/ThuChiPro/internal/storage"
	"github.com/likexephinh-dev/ThuChiPro/internal/transaction"
)

// TransactionInput is what a user submits to create or edit a
// transaction. The category is referenced by id and resolved against the
// registry.
type TransactionInput struct {
	Description string
	Amount      decimal.Decimal
	Type        category.Type
	CategoryID  string
	Date        string
}

func (s *Session) Transactions() []transaction.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.All()
}

func (s *Session) Transaction(id string) (transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.store.Get(id)
	if !ok {
		return transaction.Transaction{}, &apperr.NotFoundError{Kind: "transaction", ID: id}
	}

	return tx, nil
}

func (s *Session) AddTransaction(ctx context.Context, in TransactionInput) (transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.addTransaction(in)
	s.metrics.Mutation("transaction", "add", err)

	if err != nil {
		return transaction.Transaction{}, err
	}

	s.persist(ctx, storage.KeyTransactions)
	s.metrics.TransactionCount(s.store.Len())

	return tx, nil
}

func (s *Session) addTransaction(in TransactionInput) (transaction.Transaction, error) {
	if !in.Type.Valid() {
		return transaction.Transaction{}, apperr.Invalid("type", "must be income or expense")
	}

	c, ok := s.registry.Get(in.CategoryID, in.Type)
	if !ok {
		return transaction.Transaction{}, apperr.Invalid("category", "unknown category for this type")
	}

	return s.store.Add(transaction.Draft{
		Description: in.Description,
		Amount:      in.Amount,
		Type:        in.Type,
		Category:    c,
		Date:        in.Date,
	})
}

// UpdateTransaction edits a transaction in place. An empty Type in the
// input keeps the stored type; a different type is rejected.
func (s *Session) UpdateTransaction(ctx context.Context, id string, in TransactionInput) (transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.updateTransaction(id, in)
	s.metrics.Mutation("transaction", "update", err)

	if err != nil {
		return transaction.Transaction{}, err
	}

	s.persist(ctx, storage.KeyTransactions)

	return tx, nil
}

// TransactionPatch lists the fields of a transaction to change. Nil
// fields keep their stored value.
type TransactionPatch struct {
	Description *string
	Amount      *decimal.Decimal
	Type        *category.Type
	CategoryID  *string
	Date        *string
}

// PatchTransaction merges p over the stored transaction and saves the
// result. The read and the write happen under one lock, so concurrent
// patches to different fields do not overwrite each other.
func (s *Session) PatchTransaction(ctx context.Context, id string, p TransactionPatch) (transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.patchTransaction(id, p)
	s.metrics.Mutation("transaction", "update", err)

	if err != nil {
		return transaction.Transaction{}, err
	}

	s.persist(ctx, storage.KeyTransactions)

	return tx, nil
}

func (s *Session) patchTransaction(id string, p TransactionPatch) (transaction.Transaction, error) {
	existing, ok := s.store.Get(id)
	if !ok {
		return transaction.Transaction{}, &apperr.NotFoundError{Kind: "transaction", ID: id}
	}

	in := TransactionInput{
		Description: existing.Description,
		Amount:      existing.Amount,
		Type:        existing.Type,
		CategoryID:  existing.Category.ID,
		Date:        existing.Date,
	}

	if p.Description != nil {
		in.Description = *p.Description
	}

	if p.Amount != nil {
		in.Amount = *p.Amount
	}

	if p.Type != nil {
		in.Type = *p.Type
	}

	if p.CategoryID != nil {
		in.CategoryID = *p.CategoryID
	}

	if p.Date != nil {
		in.Date = *p.Date
	}

	return s.updateTransaction(id, in)
}

func (s *Session) updateTransaction(id string, in TransactionInput) (transaction.Transaction, error) {
	existing, ok := s.store.Get(id)
	if !ok {
		return transaction.Transaction{}, &apperr.NotFoundError{Kind: "transaction", ID: id}
	}

	if in.Type == "" {
		in.Type = existing.Type
	}

	if in.Type != existing.Type {
		return transaction.Transaction{}, apperr.Invalid("type", "cannot be changed")
	}

	c := existing.Category
	if in.CategoryID != c.ID {
		resolved, ok := s.registry.Get(in.CategoryID, in.Type)
		if !ok {
			return transaction.Transaction{}, apperr.Invalid("category", "unknown category for this type")
		}

		c = resolved
	}

	return s.store.Update(transaction.Transaction{
		ID:          id,
		Description: in.Description,
		Amount:      in.Amount,
		Type:        in.Type,
		Category:    c,
		Date:        in.Date,
	})
}

func (s *Session) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.store.Delete(id)
	s.metrics.Mutation("transaction", "delete", err)

	if err != nil {
		return err
	}

	s.persist(ctx, storage.KeyTransactions)
	s.metrics.TransactionCount(s.store.Len())

	return nil
}

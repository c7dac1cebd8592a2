// Package backup encodes and decodes the full ledger as a single JSON
// document.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/likexephinh-dev/ThuChiPro/internal/apperr"
	"github.com/likexephinh-dev/ThuChiPro/internal/category"
	"github.com/likexephinh-dev/ThuChiPro/internal/encoding"
	"github.com/likexephinh-dev/ThuChiPro/internal/transaction"
)

const (
	FieldTransactions      = "transactions"
	FieldIncomeCategories  = "incomeCategories"
	FieldExpenseCategories = "expenseCategories"
)

// Document is the complete ledger state.
type Document struct {
	Transactions      []transaction.Transaction `json:"transactions"`
	IncomeCategories  []category.Category       `json:"incomeCategories"`
	ExpenseCategories []category.Category       `json:"expenseCategories"`
}

// Serialize builds a document whose three collections are never nil, so
// they encode as arrays.
func Serialize(txs []transaction.Transaction, income, expense []category.Category) Document {
	return Document{
		Transactions:      nonNil(txs),
		IncomeCategories:  nonNil(income),
		ExpenseCategories: nonNil(expense),
	}
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(Serialize(doc.Transactions, doc.IncomeCategories, doc.ExpenseCategories)); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}

	return nil
}

// Deserialize checks that data is an object carrying the three array
// fields and decodes them. Records are decoded structurally only.
func Deserialize(data []byte) (Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return Document{}, &apperr.MalformedBackupError{Reason: "document is not a JSON object"}
	}

	var doc Document

	fields := []struct {
		name string
		dst  any
	}{
		{FieldTransactions, &doc.Transactions},
		{FieldIncomeCategories, &doc.IncomeCategories},
		{FieldExpenseCategories, &doc.ExpenseCategories},
	}

	for _, f := range fields {
		value, ok := raw[f.name]
		if !ok {
			return Document{}, &apperr.MalformedBackupError{Field: f.name, Reason: "missing"}
		}

		if !isArray(value) {
			return Document{}, &apperr.MalformedBackupError{Field: f.name, Reason: "not an array"}
		}

		if err := json.Unmarshal(value, f.dst); err != nil {
			return Document{}, &apperr.MalformedBackupError{Field: f.name, Reason: err.Error()}
		}
	}

	doc.IncomeCategories = withType(doc.IncomeCategories, category.TypeIncome)
	doc.ExpenseCategories = withType(doc.ExpenseCategories, category.TypeExpense)

	return Serialize(doc.Transactions, doc.IncomeCategories, doc.ExpenseCategories), nil
}

// Read decodes a backup from r after normalizing its text encoding.
func Read(r io.Reader) (Document, error) {
	utf8, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return Document{}, fmt.Errorf("detecting encoding: %w", err)
	}

	data, err := io.ReadAll(utf8)
	if err != nil {
		return Document{}, fmt.Errorf("reading backup: %w", err)
	}

	return Deserialize(data)
}

// Filename returns the download name for a backup taken at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("quan-ly-thu-chi-backup-%s.json", now.Format(time.DateOnly))
}

func isArray(value json.RawMessage) bool {
	trimmed := bytes.TrimSpace(value)

	return len(trimmed) > 0 && trimmed[0] == '['
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}

	return items
}

// Older backups may omit the type on categories; the collection decides.
func withType(items []category.Category, t category.Type) []category.Category {
	for i := range items {
		if items[i].Type == "" {
			items[i].Type = t
		}
	}

	return items
}

package category

import "strings"

// Type separates the income and expense collections.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Category is a user-defined label. ID and Type never change after creation.
type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Type Type   `json:"type" yaml:"-"`
}

func normalizeName(name string) string {
	return strings.TrimSpace(name)
}

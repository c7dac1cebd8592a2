package transaction

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/likexephinh-dev/ThuChiPro/internal/apperr"
	"github.com/likexephinh-dev/ThuChiPro/internal/category"
)

func init() {
	// Amounts are JSON numbers in stored state and backups.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	TypeIncome  = category.TypeIncome
	TypeExpense = category.TypeExpense
)

// Transaction is a single income or expense entry. Category is a copy of
// the category at the time it was last assigned or renamed.
type Transaction struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"`
	Type        category.Type     `json:"type"`
	Category    category.Category `json:"category"`
	Date        string            `json:"date"`
}

// Draft carries the user-supplied fields of a new transaction.
type Draft struct {
	Description string
	Amount      decimal.Decimal
	Type        category.Type
	Category    category.Category
	Date        string
}

// ValidDate reports whether s is a zero-padded YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	if len(s) != len(time.DateOnly) {
		return false
	}

	_, err := time.Parse(time.DateOnly, s)

	return err == nil
}

func validate(description string, amount decimal.Decimal, typ category.Type, cat category.Category, date string) error {
	if !typ.Valid() {
		return apperr.Invalid("type", "must be income or expense")
	}

	if strings.TrimSpace(description) == "" {
		return apperr.Invalid("description", "must not be empty")
	}

	if !amount.IsPositive() {
		return apperr.Invalid("amount", "must be greater than zero")
	}

	if cat.ID == "" {
		return apperr.Invalid("category", "must be set")
	}

	if cat.Type != typ {
		return apperr.Invalid("category", "type does not match transaction type")
	}

	if !ValidDate(date) {
		return apperr.Invalid("date", "must be a YYYY-MM-DD calendar date")
	}

	return nil
}

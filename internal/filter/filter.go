// Package filter narrows a transaction list to the working set shown by
// the dashboard and reports.
package filter

import (
	"fmt"
	"time"

	"github.com/likexephinh-dev/ThuChiPro/internal/apperr"
	"github.com/likexephinh-dev/ThuChiPro/internal/category"
	"github.com/likexephinh-dev/ThuChiPro/internal/transaction"
)

// TypeFilter selects income, expense or both.
type TypeFilter string

const (
	TypeAll     TypeFilter = "all"
	TypeIncome  TypeFilter = TypeFilter(category.TypeIncome)
	TypeExpense TypeFilter = TypeFilter(category.TypeExpense)
)

// CategoryAll is the category filter value that disables the constraint.
const CategoryAll = "all"

func (f TypeFilter) Valid() bool {
	return f == TypeAll || f == TypeIncome || f == TypeExpense
}

// Range is an inclusive pair of YYYY-MM-DD dates. The range constraint
// only applies when both bounds are set.
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r Range) active() bool {
	return r.Start != "" && r.End != ""
}

// NormalizeRange swaps reversed bounds. Apply never does this itself.
func NormalizeRange(r Range) Range {
	if r.active() && r.Start > r.End {
		return Range{Start: r.End, End: r.Start}
	}

	return r
}

// ValidateRange checks that every set bound is a YYYY-MM-DD date.
func ValidateRange(r Range) error {
	if r.Start != "" && !transaction.ValidDate(r.Start) {
		return apperr.Invalid("start", fmt.Sprintf("%q is not a YYYY-MM-DD date", r.Start))
	}

	if r.End != "" && !transaction.ValidDate(r.End) {
		return apperr.Invalid("end", fmt.Sprintf("%q is not a YYYY-MM-DD date", r.End))
	}

	return nil
}

type Criteria struct {
	Range      Range      `json:"range"`
	Type       TypeFilter `json:"type"`
	CategoryID string     `json:"categoryId"`
}

// Apply returns the transactions matching every active constraint, in
// input order. The category constraint is ignored when Type is TypeAll.
func Apply(txs []transaction.Transaction, c Criteria) []transaction.Transaction {
	out := make([]transaction.Transaction, 0, len(txs))

	for _, tx := range txs {
		if c.Range.active() && (tx.Date < c.Range.Start || tx.Date > c.Range.End) {
			continue
		}

		if c.Type != TypeAll && c.Type != "" {
			if string(tx.Type) != string(c.Type) {
				continue
			}

			if c.CategoryID != "" && c.CategoryID != CategoryAll && tx.Category.ID != c.CategoryID {
				continue
			}
		}

		out = append(out, tx)
	}

	return out
}

// MonthRange spans the calendar month containing t.
func MonthRange(t time.Time) Range {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	return Range{Start: first.Format(time.DateOnly), End: last.Format(time.DateOnly)}
}

// YearRange spans the calendar year containing t.
func YearRange(t time.Time) Range {
	return Range{
		Start: time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC).Format(time.DateOnly),
		End:   time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, time.UTC).Format(time.DateOnly),
	}
}

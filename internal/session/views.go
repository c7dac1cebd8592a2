package session

import (
	"github.com/likexephinh-dev/ThuChiPro/internal/category"
	"github.com/likexephinh-dev/ThuChiPro/internal/filter"
	"github.com/likexephinh-dev/ThuChiPro/internal/report"
	"github.com/likexephinh-dev/ThuChiPro/internal/transaction"
)

// Dashboard is everything the main screen renders for the current
// selection.
type Dashboard struct {
	Criteria        filter.Criteria           `json:"criteria"`
	Totals          report.Totals             `json:"totals"`
	ByCategory      []report.CategoryAmount   `json:"byCategory"`
	Daily           []report.DailyPoint       `json:"daily"`
	Transactions    []transaction.Transaction `json:"transactions"`
	CategoryOptions []category.Category       `json:"categoryOptions"`
}

type CategoryReport struct {
	Category     category.Category         `json:"category"`
	Range        filter.Range              `json:"range"`
	Series       []report.CategoryPoint    `json:"series"`
	Transactions []transaction.Transaction `json:"transactions"`
}

// SetDateRange changes the dashboard range. Malformed or overly long
// ranges are a validation error.
func (s *Session) SetDateRange(r filter.Range) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selection.SetRange(r)
}

// SelectionChange lists the dashboard selection fields to change. Nil
// fields keep their current value.
type SelectionChange struct {
	Start      *string
	End        *string
	Type       *filter.TypeFilter
	CategoryID *string
}

// UpdateSelection applies ch as a whole or not at all. A new type resets
// the category filter before CategoryID is applied.
func (s *Session) UpdateSelection(ch SelectionChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.selection

	if ch.Type != nil {
		if err := next.SetType(*ch.Type); err != nil {
			return err
		}
	}

	if ch.Start != nil || ch.End != nil {
		rng := next.Criteria().Range
		if ch.Start != nil {
			rng.Start = *ch.Start
		}

		if ch.End != nil {
			rng.End = *ch.End
		}

		if err := next.SetRange(rng); err != nil {
			return err
		}
	}

	if ch.CategoryID != nil {
		next.SetCategory(*ch.CategoryID)
	}

	*s.selection = next

	return nil
}

// SetTypeFilter changes the type filter and resets the category filter.
func (s *Session) SetTypeFilter(t filter.TypeFilter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selection.SetType(t)
}

func (s *Session) SetCategoryFilter(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection.SetCategory(id)
}

func (s *Session) Criteria() filter.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selection.Criteria()
}

// WorkingSet returns the transactions matching the current selection.
func (s *Session) WorkingSet() []transaction.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	return filter.Apply(s.store.All(), s.selection.Criteria())
}

func (s *Session) Dashboard() Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.selection.Criteria()
	set := filter.Apply(s.store.All(), c)

	var options []category.Category

	switch c.Type {
	case filter.TypeIncome:
		options = s.registry.List(category.TypeIncome)
	case filter.TypeExpense:
		options = s.registry.List(category.TypeExpense)
	default:
		options = []category.Category{}
	}

	byCategory := report.ByCategory(set)
	if byCategory == nil {
		byCategory = []report.CategoryAmount{}
	}

	return Dashboard{
		Criteria:        c,
		Totals:          report.ComputeTotals(set),
		ByCategory:      byCategory,
		Daily:           report.DailySeries(set, c.Range.Start, c.Range.End),
		Transactions:    set,
		CategoryOptions: options,
	}
}

// reportSet narrows the whole ledger by date only; reports ignore the
// dashboard type and category filters.
func (s *Session) reportSet(r filter.Range) []transaction.Transaction {
	return filter.Apply(s.store.All(), filter.Criteria{Range: filter.NormalizeRange(r), Type: filter.TypeAll})
}

func (s *Session) MonthlyReport(r filter.Range) []report.MonthlyPoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	return report.MonthlySeries(s.reportSet(r))
}

func (s *Session) CategoryReport(categoryID string, r filter.Range) (CategoryReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.findCategory(categoryID)
	if err != nil {
		return CategoryReport{}, err
	}

	set := s.reportSet(r)

	return CategoryReport{
		Category:     c,
		Range:        filter.NormalizeRange(r),
		Series:       report.CategoryTimeSeries(set, categoryID),
		Transactions: report.CategoryTransactions(set, categoryID),
	}, nil
}

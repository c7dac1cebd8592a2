// Package report derives totals, breakdowns and time series from an
// already filtered set of transactions. Every function is pure.
package report

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/likexephinh-dev/ThuChiPro/internal/category"
	"github.com/likexephinh-dev/ThuChiPro/internal/transaction"
)

type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

type CategoryAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type DailyPoint struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type MonthlyPoint struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

type CategoryPoint struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

func ComputeTotals(set []transaction.Transaction) Totals {
	t := Totals{Income: decimal.Zero, Expense: decimal.Zero}

	for _, tx := range set {
		switch tx.Type {
		case category.TypeIncome:
			t.Income = t.Income.Add(tx.Amount)
		case category.TypeExpense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}

	t.Balance = t.Income.Sub(t.Expense)

	return t
}

// ByCategory sums expense amounts per category name, in order of first
// appearance. Two categories sharing a name are merged.
func ByCategory(set []transaction.Transaction) []CategoryAmount {
	var out []CategoryAmount

	index := make(map[string]int)

	for _, tx := range set {
		if tx.Type != category.TypeExpense {
			continue
		}

		i, ok := index[tx.Category.Name]
		if !ok {
			i = len(out)
			index[tx.Category.Name] = i
			out = append(out, CategoryAmount{Name: tx.Category.Name, Amount: decimal.Zero})
		}

		out[i].Amount = out[i].Amount.Add(tx.Amount)
	}

	return out
}

// DailySeries returns one point per calendar day from start to end
// inclusive, zero where nothing happened. A missing, unparsable or
// reversed bound yields an empty series.
func DailySeries(set []transaction.Transaction, start, end string) []DailyPoint {
	from, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return []DailyPoint{}
	}

	to, err := time.Parse(time.DateOnly, end)
	if err != nil || to.Before(from) {
		return []DailyPoint{}
	}

	byDate := make(map[string]*DailyPoint)

	for _, tx := range set {
		p, ok := byDate[tx.Date]
		if !ok {
			p = &DailyPoint{Date: tx.Date, Income: decimal.Zero, Expense: decimal.Zero}
			byDate[tx.Date] = p
		}

		if tx.Type == category.TypeIncome {
			p.Income = p.Income.Add(tx.Amount)
		} else {
			p.Expense = p.Expense.Add(tx.Amount)
		}
	}

	var out []DailyPoint

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)

		if p, ok := byDate[key]; ok {
			out = append(out, *p)
			continue
		}

		out = append(out, DailyPoint{Date: key, Income: decimal.Zero, Expense: decimal.Zero})
	}

	return out
}

// MonthlySeries groups by YYYY-MM, ascending. Anything that is not
// income counts as expense.
func MonthlySeries(set []transaction.Transaction) []MonthlyPoint {
	byMonth := make(map[string]*MonthlyPoint)

	for _, tx := range set {
		if len(tx.Date) < 7 {
			continue
		}

		month := tx.Date[:7]

		p, ok := byMonth[month]
		if !ok {
			p = &MonthlyPoint{Month: month, Income: decimal.Zero, Expense: decimal.Zero}
			byMonth[month] = p
		}

		if tx.Type == category.TypeIncome {
			p.Income = p.Income.Add(tx.Amount)
		} else {
			p.Expense = p.Expense.Add(tx.Amount)
		}
	}

	out := make([]MonthlyPoint, 0, len(byMonth))
	for _, p := range byMonth {
		p.Net = p.Income.Sub(p.Expense)
		out = append(out, *p)
	}

	slices.SortFunc(out, func(a, b MonthlyPoint) int {
		return strings.Compare(a.Month, b.Month)
	})

	return out
}

// CategoryTransactions keeps the transactions assigned to categoryID.
func CategoryTransactions(set []transaction.Transaction, categoryID string) []transaction.Transaction {
	out := make([]transaction.Transaction, 0)

	for _, tx := range set {
		if tx.Category.ID == categoryID {
			out = append(out, tx)
		}
	}

	return out
}

// CategoryTimeSeries sums the category's amounts per day, ascending, with
// only the days that have activity.
func CategoryTimeSeries(set []transaction.Transaction, categoryID string) []CategoryPoint {
	byDate := make(map[string]decimal.Decimal)

	for _, tx := range CategoryTransactions(set, categoryID) {
		sum, ok := byDate[tx.Date]
		if !ok {
			sum = decimal.Zero
		}

		byDate[tx.Date] = sum.Add(tx.Amount)
	}

	out := make([]CategoryPoint, 0, len(byDate))
	for date, amount := range byDate {
		out = append(out, CategoryPoint{Date: date, Amount: amount})
	}

	slices.SortFunc(out, func(a, b CategoryPoint) int {
		return strings.Compare(a.Date, b.Date)
	})

	return out
}

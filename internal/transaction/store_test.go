package transaction_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/likexephinh-dev/ThuChiPro/internal/apperr"
	"github.com/likexephinh-dev/ThuChiPro/internal/category"
	"github.com/likexephinh-dev/ThuChiPro/internal/transaction"
)

var (
	food   = category.Category{ID: "exp-1", Name: "Food", Type: category.TypeExpense}
	rent   = category.Category{ID: "exp-2", Name: "Rent", Type: category.TypeExpense}
	salary = category.Category{ID: "inc-1", Name: "Salary", Type: category.TypeIncome}
)

func draft(date, desc string, amount int64, cat category.Category) transaction.Draft {
	return transaction.Draft{
		Description: desc,
		Amount:      decimal.NewFromInt(amount),
		Type:        cat.Type,
		Category:    cat,
		Date:        date,
	}
}

func dates(txs []transaction.Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.Date
	}

	return out
}

func TestStore_Add_Validation(t *testing.T) {
	tests := []struct {
		name  string
		draft transaction.Draft
		field string
	}{
		{name: "ZeroAmount", draft: draft("2024-01-01", "x", 0, food), field: "amount"},
		{name: "NegativeAmount", draft: draft("2024-01-01", "x", -5, food), field: "amount"},
		{name: "BlankDescription", draft: draft("2024-01-01", "  ", 5, food), field: "description"},
		{name: "BadDate", draft: draft("2024-02-30", "x", 5, food), field: "date"},
		{name: "UnpaddedDate", draft: draft("2024-2-3", "x", 5, food), field: "date"},
		{
			name: "CategoryTypeMismatch",
			draft: transaction.Draft{
				Description: "x",
				Amount:      decimal.NewFromInt(5),
				Type:        category.TypeIncome,
				Category:    food,
				Date:        "2024-01-01",
			},
			field: "category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := transaction.NewStore(nil)

			_, err := s.Add(tt.draft)

			var verr *apperr.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Zero(t, s.Len())
		})
	}
}

func TestStore_Add_Ordering(t *testing.T) {
	s := transaction.NewStore(nil)

	first, err := s.Add(draft("2024-03-01", "first", 10, food))
	require.NoError(t, err)

	_, err = s.Add(draft("2024-01-15", "older", 10, food))
	require.NoError(t, err)

	_, err = s.Add(draft("2024-05-20", "newer", 10, rent))
	require.NoError(t, err)

	sameDay, err := s.Add(draft("2024-03-01", "second same day", 10, food))
	require.NoError(t, err)

	all := s.All()
	assert.Equal(t, []string{"2024-05-20", "2024-03-01", "2024-03-01", "2024-01-15"}, dates(all))
	assert.Equal(t, sameDay.ID, all[1].ID)
	assert.Equal(t, first.ID, all[2].ID)
	assert.NotEqual(t, first.ID, sameDay.ID)
}

func TestStore_Add_TrimsDescription(t *testing.T) {
	s := transaction.NewStore(nil)

	tx, err := s.Add(draft("2024-01-01", "  lunch ", 10, food))
	require.NoError(t, err)

	assert.Equal(t, "lunch", tx.Description)
}

func TestStore_Update(t *testing.T) {
	s := transaction.NewStore(nil)

	older, err := s.Add(draft("2024-01-01", "a", 10, food))
	require.NoError(t, err)

	_, err = s.Add(draft("2024-02-01", "b", 10, food))
	require.NoError(t, err)

	t.Run("InPlaceWithoutResort", func(t *testing.T) {
		older.Date = "2024-12-31"
		older.Category = rent
		older.Amount = decimal.RequireFromString("12.5")

		got, err := s.Update(older)
		require.NoError(t, err)
		assert.Equal(t, older.ID, got.ID)

		all := s.All()
		assert.Equal(t, []string{"2024-02-01", "2024-12-31"}, dates(all))
		assert.Equal(t, "Rent", all[1].Category.Name)
		assert.True(t, decimal.RequireFromString("12.5").Equal(all[1].Amount))
	})

	t.Run("TypeChangeRejected", func(t *testing.T) {
		changed := older
		changed.Type = category.TypeIncome
		changed.Category = salary

		_, err := s.Update(changed)
		assert.ErrorIs(t, err, apperr.ErrValidation)

		got, _ := s.Get(older.ID)
		assert.Equal(t, category.TypeExpense, got.Type)
	})

	t.Run("InvalidAmountLeavesRecord", func(t *testing.T) {
		bad := older
		bad.Amount = decimal.Zero

		_, err := s.Update(bad)
		assert.ErrorIs(t, err, apperr.ErrValidation)

		got, _ := s.Get(older.ID)
		assert.True(t, got.Amount.IsPositive())
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := s.Update(transaction.Transaction{ID: "missing"})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestStore_Delete(t *testing.T) {
	s := transaction.NewStore(nil)

	tx, err := s.Add(draft("2024-01-01", "a", 10, food))
	require.NoError(t, err)

	require.NoError(t, s.Delete(tx.ID))
	assert.Zero(t, s.Len())

	assert.ErrorIs(t, s.Delete(tx.ID), apperr.ErrNotFound)
}

func TestStore_PropagateCategoryRename(t *testing.T) {
	s := transaction.NewStore(nil)

	for _, d := range []transaction.Draft{
		draft("2024-01-01", "a", 10, food),
		draft("2024-01-02", "b", 10, rent),
		draft("2024-01-03", "c", 10, food),
	} {
		_, err := s.Add(d)
		require.NoError(t, err)
	}

	renamed := food
	renamed.Name = "Groceries"

	assert.Equal(t, 2, s.PropagateCategoryRename(renamed))
	snapshot := s.All()

	assert.Equal(t, 2, s.PropagateCategoryRename(renamed))
	assert.Equal(t, snapshot, s.All())

	for _, tx := range s.All() {
		if tx.Category.ID == food.ID {
			assert.Equal(t, "Groceries", tx.Category.Name)
		} else {
			assert.Equal(t, "Rent", tx.Category.Name)
		}
	}

	assert.Equal(t, 2, s.CountByCategory(food.ID))
	assert.Equal(t, 1, s.CountByCategory(rent.ID))
	assert.Zero(t, s.CountByCategory(salary.ID))
}

func TestValidDate(t *testing.T) {
	assert.True(t, transaction.ValidDate("2024-02-29"))
	assert.False(t, transaction.ValidDate("2023-02-29"))
	assert.False(t, transaction.ValidDate("2024-13-01"))
	assert.False(t, transaction.ValidDate("20240101"))
	assert.False(t, transaction.ValidDate(""))
}

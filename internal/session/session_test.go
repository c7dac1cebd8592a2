package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"

	"github.com/likexephinh-dev/ThuChiPro/internal/apperr"
	"github.com/likexephinh-dev/ThuChiPro/internal/backup"
	"github.com/likexephinh-dev/ThuChiPro/internal/category"
	"github.com/likexephinh-dev/ThuChiPro/internal/cloudsync"
	"github.com/likexephinh-dev/ThuChiPro/internal/filter"
	"github.com/likexephinh-dev/ThuChiPro/internal/session"
	"github.com/likexephinh-dev/ThuChiPro/internal/storage"
	"github.com/likexephinh-dev/ThuChiPro/internal/storage/memory"
)

var fixedNow = func() time.Time { return time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC) }

func openSession(t *testing.T, kv storage.KV, opts session.Options) *session.Session {
	t.Helper()

	if opts.Now == nil {
		opts.Now = fixedNow
	}

	s, err := session.Open(context.Background(), kv, opts)
	require.NoError(t, err)

	return s
}

func expense(date, amount, categoryID, desc string) session.TransactionInput {
	return session.TransactionInput{
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Type:        category.TypeExpense,
		CategoryID:  categoryID,
		Date:        date,
	}
}

func income(date, amount, categoryID, desc string) session.TransactionInput {
	in := expense(date, amount, categoryID, desc)
	in.Type = category.TypeIncome

	return in
}

func TestOpen_Defaults(t *testing.T) {
	s := openSession(t, memory.New(), session.Options{})

	assert.Empty(t, s.Transactions())
	assert.Len(t, s.Categories(category.TypeIncome), 2)
	assert.Len(t, s.Categories(category.TypeExpense), 5)

	c := s.Criteria()
	assert.Equal(t, filter.Range{Start: "2024-03-01", End: "2024-03-31"}, c.Range)
	assert.Equal(t, filter.TypeAll, c.Type)
}

func TestOpen_UnparsableStateFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	require.NoError(t, kv.Set(ctx, storage.KeyTransactions, []byte(`{not json`)))
	require.NoError(t, kv.Set(ctx, storage.KeyIncomeCategories, []byte(`[{"id":"x","name":"Only"}]`)))

	s := openSession(t, kv, session.Options{})

	assert.Empty(t, s.Transactions())
	require.Len(t, s.Categories(category.TypeIncome), 1)
	assert.Equal(t, category.TypeIncome, s.Categories(category.TypeIncome)[0].Type)
	assert.Len(t, s.Categories(category.TypeExpense), 5)
}

func TestSession_PersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	s := openSession(t, kv, session.Options{})

	c, err := s.AddCategory(ctx, "Internet", category.TypeExpense)
	require.NoError(t, err)

	_, err = s.AddTransaction(ctx, expense("2024-03-02", "300000", c.ID, "Cáp quang"))
	require.NoError(t, err)

	reopened := openSession(t, kv, session.Options{})

	require.Len(t, reopened.Transactions(), 1)
	assert.Equal(t, "Internet", reopened.Transactions()[0].Category.Name)
	assert.True(t, decimal.NewFromInt(300000).Equal(reopened.Transactions()[0].Amount))
	assert.Len(t, reopened.Categories(category.TypeExpense), 6)
}

func TestSession_AddTransaction_UnknownCategory(t *testing.T) {
	s := openSession(t, memory.New(), session.Options{})

	_, err := s.AddTransaction(context.Background(), income("2024-03-02", "10", "cat_exp_1", "wrong collection"))

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Field)
	assert.Empty(t, s.Transactions())
}

func TestSession_RenamePropagates(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, memory.New(), session.Options{})

	_, err := s.AddTransaction(ctx, expense("2024-03-02", "10", "cat_exp_2", "a"))
	require.NoError(t, err)
	_, err = s.AddTransaction(ctx, expense("2024-03-03", "10", "cat_exp_3", "b"))
	require.NoError(t, err)

	renamed, err := s.RenameCategory(ctx, "cat_exp_2", category.TypeExpense, "Mua sắm văn phòng")
	require.NoError(t, err)

	for _, tx := range s.Transactions() {
		if tx.Category.ID == renamed.ID {
			assert.Equal(t, renamed, tx.Category)
		} else {
			assert.Equal(t, "Tiền điện", tx.Category.Name)
		}
	}

	_, err = s.RenameCategory(ctx, "cat_exp_2", category.TypeExpense, "  ")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = s.RenameCategory(ctx, "nope", category.TypeExpense, "X")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSession_DeleteCategoryGuard(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, memory.New(), session.Options{})

	// Reference lives outside the current month and behind a type filter.
	tx, err := s.AddTransaction(ctx, expense("2023-01-01", "10", "cat_exp_5", "old"))
	require.NoError(t, err)
	require.NoError(t, s.SetTypeFilter(filter.TypeIncome))

	err = s.DeleteCategory(ctx, "cat_exp_5", category.TypeExpense)
	assert.ErrorIs(t, err, apperr.ErrCategoryInUse)
	assert.Len(t, s.Categories(category.TypeExpense), 5)

	require.NoError(t, s.DeleteTransaction(ctx, tx.ID))
	require.NoError(t, s.DeleteCategory(ctx, "cat_exp_5", category.TypeExpense))
	assert.Len(t, s.Categories(category.TypeExpense), 4)
}

func TestSession_UpdateTransaction(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, memory.New(), session.Options{})

	tx, err := s.AddTransaction(ctx, expense("2024-03-02", "10", "cat_exp_1", "salary"))
	require.NoError(t, err)

	t.Run("ChangesCategoryAmountDescription", func(t *testing.T) {
		in := expense("2024-03-02", "25.5", "cat_exp_4", "  rent  ")
		in.Type = ""

		got, err := s.UpdateTransaction(ctx, tx.ID, in)
		require.NoError(t, err)

		assert.Equal(t, tx.ID, got.ID)
		assert.Equal(t, "rent", got.Description)
		assert.Equal(t, "Tiền thuê mặt bằng", got.Category.Name)
		assert.Equal(t, category.TypeExpense, got.Type)
	})

	t.Run("TypeChangeRejected", func(t *testing.T) {
		_, err := s.UpdateTransaction(ctx, tx.ID, income("2024-03-02", "10", "cat_inc_1", "x"))
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := s.UpdateTransaction(ctx, "missing", expense("2024-03-02", "10", "cat_exp_1", "x"))
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestSession_PatchTransaction(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, memory.New(), session.Options{})

	tx, err := s.AddTransaction(ctx, expense("2024-03-01", "100", "cat_exp_4", "rent"))
	require.NoError(t, err)

	desc := "rent March"
	got, err := s.PatchTransaction(ctx, tx.ID, session.TransactionPatch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "rent March", got.Description)
	assert.True(t, decimal.NewFromInt(100).Equal(got.Amount))
	assert.Equal(t, "cat_exp_4", got.Category.ID)
	assert.Equal(t, "2024-03-01", got.Date)

	t.Run("ConcurrentFieldsKept", func(t *testing.T) {
		var g errgroup.Group

		for i := 0; i < 50; i++ {
			g.Go(func() error {
				d := "rent April"
				_, err := s.PatchTransaction(ctx, tx.ID, session.TransactionPatch{Description: &d})

				return err
			})
			g.Go(func() error {
				a := decimal.NewFromInt(250)
				_, err := s.PatchTransaction(ctx, tx.ID, session.TransactionPatch{Amount: &a})

				return err
			})
		}

		require.NoError(t, g.Wait())

		got, err := s.Transaction(tx.ID)
		require.NoError(t, err)
		assert.Equal(t, "rent April", got.Description)
		assert.True(t, decimal.NewFromInt(250).Equal(got.Amount))
	})

	t.Run("TypeChangeRejected", func(t *testing.T) {
		typ := category.TypeIncome

		_, err := s.PatchTransaction(ctx, tx.ID, session.TransactionPatch{Type: &typ})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := s.PatchTransaction(ctx, "missing", session.TransactionPatch{Description: &desc})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestSession_Dashboard(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, memory.New(), session.Options{})

	for _, in := range []session.TransactionInput{
		income("2024-03-01", "1000", "cat_inc_1", "capital"),
		expense("2024-03-02", "200", "cat_exp_2", "shopping"),
		expense("2024-03-02", "50", "cat_exp_3", "power"),
		expense("2024-02-28", "999", "cat_exp_3", "last month"),
	} {
		_, err := s.AddTransaction(ctx, in)
		require.NoError(t, err)
	}

	d := s.Dashboard()
	assert.Len(t, d.Transactions, 3)
	assert.True(t, decimal.NewFromInt(750).Equal(d.Totals.Balance))
	assert.Len(t, d.Daily, 31)
	assert.Len(t, d.ByCategory, 2)
	assert.Empty(t, d.CategoryOptions)

	require.NoError(t, s.SetTypeFilter(filter.TypeExpense))
	s.SetCategoryFilter("cat_exp_3")

	d = s.Dashboard()
	require.Len(t, d.Transactions, 1)
	assert.Equal(t, "power", d.Transactions[0].Description)
	assert.Len(t, d.CategoryOptions, 5)

	require.NoError(t, s.SetTypeFilter(filter.TypeExpense))
	assert.Equal(t, filter.CategoryAll, s.Criteria().CategoryID)

	require.NoError(t, s.SetDateRange(filter.Range{Start: "2024-03-31", End: "2024-02-01"}))
	assert.Equal(t, filter.Range{Start: "2024-02-01", End: "2024-03-31"}, s.Criteria().Range)
	assert.Len(t, s.WorkingSet(), 3)

	err := s.SetDateRange(filter.Range{Start: "2024-3-1", End: "2024-03-31"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, filter.Range{Start: "2024-02-01", End: "2024-03-31"}, s.Criteria().Range)
}

func TestSession_UpdateSelection(t *testing.T) {
	s := openSession(t, memory.New(), session.Options{})

	ptr := func(v string) *string { return &v }
	expenseType := filter.TypeExpense

	require.NoError(t, s.UpdateSelection(session.SelectionChange{
		Type:       &expenseType,
		CategoryID: ptr("cat_exp_2"),
		Start:      ptr("2024-01-01"),
	}))

	c := s.Criteria()
	assert.Equal(t, filter.TypeExpense, c.Type)
	assert.Equal(t, "cat_exp_2", c.CategoryID)
	assert.Equal(t, filter.Range{Start: "2024-01-01", End: "2024-03-31"}, c.Range)

	t.Run("AllOrNothing", func(t *testing.T) {
		incomeType := filter.TypeIncome

		err := s.UpdateSelection(session.SelectionChange{
			Type:  &incomeType,
			Start: ptr("0001-01-01"),
			End:   ptr("9999-12-31"),
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, c, s.Criteria())
	})

	t.Run("BadType", func(t *testing.T) {
		bad := filter.TypeFilter("savings")

		err := s.UpdateSelection(session.SelectionChange{Type: &bad, Start: ptr("2024-02-01")})
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, c, s.Criteria())
	})
}

func TestSession_Reports(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, memory.New(), session.Options{})

	for _, in := range []session.TransactionInput{
		income("2024-01-05", "500", "cat_inc_2", "parking"),
		expense("2024-01-07", "100", "cat_exp_3", "power"),
		expense("2024-02-07", "120", "cat_exp_3", "power"),
		expense("2023-12-07", "90", "cat_exp_3", "power"),
	} {
		_, err := s.AddTransaction(ctx, in)
		require.NoError(t, err)
	}

	// Dashboard filters do not apply to reports.
	require.NoError(t, s.SetTypeFilter(filter.TypeIncome))

	monthly := s.MonthlyReport(filter.YearRange(fixedNow()))
	require.Len(t, monthly, 2)
	assert.Equal(t, "2024-01", monthly[0].Month)
	assert.True(t, decimal.NewFromInt(400).Equal(monthly[0].Net))

	rep, err := s.CategoryReport("cat_exp_3", filter.YearRange(fixedNow()))
	require.NoError(t, err)
	assert.Equal(t, "Tiền điện", rep.Category.Name)
	assert.Len(t, rep.Series, 2)
	assert.Len(t, rep.Transactions, 2)

	_, err = s.CategoryReport("nope", filter.YearRange(fixedNow()))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSession_BackupRestore(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, memory.New(), session.Options{})

	_, err := s.AddTransaction(ctx, expense("2024-03-02", "10", "cat_exp_1", "a"))
	require.NoError(t, err)

	doc := s.Backup()

	other := openSession(t, memory.New(), session.Options{})
	_, err = other.AddCategory(ctx, "Temporary", category.TypeIncome)
	require.NoError(t, err)

	other.Restore(ctx, doc)

	assert.Equal(t, doc, other.Backup())
}

func TestSession_PersistFailureDoesNotFailOperation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	kv := storage.NewMockKV(ctrl)
	kv.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, storage.ErrNotFound).Times(3)
	kv.EXPECT().Set(gomock.Any(), storage.KeyExpenseCategories, gomock.Any()).Return(errors.New("disk full"))

	s := openSession(t, kv, session.Options{})

	c, err := s.AddCategory(context.Background(), "Bảo trì", category.TypeExpense)
	require.NoError(t, err)
	assert.Contains(t, s.Categories(category.TypeExpense), c)
}

func TestSession_PushPull(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	remote := cloudsync.NewMockRemote(ctrl)

	s := openSession(t, memory.New(), session.Options{Syncer: cloudsync.NewSyncer(remote, 0)})
	_, err := s.AddTransaction(ctx, expense("2024-03-02", "10", "cat_exp_1", "a"))
	require.NoError(t, err)

	var pushed backup.Document

	remote.EXPECT().Push(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, doc backup.Document) error {
		pushed = doc
		return nil
	})
	require.NoError(t, s.Push(ctx))
	assert.Len(t, pushed.Transactions, 1)

	remote.EXPECT().Pull(gomock.Any()).Return(backup.Serialize(nil, nil, []category.Category{{ID: "e", Name: "E"}}), nil)
	require.NoError(t, s.Pull(ctx))

	assert.Empty(t, s.Transactions())
	assert.Empty(t, s.Categories(category.TypeIncome))
	assert.Len(t, s.Categories(category.TypeExpense), 1)

	remote.EXPECT().Pull(gomock.Any()).Return(backup.Document{}, errors.New("offline"))
	err = s.Pull(ctx)
	assert.ErrorIs(t, err, apperr.ErrSync)
	assert.Len(t, s.Categories(category.TypeExpense), 1)
}

func TestSession_PushWithoutSyncer(t *testing.T) {
	s := openSession(t, memory.New(), session.Options{})

	assert.ErrorIs(t, s.Push(context.Background()), cloudsync.ErrNotConfigured)
	assert.False(t, s.SyncBusy())
}

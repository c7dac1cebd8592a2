package http_test

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/likexephinh-dev/ThuChiPro/internal/backup"
	"github.com/likexephinh-dev/ThuChiPro/internal/category"
	"github.com/likexephinh-dev/ThuChiPro/internal/cloudsync"
	apihttp "github.com/likexephinh-dev/ThuChiPro/internal/http"
	backupHandler "github.com/likexephinh-dev/ThuChiPro/internal/http/backup"
	categoryHandler "github.com/likexephinh-dev/ThuChiPro/internal/http/category"
	syncHandler "github.com/likexephinh-dev/ThuChiPro/internal/http/cloudsync"
	dashboardHandler "github.com/likexephinh-dev/ThuChiPro/internal/http/dashboard"
	reportHandler "github.com/likexephinh-dev/ThuChiPro/internal/http/report"
	txHandler "github.com/likexephinh-dev/ThuChiPro/internal/http/transaction"
	"github.com/likexephinh-dev/ThuChiPro/internal/metrics"
	"github.com/likexephinh-dev/ThuChiPro/internal/session"
	"github.com/likexephinh-dev/ThuChiPro/internal/storage/memory"
)

func newRouter(t *testing.T, syncer *cloudsync.Syncer) (http.Handler, *session.Session) {
	t.Helper()

	reg := prometheus.NewRegistry()

	sess, err := session.Open(context.Background(), memory.New(), session.Options{
		Syncer:  syncer,
		Metrics: metrics.New(reg),
		Now:     func() time.Time { return time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	router := apihttp.New(
		[]string{"*"},
		reg,
		categoryHandler.NewHandler(sess),
		txHandler.NewHandler(sess),
		dashboardHandler.NewHandler(sess),
		reportHandler.NewHandler(sess),
		backupHandler.NewHandler(sess),
		syncHandler.NewHandler(sess),
	)

	return router, sess
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))

	return v
}

func attachmentName(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	require.Equal(t, "attachment", disposition)

	return params["filename"]
}

type txBody struct {
	ID           string  `json:"id"`
	Description  string  `json:"description"`
	Amount       float64 `json:"amount"`
	Type         string  `json:"type"`
	CategoryID   string  `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Date         string  `json:"date"`
}

const rentExpense = `{"description":"Tiền thuê tháng 3","amount":5000000,"type":"expense","categoryId":"cat_exp_4","date":"2024-03-10"}`

func TestCategories(t *testing.T) {
	router, _ := newRouter(t, nil)

	rec := do(router, http.MethodGet, "/api/v1/categories/expense", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]category.Category](t, rec), 5)

	rec = do(router, http.MethodPost, "/api/v1/categories/income", `{"name":"  Bán hàng "}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decode[category.Category](t, rec)
	assert.Equal(t, "Bán hàng", created.Name)
	assert.NotEmpty(t, created.ID)

	rec = do(router, http.MethodPost, "/api/v1/categories/income", `{"name":"   "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(router, http.MethodGet, "/api/v1/categories/savings", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(router, http.MethodPatch, "/api/v1/categories/income/missing", `{"name":"X"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(router, http.MethodDelete, "/api/v1/categories/income/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCategories_RenamePropagatesAndDeleteBlocked(t *testing.T) {
	router, _ := newRouter(t, nil)

	rec := do(router, http.MethodPost, "/api/v1/transactions/", rentExpense)
	require.Equal(t, http.StatusCreated, rec.Code)

	tx := decode[txBody](t, rec)

	rec = do(router, http.MethodPatch, "/api/v1/categories/expense/cat_exp_4", `{"name":"Mặt bằng"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodGet, "/api/v1/transactions/"+tx.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mặt bằng", decode[txBody](t, rec).CategoryName)

	rec = do(router, http.MethodDelete, "/api/v1/categories/expense/cat_exp_4", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTransactions(t *testing.T) {
	router, _ := newRouter(t, nil)

	rec := do(router, http.MethodPost, "/api/v1/transactions/", rentExpense)
	require.Equal(t, http.StatusCreated, rec.Code)

	tx := decode[txBody](t, rec)
	assert.InDelta(t, 5000000, tx.Amount, 0)
	assert.Equal(t, "Tiền thuê mặt bằng", tx.CategoryName)

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "ZeroAmount", body: `{"description":"x","amount":0,"type":"expense","categoryId":"cat_exp_1","date":"2024-03-10"}`, want: http.StatusUnprocessableEntity},
		{name: "WrongCategoryType", body: `{"description":"x","amount":1,"type":"income","categoryId":"cat_exp_1","date":"2024-03-10"}`, want: http.StatusUnprocessableEntity},
		{name: "BadDate", body: `{"description":"x","amount":1,"type":"expense","categoryId":"cat_exp_1","date":"2024-02-30"}`, want: http.StatusUnprocessableEntity},
		{name: "NotJSON", body: `{`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, do(router, http.MethodPost, "/api/v1/transactions/", tt.body).Code)
		})
	}

	rec = do(router, http.MethodPatch, "/api/v1/transactions/"+tx.ID, `{"amount":"4500000.5"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decode[txBody](t, rec)
	assert.InDelta(t, 4500000.5, updated.Amount, 0.001)
	assert.Equal(t, tx.Description, updated.Description)

	rec = do(router, http.MethodPatch, "/api/v1/transactions/"+tx.ID, `{"type":"income","categoryId":"cat_inc_1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(router, http.MethodGet, "/api/v1/transactions/?type=income", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]txBody](t, rec))

	rec = do(router, http.MethodGet, "/api/v1/transactions/?start=2024-03-31&end=2024-03-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]txBody](t, rec), 1)

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/api/v1/transactions/?type=savings", "").Code)

	assert.Equal(t, http.StatusNoContent, do(router, http.MethodDelete, "/api/v1/transactions/"+tx.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/v1/transactions/"+tx.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodDelete, "/api/v1/transactions/"+tx.ID, "").Code)
}

func TestDashboard(t *testing.T) {
	router, _ := newRouter(t, nil)

	require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/api/v1/transactions/", rentExpense).Code)

	rec := do(router, http.MethodGet, "/api/v1/dashboard/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var dash session.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Equal(t, "2024-03-01", dash.Criteria.Range.Start)
	assert.Len(t, dash.Daily, 31)
	assert.Len(t, dash.Transactions, 1)
	assert.Empty(t, dash.CategoryOptions)
	assert.Equal(t, "-5000000", dash.Totals.Balance.String())

	rec = do(router, http.MethodPut, "/api/v1/dashboard/selection", `{"type":"expense","categoryId":"cat_exp_1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Len(t, dash.CategoryOptions, 5)
	assert.Equal(t, "cat_exp_1", dash.Criteria.CategoryID)
	assert.Empty(t, dash.Transactions)

	rec = do(router, http.MethodPut, "/api/v1/dashboard/selection", `{"type":"income"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Equal(t, "all", dash.Criteria.CategoryID)

	rec = do(router, http.MethodPut, "/api/v1/dashboard/selection", `{"type":"savings"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(router, http.MethodPut, "/api/v1/dashboard/selection", `{"start":"2024-3-1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(router, http.MethodPut, "/api/v1/dashboard/selection", `{"start":"0001-01-01","end":"9999-12-31"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(router, http.MethodPut, "/api/v1/dashboard/selection", `{"start":"2024-02-01"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Equal(t, "income", string(dash.Criteria.Type))
	assert.Len(t, dash.Daily, 60)
}

func TestReports(t *testing.T) {
	router, _ := newRouter(t, nil)

	rec := do(router, http.MethodGet, "/api/v1/reports/monthly/export", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/api/v1/transactions/", rentExpense).Code)

	rec = do(router, http.MethodGet, "/api/v1/reports/monthly", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"start":"2024-01-01"`)
	assert.Contains(t, rec.Body.String(), `"month":"2024-03"`)

	rec = do(router, http.MethodGet, "/api/v1/reports/monthly/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bao-cao-thang_2024-01-01_den_2024-12-31.csv", attachmentName(t, rec))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Tháng,Tổng Thu,Tổng Chi,Lợi Nhuận\r\n"))

	rec = do(router, http.MethodGet, "/api/v1/reports/category/cat_exp_4?start=2024-03-01&end=2024-03-31", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var rep session.CategoryReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Len(t, rep.Transactions, 1)
	require.Len(t, rep.Series, 1)
	assert.Equal(t, "2024-03-10", rep.Series[0].Date)

	rec = do(router, http.MethodGet, "/api/v1/reports/monthly?start=2024-1-1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(router, http.MethodGet, "/api/v1/reports/category/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(router, http.MethodGet, "/api/v1/reports/category/cat_exp_1/export", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(router, http.MethodGet, "/api/v1/reports/ledger/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "so-thu-chi-2024-03-15.csv", attachmentName(t, rec))
	assert.Contains(t, rec.Body.String(), "Tiền thuê tháng 3")

	rec = do(router, http.MethodPatch, "/api/v1/categories/expense/cat_exp_4", `{"name":"Ăn \"ngoài\"; x"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodGet, "/api/v1/reports/category/cat_exp_4/export?start=2024-03-01&end=2024-03-31", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `bao-cao-danh-muc-Ăn "ngoài"; x_2024-03-01_den_2024-03-31.csv`, attachmentName(t, rec))
}

func TestBackup(t *testing.T) {
	router, sess := newRouter(t, nil)

	require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/api/v1/transactions/", rentExpense).Code)

	rec := do(router, http.MethodGet, "/api/v1/backup/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "quan-ly-thu-chi-backup-2024-03-15.json", attachmentName(t, rec))

	doc, err := backup.Deserialize(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, doc.Transactions, 1)

	empty := `{"transactions":[],"incomeCategories":[{"id":"i","name":"Thu"}],"expenseCategories":[]}`

	rec = do(router, http.MethodPost, "/api/v1/backup/", empty)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	assert.Len(t, sess.Transactions(), 1)

	rec = do(router, http.MethodPost, "/api/v1/backup/?confirm=true", `{"transactions":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "incomeCategories")
	assert.Len(t, sess.Transactions(), 1)

	rec = do(router, http.MethodPost, "/api/v1/backup/?confirm=true", empty)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, sess.Transactions())
	assert.Len(t, sess.Categories(category.TypeIncome), 1)
	assert.Empty(t, sess.Categories(category.TypeExpense))
}

func TestSync(t *testing.T) {
	t.Run("NotConfigured", func(t *testing.T) {
		router, _ := newRouter(t, nil)

		rec := do(router, http.MethodGet, "/api/v1/sync/status", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"busy":false}`, rec.Body.String())

		assert.Equal(t, http.StatusBadGateway, do(router, http.MethodPost, "/api/v1/sync/push", "").Code)
	})

	t.Run("PushAndPull", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		remote := cloudsync.NewMockRemote(ctrl)

		router, sess := newRouter(t, cloudsync.NewSyncer(remote, time.Second))

		remote.EXPECT().Push(gomock.Any(), gomock.Any()).Return(nil)
		assert.Equal(t, http.StatusNoContent, do(router, http.MethodPost, "/api/v1/sync/push", "").Code)

		assert.Equal(t, http.StatusPreconditionRequired, do(router, http.MethodPost, "/api/v1/sync/pull", "").Code)

		remote.EXPECT().Pull(gomock.Any()).Return(backup.Document{
			Transactions:      nil,
			IncomeCategories:  []category.Category{{ID: "i", Name: "Thu"}},
			ExpenseCategories: []category.Category{},
		}, nil)
		assert.Equal(t, http.StatusNoContent, do(router, http.MethodPost, "/api/v1/sync/pull?confirm=true", "").Code)
		assert.Len(t, sess.Categories(category.TypeIncome), 1)
	})
}

func TestMetrics(t *testing.T) {
	router, _ := newRouter(t, nil)

	require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/api/v1/transactions/", rentExpense).Code)

	rec := do(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "thuchi_mutations_total")
}

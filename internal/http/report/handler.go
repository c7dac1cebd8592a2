package report

import (
	"bytes"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/likexephinh-dev/ThuChiPro/internal/filter"
	"github.com/likexephinh-dev/ThuChiPro/internal/http/respond"
	"github.com/likexephinh-dev/ThuChiPro/internal/report"
	"github.com/likexephinh-dev/ThuChiPro/internal/session"
)

const csvContentType = "text/csv; charset=utf-8"

type Handler struct {
	sess *session.Session
}

func NewHandler(sess *session.Session) *Handler {
	return &Handler{sess: sess}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/monthly", h.monthly)
	r.Get("/monthly/export", h.exportMonthly)
	r.Get("/category/{id}", h.category)
	r.Get("/category/{id}/export", h.exportCategory)
	r.Get("/ledger/export", h.exportLedger)
}

type monthlyResponse struct {
	Range  filter.Range          `json:"range"`
	Months []report.MonthlyPoint `json:"months"`
}

// reportRange reads start and end from the query, defaulting to the
// current calendar year. Malformed dates are a validation error.
func (h *Handler) reportRange(r *http.Request) (filter.Range, error) {
	rng := filter.YearRange(h.sess.Now())

	if s := r.URL.Query().Get("start"); s != "" {
		rng.Start = s
	}

	if s := r.URL.Query().Get("end"); s != "" {
		rng.End = s
	}

	if err := filter.ValidateRange(rng); err != nil {
		return filter.Range{}, err
	}

	return filter.NormalizeRange(rng), nil
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	rng, err := h.reportRange(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, monthlyResponse{
		Range:  rng,
		Months: h.sess.MonthlyReport(rng),
	})
}

func (h *Handler) exportMonthly(w http.ResponseWriter, r *http.Request) {
	rng, err := h.reportRange(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteMonthlyCSV(&buf, h.sess.MonthlyReport(rng)); err != nil {
		respond.Error(w, err)
		return
	}

	respond.Attachment(w, csvContentType, report.MonthlyFilename(rng.Start, rng.End), buf.Bytes())
}

func (h *Handler) category(w http.ResponseWriter, r *http.Request) {
	rng, err := h.reportRange(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	rep, err := h.sess.CategoryReport(chi.URLParam(r, "id"), rng)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, rep)
}

func (h *Handler) exportCategory(w http.ResponseWriter, r *http.Request) {
	rng, err := h.reportRange(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	rep, err := h.sess.CategoryReport(chi.URLParam(r, "id"), rng)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteTransactionsCSV(&buf, rep.Transactions); err != nil {
		respond.Error(w, err)
		return
	}

	filename := report.CategoryFilename(rep.Category.Name, rep.Range.Start, rep.Range.End)
	respond.Attachment(w, csvContentType, filename, buf.Bytes())
}

func (h *Handler) exportLedger(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := report.WriteTransactionsCSV(&buf, h.sess.Transactions()); err != nil {
		respond.Error(w, err)
		return
	}

	filename := report.LedgerFilename(h.sess.Now().Format(time.DateOnly))
	respond.Attachment(w, csvContentType, filename, buf.Bytes())
}

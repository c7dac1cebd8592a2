package transaction

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/likexephinh-dev/ThuChiPro/internal/category"
	"github.com/likexephinh-dev/ThuChiPro/internal/filter"
	"github.com/likexephinh-dev/ThuChiPro/internal/http/respond"
	"github.com/likexephinh-dev/ThuChiPro/internal/session"
)

type Handler struct {
	sess *session.Session
}

func NewHandler(sess *session.Session) *Handler {
	return &Handler{sess: sess}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}", h.update)
}

type createTransactionRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        category.Type   `json:"type"`
	CategoryID  string          `json:"categoryId"`
	Date        string          `json:"date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	tx, err := h.sess.AddTransaction(r.Context(), session.TransactionInput{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		Date:        req.Date,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(tx))
}

// list returns the whole ledger, optionally narrowed by the start, end,
// type and category query parameters.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	c := filter.Criteria{
		Range:      filter.NormalizeRange(filter.Range{Start: q.Get("start"), End: q.Get("end")}),
		Type:       filter.TypeFilter(q.Get("type")),
		CategoryID: q.Get("category"),
	}

	if c.Type == "" {
		c.Type = filter.TypeAll
	}

	if !c.Type.Valid() {
		http.Error(w, "invalid type filter", http.StatusBadRequest)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(filter.Apply(h.sess.Transactions(), c)))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.sess.Transaction(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sess.DeleteTransaction(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateTransactionRequest struct {
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Type        *category.Type   `json:"type,omitempty"`
	CategoryID  *string          `json:"categoryId,omitempty"`
	Date        *string          `json:"date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateTransactionRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	updated, err := h.sess.PatchTransaction(r.Context(), id, session.TransactionPatch{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		Date:        req.Date,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(updated))
}

package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/likexephinh-dev/ThuChiPro/internal/apperr"
	"github.com/likexephinh-dev/ThuChiPro/internal/category"
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
	r.Get("/{type}", h.list)
	r.Post("/{type}", h.create)
	r.Patch("/{type}/{id}", h.rename)
	r.Delete("/{type}/{id}", h.delete)
}

type nameRequest struct {
	Name string `json:"name"`
}

func typeParam(r *http.Request) (category.Type, error) {
	t := category.Type(chi.URLParam(r, "type"))
	if !t.Valid() {
		return "", apperr.Invalid("type", "must be income or expense")
	}

	return t, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	t, err := typeParam(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, h.sess.Categories(t))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	t, err := typeParam(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req nameRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	c, err := h.sess.AddCategory(r.Context(), req.Name, t)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, c)
}

func (h *Handler) rename(w http.ResponseWriter, r *http.Request) {
	t, err := typeParam(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req nameRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	c, err := h.sess.RenameCategory(r.Context(), chi.URLParam(r, "id"), t, req.Name)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, c)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	t, err := typeParam(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if err := h.sess.DeleteCategory(r.Context(), chi.URLParam(r, "id"), t); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

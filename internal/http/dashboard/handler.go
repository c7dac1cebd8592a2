package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

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
	r.Get("/", h.get)
	r.Put("/selection", h.updateSelection)
}

func (h *Handler) get(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.sess.Dashboard())
}

// selectionRequest changes the dashboard selection. Omitted fields are
// left alone; a new type always resets the category filter, so a
// category sent alongside it is applied afterwards.
type selectionRequest struct {
	Start      *string            `json:"start,omitempty"`
	End        *string            `json:"end,omitempty"`
	Type       *filter.TypeFilter `json:"type,omitempty"`
	CategoryID *string            `json:"categoryId,omitempty"`
}

func (h *Handler) updateSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	err := h.sess.UpdateSelection(session.SelectionChange{
		Start:      req.Start,
		End:        req.End,
		Type:       req.Type,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, h.sess.Dashboard())
}

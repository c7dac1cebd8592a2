package cloudsync

import (
	"net/http"

	"github.com/go-chi/chi/v5"

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
	r.Get("/status", h.status)
	r.Post("/push", h.push)
	r.Post("/pull", h.pull)
}

type statusResponse struct {
	Busy bool `json:"busy"`
}

func (h *Handler) status(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, statusResponse{Busy: h.sess.SyncBusy()})
}

func (h *Handler) push(w http.ResponseWriter, r *http.Request) {
	if err := h.sess.Push(r.Context()); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pull overwrites local state with the remote snapshot, so it needs the
// same confirmation as a restore.
func (h *Handler) pull(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		http.Error(w, "pull replaces all data; repeat with confirm=true", http.StatusPreconditionRequired)
		return
	}

	if err := h.sess.Pull(r.Context()); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

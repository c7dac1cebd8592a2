package backup

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/likexephinh-dev/ThuChiPro/internal/backup"
	"github.com/likexephinh-dev/ThuChiPro/internal/http/respond"
	"github.com/likexephinh-dev/ThuChiPro/internal/session"
)

// maxBackupSize bounds restore uploads.
const maxBackupSize = 32 << 20

type Handler struct {
	sess *session.Session
}

func NewHandler(sess *session.Session) *Handler {
	return &Handler{sess: sess}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
	r.Post("/", h.restore)
}

func (h *Handler) download(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := backup.Encode(&buf, h.sess.Backup()); err != nil {
		respond.Error(w, err)
		return
	}

	respond.Attachment(w, "application/json", backup.Filename(h.sess.Now()), buf.Bytes())
}

// restore replaces every transaction and category with the uploaded
// document. It refuses to run unless confirm=true is set.
func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		http.Error(w, "restore replaces all data; repeat with confirm=true", http.StatusPreconditionRequired)
		return
	}

	doc, err := backup.Read(http.MaxBytesReader(w, r.Body, maxBackupSize))
	if err != nil {
		respond.Error(w, err)
		return
	}

	h.sess.Restore(r.Context(), doc)

	slog.Info("backup restored",
		"transactions", len(doc.Transactions),
		"incomeCategories", len(doc.IncomeCategories),
		"expenseCategories", len(doc.ExpenseCategories),
	)

	w.WriteHeader(http.StatusNoContent)
}

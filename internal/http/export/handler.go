package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/export"
	httptx "github.com/MrJamesThe3rd/tally/internal/http/transaction"
)

type Handler struct {
	svc *export.Service
	now func() time.Time
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// download returns the filtered transactions as a CSV attachment. Filters
// match the list endpoint.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filter, err := httptx.FilterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer

	n, err := h.svc.WriteCSV(r.Context(), &buf, filter)
	if err != nil {
		slog.Error("failed to export transactions", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(h.now())))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
		return
	}

	slog.Debug("exported transactions", "count", n)
}

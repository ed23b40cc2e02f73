package importcsv

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
	timeout   time.Duration
}

type Option func(*Handler)

// WithTimeout bounds a whole import, classification and commit included. It
// should be shorter than the server's write timeout so the client gets an answer.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		h.timeout = d
	}
}

func NewHandler(importSvc *importer.Service, opts ...Option) *Handler {
	h := &Handler{importSvc: importSvc}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/preview", h.preview)
}

type transactionResponse struct {
	ID          int64             `json:"id"`
	Date        string            `json:"date"`
	Description string            `json:"description"`
	Type        transaction.Type  `json:"type"`
	Amount      string            `json:"amount"`
	Category    category.Category `json:"category"`
}

type importSuccessResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
}

type previewRow struct {
	Date        string           `json:"date"`
	Description string           `json:"description"`
	Type        transaction.Type `json:"type"`
	Amount      string           `json:"amount"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	txs, err := h.importSvc.Import(ctx, file)
	if err != nil {
		if errors.Is(err, importer.ErrInvalidFile) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if errors.Is(err, context.DeadlineExceeded) {
			slog.Warn("import timed out", "timeout", h.timeout)
			http.Error(w, "import timed out, nothing was stored", http.StatusGatewayTimeout)

			return
		}

		slog.Error("failed to import transactions", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	slog.Info("imported transactions", "count", len(txs))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toSuccessResponse(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// preview parses the upload without classifying or storing it.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Preview(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows := make([]previewRow, 0, len(params))
	for _, p := range params {
		rows = append(rows, previewRow{
			Date:        p.Date.Format(time.DateOnly),
			Description: p.Description,
			Type:        p.Type,
			Amount:      p.Amount.StringFixed(2),
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(rows); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toSuccessResponse(txs []*transaction.Transaction) importSuccessResponse {
	responses := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, transactionResponse{
			ID:          tx.ID,
			Date:        tx.Date.Format(time.DateOnly),
			Description: tx.Description,
			Type:        tx.Type,
			Amount:      tx.Amount.StringFixed(2),
			Category:    tx.Category,
		})
	}

	return importSuccessResponse{
		Imported:     len(txs),
		Transactions: responses,
	}
}

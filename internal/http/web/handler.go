package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/dashboard"
	httptx "github.com/MrJamesThe3rd/tally/internal/http/transaction"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ModelInfo describes the configured LLM backend for health and debug output.
type ModelInfo struct {
	Provider string
	Model    string
}

// Handler serves the form page, the dashboard and the small JSON endpoints
// the pages use.
type Handler struct {
	txs       *transaction.Service
	dashboard *dashboard.Service
	db        Pinger
	info      ModelInfo
	tmpl      *renderer
	classify  func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithClassifyMiddleware wraps the routes that call the classifier.
func WithClassifyMiddleware(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.classify = mw
	}
}

func NewHandler(txs *transaction.Service, dash *dashboard.Service, db Pinger, info ModelInfo, opts ...Option) (*Handler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	h := &Handler{
		txs:       txs,
		dashboard: dash,
		db:        db,
		info:      info,
		tmpl:      tmpl,
		classify:  func(next http.Handler) http.Handler { return next },
	}

	for _, opt := range opts {
		opt(h)
	}

	return h, nil
}

func (h *Handler) Routes(r chi.Router) {
	static, _ := fs.Sub(staticFS, "static")

	r.Get("/", h.index)
	r.With(h.classify).Post("/add_transaction", h.addTransaction)
	r.Get("/transactions", h.transactions)
	r.Get("/dashboard", h.showDashboard)
	r.Delete("/transaction/{id}", h.deleteTransaction)
	r.With(h.classify).Get("/debug/categorization", h.debugCategorization)
	r.Get("/health", h.health)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
}

type indexPage struct {
	Message    string
	Categories []string
	Today      string
}

func (h *Handler) index(w http.ResponseWriter, _ *http.Request) {
	h.renderIndex(w, "")
}

func (h *Handler) renderIndex(w http.ResponseWriter, message string) {
	h.tmpl.render(w, "index.html", indexPage{
		Message:    message,
		Categories: category.Names(),
		Today:      time.Now().Format(time.DateOnly),
	})
}

func (h *Handler) addTransaction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Unparsable values are left zero so validation reports them in order.
	amount, _ := decimal.NewFromString(strings.TrimSpace(r.PostForm.Get("amount")))
	date, _ := time.Parse(time.DateOnly, strings.TrimSpace(r.PostForm.Get("transaction_date")))

	tx, err := h.txs.Create(r.Context(), transaction.CreateParams{
		Date:        date,
		Description: r.PostForm.Get("description"),
		Type:        transaction.Type(strings.TrimSpace(r.PostForm.Get("type"))),
		Amount:      amount,
	})

	switch {
	case errors.Is(err, transaction.ErrInvalidAmount):
		h.renderIndex(w, "Amount must be positive")
	case errors.Is(err, transaction.ErrInvalidType):
		h.renderIndex(w, "Invalid transaction type")
	case errors.Is(err, transaction.ErrMissingDate):
		h.renderIndex(w, "Invalid transaction date")
	case err != nil:
		slog.Error("failed to add transaction", "error", err)
		h.renderIndex(w, "Could not save transaction")
	default:
		h.renderIndex(w, fmt.Sprintf("Added (Category: %s)", tx.Category))
	}
}

type legacyTransaction struct {
	ID          int64             `json:"id"`
	Date        string            `json:"date"`
	Description string            `json:"description"`
	Type        transaction.Type  `json:"type"`
	Amount      json.Number       `json:"amount"`
	Category    category.Category `json:"category"`
}

type transactionsResponse struct {
	Count        int                 `json:"count"`
	Transactions []legacyTransaction `json:"transactions"`
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.txs.List(r.Context(), transaction.ListFilter{})
	if err != nil {
		slog.Error("failed to list transactions", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})

		return
	}

	resp := transactionsResponse{
		Count:        len(txs),
		Transactions: make([]legacyTransaction, 0, len(txs)),
	}

	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, legacyTransaction{
			ID:          tx.ID,
			Date:        tx.Date.Format(time.DateOnly),
			Description: tx.Description,
			Type:        tx.Type,
			Amount:      json.Number(tx.Amount.StringFixed(2)),
			Category:    tx.Category,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type dashboardPage struct {
	*dashboard.Summary
	ChartData dashboard.Charts
	Error     string
}

func (h *Handler) showDashboard(w http.ResponseWriter, r *http.Request) {
	sum, err := h.dashboard.Build(r.Context())
	if err != nil {
		slog.Error("failed to build dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	page := dashboardPage{Summary: sum}
	if sum.HasData {
		page.ChartData = sum.Charts()
	} else {
		page.Error = "No transactions found"
	}

	h.tmpl.render(w, "dashboard.html", page)
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := httptx.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid transaction id"})
		return
	}

	deleted, err := h.txs.Delete(r.Context(), id)
	if err != nil {
		slog.Error("failed to delete transaction", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})

		return
	}

	if !deleted {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Transaction not found"})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Deleted transaction %d", id)})
}

type categorizationResponse struct {
	Description       string            `json:"description"`
	PredictedCategory category.Category `json:"predicted_category"`
	Model             string            `json:"model"`
}

func (h *Handler) debugCategorization(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has("description") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "description is required"})
		return
	}

	description := query.Get("description")

	writeJSON(w, http.StatusOK, categorizationResponse{
		Description:       description,
		PredictedCategory: h.txs.Categorize(r.Context(), description),
		Model:             h.info.Model,
	})
}

type healthResponse struct {
	Status      string `json:"status"`
	LLMProvider string `json:"llm_provider"`
	Model       string `json:"model"`
	Database    string `json:"database"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:      "active",
		LLMProvider: h.info.Provider,
		Model:       h.info.Model,
		Database:    "ok",
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		slog.Warn("health check database ping failed", "error", err)

		resp.Database = "error"
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

package transaction_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/category"
	handler "github.com/MrJamesThe3rd/tally/internal/http/transaction"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func newRouter(t *testing.T, setup func(repo *transaction.MockRepository, cls *transaction.MockClassifier)) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	cls := transaction.NewMockClassifier(ctrl)

	if setup != nil {
		setup(repo, cls)
	}

	svc := transaction.NewService(repo, cls)

	r := chi.NewRouter()
	r.Route("/transactions", handler.NewHandler(svc).Routes)
	r.Get("/categories", handler.CategoriesHandler)

	return r
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Create(t *testing.T) {
	type testCase struct {
		name      string
		body      string
		setupMock func(repo *transaction.MockRepository, cls *transaction.MockClassifier)
		wantCode  int
	}

	tests := []testCase{
		{
			name: "Success",
			body: `{"date":"2024-02-10","description":"amazon purchase","type":"Expense","amount":"42.5"}`,
			setupMock: func(repo *transaction.MockRepository, cls *transaction.MockClassifier) {
				cls.EXPECT().Classify(gomock.Any(), "amazon purchase").Return(category.Shopping)
				repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = 3
						return nil
					})
			},
			wantCode: http.StatusCreated,
		},
		{
			name:     "InvalidAmount",
			body:     `{"date":"2024-02-10","description":"x","type":"Expense","amount":0}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "InvalidType",
			body:     `{"date":"2024-02-10","description":"x","type":"Transfer","amount":10}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "BadDate",
			body:     `{"date":"10/02/2024","description":"x","type":"Expense","amount":10}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "MalformedJSON",
			body:     `{`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newRouter(t, tt.setupMock), http.MethodPost, "/transactions/", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode != http.StatusCreated {
				return
			}

			var got map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.EqualValues(t, 3, got["id"])
			assert.Equal(t, "2024-02-10", got["date"])
			assert.Equal(t, "42.50", got["amount"])
			assert.Equal(t, "Shopping", got["category"])
		})
	}
}

func TestHandler_List(t *testing.T) {
	tx := &transaction.Transaction{
		ID:          1,
		Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Description: "salary deposit",
		Type:        transaction.TypeIncome,
		Amount:      decimal.RequireFromString("2500"),
		Category:    category.Income,
	}

	h := newRouter(t, func(repo *transaction.MockRepository, _ *transaction.MockClassifier) {
		repo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f transaction.ListFilter) ([]*transaction.Transaction, error) {
				require.NotNil(t, f.Type)
				assert.Equal(t, transaction.TypeIncome, *f.Type)
				require.NotNil(t, f.Category)
				assert.Equal(t, category.Income, *f.Category)
				require.NotNil(t, f.StartDate)
				assert.Nil(t, f.EndDate)

				return []*transaction.Transaction{tx}, nil
			})
	})

	rec := serve(h, http.MethodGet, "/transactions/?type=Income&category=income&start_date=2024-01-01", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "2500.00", got[0]["amount"])
}

func TestHandler_List_BadFilter(t *testing.T) {
	h := newRouter(t, nil)

	for _, q := range []string{"type=expense", "category=Groceries", "start_date=yesterday", "end_date=2024-13-01"} {
		rec := serve(h, http.MethodGet, "/transactions/?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestHandler_Get(t *testing.T) {
	h := newRouter(t, func(repo *transaction.MockRepository, _ *transaction.MockClassifier) {
		repo.EXPECT().GetTransaction(gomock.Any(), int64(9)).Return(nil, transaction.ErrNotFound)
	})

	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/transactions/9", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodGet, "/transactions/abc", "").Code)
}

func TestHandler_Delete(t *testing.T) {
	type testCase struct {
		name      string
		target    string
		setupMock func(repo *transaction.MockRepository, cls *transaction.MockClassifier)
		wantCode  int
	}

	tests := []testCase{
		{
			name:   "Deleted",
			target: "/transactions/4",
			setupMock: func(repo *transaction.MockRepository, _ *transaction.MockClassifier) {
				repo.EXPECT().DeleteTransaction(gomock.Any(), int64(4)).Return(true, nil)
			},
			wantCode: http.StatusNoContent,
		},
		{
			name:   "Missing",
			target: "/transactions/4",
			setupMock: func(repo *transaction.MockRepository, _ *transaction.MockClassifier) {
				repo.EXPECT().DeleteTransaction(gomock.Any(), int64(4)).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "InvalidID",
			target:   "/transactions/-1",
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newRouter(t, tt.setupMock), http.MethodDelete, tt.target, "")
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestCategoriesHandler(t *testing.T) {
	rec := serve(newRouter(t, nil), http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, category.Names(), got)
}

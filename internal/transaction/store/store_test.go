package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	"github.com/MrJamesThe3rd/tally/internal/transaction/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tally.db")
	require.NoError(t, database.Migrate(config.DriverSQLite, path))

	db, err := database.New(config.DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return store.New(db, config.DriverSQLite)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sample(desc string, typ transaction.Type, amount string, cat category.Category, date time.Time) *transaction.Transaction {
	return &transaction.Transaction{
		Date:        date,
		Description: desc,
		Type:        typ,
		Amount:      decimal.RequireFromString(amount),
		Category:    cat,
		CreatedAt:   time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	tx := sample("netflix subscription", transaction.TypeExpense, "15.99", category.Services, day(2024, 4, 2))
	require.NoError(t, s.CreateTransaction(ctx, tx))
	assert.NotZero(t, tx.ID)

	got, err := s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)

	assert.Equal(t, tx.ID, got.ID)
	assert.Equal(t, day(2024, 4, 2), got.Date)
	assert.Equal(t, "netflix subscription", got.Description)
	assert.Equal(t, transaction.TypeExpense, got.Type)
	assert.True(t, decimal.RequireFromString("15.99").Equal(got.Amount), got.Amount.String())
	assert.Equal(t, category.Services, got.Category)
	assert.True(t, tx.CreatedAt.Equal(got.CreatedAt))
}

func TestStore_GetTransaction_NotFound(t *testing.T) {
	_, err := newStore(t).GetTransaction(context.Background(), 999)
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestStore_ListTransactions(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	txs := []*transaction.Transaction{
		sample("rent", transaction.TypeExpense, "900", category.Housing, day(2024, 3, 1)),
		sample("salary deposit", transaction.TypeIncome, "2500", category.Income, day(2024, 2, 28)),
		sample("Burger King", transaction.TypeExpense, "8.50", category.Food, day(2024, 3, 15)),
	}
	require.NoError(t, s.CreateTransactions(ctx, txs))

	expense := transaction.TypeExpense
	food := category.Food
	march := day(2024, 3, 1)
	mid := day(2024, 3, 10)

	type testCase struct {
		name   string
		filter transaction.ListFilter
		want   []string
	}

	tests := []testCase{
		{
			name: "All",
			want: []string{"rent", "salary deposit", "Burger King"},
		},
		{
			name:   "ByType",
			filter: transaction.ListFilter{Type: &expense},
			want:   []string{"rent", "Burger King"},
		},
		{
			name:   "ByCategory",
			filter: transaction.ListFilter{Category: &food},
			want:   []string{"Burger King"},
		},
		{
			name:   "DateRange",
			filter: transaction.ListFilter{StartDate: &march, EndDate: &mid},
			want:   []string{"rent"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListTransactions(ctx, tt.filter)
			require.NoError(t, err)

			var descs []string
			for _, tx := range got {
				descs = append(descs, tx.Description)
			}

			assert.Equal(t, tt.want, descs)
		})
	}
}

func TestStore_ListTransactions_Empty(t *testing.T) {
	got, err := newStore(t).ListTransactions(context.Background(), transaction.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_DeleteTransaction(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	tx := sample("amazon purchase", transaction.TypeExpense, "42.10", category.Shopping, day(2024, 1, 5))
	require.NoError(t, s.CreateTransaction(ctx, tx))

	deleted, err := s.DeleteTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Second delete of the same id reports not found.
	deleted, err = s.DeleteTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = s.GetTransaction(ctx, tx.ID)
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestStore_DeleteTransaction_Missing(t *testing.T) {
	deleted, err := newStore(t).DeleteTransaction(context.Background(), 12345)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStore_CreateTransactions_Atomic(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	bad := sample("broken", "Transfer", "1", category.Other, day(2024, 1, 1))
	txs := []*transaction.Transaction{
		sample("ok", transaction.TypeIncome, "1", category.Income, day(2024, 1, 1)),
		bad,
	}

	// The type CHECK constraint rejects the second row, so the first is rolled back.
	require.Error(t, s.CreateTransactions(ctx, txs))

	got, err := s.ListTransactions(ctx, transaction.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

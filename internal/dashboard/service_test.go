package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/dashboard"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type listerFunc func(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)

func (f listerFunc) List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	return f(ctx, filter)
}

func tx(id int64, date string, typ transaction.Type, amount string, cat category.Category) *transaction.Transaction {
	d, _ := time.Parse(time.DateOnly, date)

	return &transaction.Transaction{
		ID:       id,
		Date:     d,
		Type:     typ,
		Amount:   decimal.RequireFromString(amount),
		Category: cat,
	}
}

func TestSummarize(t *testing.T) {
	txs := []*transaction.Transaction{
		tx(1, "2024-03-05", transaction.TypeExpense, "900.00", category.Housing),
		tx(2, "2024-02-28", transaction.TypeIncome, "2500.00", category.Income),
		tx(3, "2024-03-05", transaction.TypeExpense, "8.50", category.Food),
		tx(4, "2024-02-10", transaction.TypeExpense, "0.10", category.Food),
		tx(5, "2024-03-20", transaction.TypeIncome, "0.20", category.Other),
	}

	got := dashboard.Summarize(txs)

	assert.True(t, got.HasData)
	assert.Equal(t, "1591.60", got.TotalBalance.StringFixed(2))
	assert.Len(t, got.Transactions, 5)

	// Expenses only, in category order.
	require.Len(t, got.CategoryDistribution, 2)
	assert.Equal(t, category.Housing, got.CategoryDistribution[0].Category)
	assert.Equal(t, category.Food, got.CategoryDistribution[1].Category)
	assert.Equal(t, "8.60", got.CategoryDistribution[1].Total.StringFixed(2))

	// Sorted by date, equal dates keep insertion order.
	var order []string
	for _, p := range got.Timeline {
		order = append(order, p.Date.Format(time.DateOnly)+" "+p.Amount.StringFixed(2))
	}

	assert.Equal(t, []string{
		"2024-02-10 0.10",
		"2024-02-28 2500.00",
		"2024-03-05 900.00",
		"2024-03-05 8.50",
		"2024-03-20 0.20",
	}, order)

	require.Len(t, got.MonthlySummary, 2)
	assert.Equal(t, "2024-02", got.MonthlySummary[0].Month)
	assert.Equal(t, "2500.00", got.MonthlySummary[0].Income.StringFixed(2))
	assert.Equal(t, "0.10", got.MonthlySummary[0].Expense.StringFixed(2))
	assert.Equal(t, "2024-03", got.MonthlySummary[1].Month)
	assert.Equal(t, "908.50", got.MonthlySummary[1].Expense.StringFixed(2))
}

func TestSummarize_Empty(t *testing.T) {
	got := dashboard.Summarize(nil)

	assert.False(t, got.HasData)
	assert.True(t, got.TotalBalance.IsZero())
	assert.Empty(t, got.CategoryDistribution)
	assert.Empty(t, got.Timeline)
}

func TestSummary_Charts(t *testing.T) {
	got := dashboard.Summarize([]*transaction.Transaction{
		tx(1, "2024-01-02", transaction.TypeExpense, "10", category.Shopping),
		tx(2, "2024-01-03", transaction.TypeIncome, "20", category.Income),
	}).Charts()

	assert.Equal(t, []string{"Shopping"}, got.Categories.Labels)
	assert.Equal(t, []float64{10}, got.Categories.Values)
	assert.Equal(t, []string{"2024-01-03"}, got.Income.Labels)
	assert.Equal(t, []string{"2024-01-02"}, got.Expense.Labels)
	assert.Equal(t, []string{"2024-01"}, got.Months)
	assert.Equal(t, []float64{20}, got.MonthIn)
	assert.Equal(t, []float64{10}, got.MonthOut)
}

func TestService_Build(t *testing.T) {
	svc := dashboard.NewService(listerFunc(func(context.Context, transaction.ListFilter) ([]*transaction.Transaction, error) {
		return []*transaction.Transaction{tx(1, "2024-01-02", transaction.TypeIncome, "5", category.Income)}, nil
	}))

	got, err := svc.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5", got.TotalBalance.String())

	failing := dashboard.NewService(listerFunc(func(context.Context, transaction.ListFilter) ([]*transaction.Transaction, error) {
		return nil, errors.New("db down")
	}))

	_, err = failing.Build(context.Background())
	assert.Error(t, err)
}

package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Lister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type Service struct {
	txs Lister
}

func NewService(txs Lister) *Service {
	return &Service{txs: txs}
}

type CategoryTotal struct {
	Category category.Category
	Total    decimal.Decimal
}

type Point struct {
	Date   time.Time
	Type   transaction.Type
	Amount decimal.Decimal
}

type Month struct {
	Month   string // YYYY-MM
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Summary is everything the dashboard page renders.
type Summary struct {
	HasData              bool
	TotalBalance         decimal.Decimal
	CategoryDistribution []CategoryTotal
	Timeline             []Point
	MonthlySummary       []Month
	Transactions         []*transaction.Transaction
}

func (s *Service) Build(ctx context.Context) (*Summary, error) {
	txs, err := s.txs.List(ctx, transaction.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	return Summarize(txs), nil
}

// Summarize aggregates txs, which are expected in insertion order.
func Summarize(txs []*transaction.Transaction) *Summary {
	sum := &Summary{
		HasData:      len(txs) > 0,
		TotalBalance: decimal.Zero,
		Transactions: txs,
	}

	if !sum.HasData {
		return sum
	}

	var (
		byCategory = make(map[category.Category]decimal.Decimal)
		byMonth    = make(map[string]*Month)
	)

	for _, tx := range txs {
		sum.TotalBalance = sum.TotalBalance.Add(tx.Signed())

		key := tx.Date.Format("2006-01")

		m, ok := byMonth[key]
		if !ok {
			m = &Month{Month: key, Income: decimal.Zero, Expense: decimal.Zero}
			byMonth[key] = m
		}

		switch tx.Type {
		case transaction.TypeIncome:
			m.Income = m.Income.Add(tx.Amount)
		case transaction.TypeExpense:
			m.Expense = m.Expense.Add(tx.Amount)
			byCategory[tx.Category] = byCategory[tx.Category].Add(tx.Amount)
		}

		sum.Timeline = append(sum.Timeline, Point{Date: tx.Date, Type: tx.Type, Amount: tx.Amount})
	}

	sort.SliceStable(sum.Timeline, func(i, j int) bool {
		return sum.Timeline[i].Date.Before(sum.Timeline[j].Date)
	})

	for _, c := range category.All() {
		if total, ok := byCategory[c]; ok && !total.IsZero() {
			sum.CategoryDistribution = append(sum.CategoryDistribution, CategoryTotal{Category: c, Total: total})
		}
	}

	for _, m := range byMonth {
		sum.MonthlySummary = append(sum.MonthlySummary, *m)
	}

	sort.Slice(sum.MonthlySummary, func(i, j int) bool {
		return sum.MonthlySummary[i].Month < sum.MonthlySummary[j].Month
	})

	return sum
}

package dashboard

import (
	"time"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// LabelsAndValues is a single chart series.
type LabelsAndValues struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Charts holds the series the dashboard page feeds to Chart.js.
type Charts struct {
	Categories LabelsAndValues `json:"categories"`
	Income     LabelsAndValues `json:"income"`
	Expense    LabelsAndValues `json:"expense"`
	Months     []string        `json:"months"`
	MonthIn    []float64       `json:"month_income"`
	MonthOut   []float64       `json:"month_expense"`
}

func (s *Summary) Charts() Charts {
	var c Charts

	for _, ct := range s.CategoryDistribution {
		c.Categories.Labels = append(c.Categories.Labels, string(ct.Category))
		c.Categories.Values = append(c.Categories.Values, ct.Total.InexactFloat64())
	}

	for _, p := range s.Timeline {
		series := &c.Expense
		if p.Type == transaction.TypeIncome {
			series = &c.Income
		}

		series.Labels = append(series.Labels, p.Date.Format(time.DateOnly))
		series.Values = append(series.Values, p.Amount.InexactFloat64())
	}

	for _, m := range s.MonthlySummary {
		c.Months = append(c.Months, m.Month)
		c.MonthIn = append(c.MonthIn, m.Income.InexactFloat64())
		c.MonthOut = append(c.MonthOut, m.Expense.InexactFloat64())
	}

	return c
}

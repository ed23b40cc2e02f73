package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/dashboard"
)

const barWidth = 30

// SummaryModel is the terminal version of the web dashboard.
type SummaryModel struct {
	CommonModel
	dashboard *dashboard.Service

	summary *dashboard.Summary
	loading bool
	err     error
}

func NewSummaryModel(svc *dashboard.Service) SummaryModel {
	return SummaryModel{dashboard: svc, loading: true}
}

func (m SummaryModel) Title() string     { return "Summary" }
func (m SummaryModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m SummaryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryLoadedMsg:
		m.loading = false
		m.summary = msg.summary
		m.err = msg.err

		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m SummaryModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch {
	case m.loading:
		return style.Render("Loading summary...")
	case m.err != nil:
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case !m.summary.HasData:
		return style.Render("No transactions found\n\n" + faintStyle.Render(m.ShortHelp()))
	}

	balanceStyle := successStyle
	if m.summary.TotalBalance.IsNegative() {
		balanceStyle = errorStyle
	}

	title := lipgloss.NewStyle().Bold(true)

	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		title.Render("Total balance: ")+balanceStyle.Render(FormatAmount(m.summary.TotalBalance)),
		"",
		title.Render("Expenses by Category"),
		categoryBars(m.summary.CategoryDistribution),
		"",
		title.Render("Monthly Summary"),
		monthlyTable(m.summary.MonthlySummary),
		"",
		faintStyle.Render(m.ShortHelp()),
	))
}

func categoryBars(totals []dashboard.CategoryTotal) string {
	if len(totals) == 0 {
		return faintStyle.Render("  no expenses")
	}

	largest := decimal.Zero
	for _, ct := range totals {
		largest = decimal.Max(largest, ct.Total)
	}

	var b strings.Builder

	for _, ct := range totals {
		n := int(ct.Total.Div(largest).Mul(decimal.NewFromInt(barWidth)).Ceil().IntPart())
		fmt.Fprintf(&b, "  %-15s %s %s\n", ct.Category, activeStyle(strings.Repeat("█", n)), FormatAmount(ct.Total))
	}

	return strings.TrimRight(b.String(), "\n")
}

func monthlyTable(months []dashboard.Month) string {
	var b strings.Builder

	fmt.Fprintf(&b, "  %-8s %12s %12s %12s\n", "Month", "Income", "Expenses", "Net")

	for _, mo := range months {
		fmt.Fprintf(&b, "  %-8s %12s %12s %12s\n",
			mo.Month,
			FormatAmount(mo.Income),
			FormatAmount(mo.Expense),
			FormatAmount(mo.Income.Sub(mo.Expense)),
		)
	}

	return strings.TrimRight(b.String(), "\n")
}

type summaryLoadedMsg struct {
	summary *dashboard.Summary
	err     error
}

func (m SummaryModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		sum, err := m.dashboard.Build(ctx)

		return summaryLoadedMsg{summary: sum, err: err}
	}
}

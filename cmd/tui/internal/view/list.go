package view

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/dashboard"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateConfirmDelete
)

var (
	listTypes      = []*transaction.Type{nil, new(transaction.TypeExpense), new(transaction.TypeIncome)}
	listTimeframes = []Timeframe{TimeframeAll, TimeframeThisMonth, TimeframeLastMonth, TimeframeThisYear}
)

type ListModel struct {
	CommonModel
	txService *transaction.Service

	state listState
	table table.Model
	txs   []*transaction.Transaction

	typeIdx      int
	categoryIdx  int // 0 is all categories
	timeframeIdx int

	filter  transaction.ListFilter
	summary *dashboard.Summary
	loading bool
	err     error
	status  string
}

func NewListModel(txSvc *transaction.Service) ListModel {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Amount", Width: 12},
		{Title: "Category", Width: 16},
		{Title: "Description", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		txService: txSvc,
		table:     t,
		loading:   true,
	}
}

func (m ListModel) Title() string { return "Transactions" }

func (m ListModel) ShortHelp() string {
	if m.state == listStateConfirmDelete {
		return "y: delete | n/Esc: cancel"
	}

	return "Esc: back | d: delete | t: type | c: category | f: period | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.txs = msg.txs
		m.summary = dashboard.Summarize(msg.txs)
		m.refreshTable()

		return m, nil

	case deleteResultMsg:
		m.state = listStateBrowse

		switch {
		case msg.err != nil:
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
		case !msg.deleted:
			m.status = fmt.Sprintf("Transaction %d not found", msg.id)
		default:
			m.status = fmt.Sprintf("Deleted transaction %d", msg.id)
		}

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil
	}

	if m.state == listStateConfirmDelete {
		return m.updateConfirm(msg)
	}

	return m.updateBrowse(msg)
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "d":
			if m.selected() != nil {
				m.state = listStateConfirmDelete
			}

			return m, nil
		case "t":
			m.typeIdx = (m.typeIdx + 1) % len(listTypes)
			m.applyFilter()

			return m, m.loadTxsCmd()
		case "c":
			m.categoryIdx = (m.categoryIdx + 1) % (len(category.All()) + 1)
			m.applyFilter()

			return m, m.loadTxsCmd()
		case "f":
			m.timeframeIdx = (m.timeframeIdx + 1) % len(listTimeframes)
			m.applyFilter()

			return m, m.loadTxsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		tx := m.selected()
		if tx == nil {
			m.state = listStateBrowse
			return m, nil
		}

		return m, m.deleteCmd(tx.ID)
	case "n", "N", "esc":
		m.state = listStateBrowse
	}

	return m, nil
}

func (m ListModel) selected() *transaction.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	return m.txs[idx]
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s | [c] Category: %s | [f] Period: %s",
		activeStyle(m.typeLabel()),
		activeStyle(m.categoryLabel()),
		activeStyle(listTimeframes[m.timeframeIdx].String()),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		m.balanceView(),
	)

	if m.state == listStateConfirmDelete {
		if tx := m.selected(); tx != nil {
			panel := lipgloss.NewStyle().
				Padding(1, 2).
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("196")).
				Render(fmt.Sprintf("Delete transaction %d?\n\n%s  %s  %s\n\n(y/n)",
					tx.ID, FormatDate(tx.Date), FormatAmount(tx.Amount), tx.Description))

			content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
		}
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n" + faintStyle.Render(m.ShortHelp()))
}

// balanceView summarises the rows currently shown.
func (m ListModel) balanceView() string {
	if m.summary == nil || !m.summary.HasData {
		return faintStyle.Render("No transactions found")
	}

	income, expense := decimal.Zero, decimal.Zero

	for _, month := range m.summary.MonthlySummary {
		income = income.Add(month.Income)
		expense = expense.Add(month.Expense)
	}

	balanceStyle := successStyle
	if m.summary.TotalBalance.IsNegative() {
		balanceStyle = errorStyle
	}

	return fmt.Sprintf("Income: %s | Expenses: %s | Balance: %s",
		FormatAmount(income), FormatAmount(expense), balanceStyle.Render(FormatAmount(m.summary.TotalBalance)))
}

func (m ListModel) typeLabel() string {
	if t := listTypes[m.typeIdx]; t != nil {
		return string(*t)
	}

	return "All"
}

func (m ListModel) categoryLabel() string {
	if m.categoryIdx == 0 {
		return "All"
	}

	return string(category.All()[m.categoryIdx-1])
}

func (m *ListModel) applyFilter() {
	m.filter.Type = listTypes[m.typeIdx]

	m.filter.Category = nil
	if m.categoryIdx > 0 {
		m.filter.Category = new(category.All()[m.categoryIdx-1])
	}

	start, end, ok := listTimeframes[m.timeframeIdx].Range(time.Now())
	if ok {
		m.filter.StartDate, m.filter.EndDate = &start, &end
	} else {
		m.filter.StartDate, m.filter.EndDate = nil, nil
	}
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			strconv.FormatInt(tx.ID, 10),
			FormatDate(tx.Date),
			string(tx.Type),
			FormatAmount(tx.Amount),
			string(tx.Category),
			tx.Description,
		})
	}

	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// Messages

type loadListMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, filter)

		return loadListMsg{txs: txs, err: err}
	}
}

type deleteResultMsg struct {
	id      int64
	deleted bool
	err     error
}

func (m ListModel) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		deleted, err := m.txService.Delete(ctx, id)

		return deleteResultMsg{id: id, deleted: deleted, err: err}
	}
}

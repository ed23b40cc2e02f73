package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type addState int

const (
	addStateForm addState = iota
	addStateSaving
	addStateResult
)

// addFields lives on the heap so the form bindings survive model copies.
type addFields struct {
	description string
	amount      string
	kind        string
	date        string
}

type AddModel struct {
	CommonModel
	txService *transaction.Service

	state   addState
	form    *huh.Form
	fields  *addFields
	spinner spinner.Model

	tx  *transaction.Transaction
	err error
}

func NewAddModel(txSvc *transaction.Service) AddModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := AddModel{
		txService: txSvc,
		spinner:   s,
	}
	m.reset()

	return m
}

func (m *AddModel) reset() {
	m.state = addStateForm
	m.tx = nil
	m.err = nil
	m.fields = &addFields{
		kind: string(transaction.TypeExpense),
		date: FormatDate(time.Now()),
	}
	m.form = buildAddForm(m.fields)
}

func buildAddForm(f *addFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Placeholder("netflix subscription").
				Value(&f.description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("description cannot be empty")
					}

					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("15.99").
				Value(&f.amount).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil {
						return errors.New("amount must be a number")
					}

					if !d.Round(2).IsPositive() {
						return transaction.ErrInvalidAmount
					}

					return nil
				}),

			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(huh.NewOptions(string(transaction.TypeExpense), string(transaction.TypeIncome))...).
				Value(&f.kind),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.date).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return errors.New("date must be YYYY-MM-DD")
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m AddModel) Title() string { return "Add Transaction" }

func (m AddModel) ShortHelp() string {
	if m.state == addStateResult {
		return "Enter: add another | Esc: back"
	}

	return "Tab: next field | Esc: back"
}

func (m AddModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(addResultMsg); ok {
		m.state = addStateResult
		m.tx = result.tx
		m.err = result.err

		return m, nil
	}

	switch m.state {
	case addStateForm:
		return m.updateForm(msg)
	case addStateSaving:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case addStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.Type {
			case tea.KeyEsc:
				return m, Back
			case tea.KeyEnter:
				m.reset()
				return m, m.form.Init()
			}
		}
	}

	return m, nil
}

func (m AddModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = addStateSaving

	return m, tea.Batch(m.spinner.Tick, m.createCmd(*m.fields))
}

func (m AddModel) View() string {
	switch m.state {
	case addStateSaving:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Categorizing and saving...", m.spinner.View()),
		)
	case addStateResult:
		return m.viewResult()
	}

	return lipgloss.NewStyle().Padding(1).Render("Add Transaction\n\n" + m.form.View())
}

func (m AddModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + faintStyle.Render(m.ShortHelp()))
	}

	details := fmt.Sprintf("#%d  %s  %s  %s %s",
		m.tx.ID, FormatDate(m.tx.Date), m.tx.Description, m.tx.Type, FormatAmount(m.tx.Amount))

	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		successStyle.Render(fmt.Sprintf("Added (Category: %s)", m.tx.Category)),
		"",
		details,
		"",
		faintStyle.Render(m.ShortHelp()),
	))
}

type addResultMsg struct {
	tx  *transaction.Transaction
	err error
}

func (m AddModel) createCmd(f addFields) tea.Cmd {
	return func() tea.Msg {
		amount, err := decimal.NewFromString(strings.TrimSpace(f.amount))
		if err != nil {
			return addResultMsg{err: transaction.ErrInvalidAmount}
		}

		date, err := time.Parse(time.DateOnly, strings.TrimSpace(f.date))
		if err != nil {
			return addResultMsg{err: transaction.ErrMissingDate}
		}

		ctx, cancel := context.WithTimeout(context.Background(), classifyTimeout)
		defer cancel()

		tx, err := m.txService.Create(ctx, transaction.CreateParams{
			Date:        date,
			Description: f.description,
			Type:        transaction.Type(f.kind),
			Amount:      amount,
		})

		return addResultMsg{tx: tx, err: err}
	}
}

package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/category"
)

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrMissingDate   = errors.New("transaction date is required")
)

// Type represents the direction of a transaction.
type Type string

const (
	TypeExpense Type = "Expense"
	TypeIncome  Type = "Income"
)

func (t Type) Valid() bool {
	return t == TypeExpense || t == TypeIncome
}

// ParseType accepts only the canonical values.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", ErrInvalidType
	}

	return t, nil
}

// Transaction is immutable once stored.
type Transaction struct {
	ID          int64
	Date        time.Time
	Description string
	Type        Type
	Amount      decimal.Decimal
	Category    category.Category
	CreatedAt   time.Time
}

// Signed returns the amount as it affects the balance.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}

	return t.Amount
}

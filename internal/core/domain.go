package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Monthly BudgetPeriod = "monthly"
	Yearly  BudgetPeriod = "yearly"
)

// DefaultAccount is used when the caller does not name an account.
const DefaultAccount = "default"

type (
	TransactionType string

	BudgetPeriod string

	// Transaction is a single income or expense entry. Amount is always a
	// non-negative magnitude; the sign is implied by Type.
	Transaction struct {
		ID          string          `json:"id"`
		AccountID   string          `json:"accountId"`
		Amount      decimal.Decimal `json:"amount"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Date        time.Time       `json:"date"`
		Type        TransactionType `json:"type"`
	}

	// BudgetDefinition is a planned spending cap for one category.
	BudgetDefinition struct {
		ID       string          `json:"id"`
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"budgetAmount"`
		Period   BudgetPeriod    `json:"period"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidPeriod    = errors.New("invalid budget period")
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

func (p BudgetPeriod) IsValid() bool {
	return p == Monthly || p == Yearly
}

// IsExpense is a convenience for t.Type == Expense.
func (t Transaction) IsExpense() bool {
	return t.Type == Expense
}

func (t Transaction) IsIncome() bool {
	return t.Type == Income
}

// Validate checks a user-entered transaction before it is stored.
// Stored transactions may carry a zero amount, new ones may not.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (b BudgetDefinition) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if !b.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !b.Period.IsValid() {
		return ErrInvalidPeriod
	}
	return nil
}

// NewDate returns midnight UTC of the given calendar day.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

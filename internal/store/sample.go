package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

type sampleTx struct {
	daysAgo     int
	amount      int64
	category    string
	description string
	typ         core.TransactionType
}

var sampleTransactions = []sampleTx{
	{0, 5000, "Salary", "Monthly salary", core.Income},
	{0, 1200, "Housing", "Rent payment", core.Expense},
	{2, 300, "Groceries", "Weekly groceries", core.Expense},
	{4, 150, "Transportation", "Gas and parking", core.Expense},
	{7, 80, "Entertainment", "Movie tickets", core.Expense},
	{9, 250, "Utilities", "Electric and water", core.Expense},
	{11, 200, "Groceries", "Weekly groceries", core.Expense},
	{14, 500, "Freelance", "Side project payment", core.Income},
	{17, 120, "Entertainment", "Dinner out", core.Expense},
	{19, 60, "Transportation", "Public transport", core.Expense},
	{32, 5000, "Salary", "Monthly salary", core.Income},
	{32, 1200, "Housing", "Rent payment", core.Expense},
	{34, 280, "Groceries", "Weekly groceries", core.Expense},
	{36, 100, "Transportation", "Gas", core.Expense},
	{40, 200, "Utilities", "Electric and water", core.Expense},
}

// SampleTransactions returns the demo ledger for account, dated relative to
// now so the current and previous month both have data.
func SampleTransactions(accountID string, now time.Time) []core.Transaction {
	out := make([]core.Transaction, 0, len(sampleTransactions))
	for i, s := range sampleTransactions {
		out = append(out, core.Transaction{
			ID:          fmt.Sprintf("sample-%s-%d", accountID, i+1),
			AccountID:   accountID,
			Amount:      decimal.NewFromInt(s.amount),
			Category:    s.category,
			Description: s.description,
			Date:        now.AddDate(0, 0, -s.daysAgo),
			Type:        s.typ,
		})
	}
	return out
}

// SampleBudgets returns the demo monthly budgets.
func SampleBudgets() []core.BudgetDefinition {
	b := func(id, category string, amount int64) core.BudgetDefinition {
		return core.BudgetDefinition{ID: id, Category: category, Amount: decimal.NewFromInt(amount), Period: core.Monthly}
	}
	return []core.BudgetDefinition{
		b("1", "Housing", 1500),
		b("2", "Groceries", 400),
		b("3", "Transportation", 200),
		b("4", "Entertainment", 200),
		b("5", "Utilities", 300),
	}
}

// Seeder is the write side needed to load sample data.
type Seeder interface {
	TransactionLister
	TransactionWriter
	BudgetWriter
}

// Seed loads the sample ledger into s unless the account already has
// transactions. It reports whether anything was written.
func Seed(ctx context.Context, s Seeder, accountID string, now time.Time) (bool, error) {
	existing, err := s.ListTransactions(ctx, accountID)
	if err != nil {
		return false, fmt.Errorf("seed: list transactions: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}
	for _, tx := range SampleTransactions(accountID, now) {
		if err := s.CreateTransaction(ctx, tx); err != nil {
			return false, fmt.Errorf("seed: create transaction %s: %w", tx.ID, err)
		}
	}
	for _, b := range SampleBudgets() {
		if err := s.UpsertBudget(ctx, accountID, b); err != nil {
			return false, fmt.Errorf("seed: upsert budget %s: %w", b.Category, err)
		}
	}
	return true, nil
}

package advisor

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finboard/internal/analytics"
	"finboard/internal/core"
)

// FinancialContext is the snapshot of the user's finances that accompanies
// a chat message. Zero fields are treated as unknown.
type FinancialContext struct {
	TotalBalance    *decimal.Decimal `json:"totalBalance,omitempty"`
	MonthlyIncome   decimal.Decimal  `json:"monthlyIncome"`
	MonthlyExpenses decimal.Decimal  `json:"monthlyExpenses"`
	SavingsGoal     decimal.Decimal  `json:"savingsGoal"`
	CurrentSavings  decimal.Decimal  `json:"currentSavings"`
	Budgets         []BudgetSnapshot `json:"budgets,omitempty"`
}

type BudgetSnapshot struct {
	Category string          `json:"category"`
	Budgeted decimal.Decimal `json:"budgeted"`
	Spent    decimal.Decimal `json:"spent"`
}

var (
	budgetAlertRatio = decimal.RequireFromString("0.8")
	hundred          = decimal.NewFromInt(100)
)

// Surplus is monthly income minus monthly expenses.
func (fc FinancialContext) Surplus() decimal.Decimal {
	return fc.MonthlyIncome.Sub(fc.MonthlyExpenses)
}

// SavingsProgress is current savings as a percentage of the goal, and false
// when either is unknown.
func (fc FinancialContext) SavingsProgress() (float64, bool) {
	if fc.CurrentSavings.IsZero() || fc.SavingsGoal.IsZero() {
		return 0, false
	}
	return fc.CurrentSavings.Mul(hundred).Div(fc.SavingsGoal).InexactFloat64(), true
}

// StrainedBudgets lists budgets where spending passed 80% of the plan.
func (fc FinancialContext) StrainedBudgets() []BudgetSnapshot {
	var out []BudgetSnapshot
	for _, b := range fc.Budgets {
		if b.Spent.GreaterThan(b.Budgeted.Mul(budgetAlertRatio)) {
			out = append(out, b)
		}
	}
	return out
}

// Summary renders the context as the sentence sent to the model. A nil
// context yields an empty string.
func (fc *FinancialContext) Summary() string {
	if fc == nil {
		return ""
	}
	var b strings.Builder

	if fc.TotalBalance != nil {
		fmt.Fprintf(&b, "User has a total balance of %s. ", core.FormatUSD(*fc.TotalBalance))
	}
	if !fc.MonthlyIncome.IsZero() && !fc.MonthlyExpenses.IsZero() {
		fmt.Fprintf(&b, "Monthly income: %s, expenses: %s, surplus: %s. ",
			core.FormatUSD(fc.MonthlyIncome), core.FormatUSD(fc.MonthlyExpenses), core.FormatUSD(fc.Surplus()))
	}
	if progress, ok := fc.SavingsProgress(); ok {
		fmt.Fprintf(&b, "Savings progress: %.1f%% of %s goal. ", progress, core.FormatUSD(fc.SavingsGoal))
	}
	if strained := fc.StrainedBudgets(); len(strained) > 0 {
		names := make([]string, 0, len(strained))
		for _, s := range strained {
			names = append(names, s.Category)
		}
		fmt.Fprintf(&b, "Near or over budget in: %s. ", strings.Join(names, ", "))
	}
	return strings.TrimSpace(b.String())
}

// ContextFromReport derives a context from a dashboard report: the balance
// across every month, the selected period's income and expenses, and the
// evaluated budgets. Savings figures stay unknown.
func ContextFromReport(rep analytics.Report) FinancialContext {
	balance := decimal.Zero
	for _, m := range rep.Monthly {
		balance = balance.Add(m.Balance)
	}

	budgets := make([]BudgetSnapshot, 0, len(rep.Budgets))
	for _, s := range rep.Budgets {
		budgets = append(budgets, BudgetSnapshot{Category: s.Category, Budgeted: s.Amount, Spent: s.Spent})
	}

	return FinancialContext{
		TotalBalance:    &balance,
		MonthlyIncome:   rep.Summary.Income,
		MonthlyExpenses: rep.Summary.Expenses,
		Budgets:         budgets,
	}
}

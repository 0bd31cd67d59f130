package analytics

import (
	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

// Summary holds the period totals and their change against the prior period.
// IncomeChange and ExpenseChange are percentages; BalanceChange is the
// absolute difference of the two net balances.
type Summary struct {
	Income        decimal.Decimal `json:"income"`
	Expenses      decimal.Decimal `json:"expenses"`
	Balance       decimal.Decimal `json:"balance"`
	IncomeChange  float64         `json:"incomeChange"`
	ExpenseChange float64         `json:"expenseChange"`
	BalanceChange decimal.Decimal `json:"balanceChange"`
}

// Totals sums income and expenses of txs.
func Totals(txs []core.Transaction) (income, expenses decimal.Decimal) {
	income, expenses = decimal.Zero, decimal.Zero
	for _, t := range txs {
		switch t.Type {
		case core.Income:
			income = income.Add(t.Amount)
		case core.Expense:
			expenses = expenses.Add(t.Amount)
		}
	}
	return income, expenses
}

// Summarize computes the current period totals and compares them with the
// previous period. A zero previous value yields a change of 0.
func Summarize(current, previous []core.Transaction) Summary {
	income, expenses := Totals(current)
	prevIncome, prevExpenses := Totals(previous)

	balance := income.Sub(expenses)
	prevBalance := prevIncome.Sub(prevExpenses)

	return Summary{
		Income:        income,
		Expenses:      expenses,
		Balance:       balance,
		IncomeChange:  percentChange(income, prevIncome),
		ExpenseChange: percentChange(expenses, prevExpenses),
		BalanceChange: balance.Sub(prevBalance),
	}
}

func percentChange(cur, prev decimal.Decimal) float64 {
	if !prev.IsPositive() {
		return 0
	}
	return cur.Sub(prev).Mul(hundred).Div(prev).InexactFloat64()
}

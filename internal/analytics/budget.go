package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

const (
	BudgetGood    BudgetState = "good"
	BudgetWarning BudgetState = "warning"
	BudgetOver    BudgetState = "over"
)

var warningRatio = decimal.RequireFromString("0.8")

type BudgetState string

// BudgetStatus is a budget definition joined with the actual spend.
type BudgetStatus struct {
	core.BudgetDefinition
	Spent      decimal.Decimal `json:"spentAmount"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
	Status     BudgetState     `json:"status"`
}

// EvaluateBudgets computes the spend of every definition against the expense
// transactions in txs, which the caller has already narrowed to the current
// period. The output follows the order of defs. A definition with a
// non-positive amount fails the whole call with ErrInvalidBudget.
func EvaluateBudgets(defs []core.BudgetDefinition, txs []core.Transaction) ([]BudgetStatus, error) {
	spent := map[string]decimal.Decimal{}
	for _, t := range txs {
		if !t.IsExpense() {
			continue
		}
		if cur, ok := spent[t.Category]; ok {
			spent[t.Category] = cur.Add(t.Amount)
		} else {
			spent[t.Category] = t.Amount
		}
	}

	out := make([]BudgetStatus, 0, len(defs))
	for _, d := range defs {
		if !d.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: budget %q for %q has amount %s", ErrInvalidBudget, d.ID, d.Category, d.Amount)
		}
		s, ok := spent[d.Category]
		if !ok {
			s = decimal.Zero
		}
		out = append(out, BudgetStatus{
			BudgetDefinition: d,
			Spent:            s,
			Remaining:        d.Amount.Sub(s),
			Percentage:       percentOf(s, d.Amount),
			Status:           budgetState(s, d.Amount),
		})
	}
	return out, nil
}

func budgetState(spent, budget decimal.Decimal) BudgetState {
	switch {
	case spent.GreaterThan(budget):
		return BudgetOver
	case spent.GreaterThan(budget.Mul(warningRatio)):
		return BudgetWarning
	default:
		return BudgetGood
	}
}

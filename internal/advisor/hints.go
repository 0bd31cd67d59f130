package advisor

import (
	"fmt"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

const (
	savingsCelebrationPct = 25.0
)

var surplusTipFloor = decimal.NewFromInt(500)

// Hint is a short profile observation shown next to the chat.
type Hint struct {
	Type     ResponseType `json:"type"`
	Category string       `json:"category,omitempty"`
	Message  string       `json:"message"`
}

// ProfileHints flags budgets above 80% use, celebrates savings of at least
// 25% of the goal, and suggests saving more when the period's surplus exceeds
// $500. Hints come in that order.
func ProfileHints(fc FinancialContext) []Hint {
	hints := make([]Hint, 0)

	for _, b := range fc.Budgets {
		if !b.Budgeted.IsPositive() {
			continue
		}
		pct := b.Spent.Mul(hundred).Div(b.Budgeted).InexactFloat64()
		if pct > 80 {
			hints = append(hints, Hint{
				Type:     ResponseAlert,
				Category: b.Category,
				Message:  fmt.Sprintf("You've spent %.1f%% of your %s budget for this period.", pct, b.Category),
			})
		}
	}

	if progress, ok := fc.SavingsProgress(); ok && progress >= savingsCelebrationPct {
		hints = append(hints, Hint{
			Type:    ResponseCelebration,
			Message: fmt.Sprintf("Great job! You've saved %.1f%% towards your savings goal!", progress),
		})
	}

	if surplus := fc.Surplus(); surplus.GreaterThan(surplusTipFloor) {
		hints = append(hints, Hint{
			Type:    ResponseTip,
			Message: fmt.Sprintf("You have a healthy surplus of %s for this period. Consider increasing your savings rate!", core.FormatUSD(surplus)),
		})
	}
	return hints
}

package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

const (
	InsightWarning    InsightKind = "warning"
	InsightSuggestion InsightKind = "suggestion"
	InsightInfo       InsightKind = "info"
)

const (
	// MaxInsights caps the number of insights returned by GenerateInsights.
	MaxInsights = 5

	recurringMinCount   = 3
	savingsShareCeiling = 15.0
)

var increaseRatio = decimal.RequireFromString("1.2")

type InsightKind string

// Insight is a generated observation about spending behaviour.
type Insight struct {
	ID          string           `json:"id"`
	Kind        InsightKind      `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category,omitempty"`
	Impact      *decimal.Decimal `json:"impact,omitempty"`
}

// GenerateInsights compares the current period against the previous one.
//
// Insights are produced in three phases: spending increases above 20% for
// categories present in both periods, categories with at least three
// transactions, and categories above 15% of current expenses. The combined
// list is cut to MaxInsights in phase order, not by severity.
func GenerateInsights(current, previous []core.Transaction) []Insight {
	cur := SummarizeByCategory(current)
	prev := SummarizeByCategory(previous)

	prevByCategory := make(map[string]CategorySummary, len(prev))
	for _, p := range prev {
		prevByCategory[p.Category] = p
	}

	var out []Insight

	for _, c := range cur {
		p, ok := prevByCategory[c.Category]
		if !ok || !c.TotalAmount.GreaterThan(p.TotalAmount.Mul(increaseRatio)) {
			continue
		}
		impact := c.TotalAmount.Sub(p.TotalAmount)
		increase := impact.Mul(hundred).Div(p.TotalAmount).InexactFloat64()
		out = append(out, Insight{
			ID:          "increase-" + c.Category,
			Kind:        InsightWarning,
			Title:       "Increased spending in " + c.Category,
			Description: fmt.Sprintf("Your %s spending increased by %.1f%% compared to last period.", c.Category, increase),
			Category:    c.Category,
			Impact:      &impact,
		})
	}

	for _, c := range cur {
		if c.TransactionCount < recurringMinCount {
			continue
		}
		out = append(out, Insight{
			ID:    "recurring-" + c.Category,
			Kind:  InsightInfo,
			Title: "Regular " + c.Category + " expenses",
			Description: fmt.Sprintf("You have %d transactions in %s totaling %s.",
				c.TransactionCount, c.Category, core.FormatUSD(c.TotalAmount)),
			Category: c.Category,
		})
	}

	for _, c := range cur {
		if c.Percentage <= savingsShareCeiling {
			continue
		}
		out = append(out, Insight{
			ID:    "savings-" + c.Category,
			Kind:  InsightSuggestion,
			Title: "Consider budgeting for " + c.Category,
			Description: fmt.Sprintf("%s represents %.1f%% of your expenses. Setting a budget could help optimize spending.",
				c.Category, c.Percentage),
			Category: c.Category,
		})
	}

	if len(out) > MaxInsights {
		out = out[:MaxInsights]
	}
	if out == nil {
		return []Insight{}
	}
	return out
}

package analytics

import (
	"time"

	"finboard/internal/core"
)

// Report bundles every dashboard view for one period selection.
type Report struct {
	Period       DateRange          `json:"period"`
	Previous     DateRange          `json:"previousPeriod"`
	Transactions []core.Transaction `json:"transactions"`
	Summary      Summary            `json:"summary"`
	Categories   []CategorySummary  `json:"categories"`
	Monthly      []MonthlyDatum     `json:"monthly"`
	Budgets      []BudgetStatus     `json:"budgets"`
	Insights     []Insight          `json:"insights"`
}

// BuildReport resolves the selector at now, splits txs into the current and
// previous windows and derives every view. Monthly data covers all of txs,
// not only the selected period. Any error aborts the whole report.
func BuildReport(txs []core.Transaction, sel PeriodSelector, budgets []core.BudgetDefinition, now time.Time) (Report, error) {
	period, err := Resolve(sel, now)
	if err != nil {
		return Report{}, err
	}
	prevPeriod := period.Previous()

	current := FilterByRange(txs, period)
	previous := FilterByRange(txs, prevPeriod)

	statuses, err := EvaluateBudgets(budgets, current)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Period:       period,
		Previous:     prevPeriod,
		Transactions: current,
		Summary:      Summarize(current, previous),
		Categories:   SummarizeByCategory(current),
		Monthly:      SummarizeByMonth(txs),
		Budgets:      statuses,
		Insights:     GenerateInsights(current, previous),
	}, nil
}

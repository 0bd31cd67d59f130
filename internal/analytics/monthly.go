package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

// MonthlyDatum sums one calendar month of transactions.
type MonthlyDatum struct {
	Label    string          `json:"month"`
	Year     int             `json:"year"`
	Month    time.Month      `json:"monthNumber"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

type monthKey struct {
	year  int
	month time.Month
}

func (k monthKey) before(o monthKey) bool {
	if k.year != o.year {
		return k.year < o.year
	}
	return k.month < o.month
}

// SummarizeByMonth groups all transactions by the (year, month) of their date
// and returns the groups in calendar order.
func SummarizeByMonth(txs []core.Transaction) []MonthlyDatum {
	groups := map[monthKey]*MonthlyDatum{}
	keys := make([]monthKey, 0)
	for _, t := range txs {
		k := monthKey{year: t.Date.Year(), month: t.Date.Month()}
		g, ok := groups[k]
		if !ok {
			g = &MonthlyDatum{
				Label:    time.Date(k.year, k.month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006"),
				Year:     k.year,
				Month:    k.month,
				Income:   decimal.Zero,
				Expenses: decimal.Zero,
			}
			groups[k] = g
			keys = append(keys, k)
		}
		switch t.Type {
		case core.Income:
			g.Income = g.Income.Add(t.Amount)
		case core.Expense:
			g.Expenses = g.Expenses.Add(t.Amount)
		}
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].before(keys[j]) })

	out := make([]MonthlyDatum, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		g.Balance = g.Income.Sub(g.Expenses)
		out = append(out, *g)
	}
	return out
}

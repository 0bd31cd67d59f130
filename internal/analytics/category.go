package analytics

import (
	"hash/fnv"
	"sort"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Palette is the ordered set of chart colors handed out to categories.
var Palette = []string{
	"#3b82f6", "#ef4444", "#10b981", "#f59e0b", "#8b5cf6",
	"#06b6d4", "#84cc16", "#f97316", "#ec4899", "#6366f1",
}

// CategorySummary is the per-category rollup of expense transactions.
type CategorySummary struct {
	Category         string          `json:"category"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	TransactionCount int             `json:"transactionCount"`
	Percentage       float64         `json:"percentage"`
	Color            string          `json:"color"`
}

// SummarizeByCategory groups expense transactions by their literal category
// and returns one entry per category sorted by descending total.
//
// Colors follow the order in which categories are first seen in txs, so the
// same category keeps its color across calls only while the iteration order
// and the category set are unchanged. Use ColorForCategory when a color must
// not depend on the input.
func SummarizeByCategory(txs []core.Transaction) []CategorySummary {
	var (
		index = map[string]int{}
		total = decimal.Zero
		out   []CategorySummary
	)
	for _, t := range txs {
		if !t.IsExpense() {
			continue
		}
		total = total.Add(t.Amount)
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, CategorySummary{
				Category:    t.Category,
				TotalAmount: decimal.Zero,
				Color:       Palette[i%len(Palette)],
			})
		}
		out[i].TotalAmount = out[i].TotalAmount.Add(t.Amount)
		out[i].TransactionCount++
	}
	if len(out) == 0 {
		return []CategorySummary{}
	}

	for i := range out {
		out[i].Percentage = percentOf(out[i].TotalAmount, total)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].TotalAmount.GreaterThan(out[b].TotalAmount)
	})
	return out
}

// ColorForCategory maps a category name to a palette entry by hashing the
// name, independent of any transaction ordering.
func ColorForCategory(category string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(category))
	return Palette[h.Sum32()%uint32(len(Palette))]
}

// percentOf returns part/whole*100, or 0 when whole is zero.
func percentOf(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Mul(hundred).Div(whole).InexactFloat64()
}

package analytics

import "finboard/internal/core"

// FilterByRange returns the transactions dated within r, bounds included, in
// input order. The input slice is not modified.
func FilterByRange(txs []core.Transaction, r DateRange) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if r.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

// FilterByType keeps the transactions of the given type.
func FilterByType(txs []core.Transaction, typ core.TransactionType) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}

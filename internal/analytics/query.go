package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

const (
	SortByDate        SortField = "date"
	SortByAmount      SortField = "amount"
	SortByDescription SortField = "description"
	SortByCategory    SortField = "category"
)

// DefaultPageSize matches the transaction history table.
const DefaultPageSize = 10

type SortField string

// QueryOptions narrows and orders a transaction list. Zero values disable the
// corresponding filter; a zero Page returns every match.
type QueryOptions struct {
	Type      core.TransactionType
	Category  string
	Search    string
	Range     *DateRange
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal

	SortBy    SortField
	Ascending bool

	Page     int
	PageSize int
}

// QueryResult is one page of matches plus the totals needed for paging.
type QueryResult struct {
	Items      []core.Transaction `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}

// Query filters, sorts and pages txs. The default order is newest first.
// Sorting is stable so equal keys keep their input order.
func Query(txs []core.Transaction, opts QueryOptions) QueryResult {
	search := strings.ToLower(strings.TrimSpace(opts.Search))

	matched := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if opts.Type != "" && t.Type != opts.Type {
			continue
		}
		if opts.Category != "" && t.Category != opts.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Description), search) &&
			!strings.Contains(strings.ToLower(t.Category), search) {
			continue
		}
		if opts.Range != nil && !opts.Range.Contains(t.Date) {
			continue
		}
		if opts.MinAmount != nil && t.Amount.LessThan(*opts.MinAmount) {
			continue
		}
		if opts.MaxAmount != nil && t.Amount.GreaterThan(*opts.MaxAmount) {
			continue
		}
		matched = append(matched, t)
	}

	sortTransactions(matched, opts.SortBy, opts.Ascending)

	res := QueryResult{Total: len(matched)}
	if opts.Page <= 0 {
		res.Items = matched
		res.Page = 1
		res.PageSize = len(matched)
		if len(matched) > 0 {
			res.TotalPages = 1
		}
		return res
	}

	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	res.Page = opts.Page
	res.PageSize = size
	if len(matched) > 0 {
		res.TotalPages = (len(matched)-1)/size + 1
	}

	if opts.Page-1 >= res.TotalPages {
		res.Items = []core.Transaction{}
		return res
	}
	start := (opts.Page - 1) * size
	end := min(start+size, len(matched))
	res.Items = matched[start:end]
	return res
}

func sortTransactions(txs []core.Transaction, field SortField, asc bool) {
	if field == "" {
		field = SortByDate
	}
	compare := func(a, b core.Transaction) int {
		switch field {
		case SortByAmount:
			return a.Amount.Cmp(b.Amount)
		case SortByDescription:
			return strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
		case SortByCategory:
			return strings.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category))
		default:
			return a.Date.Compare(b.Date)
		}
	}
	sort.SliceStable(txs, func(i, j int) bool {
		c := compare(txs[i], txs[j])
		if asc {
			return c < 0
		}
		return c > 0
	})
}

// ParseSortField maps a query value to a SortField, falling back to date.
func ParseSortField(s string) SortField {
	switch f := SortField(strings.ToLower(s)); f {
	case SortByAmount, SortByDescription, SortByCategory:
		return f
	default:
		return SortByDate
	}
}

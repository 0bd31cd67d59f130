package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"finboard/internal/analytics"
	"finboard/internal/core"
	"finboard/internal/services"
)

func NewTxCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction"},
		Short:   "Add and list transactions",
	}

	cmd.AddCommand(
		newTxAddCmd(opts),
		newTxListCmd(opts),
	)

	return cmd
}

func newTxAddCmd(opts *RootOptions) *cobra.Command {
	var (
		amount      string
		txType      string
		category    string
		description string
		date        string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := core.ParseAmount(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", amount, err)
			}

			in := services.NewTransaction{
				AccountID:   opts.Account,
				Amount:      value,
				Category:    category,
				Description: description,
				Type:        core.TransactionType(strings.ToLower(strings.TrimSpace(txType))),
			}
			if date != "" {
				if in.Date, err = time.ParseInLocation(analytics.DayLayout, date, opts.location()); err != nil {
					return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
				}
			}

			tx, err := opts.ledger.CreateTransaction(cmd.Context(), in)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.Output == FormatJSON {
				return writeJSON(w, map[string]any{"transaction": tx})
			}
			fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("Recorded %s of %s in %s (%s)",
				tx.Type, core.FormatUSD(tx.Amount), tx.Category, tx.ID)))
			return nil
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 12.50")
	cmd.Flags().StringVar(&txType, "type", string(core.Expense), "Transaction type: income|expense")
	cmd.Flags().StringVar(&category, "category", "", "Category name")
	cmd.Flags().StringVar(&description, "description", "", "Short description")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD), defaults to today")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

type txListFlags struct {
	txType    string
	category  string
	search    string
	sortBy    string
	ascending bool
	start     string
	end       string
	min       string
	max       string
	page      int
	pageSize  int
}

func newTxListCmd(opts *RootOptions) *cobra.Command {
	var f txListFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions with filters, sorting and paging",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := f.options(opts.location())
			if err != nil {
				return err
			}
			txs, err := opts.ledger.ListTransactions(cmd.Context(), opts.Account)
			if err != nil {
				return err
			}
			res := analytics.Query(txs, q)

			w := cmd.OutOrStdout()
			if opts.Output == FormatJSON {
				return writeJSON(w, res)
			}
			printTransactions(w, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.txType, "type", "", "Only income or expense")
	cmd.Flags().StringVar(&f.category, "category", "", "Only this category")
	cmd.Flags().StringVar(&f.search, "search", "", "Match description or category")
	cmd.Flags().StringVar(&f.sortBy, "sort", string(analytics.SortByDate), "Sort by date|amount|description|category")
	cmd.Flags().BoolVar(&f.ascending, "asc", false, "Sort ascending")
	cmd.Flags().StringVar(&f.start, "start", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "Last day (YYYY-MM-DD), inclusive")
	cmd.Flags().StringVar(&f.min, "min", "", "Minimum amount")
	cmd.Flags().StringVar(&f.max, "max", "", "Maximum amount")
	cmd.Flags().IntVar(&f.page, "page", 1, "Page number; 0 lists every match")
	cmd.Flags().IntVar(&f.pageSize, "page-size", analytics.DefaultPageSize, "Rows per page")

	return cmd
}

func (f txListFlags) options(loc *time.Location) (analytics.QueryOptions, error) {
	q := analytics.QueryOptions{
		Category:  strings.TrimSpace(f.category),
		Search:    strings.TrimSpace(f.search),
		SortBy:    analytics.ParseSortField(f.sortBy),
		Ascending: f.ascending,
		Page:      f.page,
		PageSize:  f.pageSize,
	}
	if f.page < 0 || f.pageSize < 1 {
		return analytics.QueryOptions{}, fmt.Errorf("invalid paging: page %d, page size %d", f.page, f.pageSize)
	}

	if t := core.TransactionType(strings.ToLower(strings.TrimSpace(f.txType))); t != "" {
		if !t.IsValid() {
			return analytics.QueryOptions{}, fmt.Errorf("invalid --type %q: want income|expense", f.txType)
		}
		q.Type = t
	}

	if f.start != "" || f.end != "" {
		sel, err := analytics.ParseSelector(string(analytics.PeriodCustom), f.start, f.end, loc)
		if err != nil {
			return analytics.QueryOptions{}, err
		}
		r := analytics.DateRange{Start: sel.Start, End: sel.End}
		if f.end == "" {
			r.End = time.Date(9999, time.December, 31, 0, 0, 0, 0, loc)
		}
		if r.Start.After(r.End) {
			return analytics.QueryOptions{}, fmt.Errorf("--start %s is after --end %s", f.start, f.end)
		}
		q.Range = &r
	}

	var err error
	if q.MinAmount, err = parseBound("min", f.min); err != nil {
		return analytics.QueryOptions{}, err
	}
	if q.MaxAmount, err = parseBound("max", f.max); err != nil {
		return analytics.QueryOptions{}, err
	}
	return q, nil
}

func parseBound(name, v string) (*decimal.Decimal, error) {
	if v = strings.TrimSpace(v); v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return nil, fmt.Errorf("invalid --%s %q", name, v)
	}
	return &d, nil
}

func printTransactions(w io.Writer, res analytics.QueryResult) {
	if res.Total == 0 {
		fmt.Fprintln(w, subtleStyle.Render("No transactions match."))
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tTYPE\tCATEGORY\tAMOUNT\tDESCRIPTION\tID")
	for _, t := range res.Items {
		amount := core.FormatUSD(t.Amount)
		if t.IsExpense() {
			amount = "-" + amount
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Date.Format(analytics.DayLayout), t.Type, t.Category, amount, t.Description, t.ID)
	}
	tw.Flush()
	fmt.Fprintln(w, subtleStyle.Render(fmt.Sprintf("Page %d of %d, %d transactions", res.Page, res.TotalPages, res.Total)))
}

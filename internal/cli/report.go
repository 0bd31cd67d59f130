package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"finboard/internal/analytics"
	"finboard/internal/core"
)

const (
	viewAll        = "all"
	viewSummary    = "summary"
	viewCategories = "categories"
	viewMonthly    = "monthly"
	viewBudgets    = "budgets"
	viewInsights   = "insights"
)

var reportViews = []string{viewSummary, viewCategories, viewMonthly, viewBudgets, viewInsights}

type periodFlags struct {
	kind  string
	start string
	end   string
}

func (f *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "period", string(analytics.PeriodMonth), "Period: week|month|year|custom")
	cmd.Flags().StringVar(&f.start, "start", "", "Custom period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "Custom period end (YYYY-MM-DD), inclusive")
}

func (f *periodFlags) selector(opts *RootOptions) (analytics.PeriodSelector, error) {
	return analytics.ParseSelector(f.kind, f.start, f.end, opts.location())
}

func NewReportCmd(opts *RootOptions) *cobra.Command {
	var period periodFlags

	cmd := &cobra.Command{
		Use:       "report [summary|categories|monthly|budgets|insights]",
		Short:     "Show the dashboard views for a period",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: reportViews,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := viewAll
			if len(args) == 1 {
				view = strings.ToLower(args[0])
			}

			sel, err := period.selector(opts)
			if err != nil {
				return err
			}
			rep, err := opts.ledger.Report(cmd.Context(), opts.Account, sel)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.Output == FormatJSON {
				return writeJSON(w, reportPayload(rep, view))
			}
			printReport(w, rep, view)
			return nil
		},
	}
	period.register(cmd)

	return cmd
}

// reportPayload mirrors the HTTP view endpoints: a single view carries the
// period bounds next to its data.
func reportPayload(rep analytics.Report, view string) any {
	var data any
	switch view {
	case viewSummary:
		data = rep.Summary
	case viewCategories:
		data = rep.Categories
	case viewMonthly:
		data = rep.Monthly
	case viewBudgets:
		data = rep.Budgets
	case viewInsights:
		data = rep.Insights
	default:
		return rep
	}
	return map[string]any{
		"period":         rep.Period,
		"previousPeriod": rep.Previous,
		view:             data,
	}
}

func printReport(w io.Writer, rep analytics.Report, view string) {
	fmt.Fprintln(w, subtleStyle.Render(fmt.Sprintf("Period %s to %s",
		rep.Period.Start.Format(analytics.DayLayout), rep.Period.End.Format(analytics.DayLayout))))
	fmt.Fprintln(w)

	show := func(v string) bool { return view == viewAll || view == v }
	if show(viewSummary) {
		printSummary(w, rep.Summary)
	}
	if show(viewCategories) {
		printCategories(w, rep.Categories)
	}
	if show(viewMonthly) {
		printMonthly(w, rep.Monthly)
	}
	if show(viewBudgets) {
		printBudgets(w, rep.Budgets)
	}
	if show(viewInsights) {
		printInsights(w, rep.Insights)
	}
}

func printSummary(w io.Writer, s analytics.Summary) {
	printTitle(w, "Summary")
	tw := newTable(w)
	fmt.Fprintf(tw, "Income\t%s\t%+.1f%%\n", core.FormatUSD(s.Income), s.IncomeChange)
	fmt.Fprintf(tw, "Expenses\t%s\t%+.1f%%\n", core.FormatUSD(s.Expenses), s.ExpenseChange)
	fmt.Fprintf(tw, "Balance\t%s\t%s\n", core.FormatUSD(s.Balance), core.FormatUSD(s.BalanceChange))
	tw.Flush()
	fmt.Fprintln(w)
}

func printCategories(w io.Writer, cats []analytics.CategorySummary) {
	printTitle(w, "Spending by category")
	if len(cats) == 0 {
		fmt.Fprintln(w, subtleStyle.Render("No expenses in this period."))
		fmt.Fprintln(w)
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tTOTAL\tCOUNT\tSHARE")
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f%%\n", c.Category, core.FormatUSD(c.TotalAmount), c.TransactionCount, c.Percentage)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func printMonthly(w io.Writer, months []analytics.MonthlyDatum) {
	printTitle(w, "Monthly trend")
	if len(months) == 0 {
		fmt.Fprintln(w, subtleStyle.Render("No transactions yet."))
		fmt.Fprintln(w)
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "MONTH\tINCOME\tEXPENSES\tBALANCE")
	for _, m := range months {
		fmt.Fprintf(tw, "%s %d\t%s\t%s\t%s\n", m.Label, m.Year,
			core.FormatUSD(m.Income), core.FormatUSD(m.Expenses), core.FormatUSD(m.Balance))
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func printBudgets(w io.Writer, budgets []analytics.BudgetStatus) {
	printTitle(w, "Budgets")
	if len(budgets) == 0 {
		fmt.Fprintln(w, subtleStyle.Render("No budgets set. Use 'finctl budget set' to add one."))
		fmt.Fprintln(w)
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tBUDGET\tSPENT\tREMAINING\tUSED\tSTATUS")
	for _, b := range budgets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f%%\t%s\n", b.Category,
			core.FormatUSD(b.Amount), core.FormatUSD(b.Spent), core.FormatUSD(b.Remaining),
			b.Percentage, budgetState(b.Status))
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func budgetState(s analytics.BudgetState) string {
	switch s {
	case analytics.BudgetOver:
		return errorStyle.Render(string(s))
	case analytics.BudgetWarning:
		return warningStyle.Render(string(s))
	default:
		return successStyle.Render(string(s))
	}
}

func printInsights(w io.Writer, insights []analytics.Insight) {
	printTitle(w, "Insights")
	if len(insights) == 0 {
		fmt.Fprintln(w, subtleStyle.Render("Nothing notable this period."))
		fmt.Fprintln(w)
		return
	}
	for _, in := range insights {
		marker := subtleStyle.Render("-")
		if in.Kind == analytics.InsightWarning {
			marker = warningStyle.Render("!")
		}
		fmt.Fprintf(w, "%s %s: %s\n", marker, in.Title, in.Description)
	}
	fmt.Fprintln(w)
}

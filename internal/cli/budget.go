package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"finboard/internal/core"
)

func NewBudgetCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage category budgets",
	}

	cmd.AddCommand(
		newBudgetListCmd(opts),
		newBudgetSetCmd(opts),
	)

	return cmd
}

func newBudgetListCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budget definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := opts.ledger.ListBudgets(cmd.Context(), opts.Account)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.Output == FormatJSON {
				return writeJSON(w, map[string]any{"budgets": defs, "count": len(defs)})
			}
			if len(defs) == 0 {
				fmt.Fprintln(w, subtleStyle.Render("No budgets set."))
				return nil
			}
			tw := newTable(w)
			fmt.Fprintln(tw, "CATEGORY\tAMOUNT\tPERIOD")
			for _, d := range defs {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Category, core.FormatUSD(d.Amount), d.Period)
			}
			return tw.Flush()
		},
	}
}

func newBudgetSetCmd(opts *RootOptions) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "set <category> <amount>",
		Short: "Create or replace the budget of a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := core.ParseAmount(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			def, err := opts.ledger.SetBudget(cmd.Context(), opts.Account, core.BudgetDefinition{
				Category: args[0],
				Amount:   amount,
				Period:   core.BudgetPeriod(strings.ToLower(strings.TrimSpace(period))),
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.Output == FormatJSON {
				return writeJSON(w, map[string]any{"budget": def})
			}
			fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("Budget for %s set to %s (%s)",
				def.Category, core.FormatUSD(def.Amount), def.Period)))
			return nil
		},
	}
	cmd.Flags().StringVar(&period, "period", string(core.Monthly), "Budget period: monthly|yearly")

	return cmd
}

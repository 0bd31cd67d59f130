package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"finboard/internal/analytics"
	"finboard/internal/export"
	"finboard/internal/services"
)

func NewExportCmd(opts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every transaction of the account as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			txs, err := opts.ledger.ListTransactions(cmd.Context(), opts.Account)
			if err != nil {
				return err
			}
			res := analytics.Query(txs, analytics.QueryOptions{SortBy: analytics.SortByDate, Ascending: true})

			var w io.Writer = cmd.OutOrStdout()
			if file != "" {
				f, cerr := os.Create(file)
				if cerr != nil {
					return fmt.Errorf("create export file: %w", cerr)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = fmt.Errorf("close export file: %w", cerr)
					}
				}()
				w = f
			}

			if err := export.WriteCSV(w, res.Items); err != nil {
				return err
			}
			if file != "" {
				return printCount(cmd.OutOrStdout(), opts.Output, "exported", res.Total, file)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to this file instead of stdout")

	return cmd
}

func NewImportCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load transactions from a CSV written by export",
		Long: `import reads a CSV with date, description, category, type and amount
columns. Every row is checked before anything is written, so a bad row leaves
the ledger unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer f.Close()

			rows, err := export.ReadCSV(f)
			if err != nil {
				return err
			}

			pending := make([]services.NewTransaction, 0, len(rows))
			for i, row := range rows {
				tx, err := row.Transaction(opts.location())
				if err == nil {
					err = tx.Validate()
				}
				if err != nil {
					return fmt.Errorf("line %d: %w", i+2, err)
				}
				pending = append(pending, services.NewTransaction{
					AccountID:   opts.Account,
					Amount:      tx.Amount,
					Category:    tx.Category,
					Description: tx.Description,
					Date:        tx.Date,
					Type:        tx.Type,
				})
			}

			for i, in := range pending {
				if _, err := opts.ledger.CreateTransaction(cmd.Context(), in); err != nil {
					return fmt.Errorf("line %d: %w", i+2, err)
				}
			}
			return printCount(cmd.OutOrStdout(), opts.Output, "imported", len(pending), args[0])
		},
	}
}

func printCount(w io.Writer, format, verb string, n int, file string) error {
	if format == FormatJSON {
		return writeJSON(w, map[string]any{verb: n, "file": file})
	}
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("%d transactions %s (%s)", n, verb, file)))
	return nil
}

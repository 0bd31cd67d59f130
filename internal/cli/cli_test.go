package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/analytics"
	"finboard/internal/backend"
	"finboard/internal/config"
	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/services"
	"finboard/internal/store/memory"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	st := memory.New()

	txs := []core.Transaction{
		{ID: "t1", AccountID: "default", Amount: decimal.NewFromInt(3000), Category: "Salary", Description: "Pay", Date: core.NewDate(2024, time.March, 1), Type: core.Income},
		{ID: "t2", AccountID: "default", Amount: decimal.NewFromInt(100), Category: "Food", Description: "Groceries", Date: core.NewDate(2024, time.March, 5), Type: core.Expense},
		{ID: "t3", AccountID: "default", Amount: decimal.NewFromInt(50), Category: "Food", Description: "Lunch", Date: core.NewDate(2024, time.March, 10), Type: core.Expense},
		{ID: "t4", AccountID: "default", Amount: decimal.NewFromInt(1000), Category: "Rent", Description: "February rent", Date: core.NewDate(2024, time.February, 5), Type: core.Expense},
	}
	for _, tx := range txs {
		require.NoError(t, st.CreateTransaction(ctx, tx))
	}
	require.NoError(t, st.UpsertBudget(ctx, "default", core.BudgetDefinition{
		ID: "b1", Category: "Food", Amount: decimal.NewFromInt(200), Period: core.Monthly,
	}))
	return st
}

// run executes finctl against st and returns stdout.
func run(t *testing.T, st *memory.Store, args ...string) (string, error) {
	t.Helper()
	return runAt(t, st, testNow, args...)
}

// runAt is run with the clock fixed at now.
func runAt(t *testing.T, st *memory.Store, now time.Time, args ...string) (string, error) {
	t.Helper()

	opts := &RootOptions{
		Output:  FormatHuman,
		Account: "default",
		Backend: string(backend.MemoryBackend),
		cfg:     &config.Config{LogLevel: "error"},
		now:     func() time.Time { return now },
		openBackend: func(context.Context, *log.Logger) (*backend.BackendResult, error) {
			return &backend.BackendResult{
				Store:   st,
				Ready:   func(context.Context) error { return nil },
				Cleanup: func() error { return nil },
			}, nil
		},
	}
	cmd := newRootCmd(opts)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestReportSummaryJSON(t *testing.T) {
	st := newTestStore(t)

	out, err := run(t, st, "report", "summary", "--output", "json")
	require.NoError(t, err)

	var body struct {
		Period  analytics.DateRange `json:"period"`
		Summary analytics.Summary   `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, core.NewDate(2024, time.March, 1), body.Period.Start)
	assert.True(t, body.Summary.Income.Equal(decimal.NewFromInt(3000)))
	assert.True(t, body.Summary.Expenses.Equal(decimal.NewFromInt(150)))
	assert.True(t, body.Summary.Balance.Equal(decimal.NewFromInt(2850)))
}

func TestReportFullJSON(t *testing.T) {
	st := newTestStore(t)

	out, err := run(t, st, "report", "--output", "json", "--period", "custom", "--start", "2024-02-01", "--end", "2024-02-29")
	require.NoError(t, err)

	var rep analytics.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Transactions, 1)
	assert.Equal(t, "t4", rep.Transactions[0].ID)
	require.Len(t, rep.Categories, 1)
	assert.Equal(t, "Rent", rep.Categories[0].Category)
	assert.Len(t, rep.Monthly, 2)
}

func TestReportHuman(t *testing.T) {
	st := newTestStore(t)

	out, err := run(t, st, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "$3,000.00")
	assert.Contains(t, out, "Spending by category")
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "Budgets")
	assert.Contains(t, out, "75.0%")
}

func TestReportRejectsBadInput(t *testing.T) {
	st := newTestStore(t)

	_, err := run(t, st, "report", "--period", "decade")
	assert.ErrorIs(t, err, analytics.ErrInvalidSelector)

	_, err = run(t, st, "report", "--period", "custom", "--start", "03/01/2024")
	assert.ErrorIs(t, err, analytics.ErrInvalidSelector)

	_, err = run(t, st, "report", "balances")
	assert.Error(t, err)

	_, err = run(t, st, "report", "--output", "yaml")
	assert.ErrorContains(t, err, "invalid --output")
}

func TestBudgetSetAndList(t *testing.T) {
	st := newTestStore(t)

	_, err := run(t, st, "budget", "set", "Rent", "1200")
	require.NoError(t, err)
	_, err = run(t, st, "budget", "set", "Food", "250.50", "--period", "monthly")
	require.NoError(t, err)

	out, err := run(t, st, "budget", "list", "--output", "json")
	require.NoError(t, err)

	var body struct {
		Budgets []core.BudgetDefinition `json:"budgets"`
		Count   int                     `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, 2, body.Count)

	amounts := map[string]decimal.Decimal{}
	for _, b := range body.Budgets {
		amounts[b.Category] = b.Amount
	}
	assert.True(t, amounts["Food"].Equal(decimal.RequireFromString("250.5")))
	assert.True(t, amounts["Rent"].Equal(decimal.NewFromInt(1200)))
}

func TestBudgetSetValidation(t *testing.T) {
	st := newTestStore(t)

	_, err := run(t, st, "budget", "set", "Rent", "0")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = run(t, st, "budget", "set", "Rent", "100", "--period", "weekly")
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = run(t, st, "budget", "set", "Rent")
	assert.Error(t, err)
}

func TestTxAddAndList(t *testing.T) {
	st := newTestStore(t)

	out, err := run(t, st, "tx", "add",
		"--amount", "12,5", "--category", "Food", "--description", "Coffee", "--date", "2024-03-14",
		"--output", "json")
	require.NoError(t, err)

	var created struct {
		Transaction core.Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.NotEmpty(t, created.Transaction.ID)
	assert.Equal(t, core.Expense, created.Transaction.Type)
	assert.True(t, created.Transaction.Amount.Equal(decimal.RequireFromString("12.5")))

	out, err = run(t, st, "tx", "list", "--category", "Food", "--sort", "amount", "--asc", "--output", "json")
	require.NoError(t, err)

	var res analytics.QueryResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, 3, res.Total)
	assert.Equal(t, created.Transaction.ID, res.Items[0].ID)
	assert.Equal(t, "t2", res.Items[2].ID)
}

func TestTxAddDefaultsDateToClock(t *testing.T) {
	st := newTestStore(t)

	out, err := run(t, st, "tx", "add", "--amount", "40", "--type", "income",
		"--category", "Gift", "--description", "Birthday", "--output", "json")
	require.NoError(t, err)

	var created struct {
		Transaction core.Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, testNow, created.Transaction.Date)
	assert.Equal(t, core.Income, created.Transaction.Type)
}

func TestTxAddValidation(t *testing.T) {
	st := newTestStore(t)

	_, err := run(t, st, "tx", "add", "--amount", "10", "--type", "refund", "--category", "Food", "--description", "x")
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = run(t, st, "tx", "add", "--amount", "10", "--category", "Food", "--description", "x", "--date", "yesterday")
	assert.ErrorContains(t, err, "invalid --date")

	_, err = run(t, st, "tx", "add", "--category", "Food", "--description", "x")
	assert.Error(t, err)
}

func TestTxListFilters(t *testing.T) {
	st := newTestStore(t)

	tests := []struct {
		name string
		args []string
		ids  []string
	}{
		{"default newest first", nil, []string{"t3", "t2", "t1", "t4"}},
		{"type", []string{"--type", "income"}, []string{"t1"}},
		{"search", []string{"--search", "rent"}, []string{"t4"}},
		{"open ended range", []string{"--start", "2024-03-05"}, []string{"t3", "t2"}},
		{"inclusive end day", []string{"--end", "2024-03-05"}, []string{"t2", "t1", "t4"}},
		{"amount bounds", []string{"--min", "50", "--max", "100"}, []string{"t3", "t2"}},
		{"paging", []string{"--page", "2", "--page-size", "3"}, []string{"t4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"tx", "list", "--output", "json"}, tt.args...)
			out, err := run(t, st, args...)
			require.NoError(t, err)

			var res analytics.QueryResult
			require.NoError(t, json.Unmarshal([]byte(out), &res))
			ids := make([]string, 0, len(res.Items))
			for _, tx := range res.Items {
				ids = append(ids, tx.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestTxListRejectsBadFilters(t *testing.T) {
	st := newTestStore(t)

	for _, args := range [][]string{
		{"--type", "transfer"},
		{"--start", "2024-03-10", "--end", "2024-03-01"},
		{"--min", "-1"},
		{"--page-size", "0"},
	} {
		_, err := run(t, st, append([]string{"tx", "list"}, args...)...)
		assert.Error(t, err, args)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestStore(t)
	file := filepath.Join(t.TempDir(), "ledger.csv")

	out, err := run(t, src, "export", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "4 transactions exported")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "date,description,category,type,amount", lines[0])
	assert.Equal(t, "2024-02-05,February rent,Rent,expense,1000.00", lines[1])

	dst := memory.New()
	out, err = run(t, dst, "import", file, "--output", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"imported": 4, "file": "`+file+`"}`, out)

	txs, err := dst.ListTransactions(context.Background(), "default")
	require.NoError(t, err)
	require.Len(t, txs, 4)
	assert.Equal(t, "February rent", txs[0].Description)
	assert.True(t, txs[0].Amount.Equal(decimal.NewFromInt(1000)))
}

func TestImportUsesLocalCalendarDay(t *testing.T) {
	file := filepath.Join(t.TempDir(), "march.csv")
	content := "date,description,category,type,amount\n" +
		"2024-02-29,Leap day,Food,expense,20.00\n" +
		"2024-03-01,Pay,Salary,income,3000.00\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	tests := []struct {
		name string
		loc  *time.Location
	}{
		{"utc", time.UTC},
		{"east of utc", time.FixedZone("CET", 60*60)},
		{"west of utc", time.FixedZone("PST", -8*60*60)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := memory.New()
			now := testNow.In(tt.loc)

			_, err := runAt(t, st, now, "import", file)
			require.NoError(t, err)

			txs, err := st.ListTransactions(context.Background(), "default")
			require.NoError(t, err)
			require.Len(t, txs, 2)
			assert.True(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, tt.loc).Equal(txs[1].Date))

			out, err := runAt(t, st, now, "tx", "list", "--start", "2024-03-01", "--end", "2024-03-31", "--output", "json")
			require.NoError(t, err)
			var res analytics.QueryResult
			require.NoError(t, json.Unmarshal([]byte(out), &res))
			require.Equal(t, 1, res.Total)
			assert.Equal(t, "Pay", res.Items[0].Description)

			out, err = runAt(t, st, now, "export")
			require.NoError(t, err)
			assert.Equal(t, content, out)
		})
	}
}

func TestExportToStdout(t *testing.T) {
	st := newTestStore(t)

	out, err := run(t, st, "export")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "date,description,category,type,amount\n"))
	assert.Equal(t, 5, strings.Count(out, "\n"))
}

func TestImportBadRowWritesNothing(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.csv")
	content := "date,description,category,type,amount\n" +
		"2024-03-01,Pay,Salary,income,3000\n" +
		"2024-03-02,Broken,Food,expense,abc\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	st := memory.New()
	_, err := run(t, st, "import", file)
	require.Error(t, err)
	assert.ErrorContains(t, err, "line 3")
	assert.True(t, errors.Is(err, core.ErrInvalidAmount))

	txs, err := st.ListTransactions(context.Background(), "default")
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, FormatJSON, errors.New("boom"))
	assert.JSONEq(t, `{"error":"boom"}`, buf.String())

	buf.Reset()
	PrintError(&buf, FormatHuman, errors.New("boom"))
	assert.Contains(t, buf.String(), "Error: boom")
}

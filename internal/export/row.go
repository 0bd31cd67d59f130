// Package export flattens transactions into tabular rows and writes them to
// CSV files or a Google spreadsheet.
package export

import (
	"fmt"
	"strings"
	"time"

	"finboard/internal/core"
)

// DateLayout is the calendar date format used in every export.
const DateLayout = "2006-01-02"

// Header names the columns of a Row, in order.
var Header = []string{"date", "description", "category", "type", "amount"}

// Row is one exported transaction.
type Row struct {
	Date        string
	Description string
	Category    string
	Type        string
	Amount      string
}

// FromTransaction formats tx with a YYYY-MM-DD date and a two-decimal amount.
func FromTransaction(tx core.Transaction) Row {
	return Row{
		Date:        tx.Date.Format(DateLayout),
		Description: tx.Description,
		Category:    tx.Category,
		Type:        string(tx.Type),
		Amount:      tx.Amount.StringFixed(2),
	}
}

// FromTransactions converts txs preserving order.
func FromTransactions(txs []core.Transaction) []Row {
	rows := make([]Row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, FromTransaction(tx))
	}
	return rows
}

func (r Row) Strings() []string {
	return []string{r.Date, r.Description, r.Category, r.Type, r.Amount}
}

func (r Row) values() []any {
	return []any{r.Date, r.Description, r.Category, r.Type, r.Amount}
}

// Transaction parses the row back into a transaction without ID or account.
// The date is midnight in loc, or UTC when loc is nil.
func (r Row) Transaction(loc *time.Location) (core.Transaction, error) {
	if loc == nil {
		loc = time.UTC
	}
	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(r.Date), loc)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, r.Date)
	}
	amount, err := core.ParseAmount(r.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Amount:      amount,
		Category:    strings.TrimSpace(r.Category),
		Description: strings.TrimSpace(r.Description),
		Date:        date,
		Type:        core.TransactionType(strings.ToLower(strings.TrimSpace(r.Type))),
	}, nil
}

package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func expense(id, amount, category string, at time.Time) core.Transaction {
	return core.Transaction{ID: id, Amount: dec(amount), Category: category, Description: category + " " + id, Date: at, Type: core.Expense}
}

func income(id, amount, category string, at time.Time) core.Transaction {
	return core.Transaction{ID: id, Amount: dec(amount), Category: category, Description: category + " " + id, Date: at, Type: core.Income}
}

// januarySample is the worked example used across the package tests.
func januarySample() []core.Transaction {
	return []core.Transaction{
		expense("1", "100", "Food", day(2024, time.January, 10)),
		expense("2", "50", "Food", day(2024, time.January, 15)),
		income("3", "3000", "Salary", day(2024, time.January, 1)),
	}
}

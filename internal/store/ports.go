// Package store declares the persistence ports used by finboard services and
// the sample data both backends can be seeded with.
package store

import (
	"context"
	"errors"

	"finboard/internal/core"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate id")
)

// Ports for storage adapters.
type (
	TransactionLister interface {
		// ListTransactions returns every transaction of the account in
		// insertion order.
		ListTransactions(ctx context.Context, accountID string) ([]core.Transaction, error)
	}

	TransactionGetter interface {
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	}

	TransactionWriter interface {
		// CreateTransaction stores tx as given. The ID must be set by the
		// caller; a reused ID fails with ErrDuplicate.
		CreateTransaction(ctx context.Context, tx core.Transaction) error
	}

	BudgetLister interface {
		ListBudgets(ctx context.Context, accountID string) ([]core.BudgetDefinition, error)
	}

	BudgetWriter interface {
		// UpsertBudget creates or replaces the account's budget for
		// def.Category.
		UpsertBudget(ctx context.Context, accountID string, def core.BudgetDefinition) error
	}

	// ExportMarker records that a transaction reached an external sheet.
	ExportMarker interface {
		MarkExported(ctx context.Context, id, ref string) error
		// ExportRef returns the reference recorded by MarkExported and
		// whether one exists. Unknown ids fail with ErrNotFound.
		ExportRef(ctx context.Context, id string) (string, bool, error)
	}

	// Store is the full set of operations a backend provides.
	Store interface {
		TransactionLister
		TransactionGetter
		TransactionWriter
		BudgetLister
		BudgetWriter
		ExportMarker
		Close() error
	}
)

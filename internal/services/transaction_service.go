// Package services holds the use cases shared by the HTTP server and the CLI.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finboard/internal/analytics"
	"finboard/internal/cache"
	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/store"
)

// ErrValidation wraps every input problem reported by CreateTransaction and
// SetBudget.
var ErrValidation = errors.New("validation failed")

// Repository is the storage surface the service needs.
type Repository interface {
	store.TransactionLister
	store.TransactionGetter
	store.TransactionWriter
	store.BudgetLister
	store.BudgetWriter
}

// ExportPublisher announces new transactions to the export worker.
type ExportPublisher interface {
	PublishTransactionExport(ctx context.Context, id, accountID string) error
}

// NewTransaction is user input for CreateTransaction. A zero Date means now;
// an empty AccountID means the service's default account.
type NewTransaction struct {
	AccountID   string
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
	Type        core.TransactionType
}

// TransactionService saves transactions, publishes export events and
// serves cached reads for the dashboard.
type TransactionService struct {
	repo           Repository
	publisher      ExportPublisher
	cache          cache.Cache[[]core.Transaction]
	logger         *log.Logger
	defaultAccount string

	newID func() string
	now   func() time.Time
}

type Option func(*TransactionService)

// WithPublisher enables export events.
func WithPublisher(p ExportPublisher) Option {
	return func(s *TransactionService) { s.publisher = p }
}

// WithCache enables read-through caching of transaction lists.
func WithCache(c cache.Cache[[]core.Transaction]) Option {
	return func(s *TransactionService) { s.cache = c }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TransactionService) { s.now = now }
}

func WithIDGenerator(f func() string) Option {
	return func(s *TransactionService) { s.newID = f }
}

func NewTransactionService(repo Repository, defaultAccount string, logger *log.Logger, opts ...Option) *TransactionService {
	if defaultAccount == "" {
		defaultAccount = core.DefaultAccount
	}
	s := &TransactionService{
		repo:           repo,
		logger:         logger.WithComponent(log.ComponentLedger),
		defaultAccount: defaultAccount,
		newID:          uuid.NewString,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultAccount is the account used when a request names none.
func (s *TransactionService) DefaultAccount() string {
	return s.defaultAccount
}

// Now is the service clock.
func (s *TransactionService) Now() time.Time {
	return s.now()
}

func (s *TransactionService) account(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return s.defaultAccount
}

// CreateTransaction validates and stores a new transaction, then publishes an
// export event. A publish failure is logged and does not fail the call since
// the transaction is already stored.
func (s *TransactionService) CreateTransaction(ctx context.Context, in NewTransaction) (core.Transaction, error) {
	tx := core.Transaction{
		ID:          s.newID(),
		AccountID:   s.account(in.AccountID),
		Amount:      in.Amount,
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
		Type:        in.Type,
	}
	if tx.Date.IsZero() {
		tx.Date = s.now()
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.invalidate(tx.AccountID)

	s.logger.InfoContext(ctx, "Transaction created",
		log.NewFields().
			WithOperation(log.OpCreate).
			WithTransaction(tx.ID, tx.AccountID, string(tx.Type), tx.Category, tx.Amount.StringFixed(2)).
			ToSlice()...)

	if s.publisher == nil {
		s.logger.DebugContext(ctx, "AMQP publisher not configured, skipping export event", log.FieldTransaction, tx.ID)
		return tx, nil
	}
	if err := s.publisher.PublishTransactionExport(ctx, tx.ID, tx.AccountID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish export event",
			log.FieldTransaction, tx.ID, log.FieldError, err)
	}
	return tx, nil
}

// GetTransaction loads a single transaction by id.
func (s *TransactionService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// ListTransactions returns the account's transactions. The result is a copy
// the caller may reorder freely.
func (s *TransactionService) ListTransactions(ctx context.Context, accountID string) ([]core.Transaction, error) {
	accountID = s.account(accountID)
	key := cacheKey(accountID)

	if s.cache != nil {
		if txs, ok := s.cache.Get(key); ok {
			s.logger.DebugContext(ctx, "Transaction list cache hit", log.FieldAccount, accountID, log.FieldCount, len(txs))
			return slices.Clone(txs), nil
		}
	}

	txs, err := s.repo.ListTransactions(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if s.cache != nil {
		s.cache.Set(key, slices.Clone(txs))
	}
	return txs, nil
}

func (s *TransactionService) ListBudgets(ctx context.Context, accountID string) ([]core.BudgetDefinition, error) {
	defs, err := s.repo.ListBudgets(ctx, s.account(accountID))
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return defs, nil
}

// SetBudget creates or replaces the budget for def.Category. An empty ID is
// generated.
func (s *TransactionService) SetBudget(ctx context.Context, accountID string, def core.BudgetDefinition) (core.BudgetDefinition, error) {
	def.Category = strings.TrimSpace(def.Category)
	if def.Period == "" {
		def.Period = core.Monthly
	}
	if def.ID == "" {
		def.ID = s.newID()
	}
	if err := def.Validate(); err != nil {
		return core.BudgetDefinition{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := s.repo.UpsertBudget(ctx, s.account(accountID), def); err != nil {
		return core.BudgetDefinition{}, fmt.Errorf("save budget: %w", err)
	}
	return def, nil
}

// Report builds every dashboard view for the account and period, evaluated
// at the service clock.
func (s *TransactionService) Report(ctx context.Context, accountID string, sel analytics.PeriodSelector) (analytics.Report, error) {
	accountID = s.account(accountID)

	txs, err := s.ListTransactions(ctx, accountID)
	if err != nil {
		return analytics.Report{}, err
	}
	budgets, err := s.ListBudgets(ctx, accountID)
	if err != nil {
		return analytics.Report{}, err
	}

	report, err := analytics.BuildReport(txs, sel, budgets, s.now())
	if err != nil {
		return analytics.Report{}, err
	}
	s.logger.DebugContext(ctx, "Report built",
		log.FieldAccount, accountID,
		log.FieldPeriod, string(sel.Kind),
		log.FieldCount, len(report.Transactions))
	return report, nil
}

func (s *TransactionService) invalidate(accountID string) {
	if s.cache != nil {
		s.cache.Delete(cacheKey(accountID))
	}
}

func cacheKey(accountID string) string {
	return "txs:" + accountID
}

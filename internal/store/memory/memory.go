// Package memory is an in-process store used for demos and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"finboard/internal/core"
	"finboard/internal/store"
)

type Store struct {
	mu       sync.RWMutex
	txs      []core.Transaction
	byID     map[string]int
	budgets  map[string][]core.BudgetDefinition
	exported map[string]string
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		byID:     map[string]int{},
		budgets:  map[string][]core.BudgetDefinition{},
		exported: map[string]string{},
	}
}

func (s *Store) ListTransactions(_ context.Context, accountID string) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Transaction, 0, len(s.txs))
	for _, tx := range s.txs {
		if tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	return s.txs[i], nil
}

func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) error {
	if tx.ID == "" {
		return fmt.Errorf("create transaction: empty id")
	}
	if err := tx.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[tx.ID]; ok {
		return fmt.Errorf("transaction %s: %w", tx.ID, store.ErrDuplicate)
	}
	s.byID[tx.ID] = len(s.txs)
	s.txs = append(s.txs, tx)
	return nil
}

func (s *Store) ListBudgets(_ context.Context, accountID string) ([]core.BudgetDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.budgets[accountID]), nil
}

func (s *Store) UpsertBudget(_ context.Context, accountID string, def core.BudgetDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	defs := s.budgets[accountID]
	i := slices.IndexFunc(defs, func(d core.BudgetDefinition) bool { return d.Category == def.Category })
	if i >= 0 {
		defs[i] = def
	} else {
		defs = append(defs, def)
	}
	s.budgets[accountID] = defs
	return nil
}

func (s *Store) MarkExported(_ context.Context, id, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	s.exported[id] = ref
	return nil
}

// ExportRef returns the reference recorded by MarkExported, if any.
func (s *Store) ExportRef(_ context.Context, id string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.byID[id]; !ok {
		return "", false, fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	ref, ok := s.exported[id]
	return ref, ok, nil
}

func (s *Store) Close() error { return nil }

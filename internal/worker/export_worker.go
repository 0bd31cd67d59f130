// Package worker consumes transaction export events and copies each
// transaction into the configured spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"

	"finboard/internal/amqp"
	"finboard/internal/export"
	"finboard/internal/log"
	"finboard/internal/store"
)

// RowAppender writes one export row and returns a reference to where it
// landed.
type RowAppender interface {
	AppendRow(ctx context.Context, row export.Row) (ref string, err error)
}

// Source is the storage surface the worker reads from and marks.
type Source interface {
	store.TransactionGetter
	store.ExportMarker
}

type ExportWorker struct {
	source   Source
	appender RowAppender
	logger   *log.Logger
}

func NewExportWorker(source Source, appender RowAppender, logger *log.Logger) *ExportWorker {
	return &ExportWorker{
		source:   source,
		appender: appender,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleExportMessage exports the transaction named by msg. Messages for
// unknown transactions, or for a transaction of another account, wrap
// amqp.ErrDiscard so they are dropped rather than retried. A transaction that
// already has an export ref is acked without writing another row.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.TransactionExportMessage) error {
	tx, err := w.source.GetTransaction(ctx, msg.ID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %w", amqp.ErrDiscard, err)
	}
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}
	if msg.AccountID != "" && tx.AccountID != msg.AccountID {
		return fmt.Errorf("%w: transaction %s belongs to account %s, message names %s",
			amqp.ErrDiscard, tx.ID, tx.AccountID, msg.AccountID)
	}

	prev, done, err := w.source.ExportRef(ctx, tx.ID)
	if err != nil {
		return fmt.Errorf("read export ref: %w", err)
	}
	if done {
		w.logger.InfoContext(ctx, "Transaction already exported, skipping",
			log.FieldTransaction, tx.ID, log.FieldExportRef, prev)
		return nil
	}

	ref, err := w.appender.AppendRow(ctx, export.FromTransaction(tx))
	if err != nil {
		return fmt.Errorf("append to sheet: %w", err)
	}

	// The row is written; failing here would requeue and duplicate it.
	if err := w.source.MarkExported(ctx, tx.ID, ref); err != nil {
		w.logger.ErrorContext(ctx, "Failed to mark transaction as exported",
			log.FieldTransaction, tx.ID, log.FieldExportRef, ref, log.FieldError, err)
		return nil
	}

	w.logger.InfoContext(ctx, "Transaction exported",
		log.NewFields().
			WithOperation(log.OpExport).
			WithTransaction(tx.ID, tx.AccountID, string(tx.Type), tx.Category, tx.Amount.StringFixed(2)).
			ToSlice()...)
	return nil
}

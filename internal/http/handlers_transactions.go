package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"finboard/internal/analytics"
	"finboard/internal/core"
	"finboard/internal/export"
	"finboard/internal/log"
	"finboard/internal/services"
)

func isValidation(err error) bool {
	return errors.Is(err, services.ErrValidation)
}

func (s *Server) queryTransactions(r *http.Request) (analytics.QueryResult, analytics.QueryOptions, error) {
	opts, err := ParseQueryOptions(r.URL.Query(), s.ledger.Now().Location())
	if err != nil {
		return analytics.QueryResult{}, opts, err
	}
	txs, err := s.ledger.ListTransactions(r.Context(), s.account(r))
	if err != nil {
		return analytics.QueryResult{}, opts, err
	}
	return analytics.Query(txs, opts), opts, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	res, _, err := s.queryTransactions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Payload(res).Write(w, r)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	amount, err := parseRawAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	in := services.NewTransaction{
		AccountID:   sanitizeInput(req.AccountID),
		Amount:      amount,
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		Type:        core.TransactionType(strings.ToLower(sanitizeInput(req.Type))),
	}
	if in.AccountID == "" {
		in.AccountID = s.account(r)
	}
	if d := sanitizeInput(req.Date); d != "" {
		date, err := ParseDate(d, s.ledger.Now().Location())
		if err != nil {
			writeError(w, r, err)
			return
		}
		in.Date = date
	}

	tx, err := s.ledger.CreateTransaction(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Transaction created via API",
		log.FieldOperation, log.OpCreate, log.FieldTransaction, tx.ID)
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+tx.ID).
		Payload(tx).
		Write(w, r)
}

// handleGetTransaction only serves transactions of the requested account.
func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.ledger.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if tx.AccountID != s.account(r) {
		NotFoundError("not found").Write(w, r)
		return
	}
	NewJSONResponse().Payload(tx).Write(w, r)
}

// handleExportCSV writes every match of the list filters, ignoring paging.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	opts, err := ParseQueryOptions(r.URL.Query(), s.ledger.Now().Location())
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts.Page = 0

	account := s.account(r)
	txs, err := s.ledger.ListTransactions(r.Context(), account)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res := analytics.Query(txs, opts)

	filename := fmt.Sprintf("transactions-%s-%s.csv", account, s.ledger.Now().Format(dateLayout))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteCSV(w, res.Items); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "CSV export failed",
			log.FieldOperation, log.OpExport, log.FieldError, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "CSV export served",
		log.FieldOperation, log.OpExport, log.FieldAccount, account, log.FieldCount, res.Total)
}

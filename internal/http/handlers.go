package http

import (
	"errors"
	"net/http"
	"time"

	"finboard/internal/analytics"
	"finboard/internal/log"
	"finboard/internal/store"
)

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			ErrorResponse(http.StatusServiceUnavailable, "not ready").Write(w, r)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleAPIHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Payload(map[string]any{
		"status":            "ok",
		"advisorConfigured": s.advisor.Configured(),
		"timestamp":         s.ledger.Now().UTC().Format(time.RFC3339),
	}).Write(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Account           string
		Today             string
		AdvisorConfigured bool
		Periods           []analytics.PeriodKind
	}{
		Account:           s.account(r),
		Today:             s.ledger.Now().Format(dateLayout),
		AdvisorConfigured: s.advisor.Configured(),
		Periods:           []analytics.PeriodKind{analytics.PeriodWeek, analytics.PeriodMonth, analytics.PeriodYear, analytics.PeriodCustom},
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Index template execution failed",
			log.FieldError, err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// account is the ?account= parameter or the ledger default.
func (s *Server) account(r *http.Request) string {
	if a := sanitizeInput(r.URL.Query().Get("account")); a != "" {
		return a
	}
	return s.ledger.DefaultAccount()
}

// writeError maps service errors to status codes and logs server faults.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, analytics.ErrInvalidSelector):
		BadRequestError(err.Error()).Write(w, r)
	case errors.Is(err, store.ErrNotFound):
		NotFoundError("not found").Write(w, r)
	case isValidation(err):
		UnprocessableEntityError(err.Error()).Write(w, r)
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", log.FieldError, err)
		InternalServerError("internal server error").Write(w, r)
	}
}

package http

import (
	"errors"
	"net/http"
	"time"

	"finboard/internal/advisor"
	"finboard/internal/analytics"
	"finboard/internal/log"
)

type chatRequest struct {
	Message          string                    `json:"message"`
	FinancialContext *advisor.FinancialContext `json:"financialContext,omitempty"`
}

func (s *Server) handleChatStatus(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Payload(map[string]any{
		"message":   "finboard chat API is running",
		"timestamp": s.ledger.Now().UTC().Format(time.RFC3339),
	}).Write(w, r)
}

// handleChat answers a chat message. Without a client supplied context the
// current month's report of the account is used.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	fc := req.FinancialContext
	if fc == nil {
		rep, err := s.ledger.Report(r.Context(), s.account(r), analytics.PeriodSelector{Kind: analytics.PeriodMonth})
		if err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Could not build chat context", log.FieldError, err)
		} else {
			derived := advisor.ContextFromReport(rep)
			fc = &derived
		}
	}

	reply, err := s.advisor.Chat(r.Context(), sanitizeInput(req.Message), fc)
	if errors.Is(err, advisor.ErrEmptyMessage) {
		BadRequestError("Message is required").Write(w, r)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Payload(reply).Write(w, r)
}

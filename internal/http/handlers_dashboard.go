package http

import (
	"net/http"

	"finboard/internal/advisor"
	"finboard/internal/analytics"
	"finboard/internal/log"
)

func (s *Server) buildReport(r *http.Request) (analytics.Report, error) {
	sel, err := ParsePeriodSelector(r.URL.Query(), s.ledger.Now().Location())
	if err != nil {
		return analytics.Report{}, err
	}
	return s.ledger.Report(r.Context(), s.account(r), sel)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.buildReport(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).DebugContext(r.Context(), "Report served",
		log.FieldOperation, log.OpReport,
		log.FieldCount, len(rep.Transactions))
	NewJSONResponse().Payload(rep).Write(w, r)
}

// reportView serves one slice of the report under key, together with the
// resolved period.
func (s *Server) reportView(key string, pick func(analytics.Report) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := s.buildReport(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		NewJSONResponse().Payload(map[string]any{
			"period":         rep.Period,
			"previousPeriod": rep.Previous,
			key:              pick(rep),
		}).Write(w, r)
	}
}

// handleHints derives advisor hints from the current report.
func (s *Server) handleHints(w http.ResponseWriter, r *http.Request) {
	rep, err := s.buildReport(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Payload(map[string]any{
		"hints": advisor.ProfileHints(advisor.ContextFromReport(rep)),
	}).Write(w, r)
}

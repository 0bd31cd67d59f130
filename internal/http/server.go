package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"finboard/internal/advisor"
	"finboard/internal/analytics"
	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/middleware/ratelimit"
	"finboard/internal/middleware/security"
	"finboard/internal/services"
	appweb "finboard/web"
)

// Ledger is the transaction service surface the handlers use.
type Ledger interface {
	DefaultAccount() string
	Now() time.Time
	CreateTransaction(ctx context.Context, in services.NewTransaction) (core.Transaction, error)
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	ListTransactions(ctx context.Context, accountID string) ([]core.Transaction, error)
	Report(ctx context.Context, accountID string, sel analytics.PeriodSelector) (analytics.Report, error)
}

// Advisor answers chat messages.
type Advisor interface {
	Configured() bool
	Chat(ctx context.Context, message string, fc *advisor.FinancialContext) (advisor.Reply, error)
}

// Options configures NewServer. Ready may be nil.
type Options struct {
	Addr            string
	RateLimitPerMin int
	Ready           func(ctx context.Context) error
}

type Server struct {
	http.Server
	ledger    Ledger
	advisor   Advisor
	ready     func(ctx context.Context) error
	templates *template.Template
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	logger    *log.Logger
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server. Call RunMaintenance alongside ListenAndServe to expire rate
// limiter entries.
func NewServer(opts Options, ledger Ledger, adv Advisor, logger *log.Logger) *Server {
	s := &Server{
		ledger:   ledger,
		advisor:  adv,
		ready:    opts.Ready,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMin}),
		detector: security.NewDetector(),
		logger:   logger.WithComponent(log.ComponentHTTP),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(log.RequestLogger(s.logger, s.detector.ClientIP))
	r.Use(middleware.Recoverer)
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	r.Use(s.detector.Middleware)
	r.Use(s.limiter.Middleware(s.detector.ClientIP, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, s.detector.ClientIP(r), log.FieldPath, r.URL.Path)
		TooManyRequestsError("rate limit exceeded, please try again later").Write(w, r)
	}, http.MethodPost))

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.With(security.StaticAssetMiddleware(3600)).Handle("/static/*", static)
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	r.Get("/", s.handleIndex)
	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleAPIHealth)

		r.Get("/report", s.handleReport)
		r.Get("/summary", s.reportView("summary", func(rep analytics.Report) any { return rep.Summary }))
		r.Get("/categories", s.reportView("categories", func(rep analytics.Report) any { return rep.Categories }))
		r.Get("/monthly", s.reportView("monthly", func(rep analytics.Report) any { return rep.Monthly }))
		r.Get("/budgets", s.reportView("budgets", func(rep analytics.Report) any { return rep.Budgets }))
		r.Get("/insights", s.reportView("insights", func(rep analytics.Report) any { return rep.Insights }))
		r.Get("/hints", s.handleHints)

		r.Get("/transactions", s.handleListTransactions)
		r.Post("/transactions", s.handleCreateTransaction)
		r.Get("/transactions/export.csv", s.handleExportCSV)
		r.Get("/transactions/{id}", s.handleGetTransaction)

		r.Get("/chat", s.handleChatStatus)
		r.Post("/chat", s.handleChat)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("not found").Write(w, r)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").Write(w, r)
	})
	return r
}

// RunMaintenance drops idle rate limiter clients until ctx is done.
func (s *Server) RunMaintenance(ctx context.Context) error {
	return s.limiter.Run(ctx, 5*time.Minute)
}

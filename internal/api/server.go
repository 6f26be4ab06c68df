// Package api implements the HTTP layer for the campaign dispatch engine.
// Handlers are methods on *Server. Each handler file is responsible for one
// resource group and only imports the dependencies it actually uses.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/nyashahama/campaign-dispatch-engine/internal/billing"
	"github.com/nyashahama/campaign-dispatch-engine/internal/db"
	"github.com/nyashahama/campaign-dispatch-engine/internal/dispatch"
	"github.com/nyashahama/campaign-dispatch-engine/internal/store"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// StripeWebhookSecret is the signing secret from the Stripe dashboard.
	StripeWebhookSecret string

	// InternalAPIKey authenticates the product backend on trigger routes
	// (enrollments, activity, progress, messages).
	InternalAPIKey string

	// DispatchSecret authenticates the cron caller on /api/dispatch routes.
	// Separate from InternalAPIKey so the cron credential can be rotated
	// without touching the product backend.
	DispatchSecret string

	// DefaultBatchLimit caps a dispatch run when the request doesn't specify
	// its own limit.
	DefaultBatchLimit int32

	// ModuleSizeDays and CourseLengthDays shape the progress milestones.
	ModuleSizeDays   int32
	CourseLengthDays int32

	// Env is "production", "staging", or "development".
	Env string
}

// EnrollmentStore is the slice of *store.Store the handlers use. Narrowed to
// an interface so handler tests can stub the transactional operations the
// same way they stub db.Querier.
type EnrollmentStore interface {
	EnrollUser(ctx context.Context, p store.EnrollUserParams) (db.Enrollment, error)
	StopEnrollment(ctx context.Context, userID uuid.UUID, campaignKey, reason string) (int64, error)
	CompleteDay(ctx context.Context, p store.CompleteDayParams) (store.CompleteDayResult, error)
}

var _ EnrollmentStore = (*store.Store)(nil)

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// q handles all single-query reads. Injected directly — no repo wrapper.
	q db.Querier

	// store handles multi-step atomic writes (enroll, complete day).
	store EnrollmentStore

	// dispatcher runs dispatch batches and one-off milestone sends.
	dispatcher dispatch.Runner

	// stripe verifies webhook signatures.
	stripe billing.Verifier

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(
	q db.Querier,
	st EnrollmentStore,
	runner dispatch.Runner,
	verifier billing.Verifier,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	s := &Server{
		q:          q,
		store:      st,
		dispatcher: runner,
		stripe:     verifier,
		cfg:        cfg,
		logger:     logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// ── API v1 ────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {

		// Stripe webhook — no auth (signature verification inside handler).
		r.Post("/webhooks/stripe", s.handleStripeWebhook)

		// Trigger surface — called by the product backend.
		r.Group(func(r chi.Router) {
			r.Use(s.requireSecret("X-Internal-Key", s.cfg.InternalAPIKey))
			r.Post("/enrollments", s.handleEnroll)
			r.Post("/enrollments/stop", s.handleStopEnrollment)
			r.Post("/activity", s.handleActivity)
			r.Post("/progress/days", s.handleCompleteDay)
			r.Post("/messages", s.handleSendMessage)
		})

		// Dispatch surface — called by cron.
		r.Group(func(r chi.Router) {
			r.Use(s.requireSecret("X-Dispatch-Secret", s.cfg.DispatchSecret))
			r.Post("/dispatch/run", s.handleDispatchRun)
			r.Get("/dispatch/logs", s.handleDispatchLogs)
		})
	})

	return r
}

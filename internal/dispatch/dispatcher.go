// Package dispatch contains the batch engine that walks due enrollments
// through their campaign steps: evaluating stop conditions, claiming the
// send in email_log, rendering the template, and advancing the enrollment
// clock. It is intentionally decoupled from the HTTP layer: the api package
// holds a dispatch.Runner interface and calls RunOnce — it never constructs
// Job types or touches email_log directly.
package dispatch

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/nyashahama/campaign-dispatch-engine/internal/campaign"
	"github.com/nyashahama/campaign-dispatch-engine/internal/db"
	"github.com/nyashahama/campaign-dispatch-engine/internal/email"
	"github.com/sqlc-dev/pqtype"
)

// ─── RUNNER INTERFACE ─────────────────────────────────────────────────────────

// Runner is the narrow interface the api package uses to trigger dispatch
// work. The concrete implementation is *Dispatcher. In tests, any struct with
// these two methods satisfies the interface.
type Runner interface {
	// RunOnce processes up to batchLimit due enrollments and returns counts.
	RunOnce(ctx context.Context, batchLimit int32) (Stats, error)

	// SendOneOff sends a single milestone email outside any campaign. The
	// bool reports whether a send actually happened (false = already sent).
	SendOneOff(ctx context.Context, p OneOffParams) (bool, error)
}

// ─── DISPATCHER ───────────────────────────────────────────────────────────────

// Config holds the product knobs the dispatcher needs at send time.
type Config struct {
	// DefaultLanguage is the template language to fall back to when no
	// template exists in the user's locale. Default: "en".
	DefaultLanguage string

	// BaseURL is the public site root used to build CTA links.
	BaseURL string
}

// Stats is the outcome of one dispatch run, returned to the caller (and
// serialised in the /api/dispatch/run response) so cron logs show what each
// tick did.
type Stats struct {
	// Selected is how many due enrollments the batch query returned.
	Selected int `json:"selected"`

	Sent       int `json:"sent"`
	Suppressed int `json:"suppressed"`
	Failed     int `json:"failed"`
	Terminated int `json:"terminated"`
	Completed  int `json:"completed"`

	// Skipped counts enrollments left untouched this run (load error, lost
	// claim race, lost CAS race). They stay due and are retried next tick.
	Skipped int `json:"skipped"`
}

// Dispatcher walks due enrollments through their next step. All of its writes
// are single conditional statements (insert-if-absent claims and
// compare-and-swap updates), so it needs no multi-statement transactions and
// depends only on db.Querier.
type Dispatcher struct {
	q      db.Querier
	mailer email.Sender
	cfg    Config
	logger *slog.Logger
}

// New constructs a Dispatcher.
func New(q db.Querier, mailer email.Sender, cfg Config, logger *slog.Logger) *Dispatcher {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}
	return &Dispatcher{q: q, mailer: mailer, cfg: cfg, logger: logger}
}

var _ Runner = (*Dispatcher)(nil)

// ─── RUN LOOP ─────────────────────────────────────────────────────────────────

// RunOnce selects up to batchLimit due enrollments (oldest clock first) and
// processes each one. A failure on one enrollment never aborts the batch: the
// enrollment is counted in Stats.Skipped or Stats.Failed and the loop moves
// on. The error return is reserved for the batch query itself failing.
//
// Concurrent runs are safe: the email_log claim and the CAS advance mean two
// overlapping ticks race per enrollment, one side wins, and the loser counts
// a skip.
func (d *Dispatcher) RunOnce(ctx context.Context, batchLimit int32) (Stats, error) {
	if batchLimit <= 0 {
		batchLimit = 50
	}

	rows, err := d.q.ListDueEnrollments(ctx, batchLimit)
	if err != nil {
		return Stats{}, fmt.Errorf("dispatch: list due enrollments: %w", err)
	}

	stats := Stats{Selected: len(rows)}
	for _, row := range rows {
		if ctx.Err() != nil {
			break
		}
		d.processOne(ctx, row, &stats)
	}

	d.logger.Info("dispatch: run complete",
		"selected", stats.Selected,
		"sent", stats.Sent,
		"suppressed", stats.Suppressed,
		"failed", stats.Failed,
		"terminated", stats.Terminated,
		"completed", stats.Completed,
		"skipped", stats.Skipped,
	)
	return stats, nil
}

// processOne handles a single due enrollment end to end. Errors are logged
// and counted, never returned — the enrollment stays due and the next run
// retries it.
func (d *Dispatcher) processOne(ctx context.Context, row db.ListDueEnrollmentsRow, stats *Stats) {
	enr := row.Enrollment
	step := row.CampaignStep
	log := d.logger.With(
		"enrollment_id", enr.ID,
		"campaign", enr.CampaignKey,
		"step", step.StepIndex,
	)

	user, err := d.q.GetUserByID(ctx, enr.UserID)
	if err != nil {
		log.Error("dispatch: load user", "user_id", enr.UserID, "error", err)
		stats.Skipped++
		return
	}

	days, err := d.q.ListCompletedDays(ctx, enr.UserID)
	if err != nil {
		log.Error("dispatch: load completed days", "error", err)
		stats.Skipped++
		return
	}

	snap := campaign.Snapshot{
		Paid:           user.Paid,
		TrialStatus:    user.TrialStatus,
		LastActivityAt: user.LastActivityAt,
		CompletedDays:  daySet(days),
	}

	// Conditions are evaluated fresh at send time, against current user
	// state — never against state captured at enrollment.
	var conds []campaign.StopCondition
	if step.StopConditions.Valid {
		conds, err = campaign.ParseStopConditions(step.StopConditions.RawMessage)
		if err != nil {
			// Malformed conditions must never halt a campaign. Send anyway
			// and let the seed-time validator catch the bad JSON.
			log.Error("dispatch: malformed stop conditions", "error", err)
			conds = nil
		}
	}

	verdict, reason := campaign.Evaluate(conds, snap, enr.CreatedAt, time.Now())

	switch verdict {
	case campaign.TerminateEnrollment:
		n, err := d.q.TerminateEnrollment(ctx, db.TerminateEnrollmentParams{
			ID:         enr.ID,
			StepIndex:  step.StepIndex,
			StopReason: reason,
		})
		if err != nil {
			log.Error("dispatch: terminate enrollment", "error", err)
			stats.Skipped++
			return
		}
		if n == 0 {
			// Lost the CAS — trigger surface or a concurrent run got there
			// first.
			stats.Skipped++
			return
		}
		// Audit row so the log query shows why this step never went out.
		d.recordSuppressed(ctx, enr, step, log)
		log.Info("dispatch: enrollment terminated", "reason", reason)
		stats.Terminated++

	case campaign.SuppressStep:
		d.recordSuppressed(ctx, enr, step, log)
		log.Info("dispatch: step suppressed", "reason", reason)
		stats.Suppressed++
		d.advance(ctx, enr, step, stats, log)

	default: // Proceed
		d.sendStep(ctx, user, enr, step, stats, log)
	}
}

// sendStep claims the send, renders, and delivers. The claim is the
// at-most-once guard: whichever run inserts the email_log row owns the send,
// and a lost claim means some earlier run already handled this exact step.
func (d *Dispatcher) sendStep(ctx context.Context, user db.User, enr db.Enrollment, step db.CampaignStep, stats *Stats, log *slog.Logger) {
	claim, err := d.q.ClaimEmailLog(ctx, db.ClaimEmailLogParams{
		UserID:      user.ID,
		TemplateKey: step.TemplateKey,
		CampaignKey: sql.NullString{String: enr.CampaignKey, Valid: true},
		StepIndex:   sql.NullInt32{Int32: step.StepIndex, Valid: true},
		Status:      db.EmailStatusSent,
		DedupeKey:   stepDedupeKey(user.ID, enr.CampaignKey, step.StepIndex, step.TemplateKey),
	})
	if errors.Is(err, sql.ErrNoRows) {
		// Claim already exists — a previous run sent (or suppressed) this
		// step but died before advancing. Advance without re-sending.
		log.Info("dispatch: step already claimed, advancing")
		stats.Skipped++
		d.advance(ctx, enr, step, stats, log)
		return
	}
	if err != nil {
		log.Error("dispatch: claim send", "error", err)
		stats.Skipped++
		return
	}

	tmpl, err := d.template(ctx, step.TemplateKey, user.Locale)
	if err != nil {
		log.Error("dispatch: load template", "template", step.TemplateKey, "error", err)
		d.markFailed(ctx, claim.ID, "template not found: "+step.TemplateKey, log)
		stats.Failed++
		d.advance(ctx, enr, step, stats, log)
		return
	}

	rendered := campaign.Render(tmpl.Subject, tmpl.Body, tmpl.Cta.String, d.vars(user, enr.Context))

	err = d.mailer.Send(ctx, email.SendParams{
		To:       user.Email,
		Subject:  rendered.Subject,
		Body:     rendered.Body,
		CTALabel: rendered.CTA,
		CTAURL:   d.cfg.BaseURL + "/app",
	})
	if err != nil {
		// Send failed — flip the claim row and move on. The claim stays, so
		// this step is never retried: a possibly-delivered email must not be
		// sent twice.
		log.Error("dispatch: send failed", "template", step.TemplateKey, "error", err)
		d.markFailed(ctx, claim.ID, err.Error(), log)
		stats.Failed++
	} else {
		log.Info("dispatch: step sent", "template", step.TemplateKey, "to", user.Email)
		stats.Sent++
	}

	d.advance(ctx, enr, step, stats, log)
}

// advance moves the enrollment to the next step, or completes it when the
// campaign has no further steps. Both writes are CAS-guarded on the current
// step index, so a raced enrollment is simply left alone.
func (d *Dispatcher) advance(ctx context.Context, enr db.Enrollment, step db.CampaignStep, stats *Stats, log *slog.Logger) {
	_, err := d.q.GetCampaignStep(ctx, db.GetCampaignStepParams{
		CampaignKey: enr.CampaignKey,
		StepIndex:   step.StepIndex + 1,
	})
	if errors.Is(err, sql.ErrNoRows) {
		n, err := d.q.CompleteEnrollment(ctx, db.CompleteEnrollmentParams{
			ID:        enr.ID,
			StepIndex: step.StepIndex,
		})
		if err != nil {
			log.Error("dispatch: complete enrollment", "error", err)
			return
		}
		if n > 0 {
			log.Info("dispatch: enrollment completed")
			stats.Completed++
		} else {
			log.Info("dispatch: completion lost to a concurrent writer")
			stats.Skipped++
		}
		return
	}
	if err != nil {
		// Leave the enrollment at its current step; the claim row protects
		// against a duplicate send on the retry.
		log.Error("dispatch: look up next step", "error", err)
		return
	}

	n, err := d.q.AdvanceEnrollment(ctx, db.AdvanceEnrollmentParams{
		ID:        enr.ID,
		StepIndex: step.StepIndex,
	})
	if err != nil {
		log.Error("dispatch: advance enrollment", "error", err)
		return
	}
	if n == 0 {
		// Another writer moved or stopped this enrollment between our read
		// and the advance. The row already reflects their outcome.
		log.Info("dispatch: advance lost to a concurrent writer")
		stats.Skipped++
	}
}

// ─── HELPERS ──────────────────────────────────────────────────────────────────

// recordSuppressed writes the audit claim for a step that will never be sent.
// A lost claim here is fine — the row already exists from a previous run.
func (d *Dispatcher) recordSuppressed(ctx context.Context, enr db.Enrollment, step db.CampaignStep, log *slog.Logger) {
	_, err := d.q.ClaimEmailLog(ctx, db.ClaimEmailLogParams{
		UserID:      enr.UserID,
		TemplateKey: step.TemplateKey,
		CampaignKey: sql.NullString{String: enr.CampaignKey, Valid: true},
		StepIndex:   sql.NullInt32{Int32: step.StepIndex, Valid: true},
		Status:      db.EmailStatusSuppressed,
		DedupeKey:   stepDedupeKey(enr.UserID, enr.CampaignKey, step.StepIndex, step.TemplateKey),
	})
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Error("dispatch: record suppressed step", "error", err)
	}
}

// template loads the template in the user's locale, falling back to the
// default language when no localised version exists.
func (d *Dispatcher) template(ctx context.Context, key, locale string) (db.Template, error) {
	if locale == "" {
		locale = d.cfg.DefaultLanguage
	}
	tmpl, err := d.q.GetTemplate(ctx, db.GetTemplateParams{Key: key, Language: locale})
	if err == nil || !errors.Is(err, sql.ErrNoRows) || locale == d.cfg.DefaultLanguage {
		return tmpl, err
	}
	return d.q.GetTemplate(ctx, db.GetTemplateParams{
		Key:      key,
		Language: d.cfg.DefaultLanguage,
	})
}

// markFailed flips a claim row to failed with the transport error. Best
// effort — the claim row itself is what prevents a re-send.
func (d *Dispatcher) markFailed(ctx context.Context, claimID uuid.UUID, reason string, log *slog.Logger) {
	if _, err := d.q.MarkEmailLogFailed(ctx, db.MarkEmailLogFailedParams{
		ID:    claimID,
		Error: reason,
	}); err != nil {
		log.Error("dispatch: mark email log failed", "error", err)
	}
}

// vars builds the substitution map for template rendering: user fields first,
// then the enrollment context on top so trigger-supplied values win.
func (d *Dispatcher) vars(user db.User, enrContext pqtype.NullRawMessage) map[string]string {
	vars := map[string]string{
		"name":     user.Name,
		"email":    user.Email,
		"day":      strconv.Itoa(int(user.CourseDay)),
		"base_url": d.cfg.BaseURL,
	}
	if enrContext.Valid {
		var extra map[string]string
		// Context was validated at enrollment time; a bad payload here just
		// means no extra variables.
		if err := json.Unmarshal(enrContext.RawMessage, &extra); err == nil {
			for k, v := range extra {
				vars[k] = v
			}
		}
	}
	return vars
}

// stepDedupeKey identifies one step-send for one user in one campaign. The
// template key is part of the identity so re-seeding a step with a different
// template counts as a different send.
func stepDedupeKey(userID uuid.UUID, campaignKey string, stepIndex int32, templateKey string) string {
	return fmt.Sprintf("%s|%s|%d|%s", userID, campaignKey, stepIndex, templateKey)
}

func daySet(days []int32) map[int]bool {
	if len(days) == 0 {
		return nil
	}
	set := make(map[int]bool, len(days))
	for _, d := range days {
		set[int(d)] = true
	}
	return set
}

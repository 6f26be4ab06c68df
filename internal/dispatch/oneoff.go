package dispatch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nyashahama/campaign-dispatch-engine/internal/campaign"
	"github.com/nyashahama/campaign-dispatch-engine/internal/db"
	"github.com/nyashahama/campaign-dispatch-engine/internal/email"
	"github.com/sqlc-dev/pqtype"
)

// OneOffParams describes a single milestone email outside any campaign
// sequence ("you finished module 1", "you finished the course").
type OneOffParams struct {
	UserID      uuid.UUID
	TemplateKey string

	// DayTag is the course day the milestone refers to. It is part of the
	// dedupe identity, so the same template can fire again for a later
	// milestone (module 1 vs module 2) but never twice for the same one.
	DayTag int32

	// Vars is merged over the standard user variables at render time.
	Vars map[string]string
}

// SendOneOff claims and delivers a milestone email. Returns (false, nil) when
// the milestone was already sent — callers treat that as success, since the
// point of the dedupe key is exactly that replayed triggers do nothing.
//
// A transport failure returns an error, but the claim row stays (flipped to
// failed): a possibly-delivered email is never retried.
func (d *Dispatcher) SendOneOff(ctx context.Context, p OneOffParams) (bool, error) {
	user, err := d.q.GetUserByID(ctx, p.UserID)
	if err != nil {
		return false, fmt.Errorf("dispatch: load user %s: %w", p.UserID, err)
	}

	// Resolve the template before claiming. A missing template is a
	// configuration error the caller can fix and retry; if the claim were
	// taken first, the retry would lose it and the milestone would never
	// go out. Only attempts that can reach the transport may consume the
	// dedupe key.
	tmpl, err := d.template(ctx, p.TemplateKey, user.Locale)
	if err != nil {
		return false, fmt.Errorf("dispatch: load template %q: %w", p.TemplateKey, err)
	}

	claim, err := d.q.ClaimEmailLog(ctx, db.ClaimEmailLogParams{
		UserID:      p.UserID,
		TemplateKey: p.TemplateKey,
		DayTag:      sql.NullInt32{Int32: p.DayTag, Valid: true},
		Status:      db.EmailStatusSent,
		DedupeKey:   oneOffDedupeKey(p.UserID, p.TemplateKey, p.DayTag),
	})
	if errors.Is(err, sql.ErrNoRows) {
		d.logger.Info("dispatch: one-off already sent",
			"user_id", p.UserID, "template", p.TemplateKey, "day_tag", p.DayTag)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("dispatch: claim one-off send: %w", err)
	}

	log := d.logger.With("user_id", p.UserID, "template", p.TemplateKey, "day_tag", p.DayTag)

	vars := d.vars(user, pqtype.NullRawMessage{})
	for k, v := range p.Vars {
		vars[k] = v
	}
	rendered := campaign.Render(tmpl.Subject, tmpl.Body, tmpl.Cta.String, vars)

	err = d.mailer.Send(ctx, email.SendParams{
		To:       user.Email,
		Subject:  rendered.Subject,
		Body:     rendered.Body,
		CTALabel: rendered.CTA,
		CTAURL:   d.cfg.BaseURL + "/app",
	})
	if err != nil {
		d.markFailed(ctx, claim.ID, err.Error(), log)
		return false, fmt.Errorf("dispatch: send one-off: %w", err)
	}

	log.Info("dispatch: one-off sent", "to", user.Email)
	return true, nil
}

// oneOffDedupeKey identifies one milestone send for one user.
func oneOffDedupeKey(userID uuid.UUID, templateKey string, dayTag int32) string {
	return fmt.Sprintf("%s|%s|day:%d", userID, templateKey, dayTag)
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nyashahama/campaign-dispatch-engine/internal/db"
	"github.com/sqlc-dev/pqtype"
)

// ─── INPUT TYPES ─────────────────────────────────────────────────────────────

// EnrollUserParams is everything a trigger handler hands to the store to start
// a user on a campaign.
type EnrollUserParams struct {
	UserID      uuid.UUID
	CampaignKey string
	Context     map[string]string // merged into template variables at send time; may be nil
}

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// ErrAlreadyEnrolled is returned by EnrollUser when the user already has an
// active enrollment in the campaign. The trigger handler should treat this as
// idempotent success — a duplicate signup event must not restart the sequence
// or create a second enrollment.
var ErrAlreadyEnrolled = errors.New("store: user already enrolled in campaign")

// ErrUnknownCampaign is returned by EnrollUser when the campaign key does not
// exist. Callers should map this to a client error, not a 500 — it usually
// means a typo in the triggering system.
var ErrUnknownCampaign = errors.New("store: unknown campaign")

// ErrCampaignInactive is returned by EnrollUser when the campaign exists but
// is switched off. Enrolling into a paused campaign would strand the
// enrollment at step 0 forever, so we reject it up front.
var ErrCampaignInactive = errors.New("store: campaign is inactive")

// ErrCampaignEmpty is returned by EnrollUser when the campaign has no steps.
var ErrCampaignEmpty = errors.New("store: campaign has no steps")

// ─── METHODS ─────────────────────────────────────────────────────────────────

// EnrollUser is called by trigger handlers (signup, trial start, inactivity
// sweep) to start a user on a campaign. It atomically:
//
//  1. Checks for an existing active enrollment (idempotency guard).
//  2. Validates the campaign exists, is active, and has at least one step.
//  3. Inserts a new enrollment at step 0 with the clock started.
//
// If the user is already actively enrolled, ErrAlreadyEnrolled is returned
// along with the existing enrollment. The caller should log this at debug
// level and return success to the triggering system — no further work is
// needed.
//
// The partial unique index on (user_id, campaign_key) WHERE status = 'active'
// is the hard guard; the serializable transaction turns a concurrent
// double-enroll into a serialization failure on one side instead of a
// constraint violation surfacing to the client.
func (s *Store) EnrollUser(ctx context.Context, p EnrollUserParams) (db.Enrollment, error) {
	var enrollment db.Enrollment

	err := s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		// 1. Idempotency guard — an active enrollment may already exist from a
		//    prior delivery of the same trigger.
		existing, err := q.GetActiveEnrollment(ctx, db.GetActiveEnrollmentParams{
			UserID:      p.UserID,
			CampaignKey: p.CampaignKey,
		})
		if err == nil {
			// Row found — surface the sentinel and return the existing
			// enrollment so the caller can echo it back.
			enrollment = existing
			return ErrAlreadyEnrolled
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("EnrollUser: check existing enrollment: %w", err)
		}

		// 2. Validate the campaign.
		camp, err := q.GetCampaignByKey(ctx, p.CampaignKey)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUnknownCampaign
		}
		if err != nil {
			return fmt.Errorf("EnrollUser: load campaign %q: %w", p.CampaignKey, err)
		}
		if !camp.Active {
			return ErrCampaignInactive
		}

		steps, err := q.ListCampaignSteps(ctx, p.CampaignKey)
		if err != nil {
			return fmt.Errorf("EnrollUser: list steps for %q: %w", p.CampaignKey, err)
		}
		if len(steps) == 0 {
			return ErrCampaignEmpty
		}

		// 3. Insert at step 0. step_started_at defaults to now() so the first
		//    step's delay counts from the moment of enrollment.
		contextJSON := pqtype.NullRawMessage{}
		if len(p.Context) > 0 {
			raw, err := json.Marshal(p.Context)
			if err != nil {
				return fmt.Errorf("EnrollUser: marshal context: %w", err)
			}
			contextJSON = pqtype.NullRawMessage{RawMessage: raw, Valid: true}
		}

		created, err := q.InsertEnrollment(ctx, db.InsertEnrollmentParams{
			UserID:      p.UserID,
			CampaignKey: p.CampaignKey,
			Context:     contextJSON,
		})
		if err != nil {
			return fmt.Errorf("EnrollUser: insert enrollment: %w", err)
		}

		enrollment = created
		return nil
	})

	if errors.Is(err, ErrAlreadyEnrolled) {
		return enrollment, ErrAlreadyEnrolled
	}
	if err != nil {
		return db.Enrollment{}, err
	}

	return enrollment, nil
}

// StopEnrollment halts the user's active enrollment in a campaign with an
// explicit reason ("unsubscribed", "support_request", etc.). Returns the
// number of enrollments stopped: 0 means there was nothing active, which
// callers should treat as success — stopping twice is a no-op, not an error.
//
// This is a single conditional UPDATE — no transaction needed — but it lives
// here because it is logically part of the enrollment lifecycle and handlers
// should not reach for db.Querier directly for lifecycle writes.
func (s *Store) StopEnrollment(ctx context.Context, userID uuid.UUID, campaignKey, reason string) (int64, error) {
	n, err := s.q.StopActiveEnrollment(ctx, db.StopActiveEnrollmentParams{
		UserID:      userID,
		CampaignKey: campaignKey,
		StopReason:  reason,
	})
	if err != nil {
		return 0, fmt.Errorf("StopEnrollment: %w", err)
	}
	return n, nil
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nyashahama/campaign-dispatch-engine/internal/db"
	"github.com/nyashahama/campaign-dispatch-engine/internal/store"
)

// enrollmentView is the JSON shape for an enrollment in API responses.
type enrollmentView struct {
	EnrollmentID  string    `json:"enrollment_id"`
	UserID        string    `json:"user_id"`
	CampaignKey   string    `json:"campaign_key"`
	Status        string    `json:"status"`
	StepIndex     int32     `json:"step_index"`
	StepStartedAt time.Time `json:"step_started_at"`
	StopReason    string    `json:"stop_reason,omitempty"`
}

func toEnrollmentView(e db.Enrollment) enrollmentView {
	return enrollmentView{
		EnrollmentID:  e.ID.String(),
		UserID:        e.UserID.String(),
		CampaignKey:   e.CampaignKey,
		Status:        string(e.Status),
		StepIndex:     e.StepIndex,
		StepStartedAt: e.StepStartedAt,
		StopReason:    e.StopReason.String,
	}
}

// ─── POST /api/enrollments ────────────────────────────────────────────────────

type enrollRequest struct {
	UserID      string            `json:"user_id"`
	CampaignKey string            `json:"campaign_key"`
	Context     map[string]string `json:"context"`
}

type enrollResponse struct {
	Enrollment      enrollmentView `json:"enrollment"`
	AlreadyEnrolled bool           `json:"already_enrolled"`
}

// handleEnroll starts a user on a campaign. The triggering system (signup
// flow, trial start, inactivity sweep) delivers at-least-once, so a repeat
// for an already-active enrollment returns the existing record with 200 —
// never a restarted sequence, never an error.
func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if !decode(w, r, &req) {
		return
	}
	userID, ok := parseUserID(w, req.UserID)
	if !ok {
		return
	}
	if req.CampaignKey == "" {
		respondErr(w, http.StatusBadRequest, "campaign_key is required")
		return
	}

	enrollment, err := s.store.EnrollUser(r.Context(), store.EnrollUserParams{
		UserID:      userID,
		CampaignKey: req.CampaignKey,
		Context:     req.Context,
	})
	switch {
	case errors.Is(err, store.ErrAlreadyEnrolled):
		s.logger.Debug("enroll: already enrolled",
			"user_id", userID, "campaign", req.CampaignKey, logField(r))
		respond(w, http.StatusOK, enrollResponse{
			Enrollment:      toEnrollmentView(enrollment),
			AlreadyEnrolled: true,
		})
		return
	case errors.Is(err, store.ErrUnknownCampaign):
		respondErr(w, http.StatusNotFound, "unknown campaign: "+req.CampaignKey)
		return
	case errors.Is(err, store.ErrCampaignInactive):
		respondErr(w, http.StatusConflict, "campaign is inactive: "+req.CampaignKey)
		return
	case errors.Is(err, store.ErrCampaignEmpty):
		respondErr(w, http.StatusConflict, "campaign has no steps: "+req.CampaignKey)
		return
	case err != nil:
		s.respondInternalErr(w, r, fmt.Errorf("enroll user: %w", err))
		return
	}

	respond(w, http.StatusCreated, enrollResponse{
		Enrollment: toEnrollmentView(enrollment),
	})
}

// ─── POST /api/enrollments/stop ───────────────────────────────────────────────

type stopEnrollmentRequest struct {
	UserID      string `json:"user_id"`
	CampaignKey string `json:"campaign_key"`
	Reason      string `json:"reason"`
}

type stopEnrollmentResponse struct {
	Stopped bool `json:"stopped"`
}

// handleStopEnrollment halts the user's active enrollment in a campaign.
// Stopping when nothing is active is a no-op success, so unsubscribe replays
// and races with the dispatcher both resolve quietly.
func (s *Server) handleStopEnrollment(w http.ResponseWriter, r *http.Request) {
	var req stopEnrollmentRequest
	if !decode(w, r, &req) {
		return
	}
	userID, ok := parseUserID(w, req.UserID)
	if !ok {
		return
	}
	if req.CampaignKey == "" {
		respondErr(w, http.StatusBadRequest, "campaign_key is required")
		return
	}
	reason := req.Reason
	if reason == "" {
		reason = "manual"
	}

	n, err := s.store.StopEnrollment(r.Context(), userID, req.CampaignKey, reason)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("stop enrollment: %w", err))
		return
	}

	respond(w, http.StatusOK, stopEnrollmentResponse{Stopped: n > 0})
}

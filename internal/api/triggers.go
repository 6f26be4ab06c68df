package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/nyashahama/campaign-dispatch-engine/internal/dispatch"
	"github.com/nyashahama/campaign-dispatch-engine/internal/store"
)

// ─── POST /api/activity ───────────────────────────────────────────────────────

type activityRequest struct {
	UserID string `json:"user_id"`
}

// handleActivity refreshes the user's last-activity timestamp. The product
// backend calls this on app opens and lesson starts; inactivity stop
// conditions read the timestamp at dispatch time, so this is all the
// re-engagement machinery needs.
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if !decode(w, r, &req) {
		return
	}
	userID, ok := parseUserID(w, req.UserID)
	if !ok {
		return
	}

	n, err := s.q.TouchUserActivity(r.Context(), userID)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("touch activity: %w", err))
		return
	}
	if n == 0 {
		respondErr(w, http.StatusNotFound, "unknown user")
		return
	}

	respond(w, http.StatusOK, map[string]bool{"ok": true})
}

// ─── POST /api/progress/days ──────────────────────────────────────────────────

type completeDayRequest struct {
	UserID string `json:"user_id"`
	Day    int32  `json:"day"`
}

type completeDayResponse struct {
	NewDay         bool `json:"new_day"`
	CompletedDays  int  `json:"completed_days"`
	ModuleComplete bool `json:"module_complete"`
	CourseComplete bool `json:"course_complete"`
	MilestoneSent  bool `json:"milestone_sent"`
}

// handleCompleteDay records a finished course day and fires milestone emails
// when the completion closed out a module or the whole course.
//
// Milestone sends are gated on NewDay so a replayed progress event can never
// re-send them, and the one-off dedupe key backs that up at the email_log
// level.
func (s *Server) handleCompleteDay(w http.ResponseWriter, r *http.Request) {
	var req completeDayRequest
	if !decode(w, r, &req) {
		return
	}
	userID, ok := parseUserID(w, req.UserID)
	if !ok {
		return
	}

	result, err := s.store.CompleteDay(r.Context(), store.CompleteDayParams{
		UserID:           userID,
		Day:              req.Day,
		ModuleSizeDays:   s.cfg.ModuleSizeDays,
		CourseLengthDays: s.cfg.CourseLengthDays,
	})
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("complete day %d: %w", req.Day, err))
		return
	}

	resp := completeDayResponse{
		NewDay:         result.NewDay,
		CompletedDays:  result.CompletedDays,
		ModuleComplete: result.ModuleComplete,
		CourseComplete: result.CourseComplete,
	}

	if result.NewDay {
		resp.MilestoneSent = s.sendMilestones(r, userID, req.Day, result)
	}

	respond(w, http.StatusOK, resp)
}

// sendMilestones fires the module- and course-completion one-offs. Send
// failures are logged, never surfaced: the day is already recorded and a 500
// here would make the product backend replay the whole trigger.
func (s *Server) sendMilestones(r *http.Request, userID uuid.UUID, day int32, result store.CompleteDayResult) bool {
	var any bool

	if result.ModuleComplete {
		sent, err := s.dispatcher.SendOneOff(r.Context(), dispatch.OneOffParams{
			UserID:      userID,
			TemplateKey: "module_complete",
			DayTag:      day,
			Vars: map[string]string{
				"module": strconv.Itoa(int(day / s.cfg.ModuleSizeDays)),
			},
		})
		if err != nil {
			s.logger.Error("milestone: module_complete send failed",
				"user_id", userID, "day", day, "error", err, logField(r))
		}
		any = any || sent
	}

	if result.CourseComplete {
		sent, err := s.dispatcher.SendOneOff(r.Context(), dispatch.OneOffParams{
			UserID:      userID,
			TemplateKey: "course_complete",
			DayTag:      day,
		})
		if err != nil {
			s.logger.Error("milestone: course_complete send failed",
				"user_id", userID, "day", day, "error", err, logField(r))
		}
		any = any || sent
	}

	return any
}

// ─── POST /api/messages ───────────────────────────────────────────────────────

type sendMessageRequest struct {
	UserID      string            `json:"user_id"`
	TemplateKey string            `json:"template_key"`
	DayTag      int32             `json:"day_tag"`
	Vars        map[string]string `json:"vars"`
}

type sendMessageResponse struct {
	Sent bool `json:"sent"`
}

// handleSendMessage sends a single templated email outside any campaign.
// The (user, template, day_tag) triple is the dedupe identity: a replay
// returns sent=false with 200.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !decode(w, r, &req) {
		return
	}
	userID, ok := parseUserID(w, req.UserID)
	if !ok {
		return
	}
	if req.TemplateKey == "" {
		respondErr(w, http.StatusBadRequest, "template_key is required")
		return
	}

	sent, err := s.dispatcher.SendOneOff(r.Context(), dispatch.OneOffParams{
		UserID:      userID,
		TemplateKey: req.TemplateKey,
		DayTag:      req.DayTag,
		Vars:        req.Vars,
	})
	if errors.Is(err, sql.ErrNoRows) {
		// Either the user or the template does not exist.
		respondErr(w, http.StatusNotFound, "unknown user or template")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("send one-off %q: %w", req.TemplateKey, err))
		return
	}

	respond(w, http.StatusOK, sendMessageResponse{Sent: sent})
}

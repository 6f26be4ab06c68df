package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/nyashahama/campaign-dispatch-engine/internal/db"
)

// ─── POST /api/dispatch/run ───────────────────────────────────────────────────

type dispatchRunRequest struct {
	// BatchLimit caps how many due enrollments this run processes. Zero means
	// use the configured default.
	BatchLimit int32 `json:"batch_limit"`
}

// handleDispatchRun executes one dispatch batch. Called by cron every few
// minutes; the body is optional. Overlapping calls are safe — the claim and
// CAS guards inside the dispatcher resolve the race per enrollment.
func (s *Server) handleDispatchRun(w http.ResponseWriter, r *http.Request) {
	req := dispatchRunRequest{}
	// An empty body is valid; only decode when the caller sent one.
	if r.ContentLength > 0 {
		if !decode(w, r, &req) {
			return
		}
	}
	if req.BatchLimit <= 0 {
		req.BatchLimit = s.cfg.DefaultBatchLimit
	}

	stats, err := s.dispatcher.RunOnce(r.Context(), req.BatchLimit)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("dispatch run: %w", err))
		return
	}

	respond(w, http.StatusOK, stats)
}

// ─── GET /api/dispatch/logs ───────────────────────────────────────────────────

type emailLogView struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	TemplateKey string    `json:"template_key"`
	CampaignKey string    `json:"campaign_key,omitempty"`
	StepIndex   *int32    `json:"step_index,omitempty"`
	DayTag      *int32    `json:"day_tag,omitempty"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// handleDispatchLogs returns recent email_log rows, newest first. Filters:
// ?user_id=, ?status=, ?campaign=, ?limit= (default 100, max 500).
func (s *Server) handleDispatchLogs(w http.ResponseWriter, r *http.Request) {
	params := db.ListEmailLogParams{Limit: 100}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			respondErr(w, http.StatusBadRequest, "limit must be 1-500")
			return
		}
		params.Limit = int32(n)
	}

	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondErr(w, http.StatusBadRequest, "user_id must be a valid UUID")
			return
		}
		params.UserID = uuid.NullUUID{UUID: id, Valid: true}
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := db.EmailStatus(raw)
		switch status {
		case db.EmailStatusSent, db.EmailStatusFailed, db.EmailStatusSuppressed:
		default:
			respondErr(w, http.StatusBadRequest, "status must be sent, failed, or suppressed")
			return
		}
		params.Status = db.NullEmailStatus{EmailStatus: status, Valid: true}
	}

	if raw := r.URL.Query().Get("campaign"); raw != "" {
		params.CampaignKey = sql.NullString{String: raw, Valid: true}
	}

	rows, err := s.q.ListEmailLog(r.Context(), params)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("list email log: %w", err))
		return
	}

	views := make([]emailLogView, 0, len(rows))
	for _, row := range rows {
		v := emailLogView{
			ID:          row.ID.String(),
			UserID:      row.UserID.String(),
			TemplateKey: row.TemplateKey,
			CampaignKey: row.CampaignKey.String,
			Status:      string(row.Status),
			Error:       row.Error.String,
			CreatedAt:   row.CreatedAt,
		}
		if row.StepIndex.Valid {
			v.StepIndex = &row.StepIndex.Int32
		}
		if row.DayTag.Valid {
			v.DayTag = &row.DayTag.Int32
		}
		views = append(views, v)
	}

	respond(w, http.StatusOK, map[string]any{"logs": views})
}

package dispatch_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nyashahama/campaign-dispatch-engine/internal/db"
	"github.com/nyashahama/campaign-dispatch-engine/internal/dispatch"
	"github.com/nyashahama/campaign-dispatch-engine/internal/email"
	"github.com/sqlc-dev/pqtype"
)

// ─── STUBS ────────────────────────────────────────────────────────────────────

// stubQuerier satisfies db.Querier with in-memory state.
// Fields may be set per-test to control behaviour.
type stubQuerier struct {
	db.Querier // embedded to panic on unimplemented methods

	users         map[uuid.UUID]db.User
	enrollments   map[uuid.UUID]db.Enrollment
	steps         map[string]map[int32]db.CampaignStep // campaign key → step index
	templates     map[string]db.Template               // "key|language"
	emailLog      map[string]db.EmailLog               // dedupe key
	completedDays map[uuid.UUID][]int32
	due           []db.ListDueEnrollmentsRow

	getUserErr error
}

func newStubQuerier() *stubQuerier {
	return &stubQuerier{
		users:         make(map[uuid.UUID]db.User),
		enrollments:   make(map[uuid.UUID]db.Enrollment),
		steps:         make(map[string]map[int32]db.CampaignStep),
		templates:     make(map[string]db.Template),
		emailLog:      make(map[string]db.EmailLog),
		completedDays: make(map[uuid.UUID][]int32),
	}
}

func (q *stubQuerier) addUser(u db.User) {
	q.users[u.ID] = u
}

func (q *stubQuerier) addStep(campaignKey string, index int32, templateKey string, stopConditions string) {
	if q.steps[campaignKey] == nil {
		q.steps[campaignKey] = make(map[int32]db.CampaignStep)
	}
	step := db.CampaignStep{
		ID:          uuid.New(),
		CampaignKey: campaignKey,
		StepIndex:   index,
		TemplateKey: templateKey,
	}
	if stopConditions != "" {
		step.StopConditions = pqtype.NullRawMessage{
			RawMessage: json.RawMessage(stopConditions),
			Valid:      true,
		}
	}
	q.steps[campaignKey][index] = step
}

func (q *stubQuerier) addTemplate(key, language, subject, body string) {
	q.templates[key+"|"+language] = db.Template{
		Key:      key,
		Language: language,
		Subject:  subject,
		Body:     body,
		Cta:      sql.NullString{String: "Open DailyLingo", Valid: true},
	}
}

// addDue registers an active enrollment at the given step and marks it due.
func (q *stubQuerier) addDue(userID uuid.UUID, campaignKey string, stepIndex int32) db.Enrollment {
	enr := db.Enrollment{
		ID:            uuid.New(),
		UserID:        userID,
		CampaignKey:   campaignKey,
		Status:        db.EnrollmentStatusActive,
		StepIndex:     stepIndex,
		StepStartedAt: time.Now().Add(-48 * time.Hour),
		CreatedAt:     time.Now().Add(-72 * time.Hour),
	}
	q.enrollments[enr.ID] = enr
	q.due = append(q.due, db.ListDueEnrollmentsRow{
		Enrollment:   enr,
		CampaignStep: q.steps[campaignKey][stepIndex],
	})
	return enr
}

func (q *stubQuerier) ListDueEnrollments(_ context.Context, limit int32) ([]db.ListDueEnrollmentsRow, error) {
	if int32(len(q.due)) <= limit {
		return q.due, nil
	}
	return q.due[:limit], nil
}

func (q *stubQuerier) GetUserByID(_ context.Context, id uuid.UUID) (db.User, error) {
	if q.getUserErr != nil {
		return db.User{}, q.getUserErr
	}
	u, ok := q.users[id]
	if !ok {
		return db.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (q *stubQuerier) ListCompletedDays(_ context.Context, userID uuid.UUID) ([]int32, error) {
	return q.completedDays[userID], nil
}

func (q *stubQuerier) GetCampaignStep(_ context.Context, p db.GetCampaignStepParams) (db.CampaignStep, error) {
	step, ok := q.steps[p.CampaignKey][p.StepIndex]
	if !ok {
		return db.CampaignStep{}, sql.ErrNoRows
	}
	return step, nil
}

func (q *stubQuerier) GetTemplate(_ context.Context, p db.GetTemplateParams) (db.Template, error) {
	tmpl, ok := q.templates[p.Key+"|"+p.Language]
	if !ok {
		return db.Template{}, sql.ErrNoRows
	}
	return tmpl, nil
}

func (q *stubQuerier) ClaimEmailLog(_ context.Context, p db.ClaimEmailLogParams) (db.EmailLog, error) {
	if _, exists := q.emailLog[p.DedupeKey]; exists {
		// ON CONFLICT DO NOTHING RETURNING * yields no row on conflict.
		return db.EmailLog{}, sql.ErrNoRows
	}
	row := db.EmailLog{
		ID:          uuid.New(),
		UserID:      p.UserID,
		TemplateKey: p.TemplateKey,
		CampaignKey: p.CampaignKey,
		StepIndex:   p.StepIndex,
		DayTag:      p.DayTag,
		Status:      p.Status,
		DedupeKey:   p.DedupeKey,
		CreatedAt:   time.Now(),
	}
	q.emailLog[p.DedupeKey] = row
	return row, nil
}

func (q *stubQuerier) MarkEmailLogFailed(_ context.Context, p db.MarkEmailLogFailedParams) (db.EmailLog, error) {
	for key, row := range q.emailLog {
		if row.ID == p.ID {
			row.Status = db.EmailStatusFailed
			row.Error = sql.NullString{String: p.Error, Valid: true}
			q.emailLog[key] = row
			return row, nil
		}
	}
	return db.EmailLog{}, sql.ErrNoRows
}

func (q *stubQuerier) AdvanceEnrollment(_ context.Context, p db.AdvanceEnrollmentParams) (int64, error) {
	enr, ok := q.enrollments[p.ID]
	if !ok || enr.StepIndex != p.StepIndex || enr.Status != db.EnrollmentStatusActive {
		return 0, nil
	}
	enr.StepIndex = p.StepIndex + 1
	enr.StepStartedAt = time.Now()
	q.enrollments[p.ID] = enr
	return 1, nil
}

func (q *stubQuerier) CompleteEnrollment(_ context.Context, p db.CompleteEnrollmentParams) (int64, error) {
	enr, ok := q.enrollments[p.ID]
	if !ok || enr.StepIndex != p.StepIndex || enr.Status != db.EnrollmentStatusActive {
		return 0, nil
	}
	enr.Status = db.EnrollmentStatusCompleted
	q.enrollments[p.ID] = enr
	return 1, nil
}

func (q *stubQuerier) TerminateEnrollment(_ context.Context, p db.TerminateEnrollmentParams) (int64, error) {
	enr, ok := q.enrollments[p.ID]
	if !ok || enr.StepIndex != p.StepIndex || enr.Status != db.EnrollmentStatusActive {
		return 0, nil
	}
	enr.Status = db.EnrollmentStatusStopped
	enr.StopReason = sql.NullString{String: p.StopReason, Valid: true}
	q.enrollments[p.ID] = enr
	return 1, nil
}

// stubSender records sends and can be told to fail.
type stubSender struct {
	sent []email.SendParams
	err  error
}

func (s *stubSender) Send(_ context.Context, p email.SendParams) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, p)
	return nil
}

// ─── TEST HELPERS ─────────────────────────────────────────────────────────────

func newDispatcher(q *stubQuerier, sender *stubSender) *dispatch.Dispatcher {
	return dispatch.New(q, sender, dispatch.Config{
		DefaultLanguage: "en",
		BaseURL:         "https://dailylingo.dev",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func seedUser(q *stubQuerier) db.User {
	u := db.User{
		ID:             uuid.New(),
		Email:          "learner@example.com",
		Name:           "Thandi",
		Locale:         "en",
		CourseDay:      3,
		TrialStatus:    "active",
		LastActivityAt: time.Now().Add(-2 * time.Hour),
	}
	q.addUser(u)
	return u
}

// ─── RunOnce ──────────────────────────────────────────────────────────────────

func TestRunOnce_SendsDueStepAndAdvances(t *testing.T) {
	q := newStubQuerier()
	sender := &stubSender{}
	user := seedUser(q)

	q.addStep("onboarding", 0, "welcome_day_0", "")
	q.addStep("onboarding", 1, "welcome_day_2", "")
	q.addTemplate("welcome_day_0", "en", "Welcome, {name}!", "Day {day} awaits.")
	enr := q.addDue(user.ID, "onboarding", 0)

	stats, err := newDispatcher(q, sender).RunOnce(context.Background(), 50)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if stats.Selected != 1 || stats.Sent != 1 {
		t.Errorf("stats: %+v", stats)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 send, got %d", len(sender.sent))
	}
	if sender.sent[0].To != "learner@example.com" {
		t.Errorf("to: got %q", sender.sent[0].To)
	}
	if sender.sent[0].Subject != "Welcome, Thandi!" {
		t.Errorf("subject: got %q", sender.sent[0].Subject)
	}
	if sender.sent[0].Body != "Day 3 awaits." {
		t.Errorf("body: got %q", sender.sent[0].Body)
	}

	after := q.enrollments[enr.ID]
	if after.StepIndex != 1 {
		t.Errorf("expected advance to step 1, got %d", after.StepIndex)
	}
	if after.Status != db.EnrollmentStatusActive {
		t.Errorf("expected still active, got %s", after.Status)
	}

	key := fmt.Sprintf("%s|onboarding|0|welcome_day_0", user.ID)
	row, ok := q.emailLog[key]
	if !ok {
		t.Fatalf("expected email log row under %q", key)
	}
	if row.Status != db.EmailStatusSent {
		t.Errorf("log status: got %s", row.Status)
	}
}

func TestRunOnce_CompletesEnrollmentOnLastStep(t *testing.T) {
	q := newStubQuerier()
	sender := &stubSender{}
	user := seedUser(q)

	q.addStep("onboarding", 2, "welcome_day_7", "")
	q.addTemplate("welcome_day_7", "en", "One week in", "Keep going.")
	enr := q.addDue(user.ID, "onboarding", 2)

	stats, err := newDispatcher(q, sender).RunOnce(context.Background(), 50)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if stats.Sent != 1 || stats.Completed != 1 {
		t.Errorf("stats: %+v", stats)
	}
	if got := q.enrollments[enr.ID].Status; got != db.EnrollmentStatusCompleted {
		t.Errorf("expected completed, got %s", got)
	}
}

func TestRunOnce_PaidConditionTerminatesWithoutSending(t *testing.T) {
	q := newStubQuerier()
	sender := &stubSender{}
	user := seedUser(q)
	user.Paid = true
	q.addUser(user)

	q.addStep("trial_nurture", 1, "upgrade_nudge",
		`[{"kind":"paid","effect":"terminate"}]`)
	q.addTemplate("upgrade_nudge", "en", "Go premium", "Upgrade today.")
	enr := q.addDue(user.ID, "trial_nurture", 1)

	stats, err := newDispatcher(q, sender).RunOnce(context.Background(), 50)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if stats.Terminated != 1 || stats.Sent != 0 {
		t.Errorf("stats: %+v", stats)
	}
	if len(sender.sent) != 0 {
		t.Errorf("expected no sends, got %d", len(sender.sent))
	}

	after := q.enrollments[enr.ID]
	if after.Status != db.EnrollmentStatusStopped {
		t.Errorf("expected stopped, got %s", after.Status)
	}
	if after.StopReason.String != "paid" {
		t.Errorf("stop reason: got %q", after.StopReason.String)
	}

	// The audit row shows why the step never left.
	key := fmt.Sprintf("%s|trial_nurture|1|upgrade_nudge", user.ID)
	if row := q.emailLog[key]; row.Status != db.EmailStatusSuppressed {
		t.Errorf("expected suppressed audit row, got %+v", row)
	}
}

func TestRunOnce_SuppressSkipsSendButAdvances(t *testing.T) {
	q := newStubQuerier()
	sender := &stubSender{}
	user := seedUser(q)
	user.Paid = true
	q.addUser(user)

	q.addStep("onboarding", 0, "trial_reminder",
		`[{"kind":"paid","effect":"suppress"}]`)
	q.addStep("onboarding", 1, "welcome_day_2", "")
	enr := q.addDue(user.ID, "onboarding", 0)

	stats, err := newDispatcher(q, sender).RunOnce(context.Background(), 50)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if stats.Suppressed != 1 || stats.Sent != 0 {
		t.Errorf("stats: %+v", stats)
	}
	if len(sender.sent) != 0 {
		t.Errorf("expected no sends, got %d", len(sender.sent))
	}

	after := q.enrollments[enr.ID]
	if after.Status != db.EnrollmentStatusActive || after.StepIndex != 1 {
		t.Errorf("expected active at step 1, got %s step %d", after.Status, after.StepIndex)
	}
}

func TestRunOnce_LostClaimSkipsResendButAdvances(t *testing.T) {
	q := newStubQuerier()
	sender := &stubSender{}
	user := seedUser(q)

	q.addStep("onboarding", 0, "welcome_day_0", "")
	q.addStep("onboarding", 1, "welcome_day_2", "")
	q.addTemplate("welcome_day_0", "en", "Welcome", "Hi.")
	enr := q.addDue(user.ID, "onboarding", 0)

	// A previous run already claimed this exact step.
	key := fmt.Sprintf("%s|onboarding|0|welcome_day_0", user.ID)
	q.emailLog[key] = db.EmailLog{ID: uuid.New(), Status: db.EmailStatusSent, DedupeKey: key}

	stats, err := newDispatcher(q, sender).RunOnce(context.Background(), 50)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if stats.Skipped != 1 || stats.Sent != 0 {
		t.Errorf("stats: %+v", stats)
	}
	if len(sender.sent) != 0 {
		t.Error("claimed step must not be re-sent")
	}
	if got := q.enrollments[enr.ID].StepIndex; got != 1 {
		t.Errorf("expected advance past claimed step, got %d", got)
	}
}

func TestRunOnce_LostAdvanceCountsAsSkipped(t *testing.T) {
	q := newStubQuerier()
	sender := &stubSender{}
	user := seedUser(q)

	q.addStep("onboarding", 0, "welcome_day_0", "")
	q.addStep("onboarding", 1, "welcome_day_2", "")
	q.addTemplate("welcome_day_0", "en", "Welcome", "Hi.")
	enr := q.addDue(user.ID, "onboarding", 0)

	// A concurrent run advanced the enrollment after this batch selected it,
	// so the guarded advance finds the row already moved past step 0.
	moved := q.enrollments[enr.ID]
	moved.StepIndex = 1
	q.enrollments[enr.ID] = moved

	stats, err := newDispatcher(q, sender).RunOnce(context.Background(), 50)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if stats.Sent != 1 {
		t.Errorf("expected the claimed send to go out, stats: %+v", stats)
	}
	if stats.Skipped != 1 {
		t.Errorf("lost advance must be counted as skipped, stats: %+v", stats)
	}
	if got := q.enrollments[enr.ID].StepIndex; got != 1 {
		t.Errorf("lost advance must leave the concurrent writer's step intact, got %d", got)
	}
}

func TestRunOnce_SendFailureMarksClaimFailedAndAdvances(t *testing.T) {
	q := newStubQuerier()
	sender := &stubSender{err: errors.New("resend: 503")}
	user := seedUser(q)

	q.addStep("onboarding", 0, "welcome_day_0", "")
	q.addStep("onboarding", 1, "welcome_day_2", "")
	q.addTemplate("welcome_day_0", "en", "Welcome", "Hi.")
	enr := q.addDue(user.ID, "onboarding", 0)

	stats, err := newDispatcher(q, sender).RunOnce(context.Background(), 50)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if stats.Failed != 1 || stats.Sent != 0 {
		t.Errorf("stats: %+v", stats)
	}

	key := fmt.Sprintf("%s|onboarding|0|welcome_day_0", user.ID)
	row := q.emailLog[key]
	if row.Status != db.EmailStatusFailed {
		t.Errorf("log status: got %s", row.Status)
	}
	if !row.Error.Valid || row.Error.String != "resend: 503" {
		t.Errorf("log error: %+v", row.Error)
	}

	// Failure policy: record and move on, never retry a possibly-sent email.
	if got := q.enrollments[enr.ID].StepIndex; got != 1 {
		t.Errorf("expected advance after failure, got step %d", got)
	}
}

func TestRunOnce_OneBadEnrollmentDoesNotAbortBatch(t *testing.T) {
	q := newStubQuerier()
	sender := &stubSender{}

	q.addStep("onboarding", 0, "welcome_day_0", "")
	q.addStep("onboarding", 1, "welcome_day_2", "")
	q.addTemplate("welcome_day_0", "en", "Welcome", "Hi.")

	// First enrollment references a user that does not exist.
	q.addDue(uuid.New(), "onboarding", 0)
	healthy := seedUser(q)
	q.addDue(healthy.ID, "onboarding", 0)

	stats, err := newDispatcher(q, sender).RunOnce(context.Background(), 50)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if stats.Skipped != 1 {
		t.Errorf("expected 1 skip, got %+v", stats)
	}
	if stats.Sent != 1 {
		t.Errorf("expected healthy enrollment to still send, got %+v", stats)
	}
}

func TestRunOnce_RespectsBatchLimit(t *testing.T) {
	q := newStubQuerier()
	sender := &stubSender{}

	q.addStep("onboarding", 0, "welcome_day_0", "")
	q.addStep("onboarding", 1, "welcome_day_2", "")
	q.addTemplate("welcome_day_0", "en", "Welcome", "Hi.")

	for i := 0; i < 5; i++ {
		u := db.User{ID: uuid.New(), Email: "u@example.com", Name: "U", Locale: "en"}
		q.addUser(u)
		q.addDue(u.ID, "onboarding", 0)
	}

	stats, err := newDispatcher(q, sender).RunOnce(context.Background(), 2)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if stats.Selected != 2 || stats.Sent != 2 {
		t.Errorf("stats: %+v", stats)
	}
}

func TestRunOnce_TemplateFallsBackToDefaultLanguage(t *testing.T) {
	q := newStubQuerier()
	sender := &stubSender{}
	user := seedUser(q)
	user.Locale = "pt"
	q.addUser(user)

	q.addStep("onboarding", 0, "welcome_day_0", "")
	q.addTemplate("welcome_day_0", "en", "Welcome", "English fallback.")
	q.addDue(user.ID, "onboarding", 0)

	stats, err := newDispatcher(q, sender).RunOnce(context.Background(), 50)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if stats.Sent != 1 {
		t.Fatalf("stats: %+v", stats)
	}
	if sender.sent[0].Body != "English fallback." {
		t.Errorf("body: got %q", sender.sent[0].Body)
	}
}

func TestRunOnce_MalformedConditionsStillSend(t *testing.T) {
	q := newStubQuerier()
	sender := &stubSender{}
	user := seedUser(q)

	q.addStep("onboarding", 0, "welcome_day_0", `{"not":"an array"`)
	q.addTemplate("welcome_day_0", "en", "Welcome", "Hi.")
	q.addDue(user.ID, "onboarding", 0)

	stats, err := newDispatcher(q, sender).RunOnce(context.Background(), 50)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if stats.Sent != 1 || stats.Terminated != 0 {
		t.Errorf("bad condition JSON must never stop a campaign: %+v", stats)
	}
}

// ─── SendOneOff ───────────────────────────────────────────────────────────────

func TestSendOneOff_SendsOnceThenDedupes(t *testing.T) {
	q := newStubQuerier()
	sender := &stubSender{}
	user := seedUser(q)
	q.addTemplate("module_complete", "en", "Module done, {name}!", "You finished module {module}.")

	d := newDispatcher(q, sender)
	params := dispatch.OneOffParams{
		UserID:      user.ID,
		TemplateKey: "module_complete",
		DayTag:      7,
		Vars:        map[string]string{"module": "1"},
	}

	sent, err := d.SendOneOff(context.Background(), params)
	if err != nil {
		t.Fatalf("SendOneOff: %v", err)
	}
	if !sent {
		t.Fatal("expected first call to send")
	}
	if sender.sent[0].Subject != "Module done, Thandi!" {
		t.Errorf("subject: got %q", sender.sent[0].Subject)
	}
	if sender.sent[0].Body != "You finished module 1." {
		t.Errorf("body: got %q", sender.sent[0].Body)
	}

	// Replayed trigger: same user, template, day tag.
	sent, err = d.SendOneOff(context.Background(), params)
	if err != nil {
		t.Fatalf("second SendOneOff: %v", err)
	}
	if sent {
		t.Error("expected duplicate milestone to be deduped")
	}
	if len(sender.sent) != 1 {
		t.Errorf("expected exactly 1 send, got %d", len(sender.sent))
	}
}

func TestSendOneOff_MissingTemplateLeavesDedupeKeyFree(t *testing.T) {
	q := newStubQuerier()
	sender := &stubSender{}
	user := seedUser(q)

	d := newDispatcher(q, sender)
	params := dispatch.OneOffParams{
		UserID:      user.ID,
		TemplateKey: "module_complete",
		DayTag:      7,
	}

	// Template not seeded yet — the attempt must fail without consuming the
	// dedupe key.
	if _, err := d.SendOneOff(context.Background(), params); err == nil {
		t.Fatal("expected error for missing template")
	}
	if len(q.emailLog) != 0 {
		t.Fatalf("failed config check must not claim: %d log rows", len(q.emailLog))
	}

	// Operator seeds the template; the retry must actually deliver.
	q.addTemplate("module_complete", "en", "Module done", "Nice work.")
	sent, err := d.SendOneOff(context.Background(), params)
	if err != nil {
		t.Fatalf("retry after seeding template: %v", err)
	}
	if !sent {
		t.Error("expected retry to send")
	}
	if len(sender.sent) != 1 {
		t.Errorf("expected 1 transport send, got %d", len(sender.sent))
	}
}

func TestSendOneOff_DifferentDayTagSendsAgain(t *testing.T) {
	q := newStubQuerier()
	sender := &stubSender{}
	user := seedUser(q)
	q.addTemplate("module_complete", "en", "Module done", "Nice work.")

	d := newDispatcher(q, sender)
	for _, day := range []int32{7, 14} {
		sent, err := d.SendOneOff(context.Background(), dispatch.OneOffParams{
			UserID:      user.ID,
			TemplateKey: "module_complete",
			DayTag:      day,
		})
		if err != nil {
			t.Fatalf("SendOneOff day %d: %v", day, err)
		}
		if !sent {
			t.Errorf("expected day %d milestone to send", day)
		}
	}
	if len(sender.sent) != 2 {
		t.Errorf("expected 2 sends, got %d", len(sender.sent))
	}
}

func TestSendOneOff_TransportFailureSurfacesError(t *testing.T) {
	q := newStubQuerier()
	sender := &stubSender{err: errors.New("resend: timeout")}
	user := seedUser(q)
	q.addTemplate("course_complete", "en", "You did it", "Course finished.")

	d := newDispatcher(q, sender)
	sent, err := d.SendOneOff(context.Background(), dispatch.OneOffParams{
		UserID:      user.ID,
		TemplateKey: "course_complete",
		DayTag:      30,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if sent {
		t.Error("expected sent=false on transport failure")
	}

	// Claim stays, flipped to failed — never retried.
	key := fmt.Sprintf("%s|course_complete|day:30", user.ID)
	if row := q.emailLog[key]; row.Status != db.EmailStatusFailed {
		t.Errorf("expected failed claim row, got %+v", row)
	}
}

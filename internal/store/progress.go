package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nyashahama/campaign-dispatch-engine/internal/db"
)

// ─── INPUT TYPES ─────────────────────────────────────────────────────────────

// CompleteDayParams records that a user finished a course day. ModuleSizeDays
// and CourseLengthDays come from config so the store stays free of product
// constants.
type CompleteDayParams struct {
	UserID           uuid.UUID
	Day              int32
	ModuleSizeDays   int32
	CourseLengthDays int32
}

// CompleteDayResult tells the trigger handler what the completion meant, so
// it can fire milestone emails without a second round-trip.
type CompleteDayResult struct {
	// NewDay is false when the day was already recorded (duplicate event).
	// Milestone sends must only fire on the first recording, otherwise a
	// replayed event re-sends the congratulations email.
	NewDay bool

	// CompletedDays is the total number of distinct days completed so far.
	CompletedDays int

	// ModuleComplete is true when this completion finished a module: the day
	// is the last day of its module and every other day of that module is
	// already recorded.
	ModuleComplete bool

	// CourseComplete is true when every day of the course is now recorded.
	CourseComplete bool
}

// ─── METHODS ─────────────────────────────────────────────────────────────────

// CompleteDay is called by the progress trigger when a user finishes a lesson
// day. It atomically:
//
//  1. Inserts the (user, day) row, ignoring duplicates.
//  2. Advances users.course_day if this day is further than the recorded one.
//  3. Refreshes users.last_activity_at.
//  4. Reads back the full completed set to compute milestone flags.
//
// Duplicate completions are success, not errors: the result comes back with
// NewDay=false and milestone flags computed fresh, but callers must gate
// milestone sends on NewDay.
func (s *Store) CompleteDay(ctx context.Context, p CompleteDayParams) (CompleteDayResult, error) {
	var result CompleteDayResult

	if p.Day < 1 || (p.CourseLengthDays > 0 && p.Day > p.CourseLengthDays) {
		return result, fmt.Errorf("CompleteDay: day %d out of range", p.Day)
	}

	err := s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		inserted, err := q.UpsertCourseDay(ctx, db.UpsertCourseDayParams{
			UserID: p.UserID,
			Day:    p.Day,
		})
		if err != nil {
			return fmt.Errorf("CompleteDay: upsert day: %w", err)
		}
		result.NewDay = inserted > 0

		if _, err := q.SetUserCourseDay(ctx, db.SetUserCourseDayParams{
			ID:        p.UserID,
			CourseDay: p.Day,
		}); err != nil {
			return fmt.Errorf("CompleteDay: set course day: %w", err)
		}

		// Completing a day is activity, so inactivity stop conditions reset.
		if _, err := q.TouchUserActivity(ctx, p.UserID); err != nil {
			return fmt.Errorf("CompleteDay: touch activity: %w", err)
		}

		days, err := q.ListCompletedDays(ctx, p.UserID)
		if err != nil {
			return fmt.Errorf("CompleteDay: list completed days: %w", err)
		}
		result.CompletedDays = len(days)

		completed := make(map[int32]bool, len(days))
		for _, d := range days {
			completed[d] = true
		}

		result.ModuleComplete = moduleComplete(completed, p.Day, p.ModuleSizeDays)
		result.CourseComplete = courseComplete(completed, p.CourseLengthDays)
		return nil
	})

	if err != nil {
		return CompleteDayResult{}, err
	}
	return result, nil
}

// moduleComplete reports whether day closes out its module: day must be the
// module's final day and days 1..day of that module must all be recorded.
func moduleComplete(completed map[int32]bool, day, moduleSize int32) bool {
	if moduleSize <= 0 || day%moduleSize != 0 {
		return false
	}
	for d := day - moduleSize + 1; d <= day; d++ {
		if !completed[d] {
			return false
		}
	}
	return true
}

// courseComplete reports whether every day of the course is recorded.
func courseComplete(completed map[int32]bool, courseLength int32) bool {
	if courseLength <= 0 {
		return false
	}
	for d := int32(1); d <= courseLength; d++ {
		if !completed[d] {
			return false
		}
	}
	return true
}

package campaign

import "time"

// ─── TYPES ────────────────────────────────────────────────────────────────────

// Verdict is the evaluator's decision for one due step.
type Verdict int

const (
	// Proceed: nothing matched — render and send the step.
	Proceed Verdict = iota

	// SuppressStep: skip this step's send but keep the enrollment moving.
	SuppressStep

	// TerminateEnrollment: stop the enrollment; no further steps ever run.
	TerminateEnrollment
)

func (v Verdict) String() string {
	switch v {
	case SuppressStep:
		return "suppress"
	case TerminateEnrollment:
		return "terminate"
	default:
		return "proceed"
	}
}

// Snapshot is the freshly computed user state a verdict is based on. Its
// field types are intentionally plain Go types so it can be built without
// importing the db package — keeping campaign/ dependency-free.
//
// The dispatcher assembles it from the user row and course progress just
// before each evaluation; it is never persisted.
type Snapshot struct {
	Paid           bool
	TrialStatus    string
	LastActivityAt time.Time
	CompletedDays  map[int]bool // course days the user has finished
}

// ─── EVALUATION ───────────────────────────────────────────────────────────────

// Evaluate runs a step's stop conditions against the user snapshot and
// returns the strongest matching verdict plus the reason string recorded on
// the enrollment/log.
//
// Rules:
//   - Terminate beats suppress: one terminating match decides the verdict no
//     matter what else is in the list.
//   - Unknown kinds evaluate to no-match. Losing a whole sequence to a typo
//     in configuration is worse than sending one redundant mail.
//
// enrolledAt is the enrollment creation time (for active_since_enrollment);
// now is injected so the dispatcher and tests share one clock.
func Evaluate(conds []StopCondition, snap Snapshot, enrolledAt, now time.Time) (Verdict, string) {
	verdict := Proceed
	reason := ""

	for _, c := range conds {
		if !matches(c, snap, enrolledAt, now) {
			continue
		}
		if c.Effect == EffectTerminate {
			return TerminateEnrollment, string(c.Kind)
		}
		if verdict == Proceed {
			verdict = SuppressStep
			reason = string(c.Kind)
		}
	}

	return verdict, reason
}

func matches(c StopCondition, snap Snapshot, enrolledAt, now time.Time) bool {
	switch c.Kind {
	case KindPaid:
		return snap.Paid

	case KindActiveSinceEnrollment:
		return snap.LastActivityAt.After(enrolledAt)

	case KindInactiveFor:
		if c.Hours <= 0 {
			return false
		}
		return now.Sub(snap.LastActivityAt) >= time.Duration(c.Hours)*time.Hour

	case KindCompletedDay:
		return snap.CompletedDays[c.Day]

	default:
		// Unknown kind — see Evaluate doc comment.
		return false
	}
}

// Package campaign implements the declarative stop-condition language and the
// template renderer used by the dispatcher. It is intentionally
// dependency-free: it imports nothing from internal/ and can be tested
// without a database.
package campaign

import (
	"encoding/json"
	"fmt"
)

// ConditionKind is the discriminator field of every stop-condition variant.
// The set is closed: the evaluator only acts on kinds it knows, so a typo in
// campaign configuration can never terminate an enrollment by accident.
type ConditionKind string

const (
	// KindPaid matches once the user has completed payment.
	KindPaid ConditionKind = "paid"

	// KindActiveSinceEnrollment matches when the user has been active at any
	// point after the enrollment was created.
	KindActiveSinceEnrollment ConditionKind = "active_since_enrollment"

	// KindInactiveFor matches when the user has shown no activity for at
	// least Hours hours.
	KindInactiveFor ConditionKind = "inactive_for"

	// KindCompletedDay matches once the user has completed course day Day.
	KindCompletedDay ConditionKind = "completed_day"
)

// Effect decides what a matching condition does to the enrollment.
type Effect string

const (
	// EffectSuppress skips this step's send; the enrollment still advances on
	// its own clock. Used when one message would be redundant but later steps
	// still matter.
	EffectSuppress Effect = "suppress"

	// EffectTerminate abandons the whole remaining sequence. Used e.g. once
	// payment has landed — every future "please pay" reminder is cancelled.
	EffectTerminate Effect = "terminate"
)

// StopCondition is one tagged variant of a step's stop_conditions array.
//
// DB JSON shape:
//
//	[
//	  {"kind": "paid", "effect": "terminate"},
//	  {"kind": "inactive_for", "hours": 168, "effect": "suppress"},
//	  {"kind": "completed_day", "day": 7}
//	]
//
// An omitted effect defaults to terminate, the conservative reading for the
// conditions operators actually write (paid → stop nagging).
type StopCondition struct {
	Kind   ConditionKind `json:"kind"`
	Effect Effect        `json:"effect,omitempty"`
	Hours  int           `json:"hours,omitempty"` // inactive_for only
	Day    int           `json:"day,omitempty"`   // completed_day only
}

// ParseStopConditions unmarshals a step's stop_conditions blob. A nil or
// empty blob is valid and means "no conditions". Effects are normalised here
// so the evaluator never sees an empty one.
func ParseStopConditions(raw json.RawMessage) ([]StopCondition, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var conds []StopCondition
	if err := json.Unmarshal(raw, &conds); err != nil {
		return nil, fmt.Errorf("campaign: parse stop conditions: %w", err)
	}
	for i := range conds {
		if conds[i].Effect == "" {
			conds[i].Effect = EffectTerminate
		}
	}
	return conds, nil
}

// ValidateStopConditions checks a parsed condition list for configuration
// mistakes. Call this at seed time, not on every dispatch — the evaluator
// itself treats unknown kinds as PROCEED rather than erroring.
func ValidateStopConditions(conds []StopCondition) error {
	for i, c := range conds {
		switch c.Kind {
		case KindPaid, KindActiveSinceEnrollment:
		case KindInactiveFor:
			if c.Hours <= 0 {
				return fmt.Errorf("stop condition %d: inactive_for requires hours > 0", i)
			}
		case KindCompletedDay:
			if c.Day <= 0 {
				return fmt.Errorf("stop condition %d: completed_day requires day > 0", i)
			}
		default:
			return fmt.Errorf("stop condition %d: unknown kind %q", i, c.Kind)
		}
		if c.Effect != EffectSuppress && c.Effect != EffectTerminate {
			return fmt.Errorf("stop condition %d: unknown effect %q", i, c.Effect)
		}
	}
	return nil
}

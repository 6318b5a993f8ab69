// Package lifecycle owns the violation status state machine and the
// derivations built on top of it: transition payloads, dashboard grouping,
// repeat-offender aggregation and elapsed/remaining time labels. It has no
// storage dependency; callers persist the payloads it produces.
package lifecycle

import (
	"errors"
	"time"

	"violation-ledger/internal/model"
)

var ErrUnknownStatus = errors.New("unknown violation status")

// Transitions documents the expected status progression. It is advisory:
// Apply does not gate on it, any status may be written at any time. Callers
// that want strict progression check CanTransition first.
var Transitions = map[model.ViolationStatus][]model.ViolationStatus{
	model.ViolationStatusPending: {
		model.ViolationStatusWarningSent,
		model.ViolationStatusResolved,
	},
	model.ViolationStatusWarningSent: {
		model.ViolationStatusEscalated,
		model.ViolationStatusResolved,
	},
	model.ViolationStatusEscalated: {
		model.ViolationStatusResolved,
		model.ViolationStatusHostComplied,
	},
}

func CanTransition(from, to model.ViolationStatus) bool {
	for _, next := range Transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TimestampColumn returns the column a transition to status stamps, if any.
func TimestampColumn(status model.ViolationStatus) (string, bool) {
	switch status {
	case model.ViolationStatusWarningSent:
		return "warning_sent_at", true
	case model.ViolationStatusEscalated:
		return "escalated_at", true
	case model.ViolationStatusResolved, model.ViolationStatusHostComplied:
		return "resolved_at", true
	}
	return "", false
}

// Apply builds the update payload for a transition to target: the new status,
// at most one transition timestamp set to now, and the caller's extra fields
// merged verbatim. Other timestamp columns are never touched, so a violation
// keeps the history of every transition it actually went through.
func Apply(target model.ViolationStatus, now time.Time, extra map[string]interface{}) (map[string]interface{}, error) {
	if !target.Valid() {
		return nil, ErrUnknownStatus
	}

	payload := map[string]interface{}{
		"status": target,
	}
	if column, ok := TimestampColumn(target); ok {
		payload[column] = now
	}
	for key, value := range extra {
		payload[key] = value
	}
	return payload, nil
}

package lifecycle

import (
	"fmt"

	"violation-ledger/internal/model"
)

// DefaultRepeatMin is the violation count at which a plate counts as a
// repeat offender.
const DefaultRepeatMin = 2

type Section struct {
	Status     model.ViolationStatus `json:"status"`
	Title      string                `json:"title"`
	Violations []model.Violation     `json:"violations"`
}

var sectionOrder = []struct {
	status model.ViolationStatus
	label  string
}{
	{model.ViolationStatusEscalated, "Escalated"},
	{model.ViolationStatusWarningSent, "Warning Sent"},
	{model.ViolationStatusPending, "Pending"},
}

// GroupByStatus splits violations into dashboard sections in fixed priority
// order (escalated, warning_sent, pending). Empty sections are omitted and
// each title carries the member count. Statuses outside the three live
// buckets are dropped.
func GroupByStatus(violations []model.Violation) []Section {
	groups := make(map[model.ViolationStatus][]model.Violation)
	for _, v := range violations {
		groups[v.Status] = append(groups[v.Status], v)
	}

	sections := make([]Section, 0, len(sectionOrder))
	for _, entry := range sectionOrder {
		members := groups[entry.status]
		if len(members) == 0 {
			continue
		}
		sections = append(sections, Section{
			Status:     entry.status,
			Title:      fmt.Sprintf("%s (%d)", entry.label, len(members)),
			Violations: members,
		})
	}
	return sections
}

// RepeatOffenders groups violations by plate and keeps only plates with at
// least minCount entries. Input order is preserved inside each group; the
// caller sorts for presentation. minCount below 1 falls back to
// DefaultRepeatMin.
func RepeatOffenders(violations []model.Violation, minCount int) map[string][]model.Violation {
	if minCount < 1 {
		minCount = DefaultRepeatMin
	}

	byPlate := make(map[string][]model.Violation)
	for _, v := range violations {
		byPlate[v.PlateNumber] = append(byPlate[v.PlateNumber], v)
	}

	offenders := make(map[string][]model.Violation)
	for plate, group := range byPlate {
		if len(group) >= minCount {
			offenders[plate] = group
		}
	}
	return offenders
}

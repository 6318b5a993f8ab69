package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"violation-ledger/internal/model"
)

// prefixSentinel is the maximum Unicode code point. Appending it to a prefix
// gives the exclusive upper bound of the half-open range [p, p+sentinel) that
// implements prefix matching on backends without a native prefix operator.
const prefixSentinel = "\U0010FFFF"

// PrefixUpperBound returns the exclusive upper bound for a prefix scan.
func PrefixUpperBound(prefix string) string {
	return prefix + prefixSentinel
}

// ViolationFilter describes a logical violation query. Absent fields impose
// no constraint; present fields combine with AND. The same filter drives
// both the SQL query (Apply) and the in-memory predicate used by live feeds
// (Matches).
type ViolationFilter struct {
	Statuses       []model.ViolationStatus
	PlateNumber    string
	LocationPrefix string
	DateFrom       *time.Time
	DateTo         *time.Time
	Limit          int
	Offset         int
}

// NormalizedPlate returns the filter's plate in canonical form
// (trimmed, uppercased), empty when no plate constraint is set.
func (f ViolationFilter) NormalizedPlate() string {
	return model.NormalizePlate(f.PlateNumber)
}

// Apply adds the filter's constraints to a violations query.
func (f ViolationFilter) Apply(query *gorm.DB) *gorm.DB {
	if len(f.Statuses) > 0 {
		query = query.Where("violations.status IN ?", f.Statuses)
	}
	if plate := f.NormalizedPlate(); plate != "" {
		query = query.Where("violations.plate_number = ?", plate)
	}
	if f.LocationPrefix != "" {
		query = query.Where("violations.location >= ? AND violations.location < ?",
			f.LocationPrefix, PrefixUpperBound(f.LocationPrefix))
	}
	if f.DateFrom != nil {
		query = query.Where("violations.detected_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		query = query.Where("violations.detected_at <= ?", *f.DateTo)
	}
	return query
}

// Matches evaluates the filter against a single violation in memory.
func (f ViolationFilter) Matches(v model.Violation) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, status := range f.Statuses {
			if v.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if plate := f.NormalizedPlate(); plate != "" && v.PlateNumber != plate {
		return false
	}
	if f.LocationPrefix != "" && !strings.HasPrefix(v.Location, f.LocationPrefix) {
		return false
	}
	if f.DateFrom != nil && v.DetectedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && v.DetectedAt.After(*f.DateTo) {
		return false
	}
	return true
}

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NormalizePlate puts a plate number into canonical stored form:
// whitespace trimmed, uppercased.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

type ViolationStatus string

const (
	ViolationStatusPending      ViolationStatus = "pending"
	ViolationStatusWarningSent  ViolationStatus = "warning_sent"
	ViolationStatusEscalated    ViolationStatus = "escalated"
	ViolationStatusResolved     ViolationStatus = "resolved"
	ViolationStatusHostComplied ViolationStatus = "host_complied"
)

func (s ViolationStatus) Valid() bool {
	switch s {
	case ViolationStatusPending,
		ViolationStatusWarningSent,
		ViolationStatusEscalated,
		ViolationStatusResolved,
		ViolationStatusHostComplied:
		return true
	}
	return false
}

// Terminal reports whether no further transition is expected from s.
func (s ViolationStatus) Terminal() bool {
	return s == ViolationStatusResolved || s == ViolationStatusHostComplied
}

type Violation struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	PlateNumber   string          `gorm:"type:varchar(32);not null" json:"plate_number"`
	Location      string          `gorm:"type:text;not null" json:"location"`
	GpsID         string          `gorm:"type:varchar(64)" json:"gps_id,omitempty"`
	GeofenceZone  string          `gorm:"type:varchar(128)" json:"geofence_zone,omitempty"`
	Status        ViolationStatus `gorm:"type:violation_status;not null;default:'pending'" json:"status"`
	DetectedAt    time.Time       `gorm:"not null" json:"detected_at"`
	WarningSentAt *time.Time      `json:"warning_sent_at,omitempty"`
	EscalatedAt   *time.Time      `json:"escalated_at,omitempty"`
	ResolvedAt    *time.Time      `json:"resolved_at,omitempty"`
	HostID        string          `gorm:"type:varchar(64)" json:"host_id,omitempty"`
	HostName      string          `gorm:"type:varchar(128)" json:"host_name,omitempty"`
	HostPhone     string          `gorm:"type:varchar(32)" json:"host_phone,omitempty"`
	ViolationType string          `gorm:"type:varchar(64)" json:"violation_type,omitempty"`
	PhotoURL      string          `gorm:"type:text" json:"photo_url,omitempty"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy     uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	TicketIssued  bool            `gorm:"not null;default:false" json:"ticket_issued"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Violation) TableName() string {
	return "violations"
}

func (v *Violation) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

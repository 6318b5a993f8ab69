package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComplaintStatus string

const (
	ComplaintStatusPending   ComplaintStatus = "pending"
	ComplaintStatusInReview  ComplaintStatus = "in_review"
	ComplaintStatusResolved  ComplaintStatus = "resolved"
	ComplaintStatusDismissed ComplaintStatus = "dismissed"
)

func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInReview,
		ComplaintStatusResolved, ComplaintStatusDismissed:
		return true
	}
	return false
}

// Complaint is a citizen- or host-submitted report, optionally linked to a
// violation. Complaints are never deleted; reviewers only move the status.
type Complaint struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Title         string          `gorm:"type:varchar(256);not null" json:"title"`
	Description   string          `gorm:"type:text;not null" json:"description"`
	ReporterName  string          `gorm:"type:varchar(128)" json:"reporter_name,omitempty"`
	ReporterPhone string          `gorm:"type:varchar(32)" json:"reporter_phone,omitempty"`
	Location      string          `gorm:"type:text" json:"location,omitempty"`
	PlateNumber   string          `gorm:"type:varchar(32)" json:"plate_number,omitempty"`
	ViolationID   *uuid.UUID      `gorm:"type:uuid" json:"violation_id,omitempty"`
	Status        ComplaintStatus `gorm:"type:complaint_status;not null;default:'pending'" json:"status"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Complaint) TableName() string {
	return "complaints"
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

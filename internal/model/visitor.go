package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visitor is a guard-entered check-in record. Immutable after creation.
type Visitor struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name            string    `gorm:"type:varchar(128);not null" json:"name"`
	HostID          string    `gorm:"type:varchar(64);not null" json:"host_id"`
	HostName        string    `gorm:"type:varchar(128);not null" json:"host_name"`
	PlateNumber     string    `gorm:"type:varchar(32);not null" json:"plate_number"`
	VehicleCategory string    `gorm:"type:varchar(64)" json:"vehicle_category"`
	GpsID           string    `gorm:"type:varchar(64)" json:"gps_id,omitempty"`
	CreatedBy       uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Visitor) TableName() string {
	return "visitors"
}

func (v *Visitor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// Host is reference data only; this service never writes hosts.
type Host struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name  string    `gorm:"type:varchar(128);not null" json:"name"`
	Phone string    `gorm:"type:varchar(32)" json:"phone,omitempty"`
}

func (Host) TableName() string {
	return "hosts"
}

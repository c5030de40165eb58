package model

import (
	"time"

	"github.com/google/uuid"
)

// Measurement records physical progress of a construction stage. Measurements
// are append/delete only — there is no update operation.
type Measurement struct {
	ID          uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Stage       string             `gorm:"type:varchar(255);not null" json:"stage"`
	Date        time.Time          `gorm:"not null;index" json:"date"`
	Percentage  int                `gorm:"not null" json:"percentage"` // 0–100
	Description string             `gorm:"type:text" json:"description"`
	Photos      []MeasurementPhoto `gorm:"foreignKey:MeasurementID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"photos"`
	CreatedAt   time.Time          `gorm:"index" json:"created_at"`
}

// MeasurementPhoto holds one embedded image (data URL) attached to a measurement.
type MeasurementPhoto struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MeasurementID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Data          string    `gorm:"type:text;not null" json:"data"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// ChecklistItem is one entry of the fixed quality checklist. The set is seeded
// once on an empty table; users only toggle completion.
type ChecklistItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Category  string    `gorm:"type:varchar(100);not null;index" json:"category"`
	Task      string    `gorm:"type:varchar(255);not null" json:"task"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	Position  int       `gorm:"not null;default:0" json:"-"` // stable seed ordering
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

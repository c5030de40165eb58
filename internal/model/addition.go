package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Addition status enum constants. Status cycles pending → approved → rejected
// → pending on repeated toggles; any state is one toggle away from the next.
const (
	AdditionPending  = "pending"
	AdditionApproved = "approved"
	AdditionRejected = "rejected"
)

// NextAdditionStatus returns the status that follows current in the toggle
// cycle. Unknown values restart at pending.
func NextAdditionStatus(current string) string {
	switch current {
	case AdditionPending:
		return AdditionApproved
	case AdditionApproved:
		return AdditionRejected
	default:
		return AdditionPending
	}
}

// Addition is a contract addition (aditivo): extra cost and schedule impact
// negotiated after the original contract.
type Addition struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
	Reason     string          `gorm:"type:text;not null" json:"reason"`
	CostImpact decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"costImpact"`
	TimeImpact int             `gorm:"not null" json:"timeImpact"` // days added to the schedule
	Status     string          `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

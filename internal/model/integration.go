package model

import (
	"time"

	"github.com/google/uuid"
)

// Integration provider enum constants
const (
	ProviderGoogleDrive = "google_drive"
	ProviderDropbox     = "dropbox"
	ProviderOneDrive    = "onedrive"
)

// ValidProvider reports whether provider is a known storage provider.
func ValidProvider(provider string) bool {
	return provider == ProviderGoogleDrive || provider == ProviderDropbox || provider == ProviderOneDrive
}

// Integration is a cloud storage connection slot. The three provider slots are
// seeded disconnected; connecting stamps the account email and sync time.
type Integration struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Provider       string     `gorm:"type:varchar(30);uniqueIndex;not null" json:"provider"`
	Name           string     `gorm:"type:varchar(100);not null" json:"name"`
	Description    string     `gorm:"type:varchar(255)" json:"description"`
	Connected      bool       `gorm:"not null;default:false" json:"connected"`
	ConnectedEmail string     `gorm:"type:varchar(255)" json:"connectedEmail,omitempty"`
	LastSync       *time.Time `json:"lastSync,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Units accepted for materials (un, m, m², m³, kg, l, cx).
var MaterialUnits = []string{"un", "m", "m²", "m³", "kg", "l", "cx"}

// ValidUnit reports whether unidade is one of the known measurement units.
func ValidUnit(unidade string) bool {
	for _, u := range MaterialUnits {
		if u == unidade {
			return true
		}
	}
	return false
}

// Material is a catalog entry. Budget items reference materials by id but copy
// descricao and precoUnitario at add-time, so deleting or repricing a material
// never rewrites existing budgets.
type Material struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Codigo        string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"codigo"`
	Descricao     string          `gorm:"type:varchar(255);not null" json:"descricao"`
	Unidade       string          `gorm:"type:varchar(10);not null" json:"unidade"`
	PrecoUnitario decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"precoUnitario"`
	Imagem        string          `gorm:"type:text" json:"imagem,omitempty"` // data URL or plain URL
	Fornecedor    string          `gorm:"type:varchar(255)" json:"fornecedor,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

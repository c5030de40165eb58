package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget status enum constants
const (
	BudgetEmAnalise = "em_analise"
	BudgetAprovado  = "aprovado"
	BudgetRejeitado = "rejeitado"
)

// ValidBudgetStatus reports whether status is a known budget status.
func ValidBudgetStatus(status string) bool {
	return status == BudgetEmAnalise || status == BudgetAprovado || status == BudgetRejeitado
}

// Budget is a supplier quote (orçamento). Items snapshot the material price at
// add-time, so later material edits never change historical totals. An approved
// budget additionally carries approver stamps, and may carry a pending deletion
// request awaiting an administrator decision.
type Budget struct {
	ID                 uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Numero             string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"numero"`
	FornecedorNome     string          `gorm:"type:varchar(255);not null" json:"fornecedorNome"`
	FornecedorTelefone string          `gorm:"type:varchar(50)" json:"fornecedorTelefone,omitempty"`
	FornecedorSite     string          `gorm:"type:varchar(255)" json:"fornecedorSite,omitempty"`
	Data               time.Time       `gorm:"not null;index" json:"data"`
	Observacoes        string          `gorm:"type:text" json:"observacoes,omitempty"`
	Itens              []BudgetItem    `gorm:"foreignKey:BudgetID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"itens"`
	ValorTotal         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"valorTotal"`
	Status             string          `gorm:"type:varchar(20);not null;default:'em_analise';index" json:"status"`

	// Approval stamps — set on aprovado, cleared by any transition away from it.
	AprovadoPor         *uuid.UUID `gorm:"type:uuid" json:"aprovadoPor,omitempty"`
	AprovadoPorNome     string     `gorm:"type:varchar(255)" json:"aprovadoPorNome,omitempty"`
	DataAprovacao       *time.Time `json:"dataAprovacao,omitempty"`
	ObservacaoAprovacao string     `gorm:"type:text" json:"observacaoAprovacao,omitempty"`

	// Pending deletion request — at most one at a time, admin resolves it.
	DeletionRequestedBy   *uuid.UUID `gorm:"type:uuid" json:"-"`
	DeletionRequesterName string     `gorm:"type:varchar(255)" json:"-"`
	DeletionRequestedAt   *time.Time `json:"-"`
	DeletionReason        string     `gorm:"type:text" json:"-"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BudgetItem is a single line of a budget, owned exclusively by it.
type BudgetItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BudgetID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	MaterialID        uuid.UUID       `gorm:"type:uuid;not null" json:"materialId"`
	DescricaoSnapshot string          `gorm:"type:varchar(255);not null" json:"descricaoSnapshot"`
	Quantidade        decimal.Decimal `gorm:"type:numeric(14,3);not null" json:"quantidade"`
	PrecoUnitario     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"precoUnitario"`
	Subtotal          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"subtotal"`
}

// HasPendingDeletionRequest reports whether a deletion request is awaiting an
// administrator decision.
func (b *Budget) HasPendingDeletionRequest() bool {
	return b.DeletionRequestedBy != nil
}

// ClearApproval removes the approver stamps. Invoked whenever the budget
// leaves the aprovado state.
func (b *Budget) ClearApproval() {
	b.AprovadoPor = nil
	b.AprovadoPorNome = ""
	b.DataAprovacao = nil
	b.ObservacaoAprovacao = ""
}

// ClearDeletionRequest removes a pending deletion request, leaving the budget intact.
func (b *Budget) ClearDeletionRequest() {
	b.DeletionRequestedBy = nil
	b.DeletionRequesterName = ""
	b.DeletionRequestedAt = nil
	b.DeletionReason = ""
}

// RecalculateTotal recomputes every item subtotal (precoUnitario × quantidade)
// and the budget total as the exact sum of the subtotals.
func (b *Budget) RecalculateTotal() {
	total := decimal.Zero
	for i := range b.Itens {
		b.Itens[i].Subtotal = b.Itens[i].PrecoUnitario.Mul(b.Itens[i].Quantidade).Round(2)
		total = total.Add(b.Itens[i].Subtotal)
	}
	b.ValorTotal = total
}

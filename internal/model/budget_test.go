package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecalculateTotal(t *testing.T) {
	budget := Budget{
		Itens: []BudgetItem{
			{Quantidade: decimal.NewFromInt(2), PrecoUnitario: decimal.NewFromInt(10)},
			{Quantidade: decimal.NewFromInt(3), PrecoUnitario: decimal.NewFromInt(5)},
		},
	}
	budget.RecalculateTotal()

	assert.Equal(t, "35.00", budget.ValorTotal.StringFixed(2))
	assert.Equal(t, "20.00", budget.Itens[0].Subtotal.StringFixed(2))
	assert.Equal(t, "15.00", budget.Itens[1].Subtotal.StringFixed(2))
}

func TestRecalculateTotalRoundsSubtotals(t *testing.T) {
	budget := Budget{
		Itens: []BudgetItem{
			// 3.333 × 2.99 = 9.96567, rounded per item before summing
			{Quantidade: decimal.RequireFromString("3.333"), PrecoUnitario: decimal.RequireFromString("2.99")},
		},
	}
	budget.RecalculateTotal()

	assert.Equal(t, "9.97", budget.ValorTotal.StringFixed(2))
}

func TestClearApprovalAndDeletionRequest(t *testing.T) {
	approver := uuid.New()
	now := time.Now()
	budget := Budget{
		Status:                BudgetAprovado,
		AprovadoPor:           &approver,
		AprovadoPorNome:       "Ana",
		DataAprovacao:         &now,
		ObservacaoAprovacao:   "ok",
		DeletionRequestedBy:   &approver,
		DeletionRequesterName: "Ana",
		DeletionRequestedAt:   &now,
		DeletionReason:        "duplicado",
	}

	assert.True(t, budget.HasPendingDeletionRequest())

	budget.ClearApproval()
	assert.Nil(t, budget.AprovadoPor)
	assert.Empty(t, budget.AprovadoPorNome)
	assert.Nil(t, budget.DataAprovacao)
	// Clearing the approval does not touch the deletion request.
	assert.True(t, budget.HasPendingDeletionRequest())

	budget.ClearDeletionRequest()
	assert.False(t, budget.HasPendingDeletionRequest())
	assert.Empty(t, budget.DeletionReason)
}

func TestValidBudgetStatus(t *testing.T) {
	assert.True(t, ValidBudgetStatus(BudgetEmAnalise))
	assert.True(t, ValidBudgetStatus(BudgetAprovado))
	assert.True(t, ValidBudgetStatus(BudgetRejeitado))
	assert.False(t, ValidBudgetStatus("cancelado"))
	assert.False(t, ValidBudgetStatus(""))
}

func TestNextAdditionStatusCycles(t *testing.T) {
	assert.Equal(t, AdditionApproved, NextAdditionStatus(AdditionPending))
	assert.Equal(t, AdditionRejected, NextAdditionStatus(AdditionApproved))
	assert.Equal(t, AdditionPending, NextAdditionStatus(AdditionRejected))
	// Unknown values restart the cycle.
	assert.Equal(t, AdditionPending, NextAdditionStatus("whatever"))
}

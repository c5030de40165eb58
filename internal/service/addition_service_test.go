package service

import (
	"context"
	"testing"

	"obrafacil/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdditionStatusCycle(t *testing.T) {
	svc := NewAdditionService(newFakeAdditionRepo())
	ctx := context.Background()

	addition, err := svc.Create(ctx, AdditionRequest{
		Date:       "2026-04-01",
		Reason:     "Reforço de fundação",
		CostImpact: 1500.50,
		TimeImpact: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AdditionPending, addition.Status)
	assert.Equal(t, "1500.50", addition.CostImpact)

	for _, want := range []string{
		model.AdditionApproved,
		model.AdditionRejected,
		model.AdditionPending,
	} {
		cycled, err := svc.CycleStatus(ctx, addition.ID)
		require.NoError(t, err)
		assert.Equal(t, want, cycled.Status)
	}
}

func TestAdditionMissingIDIsNoOp(t *testing.T) {
	svc := NewAdditionService(newFakeAdditionRepo())
	ctx := context.Background()

	cycled, err := svc.CycleStatus(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, cycled)

	updated, err := svc.Update(ctx, uuid.New(), AdditionRequest{Date: "2026-04-01", Reason: "x"})
	require.NoError(t, err)
	assert.Nil(t, updated)

	assert.NoError(t, svc.Delete(ctx, uuid.New()))
}

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMaterialValidatesUnitAndCodigo(t *testing.T) {
	svc := NewMaterialService(newFakeMaterialRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, MaterialRequest{Codigo: "CIM-01", Descricao: "Cimento", Unidade: "saco", PrecoUnitario: 35})
	assert.ErrorIs(t, err, ErrInvalidUnit)

	_, err = svc.Create(ctx, MaterialRequest{Codigo: "CIM-01", Descricao: "Cimento", Unidade: "un", PrecoUnitario: -5})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	created, err := svc.Create(ctx, MaterialRequest{Codigo: "CIM-01", Descricao: "Cimento", Unidade: "un", PrecoUnitario: 35})
	require.NoError(t, err)
	assert.Equal(t, "35.00", created.PrecoUnitario)

	_, err = svc.Create(ctx, MaterialRequest{Codigo: "CIM-01", Descricao: "Outro cimento", Unidade: "un", PrecoUnitario: 30})
	assert.ErrorIs(t, err, ErrDuplicateCodigo)
}

func TestUpdateMaterialMissingIDIsNoOp(t *testing.T) {
	svc := NewMaterialService(newFakeMaterialRepo())

	updated, err := svc.Update(context.Background(), uuid.New(), MaterialRequest{
		Codigo: "X", Descricao: "X", Unidade: "un", PrecoUnitario: 1,
	})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestDeleteMaterialMissingIDIsNoOp(t *testing.T) {
	svc := NewMaterialService(newFakeMaterialRepo())
	assert.NoError(t, svc.Delete(context.Background(), uuid.New()))
}

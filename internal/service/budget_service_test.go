package service

import (
	"context"
	"testing"
	"time"

	"obrafacil/internal/model"
	"obrafacil/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBudgetTestEnv(t *testing.T) (BudgetService, *fakeBudgetRepo, *fakeMaterialRepo, *fakeAuditRepo) {
	t.Helper()
	budgets := newFakeBudgetRepo()
	materials := newFakeMaterialRepo()
	audit := &fakeAuditRepo{}
	svc := NewBudgetService(budgets, materials, audit, fakeTxManager{}, nil)
	return svc, budgets, materials, audit
}

func seedMaterial(t *testing.T, materials *fakeMaterialRepo, descricao string, preco float64) uuid.UUID {
	t.Helper()
	material := &model.Material{
		Codigo:        "MAT-" + uuid.NewString()[:8],
		Descricao:     descricao,
		Unidade:       "un",
		PrecoUnitario: decimal.NewFromFloat(preco),
	}
	require.NoError(t, materials.Create(context.Background(), material))
	return material.ID
}

func admin() Actor {
	return Actor{ID: uuid.New(), Name: "Ana Admin", Role: model.RoleAdmin}
}

func manager() Actor {
	return Actor{ID: uuid.New(), Name: "Marcos Gestor", Role: model.RoleManager}
}

func collaborator() Actor {
	return Actor{ID: uuid.New(), Name: "Carla Colab", Role: model.RoleCollaborator}
}

func TestCreateBudgetComputesTotalFromSnapshots(t *testing.T) {
	svc, _, materials, audit := newBudgetTestEnv(t)
	ctx := context.Background()

	cimento := seedMaterial(t, materials, "Cimento CP-II 50kg", 10)
	areia := seedMaterial(t, materials, "Areia média m³", 5)

	budget, err := svc.Create(ctx, collaborator(), CreateBudgetRequest{
		FornecedorNome: "Construfor Ltda",
		Data:           "2026-03-10",
		Itens: []BudgetItemRequest{
			{MaterialID: cimento.String(), Quantidade: 2},
			{MaterialID: areia.String(), Quantidade: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "35.00", budget.ValorTotal)
	assert.Equal(t, model.BudgetEmAnalise, budget.Status)
	assert.Equal(t, "ORC-"+time.Now().Format("2006")+"-001", budget.Numero)
	require.Len(t, budget.Itens, 2)
	assert.Equal(t, "Cimento CP-II 50kg", budget.Itens[0].DescricaoSnapshot)
	assert.Equal(t, "20.00", budget.Itens[0].Subtotal)
	assert.Contains(t, audit.actions(), model.ActionCreateBudget)
}

func TestCreateBudgetKeepsProvidedPriceSnapshot(t *testing.T) {
	svc, _, materials, _ := newBudgetTestEnv(t)
	ctx := context.Background()

	tijolo := seedMaterial(t, materials, "Tijolo cerâmico", 2.50)

	snapshot := 1.80
	budget, err := svc.Create(ctx, collaborator(), CreateBudgetRequest{
		FornecedorNome: "Olaria Central",
		Data:           "2026-03-10",
		Itens: []BudgetItemRequest{
			{MaterialID: tijolo.String(), Quantidade: 100, PrecoUnitario: &snapshot},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "1.80", budget.Itens[0].PrecoUnitario)
	assert.Equal(t, "180.00", budget.ValorTotal)
}

func TestCreateBudgetRejectsBadDateAndUnknownMaterial(t *testing.T) {
	svc, _, _, _ := newBudgetTestEnv(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, collaborator(), CreateBudgetRequest{
		FornecedorNome: "X",
		Data:           "10/03/2026",
	})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.Create(ctx, collaborator(), CreateBudgetRequest{
		FornecedorNome: "X",
		Data:           "2026-03-10",
		Itens:          []BudgetItemRequest{{MaterialID: uuid.NewString(), Quantidade: 1}},
	})
	assert.ErrorIs(t, err, ErrMaterialNotFound)
}

func TestUpdateMissingBudgetIsNoOp(t *testing.T) {
	svc, _, _, _ := newBudgetTestEnv(t)

	budget, err := svc.Update(context.Background(), collaborator(), uuid.New(), UpdateBudgetRequest{
		FornecedorNome: "Qualquer",
		Data:           "2026-01-01",
	})
	require.NoError(t, err)
	assert.Nil(t, budget)
}

func createBudget(t *testing.T, svc BudgetService, materials *fakeMaterialRepo, preco float64) *BudgetResponse {
	t.Helper()
	materialID := seedMaterial(t, materials, "Material teste", preco)
	budget, err := svc.Create(context.Background(), collaborator(), CreateBudgetRequest{
		FornecedorNome: "Fornecedor",
		Data:           "2026-03-10",
		Itens:          []BudgetItemRequest{{MaterialID: materialID.String(), Quantidade: 1}},
	})
	require.NoError(t, err)
	return budget
}

func TestChangeStatusApproveStampsApprover(t *testing.T) {
	svc, _, materials, _ := newBudgetTestEnv(t)
	ctx := context.Background()
	budget := createBudget(t, svc, materials, 100)

	approver := manager()
	approved, err := svc.ChangeStatus(ctx, approver, budget.ID, ChangeStatusRequest{
		Status:     model.BudgetAprovado,
		Observacao: "melhor preço",
	})
	require.NoError(t, err)

	assert.Equal(t, model.BudgetAprovado, approved.Status)
	require.NotNil(t, approved.AprovadoPor)
	assert.Equal(t, approver.ID, approved.AprovadoPor.ID)
	assert.Equal(t, approver.Name, approved.AprovadoPor.Nome)
	assert.NotEmpty(t, approved.DataAprovacao)
	assert.Equal(t, "melhor preço", approved.ObservacaoAprovacao)
}

func TestChangeStatusCollaboratorForbidden(t *testing.T) {
	svc, _, materials, _ := newBudgetTestEnv(t)
	budget := createBudget(t, svc, materials, 100)

	_, err := svc.ChangeStatus(context.Background(), collaborator(), budget.ID, ChangeStatusRequest{
		Status: model.BudgetAprovado,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestChangeStatusLeavingApprovedClearsStamps(t *testing.T) {
	svc, _, materials, _ := newBudgetTestEnv(t)
	ctx := context.Background()
	budget := createBudget(t, svc, materials, 100)

	_, err := svc.ChangeStatus(ctx, admin(), budget.ID, ChangeStatusRequest{Status: model.BudgetAprovado})
	require.NoError(t, err)

	reopened, err := svc.ChangeStatus(ctx, admin(), budget.ID, ChangeStatusRequest{Status: model.BudgetEmAnalise})
	require.NoError(t, err)

	assert.Equal(t, model.BudgetEmAnalise, reopened.Status)
	assert.Nil(t, reopened.AprovadoPor)
	assert.Empty(t, reopened.DataAprovacao)
	assert.Empty(t, reopened.ObservacaoAprovacao)
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, materials, _ := newBudgetTestEnv(t)
	budget := createBudget(t, svc, materials, 100)

	_, err := svc.ChangeStatus(context.Background(), admin(), budget.ID, ChangeStatusRequest{Status: "cancelado"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDeleteApprovedBudgetGatedByRole(t *testing.T) {
	svc, budgets, materials, _ := newBudgetTestEnv(t)
	ctx := context.Background()
	budget := createBudget(t, svc, materials, 100)

	_, err := svc.ChangeStatus(ctx, admin(), budget.ID, ChangeStatusRequest{Status: model.BudgetAprovado})
	require.NoError(t, err)

	// Collaborators and managers cannot delete an approved budget directly.
	err = svc.Delete(ctx, collaborator(), budget.ID)
	assert.ErrorIs(t, err, ErrApprovedBudget)
	err = svc.Delete(ctx, manager(), budget.ID)
	assert.ErrorIs(t, err, ErrApprovedBudget)

	// Admins can.
	require.NoError(t, svc.Delete(ctx, admin(), budget.ID))
	_, err = budgets.GetByID(ctx, budget.ID)
	assert.Error(t, err)
}

func TestDeleteUnapprovedBudgetAllowedForAnyone(t *testing.T) {
	svc, _, materials, _ := newBudgetTestEnv(t)
	budget := createBudget(t, svc, materials, 100)

	assert.NoError(t, svc.Delete(context.Background(), collaborator(), budget.ID))
}

func TestRequestDeletionGuards(t *testing.T) {
	svc, _, materials, _ := newBudgetTestEnv(t)
	ctx := context.Background()
	budget := createBudget(t, svc, materials, 100)
	requester := collaborator()

	// Not approved yet.
	_, err := svc.RequestDeletion(ctx, requester, budget.ID, "valor errado")
	assert.ErrorIs(t, err, ErrBudgetNotApproved)

	_, err = svc.ChangeStatus(ctx, admin(), budget.ID, ChangeStatusRequest{Status: model.BudgetAprovado})
	require.NoError(t, err)

	// Reason is mandatory.
	_, err = svc.RequestDeletion(ctx, requester, budget.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyReason)

	withRequest, err := svc.RequestDeletion(ctx, requester, budget.ID, "valor errado")
	require.NoError(t, err)
	require.NotNil(t, withRequest.DeletionRequest)
	assert.Equal(t, requester.ID, withRequest.DeletionRequest.RequesterID)
	assert.Equal(t, "valor errado", withRequest.DeletionRequest.Reason)
	// Status untouched by the request.
	assert.Equal(t, model.BudgetAprovado, withRequest.Status)

	// Only one pending request at a time.
	_, err = svc.RequestDeletion(ctx, collaborator(), budget.ID, "outro motivo")
	assert.ErrorIs(t, err, ErrDeletionRequestPending)
}

func TestCancelDeletionRequestPermissions(t *testing.T) {
	svc, _, materials, _ := newBudgetTestEnv(t)
	ctx := context.Background()
	budget := createBudget(t, svc, materials, 100)
	requester := collaborator()

	_, err := svc.ChangeStatus(ctx, admin(), budget.ID, ChangeStatusRequest{Status: model.BudgetAprovado})
	require.NoError(t, err)
	_, err = svc.RequestDeletion(ctx, requester, budget.ID, "duplicado")
	require.NoError(t, err)

	// A third party cannot withdraw someone else's request.
	_, err = svc.CancelDeletionRequest(ctx, collaborator(), budget.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// The requester can.
	cancelled, err := svc.CancelDeletionRequest(ctx, requester, budget.ID)
	require.NoError(t, err)
	assert.Nil(t, cancelled.DeletionRequest)

	// With nothing pending, cancel fails.
	_, err = svc.CancelDeletionRequest(ctx, requester, budget.ID)
	assert.ErrorIs(t, err, ErrNoDeletionRequest)
}

func TestResolveDeletionRequestApproveDeletes(t *testing.T) {
	svc, budgets, materials, audit := newBudgetTestEnv(t)
	ctx := context.Background()
	budget := createBudget(t, svc, materials, 100)

	_, err := svc.ChangeStatus(ctx, admin(), budget.ID, ChangeStatusRequest{Status: model.BudgetAprovado})
	require.NoError(t, err)
	_, err = svc.RequestDeletion(ctx, collaborator(), budget.ID, "obra cancelada")
	require.NoError(t, err)

	// Non-admins cannot resolve.
	_, err = svc.ResolveDeletionRequest(ctx, manager(), budget.ID, ResolveApprove)
	assert.ErrorIs(t, err, ErrForbidden)

	resolved, err := svc.ResolveDeletionRequest(ctx, admin(), budget.ID, ResolveApprove)
	require.NoError(t, err)
	assert.Nil(t, resolved)

	_, err = budgets.GetByID(ctx, budget.ID)
	assert.Error(t, err)
	assert.Contains(t, audit.actions(), model.ActionResolveBudgetDeletion)
}

func TestResolveDeletionRequestDenyKeepsBudgetApproved(t *testing.T) {
	svc, _, materials, _ := newBudgetTestEnv(t)
	ctx := context.Background()
	budget := createBudget(t, svc, materials, 100)

	_, err := svc.ChangeStatus(ctx, admin(), budget.ID, ChangeStatusRequest{Status: model.BudgetAprovado})
	require.NoError(t, err)
	_, err = svc.RequestDeletion(ctx, collaborator(), budget.ID, "motivo qualquer")
	require.NoError(t, err)

	denied, err := svc.ResolveDeletionRequest(ctx, admin(), budget.ID, ResolveDeny)
	require.NoError(t, err)
	require.NotNil(t, denied)
	assert.Nil(t, denied.DeletionRequest)
	assert.Equal(t, model.BudgetAprovado, denied.Status)

	_, err = svc.ResolveDeletionRequest(ctx, admin(), budget.ID, "maybe")
	assert.ErrorIs(t, err, ErrInvalidResolveAction)
}

func TestComparisonSkipsRejected(t *testing.T) {
	svc, _, materials, _ := newBudgetTestEnv(t)
	ctx := context.Background()

	cheap := createBudget(t, svc, materials, 50)
	mid := createBudget(t, svc, materials, 100)
	expensive := createBudget(t, svc, materials, 200)

	// Reject the cheapest: it must drop out of the comparison.
	_, err := svc.ChangeStatus(ctx, admin(), cheap.ID, ChangeStatusRequest{Status: model.BudgetRejeitado})
	require.NoError(t, err)

	comparison, err := svc.Comparison(ctx, repository.BudgetFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, comparison.Considered)
	assert.Equal(t, mid.ID, comparison.MelhorPreco.ID)
	assert.Equal(t, expensive.ID, comparison.PiorPreco.ID)
}

func TestComparisonFallsBackWhenAllRejected(t *testing.T) {
	svc, _, materials, _ := newBudgetTestEnv(t)
	ctx := context.Background()

	first := createBudget(t, svc, materials, 50)
	second := createBudget(t, svc, materials, 200)
	for _, budget := range []*BudgetResponse{first, second} {
		_, err := svc.ChangeStatus(ctx, admin(), budget.ID, ChangeStatusRequest{Status: model.BudgetRejeitado})
		require.NoError(t, err)
	}

	comparison, err := svc.Comparison(ctx, repository.BudgetFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, comparison.Considered)
	assert.Equal(t, first.ID, comparison.MelhorPreco.ID)
	assert.Equal(t, second.ID, comparison.PiorPreco.ID)
}

func TestComparisonEmptyView(t *testing.T) {
	svc, _, _, _ := newBudgetTestEnv(t)

	comparison, err := svc.Comparison(context.Background(), repository.BudgetFilter{})
	require.NoError(t, err)
	assert.Zero(t, comparison.Considered)
	assert.Nil(t, comparison.MelhorPreco)
	assert.Nil(t, comparison.PiorPreco)
}

func TestNumeroSurvivesDeletionOfEarlierBudget(t *testing.T) {
	svc, _, materials, _ := newBudgetTestEnv(t)
	ctx := context.Background()

	first := createBudget(t, svc, materials, 100)
	second := createBudget(t, svc, materials, 200)

	prefix := "ORC-" + time.Now().Format("2006") + "-"
	assert.Equal(t, prefix+"001", first.Numero)
	assert.Equal(t, prefix+"002", second.Numero)

	// Remove the first budget through the deletion protocol.
	_, err := svc.ChangeStatus(ctx, admin(), first.ID, ChangeStatusRequest{Status: model.BudgetAprovado})
	require.NoError(t, err)
	_, err = svc.RequestDeletion(ctx, collaborator(), first.ID, "orçamento duplicado")
	require.NoError(t, err)
	resolved, err := svc.ResolveDeletionRequest(ctx, admin(), first.ID, ResolveApprove)
	require.NoError(t, err)
	require.Nil(t, resolved)

	// The freed suffix is not reused: the next numero continues past the
	// highest surviving one instead of colliding with ORC-...-002.
	third := createBudget(t, svc, materials, 300)
	assert.Equal(t, prefix+"003", third.Numero)
}

func TestCreateBudgetRejectsNonPositiveQuantity(t *testing.T) {
	svc, _, materials, _ := newBudgetTestEnv(t)
	materialID := seedMaterial(t, materials, "Cimento CP-II 50kg", 10)

	_, err := svc.Create(context.Background(), collaborator(), CreateBudgetRequest{
		FornecedorNome: "X",
		Data:           "2026-03-10",
		Itens:          []BudgetItemRequest{{MaterialID: materialID.String(), Quantidade: 0}},
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"obrafacil/internal/model"
	"obrafacil/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Deletion request resolution actions
const (
	ResolveApprove = "approve"
	ResolveDeny    = "deny"
)

// --- DTOs ---

type BudgetItemRequest struct {
	MaterialID string   `json:"materialId" binding:"required"`
	Quantidade float64  `json:"quantidade" binding:"required,gt=0"`
	// PrecoUnitario, when present, preserves the price snapshotted when the item
	// was first added; when absent the current catalog price is snapshotted.
	PrecoUnitario     *float64 `json:"precoUnitario"`
	DescricaoSnapshot string   `json:"descricaoSnapshot"`
}

type CreateBudgetRequest struct {
	FornecedorNome     string              `json:"fornecedorNome" binding:"required"`
	FornecedorTelefone string              `json:"fornecedorTelefone"`
	FornecedorSite     string              `json:"fornecedorSite"`
	Data               string              `json:"data" binding:"required"` // YYYY-MM-DD
	Observacoes        string              `json:"observacoes"`
	Itens              []BudgetItemRequest `json:"itens"`
}

type UpdateBudgetRequest = CreateBudgetRequest

type ChangeStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	Observacao string `json:"observacao"`
}

type RequestDeletionRequest struct {
	Reason string `json:"reason"`
}

type ResolveDeletionRequest struct {
	Action string `json:"action" binding:"required"`
}

type BudgetItemResponse struct {
	ID                uuid.UUID `json:"id"`
	MaterialID        uuid.UUID `json:"materialId"`
	DescricaoSnapshot string    `json:"descricaoSnapshot"`
	Quantidade        string    `json:"quantidade"`
	PrecoUnitario     string    `json:"precoUnitario"`
	Subtotal          string    `json:"subtotal"`
}

type ApprovalInfo struct {
	ID   uuid.UUID `json:"id"`
	Nome string    `json:"nome"`
}

type DeletionRequestInfo struct {
	RequesterID   uuid.UUID `json:"requesterId"`
	RequesterName string    `json:"requesterName"`
	Date          string    `json:"date"`
	Reason        string    `json:"reason"`
}

type BudgetResponse struct {
	ID                  uuid.UUID            `json:"id"`
	Numero              string               `json:"numero"`
	FornecedorNome      string               `json:"fornecedorNome"`
	FornecedorTelefone  string               `json:"fornecedorTelefone,omitempty"`
	FornecedorSite      string               `json:"fornecedorSite,omitempty"`
	Data                string               `json:"data"`
	Observacoes         string               `json:"observacoes,omitempty"`
	Itens               []BudgetItemResponse `json:"itens"`
	ValorTotal          string               `json:"valorTotal"`
	Status              string               `json:"status"`
	AprovadoPor         *ApprovalInfo        `json:"aprovadoPor,omitempty"`
	DataAprovacao       string               `json:"dataAprovacao,omitempty"`
	ObservacaoAprovacao string               `json:"observacaoAprovacao,omitempty"`
	DeletionRequest     *DeletionRequestInfo `json:"deletionRequest,omitempty"`
	CreatedAt           string               `json:"created_at"`
}

type BudgetSummary struct {
	ID             uuid.UUID `json:"id"`
	Numero         string    `json:"numero"`
	FornecedorNome string    `json:"fornecedorNome"`
	ValorTotal     string    `json:"valorTotal"`
}

// ComparisonResponse holds the best and worst priced budgets of the current
// view. Rejected budgets are ignored unless everything in view is rejected.
type ComparisonResponse struct {
	MelhorPreco *BudgetSummary `json:"melhorPreco"`
	PiorPreco   *BudgetSummary `json:"piorPreco"`
	Considered  int            `json:"considered"`
}

// --- Interface ---

// BudgetService implements the budget lifecycle: em_analise → aprovado or
// rejeitado, explicit reconsideration back to em_analise, and the two-party
// deletion protocol guarding approved budgets.
type BudgetService interface {
	Create(ctx context.Context, actor Actor, req CreateBudgetRequest) (*BudgetResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateBudgetRequest) (*BudgetResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*BudgetResponse, error)
	List(ctx context.Context, filter repository.BudgetFilter) ([]BudgetResponse, error)
	ChangeStatus(ctx context.Context, actor Actor, id uuid.UUID, req ChangeStatusRequest) (*BudgetResponse, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	RequestDeletion(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*BudgetResponse, error)
	CancelDeletionRequest(ctx context.Context, actor Actor, id uuid.UUID) (*BudgetResponse, error)
	ResolveDeletionRequest(ctx context.Context, actor Actor, id uuid.UUID, action string) (*BudgetResponse, error)
	Comparison(ctx context.Context, filter repository.BudgetFilter) (*ComparisonResponse, error)
}

type budgetService struct {
	budgets   repository.BudgetRepository
	materials repository.MaterialRepository
	audit     repository.AuditRepository
	txm       repository.TransactionManager
	hub       interface{ GetBroadcast() chan []byte } // optional websocket hub
}

// NewBudgetService returns a new BudgetService. hub may be nil.
func NewBudgetService(
	budgets repository.BudgetRepository,
	materials repository.MaterialRepository,
	audit repository.AuditRepository,
	txm repository.TransactionManager,
	hub interface{ GetBroadcast() chan []byte },
) BudgetService {
	return &budgetService{budgets: budgets, materials: materials, audit: audit, txm: txm, hub: hub}
}

// --- Implementation ---

func (s *budgetService) Create(ctx context.Context, actor Actor, req CreateBudgetRequest) (*BudgetResponse, error) {
	data, err := time.Parse("2006-01-02", req.Data)
	if err != nil {
		return nil, ErrInvalidDate
	}
	items, err := s.buildItems(ctx, req.Itens)
	if err != nil {
		return nil, err
	}

	budget := &model.Budget{
		FornecedorNome:     strings.TrimSpace(req.FornecedorNome),
		FornecedorTelefone: req.FornecedorTelefone,
		FornecedorSite:     req.FornecedorSite,
		Data:               data,
		Observacoes:        req.Observacoes,
		Itens:              items,
		Status:             model.BudgetEmAnalise,
	}
	budget.RecalculateTotal()

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		numero, numErr := s.budgets.NextNumero(txCtx)
		if numErr != nil {
			return numErr
		}
		budget.Numero = numero
		if createErr := s.budgets.Create(txCtx, budget); createErr != nil {
			return createErr
		}
		return s.auditLog(txCtx, actor, model.ActionCreateBudget, budget, map[string]interface{}{
			"valorTotal": budget.ValorTotal.StringFixed(2),
			"itens":      len(budget.Itens),
		})
	})
	if err != nil {
		return nil, err
	}

	s.notify("budget_created", budget)
	resp := toBudgetResponse(budget)
	return &resp, nil
}

// Update replaces the budget's fields and item set. Per the collection CRUD
// contract, updating a missing id is absorbed as a no-op.
func (s *budgetService) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateBudgetRequest) (*BudgetResponse, error) {
	budget, err := s.budgets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := time.Parse("2006-01-02", req.Data)
	if err != nil {
		return nil, ErrInvalidDate
	}
	items, err := s.buildItems(ctx, req.Itens)
	if err != nil {
		return nil, err
	}

	budget.FornecedorNome = strings.TrimSpace(req.FornecedorNome)
	budget.FornecedorTelefone = req.FornecedorTelefone
	budget.FornecedorSite = req.FornecedorSite
	budget.Data = data
	budget.Observacoes = req.Observacoes
	budget.Itens = items
	budget.RecalculateTotal()

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if repErr := s.budgets.ReplaceItems(txCtx, budget, budget.Itens); repErr != nil {
			return repErr
		}
		if upErr := s.budgets.Update(txCtx, budget); upErr != nil {
			return upErr
		}
		return s.auditLog(txCtx, actor, model.ActionUpdateBudget, budget, map[string]interface{}{
			"valorTotal": budget.ValorTotal.StringFixed(2),
		})
	})
	if err != nil {
		return nil, err
	}

	resp := toBudgetResponse(budget)
	return &resp, nil
}

func (s *budgetService) Get(ctx context.Context, id uuid.UUID) (*BudgetResponse, error) {
	budget, err := s.budgets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	resp := toBudgetResponse(budget)
	return &resp, nil
}

func (s *budgetService) List(ctx context.Context, filter repository.BudgetFilter) ([]BudgetResponse, error) {
	budgets, err := s.budgets.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := make([]BudgetResponse, 0, len(budgets))
	for i := range budgets {
		result = append(result, toBudgetResponse(&budgets[i]))
	}
	return result, nil
}

// ChangeStatus moves the budget through its lifecycle. Approving stamps the
// approver and leaves any pending deletion request untouched; every transition
// away from aprovado clears the approval stamps.
func (s *budgetService) ChangeStatus(ctx context.Context, actor Actor, id uuid.UUID, req ChangeStatusRequest) (*BudgetResponse, error) {
	if !actor.CanApprove() {
		return nil, ErrForbidden
	}
	if !model.ValidBudgetStatus(req.Status) {
		return nil, ErrInvalidStatus
	}

	budget, err := s.budgets.GetByID(ctx, id)
	if err != nil {
		return nil, ErrBudgetNotFound
	}

	previous := budget.Status
	budget.Status = req.Status
	if req.Status == model.BudgetAprovado {
		now := time.Now()
		approverID := actor.ID
		budget.AprovadoPor = &approverID
		budget.AprovadoPorNome = actor.Name
		budget.DataAprovacao = &now
		budget.ObservacaoAprovacao = req.Observacao
	} else {
		budget.ClearApproval()
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if upErr := s.budgets.Update(txCtx, budget); upErr != nil {
			return upErr
		}
		return s.auditLog(txCtx, actor, model.ActionChangeBudgetStatus, budget, map[string]interface{}{
			"from": previous,
			"to":   req.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notify("budget_status_changed", budget)
	resp := toBudgetResponse(budget)
	return &resp, nil
}

// Delete removes a budget outright when it is not approved or when the caller
// is an admin. Non-admins deleting an approved budget are refused and must go
// through RequestDeletion.
func (s *budgetService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	budget, err := s.budgets.GetByID(ctx, id)
	if err != nil {
		return ErrBudgetNotFound
	}

	if budget.Status == model.BudgetAprovado && !actor.IsAdmin() {
		return ErrApprovedBudget
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if delErr := s.budgets.Delete(txCtx, id); delErr != nil {
			return delErr
		}
		return s.auditLog(txCtx, actor, model.ActionDeleteBudget, budget, nil)
	})
	if err != nil {
		return err
	}

	s.notify("budget_deleted", budget)
	return nil
}

// RequestDeletion attaches a pending deletion request to an approved budget.
// Only one request may be pending at a time.
func (s *budgetService) RequestDeletion(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*BudgetResponse, error) {
	budget, err := s.budgets.GetByID(ctx, id)
	if err != nil {
		return nil, ErrBudgetNotFound
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ErrEmptyReason
	}
	if budget.Status != model.BudgetAprovado {
		return nil, ErrBudgetNotApproved
	}
	if budget.HasPendingDeletionRequest() {
		return nil, ErrDeletionRequestPending
	}

	now := time.Now()
	requesterID := actor.ID
	budget.DeletionRequestedBy = &requesterID
	budget.DeletionRequesterName = actor.Name
	budget.DeletionRequestedAt = &now
	budget.DeletionReason = strings.TrimSpace(reason)

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if upErr := s.budgets.Update(txCtx, budget); upErr != nil {
			return upErr
		}
		return s.auditLog(txCtx, actor, model.ActionRequestBudgetDeletion, budget, map[string]interface{}{
			"reason": budget.DeletionReason,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notify("budget_deletion_requested", budget)
	resp := toBudgetResponse(budget)
	return &resp, nil
}

// CancelDeletionRequest withdraws a pending request. Only the requester or an
// admin may cancel.
func (s *budgetService) CancelDeletionRequest(ctx context.Context, actor Actor, id uuid.UUID) (*BudgetResponse, error) {
	budget, err := s.budgets.GetByID(ctx, id)
	if err != nil {
		return nil, ErrBudgetNotFound
	}
	if !budget.HasPendingDeletionRequest() {
		return nil, ErrNoDeletionRequest
	}
	if !actor.IsAdmin() && *budget.DeletionRequestedBy != actor.ID {
		return nil, ErrForbidden
	}

	budget.ClearDeletionRequest()

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if upErr := s.budgets.Update(txCtx, budget); upErr != nil {
			return upErr
		}
		return s.auditLog(txCtx, actor, model.ActionCancelBudgetDeletion, budget, nil)
	})
	if err != nil {
		return nil, err
	}

	resp := toBudgetResponse(budget)
	return &resp, nil
}

// ResolveDeletionRequest is the admin decision on a pending request: approve
// performs the actual delete, deny clears the request and keeps the budget
// with its status unchanged. Returns nil on approve (the budget is gone).
func (s *budgetService) ResolveDeletionRequest(ctx context.Context, actor Actor, id uuid.UUID, action string) (*BudgetResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if action != ResolveApprove && action != ResolveDeny {
		return nil, ErrInvalidResolveAction
	}

	budget, err := s.budgets.GetByID(ctx, id)
	if err != nil {
		return nil, ErrBudgetNotFound
	}
	if !budget.HasPendingDeletionRequest() {
		return nil, ErrNoDeletionRequest
	}

	if action == ResolveApprove {
		err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
			if delErr := s.budgets.Delete(txCtx, id); delErr != nil {
				return delErr
			}
			return s.auditLog(txCtx, actor, model.ActionResolveBudgetDeletion, budget, map[string]interface{}{
				"action": ResolveApprove,
			})
		})
		if err != nil {
			return nil, err
		}
		s.notify("budget_deleted", budget)
		return nil, nil
	}

	budget.ClearDeletionRequest()
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if upErr := s.budgets.Update(txCtx, budget); upErr != nil {
			return upErr
		}
		return s.auditLog(txCtx, actor, model.ActionResolveBudgetDeletion, budget, map[string]interface{}{
			"action": ResolveDeny,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notify("budget_deletion_denied", budget)
	resp := toBudgetResponse(budget)
	return &resp, nil
}

// Comparison finds the cheapest and most expensive budgets of the filtered
// view. Rejected budgets are skipped; when every budget in view is rejected
// the comparison falls back to the whole view. Ties keep the first seen.
func (s *budgetService) Comparison(ctx context.Context, filter repository.BudgetFilter) (*ComparisonResponse, error) {
	budgets, err := s.budgets.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	candidates := make([]*model.Budget, 0, len(budgets))
	for i := range budgets {
		if budgets[i].Status != model.BudgetRejeitado {
			candidates = append(candidates, &budgets[i])
		}
	}
	if len(candidates) == 0 {
		for i := range budgets {
			candidates = append(candidates, &budgets[i])
		}
	}

	resp := &ComparisonResponse{Considered: len(candidates)}
	if len(candidates) == 0 {
		return resp, nil
	}

	best, worst := candidates[0], candidates[0]
	for _, b := range candidates[1:] {
		if b.ValorTotal.Cmp(best.ValorTotal) < 0 {
			best = b
		}
		if b.ValorTotal.Cmp(worst.ValorTotal) > 0 {
			worst = b
		}
	}
	resp.MelhorPreco = toBudgetSummary(best)
	resp.PiorPreco = toBudgetSummary(worst)
	return resp, nil
}

// --- Helpers ---

// buildItems resolves request items into budget items, snapshotting descricao
// and precoUnitario from the catalog unless the request carries a prior
// snapshot of its own.
func (s *budgetService) buildItems(ctx context.Context, reqs []BudgetItemRequest) ([]model.BudgetItem, error) {
	items := make([]model.BudgetItem, 0, len(reqs))
	for _, req := range reqs {
		materialID, err := uuid.Parse(req.MaterialID)
		if err != nil {
			return nil, ErrMaterialNotFound
		}
		if req.Quantidade <= 0 || (req.PrecoUnitario != nil && *req.PrecoUnitario < 0) {
			return nil, ErrInvalidAmount
		}

		item := model.BudgetItem{
			MaterialID: materialID,
			Quantidade: decimal.NewFromFloat(req.Quantidade).Round(3),
		}
		if req.PrecoUnitario != nil {
			item.PrecoUnitario = decimal.NewFromFloat(*req.PrecoUnitario).Round(2)
			item.DescricaoSnapshot = req.DescricaoSnapshot
		}
		if req.PrecoUnitario == nil || item.DescricaoSnapshot == "" {
			material, err := s.materials.GetByID(ctx, materialID)
			if err != nil {
				return nil, ErrMaterialNotFound
			}
			if req.PrecoUnitario == nil {
				item.PrecoUnitario = material.PrecoUnitario
			}
			if item.DescricaoSnapshot == "" {
				item.DescricaoSnapshot = material.Descricao
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *budgetService) auditLog(ctx context.Context, actor Actor, action string, budget *model.Budget, details map[string]interface{}) error {
	if s.audit == nil {
		return nil
	}
	payload := ""
	if details != nil {
		raw, _ := json.Marshal(details)
		payload = string(raw)
	}
	actorID := actor.ID
	return s.audit.Log(ctx, &model.AuditLog{
		UserID:     &actorID,
		Action:     action,
		EntityID:   budget.ID.String(),
		EntityName: budget.Numero,
		Details:    payload,
	})
}

func (s *budgetService) notify(event string, budget *model.Budget) {
	if s.hub == nil {
		return
	}
	msg, _ := json.Marshal(map[string]interface{}{
		"event":  event,
		"id":     budget.ID,
		"numero": budget.Numero,
		"status": budget.Status,
	})
	select {
	case s.hub.GetBroadcast() <- msg:
	default:
	}
}

func toBudgetSummary(b *model.Budget) *BudgetSummary {
	return &BudgetSummary{
		ID:             b.ID,
		Numero:         b.Numero,
		FornecedorNome: b.FornecedorNome,
		ValorTotal:     b.ValorTotal.StringFixed(2),
	}
}

func toBudgetResponse(b *model.Budget) BudgetResponse {
	resp := BudgetResponse{
		ID:                  b.ID,
		Numero:              b.Numero,
		FornecedorNome:      b.FornecedorNome,
		FornecedorTelefone:  b.FornecedorTelefone,
		FornecedorSite:      b.FornecedorSite,
		Data:                b.Data.Format("2006-01-02"),
		Observacoes:         b.Observacoes,
		Itens:               make([]BudgetItemResponse, 0, len(b.Itens)),
		ValorTotal:          b.ValorTotal.StringFixed(2),
		Status:              b.Status,
		ObservacaoAprovacao: b.ObservacaoAprovacao,
		CreatedAt:           b.CreatedAt.Format(time.RFC3339),
	}
	for _, item := range b.Itens {
		resp.Itens = append(resp.Itens, BudgetItemResponse{
			ID:                item.ID,
			MaterialID:        item.MaterialID,
			DescricaoSnapshot: item.DescricaoSnapshot,
			Quantidade:        item.Quantidade.String(),
			PrecoUnitario:     item.PrecoUnitario.StringFixed(2),
			Subtotal:          item.Subtotal.StringFixed(2),
		})
	}
	if b.AprovadoPor != nil {
		resp.AprovadoPor = &ApprovalInfo{ID: *b.AprovadoPor, Nome: b.AprovadoPorNome}
	}
	if b.DataAprovacao != nil {
		resp.DataAprovacao = b.DataAprovacao.Format(time.RFC3339)
	}
	if b.HasPendingDeletionRequest() {
		resp.DeletionRequest = &DeletionRequestInfo{
			RequesterID:   *b.DeletionRequestedBy,
			RequesterName: b.DeletionRequesterName,
			Date:          b.DeletionRequestedAt.Format(time.RFC3339),
			Reason:        b.DeletionReason,
		}
	}
	return resp
}

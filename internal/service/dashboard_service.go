package service

import (
	"context"
	"errors"

	"obrafacil/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardSummary aggregates already-computed figures for the overview page.
type DashboardSummary struct {
	TotalMaterials          int64             `json:"totalMaterials"`
	TotalBudgets            int64             `json:"totalBudgets"`
	BudgetsByStatus         map[string]int64  `json:"budgetsByStatus"`
	ApprovedBudgetsTotal    string            `json:"approvedBudgetsTotal"`
	PendingDeletionRequests int64             `json:"pendingDeletionRequests"`
	Checklist               ChecklistProgress `json:"checklist"`
	LatestProgress          int               `json:"latestProgress"` // percentage of the newest measurement
	TotalAdditions          int64             `json:"totalAdditions"`
	ApprovedAdditionsCost   string            `json:"approvedAdditionsCost"`
	ApprovedAdditionsDays   int64             `json:"approvedAdditionsDays"`
}

type DashboardService interface {
	GetSummary(ctx context.Context) (*DashboardSummary, error)
}

type dashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) DashboardService {
	return &dashboardService{db: db}
}

// GetSummary computes the dashboard aggregates in a handful of scans.
func (s *dashboardService) GetSummary(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{
		BudgetsByStatus:       map[string]int64{},
		ApprovedBudgetsTotal:  decimal.Zero.StringFixed(2),
		ApprovedAdditionsCost: decimal.Zero.StringFixed(2),
	}

	db := s.db.WithContext(ctx)

	if err := db.Model(&model.Material{}).Count(&summary.TotalMaterials).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Budget{}).Count(&summary.TotalBudgets).Error; err != nil {
		return nil, err
	}

	var statusCounts []struct {
		Status string
		Total  int64
	}
	if err := db.Model(&model.Budget{}).
		Select("status, COUNT(*) as total").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}
	for _, row := range statusCounts {
		summary.BudgetsByStatus[row.Status] = row.Total
	}

	var approvedTotal struct {
		Value decimal.Decimal
	}
	if err := db.Model(&model.Budget{}).
		Select("COALESCE(SUM(valor_total), 0) as value").
		Where("status = ?", model.BudgetAprovado).
		Scan(&approvedTotal).Error; err != nil {
		return nil, err
	}
	summary.ApprovedBudgetsTotal = approvedTotal.Value.StringFixed(2)

	if err := db.Model(&model.Budget{}).
		Where("deletion_requested_by IS NOT NULL").
		Count(&summary.PendingDeletionRequests).Error; err != nil {
		return nil, err
	}

	var checklistTotals struct {
		Total     int64
		Completed int64
	}
	if err := db.Model(&model.ChecklistItem{}).
		Select("COUNT(*) as total, COUNT(*) FILTER (WHERE completed) as completed").
		Scan(&checklistTotals).Error; err != nil {
		return nil, err
	}
	summary.Checklist = ChecklistProgress{
		Total:     int(checklistTotals.Total),
		Completed: int(checklistTotals.Completed),
	}
	if checklistTotals.Total > 0 {
		summary.Checklist.Percentage = int(checklistTotals.Completed * 100 / checklistTotals.Total)
	}

	var latest model.Measurement
	err := db.Order("created_at desc").First(&latest).Error
	switch {
	case err == nil:
		summary.LatestProgress = latest.Percentage
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no measurements yet
	default:
		return nil, err
	}

	if err := db.Model(&model.Addition{}).Count(&summary.TotalAdditions).Error; err != nil {
		return nil, err
	}

	var additions struct {
		Cost decimal.Decimal
		Days int64
	}
	if err := db.Model(&model.Addition{}).
		Select("COALESCE(SUM(cost_impact), 0) as cost, COALESCE(SUM(time_impact), 0) as days").
		Where("status = ?", model.AdditionApproved).
		Scan(&additions).Error; err != nil {
		return nil, err
	}
	summary.ApprovedAdditionsCost = additions.Cost.StringFixed(2)
	summary.ApprovedAdditionsDays = additions.Days

	return summary, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"obrafacil/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BudgetFilter narrows budget listings to a date range. Zero values mean
// "no bound".
type BudgetFilter struct {
	From time.Time
	To   time.Time
}

// BudgetRepository defines data access for budgets and their items. Items are
// owned by the budget: updates replace the whole item set and deletes cascade.
type BudgetRepository interface {
	Create(ctx context.Context, budget *model.Budget) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Budget, error)
	List(ctx context.Context, filter BudgetFilter) ([]model.Budget, error)
	Update(ctx context.Context, budget *model.Budget) error
	ReplaceItems(ctx context.Context, budget *model.Budget, items []model.BudgetItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	NextNumero(ctx context.Context) (string, error)
}

type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository returns a new instance of BudgetRepository
func NewBudgetRepository(db *gorm.DB) BudgetRepository {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) Create(ctx context.Context, budget *model.Budget) error {
	return GetDB(ctx, r.db).Create(budget).Error
}

func (r *budgetRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	var budget model.Budget
	if err := GetDB(ctx, r.db).Preload("Itens").First(&budget, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

// List returns budgets newest first, optionally restricted to a date range on
// the budget date (inclusive on both ends).
func (r *budgetRepository) List(ctx context.Context, filter BudgetFilter) ([]model.Budget, error) {
	query := GetDB(ctx, r.db).Preload("Itens")
	if !filter.From.IsZero() {
		query = query.Where("data >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		// Inclusive upper bound: compare against end of day
		query = query.Where("data < ?", filter.To.AddDate(0, 0, 1))
	}

	var budgets []model.Budget
	if err := query.Order("created_at desc").Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

func (r *budgetRepository) Update(ctx context.Context, budget *model.Budget) error {
	// Save on the bare struct so cleared approval/deletion columns are written
	// back as NULLs too.
	return GetDB(ctx, r.db).Omit("Itens").Save(budget).Error
}

// ReplaceItems swaps the budget's item set wholesale. Runs inside the ambient
// transaction when one is active.
func (r *budgetRepository) ReplaceItems(ctx context.Context, budget *model.Budget, items []model.BudgetItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("budget_id = ?", budget.ID).Delete(&model.BudgetItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].BudgetID = budget.ID
	}
	if len(items) > 0 {
		if err := db.Create(&items).Error; err != nil {
			return err
		}
	}
	budget.Itens = items
	return nil
}

func (r *budgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("budget_id = ?", id).Delete(&model.BudgetItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Budget{}).Error
}

// NextNumero generates the next display code (ORC-YYYY-NNN). An advisory lock
// on the year prefix prevents concurrent requests from minting duplicates.
func (r *budgetRepository) NextNumero(ctx context.Context) (string, error) {
	db := GetDB(ctx, r.db)
	prefix := "ORC-" + time.Now().Format("2006") + "-"

	db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix)

	// Budgets are hard-deleted, so the suffix derives from the highest
	// surviving numero. A row count would re-mint a taken numero after
	// deleting any budget that is not the newest one.
	var max int64
	if err := db.Model(&model.Budget{}).
		Where("numero LIKE ?", prefix+"%").
		Select("COALESCE(MAX(CAST(SPLIT_PART(numero, '-', 3) AS INTEGER)), 0)").
		Scan(&max).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%03d", prefix, max+1), nil
}

package repository

import (
	"context"

	"obrafacil/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChecklistRepository defines data access for the quality checklist.
type ChecklistRepository interface {
	List(ctx context.Context) ([]model.ChecklistItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.ChecklistItem, error)
	Update(ctx context.Context, item *model.ChecklistItem) error
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, items []model.ChecklistItem) error
	ReplaceAll(ctx context.Context, items []model.ChecklistItem) error
}

type checklistRepository struct {
	db *gorm.DB
}

// NewChecklistRepository returns a new instance of ChecklistRepository
func NewChecklistRepository(db *gorm.DB) ChecklistRepository {
	return &checklistRepository{db: db}
}

func (r *checklistRepository) List(ctx context.Context) ([]model.ChecklistItem, error) {
	var items []model.ChecklistItem
	if err := GetDB(ctx, r.db).Order("position asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *checklistRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ChecklistItem, error) {
	var item model.ChecklistItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *checklistRepository) Update(ctx context.Context, item *model.ChecklistItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *checklistRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&model.ChecklistItem{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *checklistRepository) CreateBatch(ctx context.Context, items []model.ChecklistItem) error {
	if len(items) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&items).Error
}

// ReplaceAll swaps the full checklist, used when restoring a backup snapshot.
func (r *checklistRepository) ReplaceAll(ctx context.Context, items []model.ChecklistItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("1 = 1").Delete(&model.ChecklistItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.Create(&items).Error
}

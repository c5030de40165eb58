package repository

import (
	"context"

	"obrafacil/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdditionRepository defines data access for contract additions.
type AdditionRepository interface {
	Create(ctx context.Context, addition *model.Addition) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Addition, error)
	List(ctx context.Context) ([]model.Addition, error)
	Update(ctx context.Context, addition *model.Addition) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type additionRepository struct {
	db *gorm.DB
}

// NewAdditionRepository returns a new instance of AdditionRepository
func NewAdditionRepository(db *gorm.DB) AdditionRepository {
	return &additionRepository{db: db}
}

func (r *additionRepository) Create(ctx context.Context, addition *model.Addition) error {
	return GetDB(ctx, r.db).Create(addition).Error
}

func (r *additionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Addition, error) {
	var addition model.Addition
	if err := GetDB(ctx, r.db).First(&addition, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &addition, nil
}

// List returns additions newest first (add prepends).
func (r *additionRepository) List(ctx context.Context) ([]model.Addition, error) {
	var additions []model.Addition
	if err := GetDB(ctx, r.db).Order("created_at desc").Find(&additions).Error; err != nil {
		return nil, err
	}
	return additions, nil
}

func (r *additionRepository) Update(ctx context.Context, addition *model.Addition) error {
	return GetDB(ctx, r.db).Save(addition).Error
}

func (r *additionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Addition{}).Error
}

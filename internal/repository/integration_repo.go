package repository

import (
	"context"

	"obrafacil/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IntegrationRepository defines data access for cloud storage integrations.
type IntegrationRepository interface {
	List(ctx context.Context) ([]model.Integration, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Integration, error)
	Update(ctx context.Context, integration *model.Integration) error
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, integrations []model.Integration) error
}

type integrationRepository struct {
	db *gorm.DB
}

// NewIntegrationRepository returns a new instance of IntegrationRepository
func NewIntegrationRepository(db *gorm.DB) IntegrationRepository {
	return &integrationRepository{db: db}
}

func (r *integrationRepository) List(ctx context.Context) ([]model.Integration, error) {
	var integrations []model.Integration
	if err := GetDB(ctx, r.db).Order("created_at asc").Find(&integrations).Error; err != nil {
		return nil, err
	}
	return integrations, nil
}

func (r *integrationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Integration, error) {
	var integration model.Integration
	if err := GetDB(ctx, r.db).First(&integration, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &integration, nil
}

func (r *integrationRepository) Update(ctx context.Context, integration *model.Integration) error {
	return GetDB(ctx, r.db).Save(integration).Error
}

func (r *integrationRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&model.Integration{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *integrationRepository) CreateBatch(ctx context.Context, integrations []model.Integration) error {
	if len(integrations) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&integrations).Error
}

package repository

import (
	"context"

	"obrafacil/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeasurementRepository defines data access for physical-progress measurements.
type MeasurementRepository interface {
	Create(ctx context.Context, measurement *model.Measurement) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Measurement, error)
	List(ctx context.Context) ([]model.Measurement, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type measurementRepository struct {
	db *gorm.DB
}

// NewMeasurementRepository returns a new instance of MeasurementRepository
func NewMeasurementRepository(db *gorm.DB) MeasurementRepository {
	return &measurementRepository{db: db}
}

func (r *measurementRepository) Create(ctx context.Context, measurement *model.Measurement) error {
	return GetDB(ctx, r.db).Create(measurement).Error
}

func (r *measurementRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Measurement, error) {
	var measurement model.Measurement
	if err := GetDB(ctx, r.db).Preload("Photos").First(&measurement, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &measurement, nil
}

// List returns measurements newest first (add prepends).
func (r *measurementRepository) List(ctx context.Context) ([]model.Measurement, error) {
	var measurements []model.Measurement
	if err := GetDB(ctx, r.db).Preload("Photos").Order("created_at desc").Find(&measurements).Error; err != nil {
		return nil, err
	}
	return measurements, nil
}

func (r *measurementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("measurement_id = ?", id).Delete(&model.MeasurementPhoto{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Measurement{}).Error
}

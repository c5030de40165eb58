package service

import (
	"context"
	"time"

	"obrafacil/internal/model"
	"obrafacil/internal/repository"

	"github.com/google/uuid"
)

// DTOs for request validation
type CreateMeasurementRequest struct {
	Stage       string   `json:"stage" binding:"required"`
	Date        string   `json:"date" binding:"required"` // YYYY-MM-DD
	Percentage  int      `json:"percentage"`
	Description string   `json:"description"`
	Photos      []string `json:"photos"` // embedded image data URLs
}

type MeasurementResponse struct {
	ID          uuid.UUID `json:"id"`
	Stage       string    `json:"stage"`
	Date        string    `json:"date"`
	Percentage  int       `json:"percentage"`
	Description string    `json:"description"`
	Photos      []string  `json:"photos"`
	CreatedAt   string    `json:"created_at"`
}

// MeasurementService records physical progress. Measurements are append and
// delete only — there is no update operation.
type MeasurementService interface {
	Create(ctx context.Context, req CreateMeasurementRequest) (*MeasurementResponse, error)
	List(ctx context.Context) ([]MeasurementResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type measurementService struct {
	measurements repository.MeasurementRepository
}

// NewMeasurementService returns a new instance of MeasurementService
func NewMeasurementService(measurements repository.MeasurementRepository) MeasurementService {
	return &measurementService{measurements: measurements}
}

func (s *measurementService) Create(ctx context.Context, req CreateMeasurementRequest) (*MeasurementResponse, error) {
	if req.Percentage < 0 || req.Percentage > 100 {
		return nil, ErrInvalidPercentage
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	measurement := &model.Measurement{
		Stage:       req.Stage,
		Date:        date,
		Percentage:  req.Percentage,
		Description: req.Description,
	}
	for _, photo := range req.Photos {
		measurement.Photos = append(measurement.Photos, model.MeasurementPhoto{Data: photo})
	}

	if err := s.measurements.Create(ctx, measurement); err != nil {
		return nil, err
	}

	resp := toMeasurementResponse(measurement)
	return &resp, nil
}

func (s *measurementService) List(ctx context.Context) ([]MeasurementResponse, error) {
	measurements, err := s.measurements.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]MeasurementResponse, 0, len(measurements))
	for i := range measurements {
		responses = append(responses, toMeasurementResponse(&measurements[i]))
	}
	return responses, nil
}

func (s *measurementService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.measurements.Delete(ctx, id)
}

func toMeasurementResponse(m *model.Measurement) MeasurementResponse {
	resp := MeasurementResponse{
		ID:          m.ID,
		Stage:       m.Stage,
		Date:        m.Date.Format("2006-01-02"),
		Percentage:  m.Percentage,
		Description: m.Description,
		Photos:      make([]string, 0, len(m.Photos)),
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
	for _, photo := range m.Photos {
		resp.Photos = append(resp.Photos, photo.Data)
	}
	return resp
}

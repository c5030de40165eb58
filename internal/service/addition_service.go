package service

import (
	"context"
	"errors"
	"time"

	"obrafacil/internal/model"
	"obrafacil/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs for request validation
type AdditionRequest struct {
	Date       string  `json:"date" binding:"required"` // YYYY-MM-DD
	Reason     string  `json:"reason" binding:"required"`
	CostImpact float64 `json:"costImpact"`
	TimeImpact int     `json:"timeImpact"`
}

type AdditionResponse struct {
	ID         uuid.UUID `json:"id"`
	Date       string    `json:"date"`
	Reason     string    `json:"reason"`
	CostImpact string    `json:"costImpact"`
	TimeImpact int       `json:"timeImpact"`
	Status     string    `json:"status"`
	CreatedAt  string    `json:"created_at"`
}

// AdditionService manages contract additions. CycleStatus is a plain toggle
// (pending, approved, rejected, back to pending) with no transition guard.
type AdditionService interface {
	Create(ctx context.Context, req AdditionRequest) (*AdditionResponse, error)
	List(ctx context.Context) ([]AdditionResponse, error)
	Update(ctx context.Context, id uuid.UUID, req AdditionRequest) (*AdditionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CycleStatus(ctx context.Context, id uuid.UUID) (*AdditionResponse, error)
}

type additionService struct {
	additions repository.AdditionRepository
}

// NewAdditionService returns a new instance of AdditionService
func NewAdditionService(additions repository.AdditionRepository) AdditionService {
	return &additionService{additions: additions}
}

func (s *additionService) Create(ctx context.Context, req AdditionRequest) (*AdditionResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	addition := &model.Addition{
		Date:       date,
		Reason:     req.Reason,
		CostImpact: decimal.NewFromFloat(req.CostImpact).Round(2),
		TimeImpact: req.TimeImpact,
		Status:     model.AdditionPending,
	}
	if err := s.additions.Create(ctx, addition); err != nil {
		return nil, err
	}

	resp := toAdditionResponse(addition)
	return &resp, nil
}

func (s *additionService) List(ctx context.Context) ([]AdditionResponse, error) {
	additions, err := s.additions.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]AdditionResponse, 0, len(additions))
	for i := range additions {
		responses = append(responses, toAdditionResponse(&additions[i]))
	}
	return responses, nil
}

// Update replaces the addition by id; a missing id is absorbed as a no-op.
func (s *additionService) Update(ctx context.Context, id uuid.UUID, req AdditionRequest) (*AdditionResponse, error) {
	addition, err := s.additions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	addition.Date = date
	addition.Reason = req.Reason
	addition.CostImpact = decimal.NewFromFloat(req.CostImpact).Round(2)
	addition.TimeImpact = req.TimeImpact

	if err := s.additions.Update(ctx, addition); err != nil {
		return nil, err
	}

	resp := toAdditionResponse(addition)
	return &resp, nil
}

func (s *additionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.additions.Delete(ctx, id)
}

// CycleStatus advances the status one step in the toggle cycle. A missing id
// is absorbed as a no-op.
func (s *additionService) CycleStatus(ctx context.Context, id uuid.UUID) (*AdditionResponse, error) {
	addition, err := s.additions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	addition.Status = model.NextAdditionStatus(addition.Status)
	if err := s.additions.Update(ctx, addition); err != nil {
		return nil, err
	}

	resp := toAdditionResponse(addition)
	return &resp, nil
}

func toAdditionResponse(a *model.Addition) AdditionResponse {
	return AdditionResponse{
		ID:         a.ID,
		Date:       a.Date.Format("2006-01-02"),
		Reason:     a.Reason,
		CostImpact: a.CostImpact.StringFixed(2),
		TimeImpact: a.TimeImpact,
		Status:     a.Status,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
}

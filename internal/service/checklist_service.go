package service

import (
	"context"
	"errors"

	"obrafacil/internal/model"
	"obrafacil/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChecklistProgress summarizes checklist completion for the dashboard cards.
type ChecklistProgress struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Percentage int `json:"percentage"`
}

// ChecklistService exposes the fixed quality checklist: listing, toggling
// completion and progress stats. The item set itself is seeded, not managed.
type ChecklistService interface {
	List(ctx context.Context) ([]model.ChecklistItem, error)
	Toggle(ctx context.Context, id uuid.UUID) (*model.ChecklistItem, error)
	Progress(ctx context.Context) (*ChecklistProgress, error)
}

type checklistService struct {
	checklist repository.ChecklistRepository
}

// NewChecklistService returns a new instance of ChecklistService
func NewChecklistService(checklist repository.ChecklistRepository) ChecklistService {
	return &checklistService{checklist: checklist}
}

func (s *checklistService) List(ctx context.Context) ([]model.ChecklistItem, error) {
	return s.checklist.List(ctx)
}

// Toggle flips completion of an item. A missing id is absorbed as a no-op.
func (s *checklistService) Toggle(ctx context.Context, id uuid.UUID) (*model.ChecklistItem, error) {
	item, err := s.checklist.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	item.Completed = !item.Completed
	if err := s.checklist.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *checklistService) Progress(ctx context.Context) (*ChecklistProgress, error) {
	items, err := s.checklist.List(ctx)
	if err != nil {
		return nil, err
	}
	progress := &ChecklistProgress{Total: len(items)}
	for _, item := range items {
		if item.Completed {
			progress.Completed++
		}
	}
	if progress.Total > 0 {
		progress.Percentage = progress.Completed * 100 / progress.Total
	}
	return progress, nil
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"obrafacil/internal/model"
	"obrafacil/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConnectIntegrationRequest carries the account to bind to a provider slot.
type ConnectIntegrationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// IntegrationService manages the cloud storage connection slots. Connect
// simulates the provider OAuth round-trip with the configured latency.
type IntegrationService interface {
	List(ctx context.Context) ([]model.Integration, error)
	Connect(ctx context.Context, id uuid.UUID, email string) (*model.Integration, error)
	Disconnect(ctx context.Context, id uuid.UUID) (*model.Integration, error)
	Sync(ctx context.Context, id uuid.UUID) (*model.Integration, error)
}

type integrationService struct {
	integrations repository.IntegrationRepository
	delay        time.Duration
}

// NewIntegrationService returns a new IntegrationService. delay models the
// provider handshake latency; pass zero for deterministic tests.
func NewIntegrationService(integrations repository.IntegrationRepository, delay time.Duration) IntegrationService {
	return &integrationService{integrations: integrations, delay: delay}
}

func (s *integrationService) List(ctx context.Context) ([]model.Integration, error) {
	return s.integrations.List(ctx)
}

func (s *integrationService) Connect(ctx context.Context, id uuid.UUID, email string) (*model.Integration, error) {
	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	integration, err := s.integrations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	now := time.Now()
	integration.Connected = true
	integration.ConnectedEmail = strings.TrimSpace(email)
	integration.LastSync = &now
	if err := s.integrations.Update(ctx, integration); err != nil {
		return nil, err
	}
	return integration, nil
}

func (s *integrationService) Disconnect(ctx context.Context, id uuid.UUID) (*model.Integration, error) {
	integration, err := s.integrations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	integration.Connected = false
	integration.ConnectedEmail = ""
	integration.LastSync = nil
	if err := s.integrations.Update(ctx, integration); err != nil {
		return nil, err
	}
	return integration, nil
}

// Sync stamps a fresh sync time on a connected slot. Disconnected slots are
// left untouched.
func (s *integrationService) Sync(ctx context.Context, id uuid.UUID) (*model.Integration, error) {
	integration, err := s.integrations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !integration.Connected {
		return integration, nil
	}

	now := time.Now()
	integration.LastSync = &now
	if err := s.integrations.Update(ctx, integration); err != nil {
		return nil, err
	}
	return integration, nil
}

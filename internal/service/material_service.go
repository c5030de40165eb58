package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"obrafacil/internal/model"
	"obrafacil/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs for request validation
type MaterialRequest struct {
	Codigo        string  `json:"codigo" binding:"required"`
	Descricao     string  `json:"descricao" binding:"required"`
	Unidade       string  `json:"unidade" binding:"required"`
	PrecoUnitario float64 `json:"precoUnitario" binding:"required,gt=0"`
	Imagem        string  `json:"imagem"`
	Fornecedor    string  `json:"fornecedor"`
}

type MaterialResponse struct {
	ID            uuid.UUID `json:"id"`
	Codigo        string    `json:"codigo"`
	Descricao     string    `json:"descricao"`
	Unidade       string    `json:"unidade"`
	PrecoUnitario string    `json:"precoUnitario"`
	Imagem        string    `json:"imagem,omitempty"`
	Fornecedor    string    `json:"fornecedor,omitempty"`
	CreatedAt     string    `json:"created_at"`
}

// MaterialService manages the material catalog. Budgets snapshot prices at
// add-time, so price edits and deletions here never touch existing budgets.
type MaterialService interface {
	Create(ctx context.Context, req MaterialRequest) (*MaterialResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*MaterialResponse, error)
	List(ctx context.Context) ([]MaterialResponse, error)
	Update(ctx context.Context, id uuid.UUID, req MaterialRequest) (*MaterialResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type materialService struct {
	materials repository.MaterialRepository
}

// NewMaterialService returns a new instance of MaterialService
func NewMaterialService(materials repository.MaterialRepository) MaterialService {
	return &materialService{materials: materials}
}

func (s *materialService) Create(ctx context.Context, req MaterialRequest) (*MaterialResponse, error) {
	if !model.ValidUnit(req.Unidade) {
		return nil, ErrInvalidUnit
	}
	if req.PrecoUnitario <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := s.materials.GetByCodigo(ctx, req.Codigo); err == nil {
		return nil, ErrDuplicateCodigo
	}

	material := &model.Material{
		Codigo:        strings.TrimSpace(req.Codigo),
		Descricao:     strings.TrimSpace(req.Descricao),
		Unidade:       req.Unidade,
		PrecoUnitario: decimal.NewFromFloat(req.PrecoUnitario).Round(2),
		Imagem:        req.Imagem,
		Fornecedor:    req.Fornecedor,
	}
	if err := s.materials.Create(ctx, material); err != nil {
		return nil, err
	}

	resp := toMaterialResponse(material)
	return &resp, nil
}

func (s *materialService) Get(ctx context.Context, id uuid.UUID) (*MaterialResponse, error) {
	material, err := s.materials.GetByID(ctx, id)
	if err != nil {
		return nil, ErrMaterialNotFound
	}
	resp := toMaterialResponse(material)
	return &resp, nil
}

func (s *materialService) List(ctx context.Context) ([]MaterialResponse, error) {
	materials, err := s.materials.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]MaterialResponse, 0, len(materials))
	for i := range materials {
		responses = append(responses, toMaterialResponse(&materials[i]))
	}
	return responses, nil
}

// Update replaces the material by id. A missing id is absorbed as a no-op per
// the collection CRUD contract.
func (s *materialService) Update(ctx context.Context, id uuid.UUID, req MaterialRequest) (*MaterialResponse, error) {
	material, err := s.materials.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !model.ValidUnit(req.Unidade) {
		return nil, ErrInvalidUnit
	}
	if req.PrecoUnitario <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.Codigo != material.Codigo {
		if _, err := s.materials.GetByCodigo(ctx, req.Codigo); err == nil {
			return nil, ErrDuplicateCodigo
		}
	}

	material.Codigo = strings.TrimSpace(req.Codigo)
	material.Descricao = strings.TrimSpace(req.Descricao)
	material.Unidade = req.Unidade
	material.PrecoUnitario = decimal.NewFromFloat(req.PrecoUnitario).Round(2)
	material.Imagem = req.Imagem
	material.Fornecedor = req.Fornecedor

	if err := s.materials.Update(ctx, material); err != nil {
		return nil, err
	}

	resp := toMaterialResponse(material)
	return &resp, nil
}

func (s *materialService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.materials.Delete(ctx, id)
}

func toMaterialResponse(m *model.Material) MaterialResponse {
	return MaterialResponse{
		ID:            m.ID,
		Codigo:        m.Codigo,
		Descricao:     m.Descricao,
		Unidade:       m.Unidade,
		PrecoUnitario: m.PrecoUnitario.StringFixed(2),
		Imagem:        m.Imagem,
		Fornecedor:    m.Fornecedor,
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
	}
}

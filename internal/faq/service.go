package faq

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
)

// ItemDTO is one question/answer pair.
type ItemDTO struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateItemDTO carries admin input for a new item.
type CreateItemDTO struct {
	Question  string
	Answer    string
	SortOrder int
}

// UpdateItemDTO carries partial admin updates; nil fields are untouched.
type UpdateItemDTO struct {
	Question  *string
	Answer    *string
	SortOrder *int
	IsActive  *bool
}

// ServiceParams groups dependencies for the FAQ service.
type ServiceParams struct {
	FAQRepo *Repository
}

// Service exposes the storefront help page and back-office editing.
type Service interface {
	ListActive(ctx context.Context) ([]ItemDTO, error)
	List(ctx context.Context) ([]ItemDTO, error)
	Create(ctx context.Context, dto CreateItemDTO) (ItemDTO, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateItemDTO) (ItemDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	faqRepo *Repository
}

// NewService builds a FAQ service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.FAQRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "faq repo is required")
	}
	return &service{faqRepo: params.FAQRepo}, nil
}

func (s *service) ListActive(ctx context.Context) ([]ItemDTO, error) {
	items, err := s.faqRepo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list faq items")
	}
	return toDTOs(items), nil
}

func (s *service) List(ctx context.Context) ([]ItemDTO, error) {
	items, err := s.faqRepo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list faq items")
	}
	return toDTOs(items), nil
}

func (s *service) Create(ctx context.Context, dto CreateItemDTO) (ItemDTO, error) {
	if strings.TrimSpace(dto.Question) == "" {
		return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "question is required")
	}
	if strings.TrimSpace(dto.Answer) == "" {
		return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "answer is required")
	}
	item := &models.FAQItem{
		Question:  strings.TrimSpace(dto.Question),
		Answer:    strings.TrimSpace(dto.Answer),
		SortOrder: dto.SortOrder,
		IsActive:  true,
	}
	created, err := s.faqRepo.Create(ctx, item)
	if err != nil {
		return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create faq item")
	}
	return toDTO(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateItemDTO) (ItemDTO, error) {
	if _, err := s.load(ctx, id); err != nil {
		return ItemDTO{}, err
	}
	updates := map[string]any{}
	if dto.Question != nil {
		if strings.TrimSpace(*dto.Question) == "" {
			return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "question is required")
		}
		updates["question"] = strings.TrimSpace(*dto.Question)
	}
	if dto.Answer != nil {
		if strings.TrimSpace(*dto.Answer) == "" {
			return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "answer is required")
		}
		updates["answer"] = strings.TrimSpace(*dto.Answer)
	}
	if dto.SortOrder != nil {
		updates["sort_order"] = *dto.SortOrder
	}
	if dto.IsActive != nil {
		updates["is_active"] = *dto.IsActive
	}
	if err := s.faqRepo.Update(ctx, id, updates); err != nil {
		return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update faq item")
	}
	item, err := s.load(ctx, id)
	if err != nil {
		return ItemDTO{}, err
	}
	return toDTO(item), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.faqRepo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete faq item")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.FAQItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "faq item id is required")
	}
	item, err := s.faqRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "faq item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load faq item")
	}
	return item, nil
}

func toDTOs(items []models.FAQItem) []ItemDTO {
	result := make([]ItemDTO, 0, len(items))
	for i := range items {
		result = append(result, toDTO(&items[i]))
	}
	return result
}

func toDTO(item *models.FAQItem) ItemDTO {
	return ItemDTO{
		ID:        item.ID,
		Question:  item.Question,
		Answer:    item.Answer,
		SortOrder: item.SortOrder,
		IsActive:  item.IsActive,
		UpdatedAt: item.UpdatedAt,
	}
}

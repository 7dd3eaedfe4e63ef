package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/sweetmart/sweetshop/internal/core/domain"
	"github.com/sweetmart/sweetshop/internal/core/ports"
)

const (
	minNameLength = 2
	maxNameLength = 100
)

type SweetService struct {
	repo   ports.SweetRepository
	logger zerolog.Logger
}

func NewSweetService(repo ports.SweetRepository, logger zerolog.Logger) *SweetService {
	return &SweetService{repo: repo, logger: logger}
}

func (s *SweetService) Get(ctx context.Context, id string) (*domain.Sweet, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new sweet. Quantity defaults to zero and may not be negative.
func (s *SweetService) Create(ctx context.Context, in ports.CreateSweetInput) (*domain.Sweet, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if in.Quantity < 0 || in.Quantity > domain.MaxQuantity {
		return nil, domain.NewValidationError("quantity", "Quantity must be a non-negative integer")
	}
	if !in.Category.Valid() {
		return nil, domain.NewValidationError("category", "Invalid category")
	}
	if in.Price < 0 {
		return nil, domain.NewValidationError("price", "Price must be a positive number")
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Sweet{
		Name:        name,
		Category:    in.Category,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Image:       strings.TrimSpace(in.Image),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create sweet")
		return nil, err
	}

	s.logger.Info().Str("sweet_id", created.ID).Str("name", created.Name).Msg("sweet created")
	return created, nil
}

// Update applies a partial change to the catalog fields of a sweet.
func (s *SweetService) Update(ctx context.Context, id string, patch ports.SweetPatch) (*domain.Sweet, error) {
	if patch.Category != nil && !patch.Category.Valid() {
		return nil, domain.NewValidationError("category", "Invalid category")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, domain.NewValidationError("price", "Price must be a positive number")
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if err := validateName(trimmed); err != nil {
			return nil, err
		}
		patch.Name = &trimmed
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("sweet_id", id).Msg("sweet updated")
	return updated, nil
}

func validateName(name string) error {
	if n := utf8.RuneCountInString(name); n < minNameLength || n > maxNameLength {
		return domain.NewValidationError("name", "Name must be between 2 and 100 characters")
	}
	return nil
}

func (s *SweetService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("sweet_id", id).Msg("sweet deleted")
	return nil
}

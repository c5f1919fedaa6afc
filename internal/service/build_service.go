package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dom/league-builds/internal/build"
	"github.com/dom/league-builds/internal/domain"
	"github.com/dom/league-builds/internal/metrics"
	"github.com/dom/league-builds/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BuildService struct {
	buildRepo repository.BuildRepository
	metrics   *metrics.Metrics
}

func NewBuildService(buildRepo repository.BuildRepository, m *metrics.Metrics) *BuildService {
	return &BuildService{buildRepo: buildRepo, metrics: m}
}

type CreateBuildInput struct {
	Champion string
	Items    string
	Runes    string
}

// UpdateBuildInput leaves a field unchanged when it is nil.
type UpdateBuildInput struct {
	Items *string
	Runes *string
}

func (s *BuildService) Create(ctx context.Context, userID uuid.UUID, input CreateBuildInput) (*domain.Build, error) {
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	b := &domain.Build{
		ID:        uuid.New(),
		UserID:    userID,
		Champion:  input.Champion,
		Items:     input.Items,
		Runes:     input.Runes,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	err := s.buildRepo.Create(ctx, b)
	s.metrics.BuildSave("create", err)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// List returns the user's builds, optionally restricted to one champion.
func (s *BuildService) List(ctx context.Context, userID uuid.UUID, champion string) ([]*domain.Build, error) {
	builds, err := s.buildRepo.GetByUserID(ctx, userID, champion)
	if err != nil {
		return nil, err
	}
	if builds == nil {
		builds = []*domain.Build{}
	}
	return builds, nil
}

func (s *BuildService) Get(ctx context.Context, userID, buildID uuid.UUID) (*domain.Build, error) {
	return s.owned(ctx, userID, buildID)
}

func (s *BuildService) Update(ctx context.Context, userID, buildID uuid.UUID, input UpdateBuildInput) (*domain.Build, error) {
	b, err := s.owned(ctx, userID, buildID)
	if err != nil {
		return nil, err
	}

	if input.Items != nil {
		if err := validateItems(*input.Items); err != nil {
			return nil, err
		}
		b.Items = *input.Items
	}
	if input.Runes != nil {
		b.Runes = *input.Runes
	}
	b.UpdatedAt = time.Now()

	err = s.buildRepo.Update(ctx, b)
	s.metrics.BuildSave("update", err)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BuildService) Delete(ctx context.Context, userID, buildID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, buildID); err != nil {
		return err
	}
	return s.buildRepo.Delete(ctx, buildID)
}

func (s *BuildService) owned(ctx context.Context, userID, buildID uuid.UUID) (*domain.Build, error) {
	b, err := s.buildRepo.GetByID(ctx, buildID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBuildNotFound
		}
		return nil, err
	}
	if b.UserID != userID {
		return nil, domain.ErrNotBuildOwner
	}
	return b, nil
}

func validateItems(items string) error {
	if items == "" {
		return domain.ErrInvalidBuildData
	}
	if _, err := build.ParseItems(items); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidBuildData, err)
	}
	return nil
}

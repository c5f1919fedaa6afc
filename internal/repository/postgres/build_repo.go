package postgres

import (
	"context"

	"github.com/dom/league-builds/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type buildRepository struct {
	db *gorm.DB
}

func NewBuildRepository(db *gorm.DB) *buildRepository {
	return &buildRepository{db: db}
}

func (r *buildRepository) Create(ctx context.Context, build *domain.Build) error {
	return r.db.WithContext(ctx).Create(build).Error
}

func (r *buildRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Build, error) {
	var build domain.Build
	err := r.db.WithContext(ctx).First(&build, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &build, nil
}

// GetByUserID lists a user's builds, newest first. An empty champion
// returns builds for every champion.
func (r *buildRepository) GetByUserID(ctx context.Context, userID uuid.UUID, champion string) ([]*domain.Build, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if champion != "" {
		query = query.Where("champion = ?", champion)
	}

	var builds []*domain.Build
	err := query.Order("created_at DESC").Find(&builds).Error
	if err != nil {
		return nil, err
	}
	return builds, nil
}

func (r *buildRepository) Update(ctx context.Context, build *domain.Build) error {
	return r.db.WithContext(ctx).Save(build).Error
}

func (r *buildRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Build{}, "id = ?", id).Error
}

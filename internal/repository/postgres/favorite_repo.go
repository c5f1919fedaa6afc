package postgres

import (
	"context"

	"github.com/dom/league-builds/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *favoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(ctx context.Context, favorite *domain.Favorite) error {
	return r.db.WithContext(ctx).Create(favorite).Error
}

// Delete reports whether a row was removed.
func (r *favoriteRepository) Delete(ctx context.Context, userID uuid.UUID, championID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND champion_id = ?", userID, championID).
		Delete(&domain.Favorite{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *favoriteRepository) ListChampionIDs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).Model(&domain.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("champion_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID uuid.UUID, championID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Favorite{}).
		Where("user_id = ? AND champion_id = ?", userID, championID).
		Count(&count).Error
	return count > 0, err
}

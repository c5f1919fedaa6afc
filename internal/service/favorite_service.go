package service

import (
	"context"
	"time"

	"github.com/dom/league-builds/internal/domain"
	"github.com/dom/league-builds/internal/metrics"
	"github.com/dom/league-builds/internal/repository"
	"github.com/google/uuid"
)

type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	metrics      *metrics.Metrics
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, m *metrics.Metrics) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo, metrics: m}
}

func (s *FavoriteService) Add(ctx context.Context, userID uuid.UUID, championID string) (*domain.Favorite, error) {
	exists, err := s.favoriteRepo.Exists(ctx, userID, championID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrFavoriteExists
	}

	fav := &domain.Favorite{
		ID:         uuid.New(),
		UserID:     userID,
		ChampionID: championID,
		CreatedAt:  time.Now(),
	}
	if err := s.favoriteRepo.Create(ctx, fav); err != nil {
		return nil, err
	}

	s.metrics.FavoriteChanged("add")
	return fav, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID uuid.UUID, championID string) error {
	removed, err := s.favoriteRepo.Delete(ctx, userID, championID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrFavoriteNotFound
	}

	s.metrics.FavoriteChanged("remove")
	return nil
}

// List returns the user's favorite champion ids in the order they were added.
func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.favoriteRepo.ListChampionIDs(ctx, userID)
}

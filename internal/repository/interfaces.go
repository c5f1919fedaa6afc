package repository

import (
	"context"
	"time"

	"github.com/dom/league-builds/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type SessionRepository interface {
	Rotate(ctx context.Context, session *domain.UserSession) error
	GetActive(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.UserSession, error)
	DeleteExpired(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type ChampionRepository interface {
	SyncRoster(ctx context.Context, version string, champions []*domain.Champion) (int64, error)
	List(ctx context.Context, version string) ([]*domain.Champion, error)
	GetByID(ctx context.Context, id string) (*domain.Champion, error)
}

type FavoriteRepository interface {
	Create(ctx context.Context, favorite *domain.Favorite) error
	Delete(ctx context.Context, userID uuid.UUID, championID string) (bool, error)
	ListChampionIDs(ctx context.Context, userID uuid.UUID) ([]string, error)
	Exists(ctx context.Context, userID uuid.UUID, championID string) (bool, error)
}

type BuildRepository interface {
	Create(ctx context.Context, build *domain.Build) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Build, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, champion string) ([]*domain.Build, error)
	Update(ctx context.Context, build *domain.Build) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repositories struct {
	User     UserRepository
	Session  SessionRepository
	Champion ChampionRepository
	Favorite FavoriteRepository
	Build    BuildRepository
}

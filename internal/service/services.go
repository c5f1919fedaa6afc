package service

import (
	"github.com/dom/league-builds/internal/build"
	"github.com/dom/league-builds/internal/config"
	"github.com/dom/league-builds/internal/ddragon"
	"github.com/dom/league-builds/internal/metrics"
	"github.com/dom/league-builds/internal/repository"
)

type Services struct {
	Auth      *AuthService
	Favorite  *FavoriteService
	Build     *BuildService
	Catalog   *CatalogService
	Persister *SessionPersister
}

func NewServices(repos *repository.Repositories, dd *ddragon.Client, rules *build.Rules, m *metrics.Metrics, cfg *config.Config) *Services {
	auth := NewAuthService(repos.User, repos.Session, cfg)
	builds := NewBuildService(repos.Build, m)

	return &Services{
		Auth:      auth,
		Favorite:  NewFavoriteService(repos.Favorite, m),
		Build:     builds,
		Catalog:   NewCatalogService(repos.Champion, dd, rules, cfg),
		Persister: NewSessionPersister(auth, builds),
	}
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/dom/league-builds/internal/build"
	"github.com/dom/league-builds/internal/config"
	"github.com/dom/league-builds/internal/ddragon"
	"github.com/dom/league-builds/internal/domain"
	"github.com/dom/league-builds/internal/repository"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// CatalogService serves Data Dragon content: the synced champion roster,
// full champion profiles and the classified item catalog. It is also the
// Loader used by live build sessions.
type CatalogService struct {
	championRepo repository.ChampionRepository
	dd           *ddragon.Client
	rules        *build.Rules
	cfg          *config.Config

	mu       sync.Mutex
	catalogs map[string]*build.Catalog
}

func NewCatalogService(championRepo repository.ChampionRepository, dd *ddragon.Client, rules *build.Rules, cfg *config.Config) *CatalogService {
	if rules == nil {
		rules = build.DefaultRules()
	}
	return &CatalogService{
		championRepo: championRepo,
		dd:           dd,
		rules:        rules,
		cfg:          cfg,
		catalogs:     make(map[string]*build.Catalog),
	}
}

func (s *CatalogService) Versions(ctx context.Context) ([]string, error) {
	versions, err := s.dd.Versions(ctx)
	if err != nil {
		return nil, upstream(err)
	}
	return versions, nil
}

// ResolveVersion returns the pinned patch or, when none is configured, the latest.
func (s *CatalogService) ResolveVersion(ctx context.Context) (string, error) {
	if s.cfg.DataDragonVersion != "" {
		return s.cfg.DataDragonVersion, nil
	}
	v, err := s.dd.LatestVersion(ctx)
	if err != nil {
		return "", upstream(err)
	}
	return v, nil
}

// GetAllChampions lists synced roster rows, optionally for one patch only.
func (s *CatalogService) GetAllChampions(ctx context.Context, version string) ([]*domain.Champion, error) {
	return s.championRepo.List(ctx, version)
}

// SyncFromDataDragon refreshes the champion roster table.
func (s *CatalogService) SyncFromDataDragon(ctx context.Context) (int, string, error) {
	version, err := s.ResolveVersion(ctx)
	if err != nil {
		return 0, "", fmt.Errorf("failed to resolve version: %w", err)
	}

	list, err := s.dd.Champions(ctx, version)
	if err != nil {
		return 0, "", fmt.Errorf("failed to fetch champions: %w", upstream(err))
	}

	champions := make([]*domain.Champion, 0, len(list.Data))
	for _, c := range list.Data {
		tagsJSON, _ := json.Marshal(c.Tags)
		champions = append(champions, &domain.Champion{
			ID:           c.ID,
			Key:          c.Key,
			Name:         c.Name,
			Title:        c.Title,
			ImageURL:     s.dd.ImageURL(version, "champion", c.Image.Full),
			Tags:         tagsJSON,
			Partype:      c.Partype,
			Version:      version,
			LastSyncedAt: time.Now(),
		})
	}
	sort.Slice(champions, func(i, j int) bool { return champions[i].ID < champions[j].ID })

	removed, err := s.championRepo.SyncRoster(ctx, version, champions)
	if err != nil {
		return 0, "", fmt.Errorf("failed to sync champions: %w", err)
	}
	if removed > 0 {
		log.Printf("Removed %d champions not in patch %s", removed, version)
	}

	return len(champions), version, nil
}

// Champion returns the full profile of one champion at the resolved version.
func (s *CatalogService) Champion(ctx context.Context, id string) (*build.ChampionProfile, error) {
	version, err := s.ResolveVersion(ctx)
	if err != nil {
		return nil, err
	}
	return s.champion(ctx, version, id)
}

func (s *CatalogService) champion(ctx context.Context, version, id string) (*build.ChampionProfile, error) {
	detail, err := s.dd.Champion(ctx, version, id)
	if err != nil {
		if errors.Is(err, ddragon.ErrNotFound) {
			return nil, domain.ErrChampionNotFound
		}
		return nil, upstream(err)
	}
	return s.dd.ToProfile(detail, version), nil
}

// Catalog returns the classified Summoner's Rift item catalog for the
// resolved version. Catalogs are built once per version.
func (s *CatalogService) Catalog(ctx context.Context) (*build.Catalog, error) {
	version, err := s.ResolveVersion(ctx)
	if err != nil {
		return nil, err
	}
	return s.catalog(ctx, version)
}

func (s *CatalogService) catalog(ctx context.Context, version string) (*build.Catalog, error) {
	s.mu.Lock()
	c, ok := s.catalogs[version]
	s.mu.Unlock()
	if ok {
		return c, nil
	}

	list, err := s.dd.Items(ctx, version)
	if err != nil {
		return nil, upstream(err)
	}
	records := build.FilterEligible(s.dd.ToItemRecords(list, version))
	c = build.NewCatalog(version, records, s.rules)

	s.mu.Lock()
	s.catalogs[version] = c
	s.mu.Unlock()
	return c, nil
}

// Items filters the catalog.
func (s *CatalogService) Items(ctx context.Context, q build.ItemQuery) (*build.Catalog, []build.ItemRecord, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return nil, nil, err
	}
	return c, c.Query(q), nil
}

// LoadChampion fetches the champion and the catalog concurrently.
func (s *CatalogService) LoadChampion(ctx context.Context, championID string) (*build.ChampionProfile, *build.Catalog, error) {
	version, err := s.ResolveVersion(ctx)
	if err != nil {
		return nil, nil, err
	}

	var (
		profile *build.ChampionProfile
		catalog *build.Catalog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.champion(gctx, version, championID)
		profile = p
		return err
	})
	g.Go(func() error {
		c, err := s.catalog(gctx, version)
		catalog = c
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return profile, catalog, nil
}

type StatsInput struct {
	Level int
	Ranks build.AbilityRanks
	Items []string
}

// ComputeStats derives a snapshot without holding any session state.
// Items are validated in order exactly as a session would add them.
func (s *CatalogService) ComputeStats(ctx context.Context, championID string, input StatsInput) (*build.Snapshot, error) {
	if input.Level < build.MinLevel || input.Level > build.MaxLevel {
		return nil, build.ErrInvalidLevel
	}
	if !input.Ranks.Valid() {
		return nil, build.ErrInvalidSlot
	}

	champion, catalog, err := s.LoadChampion(ctx, championID)
	if err != nil {
		return nil, err
	}

	var accepted []string
	for _, id := range input.Items {
		item, ok := catalog.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", build.ErrUnknownItem, id)
		}
		if err := build.CanAdd(item, accepted, catalog); err != nil {
			return nil, err
		}
		accepted = append(accepted, id)
	}

	snap := build.ComputeStats(champion, input.Level, input.Ranks, accepted, catalog)
	return &snap, nil
}

// Invalidate forgets the cached documents and catalog of the resolved version.
func (s *CatalogService) Invalidate(ctx context.Context) error {
	version, err := s.ResolveVersion(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.catalogs, version)
	s.mu.Unlock()
	return s.dd.Invalidate(ctx, version)
}

// ChampionSummary looks up a synced roster row.
func (s *CatalogService) ChampionSummary(ctx context.Context, id string) (*domain.Champion, error) {
	c, err := s.championRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrChampionNotFound
	}
	return c, err
}

func upstream(err error) error {
	if errors.Is(err, domain.ErrUpstream) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
}

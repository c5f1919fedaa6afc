package service

import (
	"context"

	"github.com/dom/league-builds/internal/build"
	"github.com/dom/league-builds/internal/domain"
	"github.com/google/uuid"
)

// SessionPersister stores builds for sessions hosted by this server. It
// authenticates the forwarded token exactly as the HTTP API would.
type SessionPersister struct {
	auth   *AuthService
	builds *BuildService
}

func NewSessionPersister(auth *AuthService, builds *BuildService) *SessionPersister {
	return &SessionPersister{auth: auth, builds: builds}
}

func (p *SessionPersister) CreateBuild(ctx context.Context, token, championID, items string) (*build.SavedBuild, error) {
	userID, err := p.auth.UserIDFromToken(token)
	if err != nil {
		return nil, build.ErrAuthRequired
	}
	b, err := p.builds.Create(ctx, userID, CreateBuildInput{Champion: championID, Items: items})
	if err != nil {
		return nil, err
	}
	return toSavedBuild(b), nil
}

func (p *SessionPersister) UpdateBuild(ctx context.Context, token, buildID, items string) (*build.SavedBuild, error) {
	userID, err := p.auth.UserIDFromToken(token)
	if err != nil {
		return nil, build.ErrAuthRequired
	}
	id, err := uuid.Parse(buildID)
	if err != nil {
		return nil, domain.ErrBuildNotFound
	}
	b, err := p.builds.Update(ctx, userID, id, UpdateBuildInput{Items: &items})
	if err != nil {
		return nil, err
	}
	return toSavedBuild(b), nil
}

// SeedFor loads a saved build the token's owner may edit.
func (p *SessionPersister) SeedFor(ctx context.Context, token, buildID string) (*build.SavedBuild, error) {
	userID, err := p.auth.UserIDFromToken(token)
	if err != nil {
		return nil, build.ErrAuthRequired
	}
	id, err := uuid.Parse(buildID)
	if err != nil {
		return nil, domain.ErrBuildNotFound
	}
	b, err := p.builds.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toSavedBuild(b), nil
}

func toSavedBuild(b *domain.Build) *build.SavedBuild {
	return &build.SavedBuild{
		ID:       b.ID.String(),
		Champion: b.Champion,
		Items:    b.Items,
		Runes:    b.Runes,
	}
}

// Package client talks to the league-builds HTTP API. Its APIClient is the
// remote Loader and Persister for build sessions running outside the server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dom/league-builds/internal/build"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// APIError is any non-2xx answer. It matches the sentinel for its status.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s failed (status %d): %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized, build.ErrAuthRequired:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	}
	return false
}

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	rules      *build.Rules
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithRules sets the classification tables used when rebuilding a catalog
// from the item listing.
func (c *APIClient) WithRules(rules *build.Rules) *APIClient {
	c.rules = rules
	return c
}

// Response types matching backend

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Build struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Champion  string    `json:"champion"`
	Items     string    `json:"items"`
	Runes     string    `json:"runes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CatalogItem is one entry of the item listing.
type CatalogItem struct {
	build.ItemRecord
	PlainDescription string `json:"plainDescription"`
	RarityColor      string `json:"rarityColor"`
}

type ItemsResponse struct {
	Version    string           `json:"version"`
	Categories []build.Category `json:"categories"`
	Tags       []string         `json:"tags"`
	Items      []CatalogItem    `json:"items"`
}

func (c *APIClient) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	var result AuthResponse
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, "", http.StatusCreated, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *APIClient) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var result AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, "", http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *APIClient) Me(ctx context.Context, token string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, token, http.StatusOK, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *APIClient) Favorites(ctx context.Context, token string) ([]string, error) {
	var ids []string
	if err := c.do(ctx, http.MethodGet, "/favorites", nil, token, http.StatusOK, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *APIClient) AddFavorite(ctx context.Context, token, championID string) error {
	body := map[string]string{"championId": championID}
	return c.do(ctx, http.MethodPost, "/favorites", body, token, http.StatusCreated, nil)
}

func (c *APIClient) RemoveFavorite(ctx context.Context, token, championID string) error {
	return c.do(ctx, http.MethodDelete, "/favorites/"+url.PathEscape(championID), nil, token, http.StatusOK, nil)
}

// Builds lists the caller's builds; an empty champion lists all of them.
func (c *APIClient) Builds(ctx context.Context, token, champion string) ([]Build, error) {
	path := "/builds"
	if champion != "" {
		path += "?champion=" + url.QueryEscape(champion)
	}
	var builds []Build
	if err := c.do(ctx, http.MethodGet, path, nil, token, http.StatusOK, &builds); err != nil {
		return nil, err
	}
	return builds, nil
}

func (c *APIClient) DeleteBuild(ctx context.Context, token, buildID string) error {
	return c.do(ctx, http.MethodDelete, "/builds/"+url.PathEscape(buildID), nil, token, http.StatusOK, nil)
}

// GetBuild fetches one of the caller's builds, typically to seed an edit session.
func (c *APIClient) GetBuild(ctx context.Context, token, buildID string) (*build.SavedBuild, error) {
	var b Build
	if err := c.do(ctx, http.MethodGet, "/builds/"+url.PathEscape(buildID), nil, token, http.StatusOK, &b); err != nil {
		return nil, err
	}
	return b.saved(), nil
}

// CreateBuild implements build.Persister.
func (c *APIClient) CreateBuild(ctx context.Context, token, championID, items string) (*build.SavedBuild, error) {
	var b Build
	body := map[string]string{"champion": championID, "items": items}
	if err := c.do(ctx, http.MethodPost, "/builds", body, token, http.StatusCreated, &b); err != nil {
		return nil, err
	}
	return b.saved(), nil
}

// UpdateBuild implements build.Persister. Runes are left untouched.
func (c *APIClient) UpdateBuild(ctx context.Context, token, buildID, items string) (*build.SavedBuild, error) {
	var b Build
	body := map[string]string{"items": items}
	if err := c.do(ctx, http.MethodPut, "/builds/"+url.PathEscape(buildID), body, token, http.StatusOK, &b); err != nil {
		return nil, err
	}
	return b.saved(), nil
}

func (b *Build) saved() *build.SavedBuild {
	return &build.SavedBuild{ID: b.ID, Champion: b.Champion, Items: b.Items, Runes: b.Runes}
}

// LoadChampion implements build.Loader over the catalog endpoints.
func (c *APIClient) LoadChampion(ctx context.Context, championID string) (*build.ChampionProfile, *build.Catalog, error) {
	var profile build.ChampionProfile
	if err := c.do(ctx, http.MethodGet, "/catalog/champions/"+url.PathEscape(championID), nil, "", http.StatusOK, &profile); err != nil {
		return nil, nil, fmt.Errorf("load champion: %w", err)
	}

	items, err := c.Items(ctx, build.ItemQuery{})
	if err != nil {
		return nil, nil, fmt.Errorf("load items: %w", err)
	}

	records := make([]build.ItemRecord, len(items.Items))
	for i, it := range items.Items {
		records[i] = it.ItemRecord
	}
	return &profile, build.NewCatalog(items.Version, records, c.rules), nil
}

// Items lists the catalog, filtered server side.
func (c *APIClient) Items(ctx context.Context, q build.ItemQuery) (*ItemsResponse, error) {
	params := url.Values{}
	if q.Category != "" {
		params.Set("category", string(q.Category))
	}
	if q.Tag != "" {
		params.Set("tag", q.Tag)
	}
	if q.Search != "" {
		params.Set("q", q.Search)
	}
	path := "/catalog/items"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp ItemsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, "", http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body interface{}, token string, want int, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s request failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(bodyBytes)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

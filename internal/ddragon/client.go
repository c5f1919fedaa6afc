// Package ddragon reads static game data from Riot's Data Dragon CDN.
package ddragon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/dom/league-builds/internal/cache"
	"github.com/dom/league-builds/internal/metrics"
)

const DefaultBaseURL = "https://ddragon.leagueoflegends.com"

var (
	ErrNotFound   = errors.New("ddragon: document not found")
	ErrNoVersions = errors.New("ddragon: no versions available")
)

// StatusError is returned for non-2xx responses other than 404.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ddragon: GET %s: status %d", e.URL, e.StatusCode)
}

type Options struct {
	BaseURL    string
	Locale     string
	HTTPClient *http.Client
	Cache      cache.Cache
	CacheTTL   time.Duration
	Metrics    *metrics.Metrics
}

type Client struct {
	baseURL string
	locale  string
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewClient(opts Options) *Client {
	c := &Client{
		baseURL: opts.BaseURL,
		locale:  opts.Locale,
		http:    opts.HTTPClient,
		cache:   opts.Cache,
		ttl:     opts.CacheTTL,
		metrics: opts.Metrics,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.locale == "" {
		c.locale = "en_US"
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	if c.cache == nil {
		c.cache = cache.NewMemory()
	}
	return c
}

// Versions lists patch versions, newest first.
func (c *Client) Versions(ctx context.Context) ([]string, error) {
	var versions []string
	// The version list moves on every patch, so it is cached for a short time only.
	if err := c.fetch(ctx, "versions", "versions", c.baseURL+"/api/versions.json", time.Minute*10, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// LatestVersion returns the first entry of Versions.
func (c *Client) LatestVersion(ctx context.Context) (string, error) {
	versions, err := c.Versions(ctx)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", ErrNoVersions
	}
	return versions[0], nil
}

// Champions fetches the summary roster for a version.
func (c *Client) Champions(ctx context.Context, version string) (*ChampionList, error) {
	var out ChampionList
	key := fmt.Sprintf("champions:%s:%s", version, c.locale)
	if err := c.fetch(ctx, "champions", key, c.dataURL(version, "champion.json"), c.ttl, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Champion fetches the full record, including spells, for one champion.
func (c *Client) Champion(ctx context.Context, version, id string) (*ChampionDetail, error) {
	var out struct {
		Data map[string]ChampionDetail `json:"data"`
	}
	key := fmt.Sprintf("champion:%s:%s:%s", version, c.locale, id)
	path := "champion/" + url.PathEscape(id) + ".json"
	if err := c.fetch(ctx, "champion", key, c.dataURL(version, path), c.ttl, &out); err != nil {
		return nil, err
	}
	detail, ok := out.Data[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &detail, nil
}

// Items fetches item.json for a version.
func (c *Client) Items(ctx context.Context, version string) (*ItemList, error) {
	var out ItemList
	key := fmt.Sprintf("items:%s:%s", version, c.locale)
	if err := c.fetch(ctx, "items", key, c.dataURL(version, "item.json"), c.ttl, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ImageURL builds a CDN image link, e.g. ImageURL("14.1.1", "item", "1001.png").
func (c *Client) ImageURL(version, kind, file string) string {
	return fmt.Sprintf("%s/cdn/%s/img/%s/%s", c.baseURL, version, kind, file)
}

// Invalidate drops every cached document for a version.
func (c *Client) Invalidate(ctx context.Context, version string) error {
	return c.cache.Delete(ctx,
		"versions",
		fmt.Sprintf("champions:%s:%s", version, c.locale),
		fmt.Sprintf("items:%s:%s", version, c.locale),
	)
}

func (c *Client) dataURL(version, path string) string {
	return fmt.Sprintf("%s/cdn/%s/data/%s/%s", c.baseURL, url.PathEscape(version), c.locale, path)
}

// fetch decodes the document at rawURL into out, serving it from the cache
// when possible. Only documents that decode cleanly are cached.
func (c *Client) fetch(ctx context.Context, kind, key, rawURL string, ttl time.Duration, out any) error {
	backend := c.cache.Backend()
	if body, ok, err := c.cache.Get(ctx, key); err != nil {
		log.Printf("WARN [ddragon.fetch] cache get %s: %v", key, err)
		c.metrics.CacheLookup(backend, "error")
	} else if ok {
		if err := json.Unmarshal(body, out); err == nil {
			c.metrics.CacheLookup(backend, "hit")
			return nil
		}
		log.Printf("WARN [ddragon.fetch] discarding corrupt cache entry %s", key)
	} else {
		c.metrics.CacheLookup(backend, "miss")
	}

	body, err := c.get(ctx, rawURL)
	c.metrics.CatalogLoad(kind, err)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("ddragon: decode %s: %w", kind, err)
	}

	if err := c.cache.Set(ctx, key, body, ttl); err != nil {
		log.Printf("WARN [ddragon.fetch] cache set %s: %v", key, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ddragon: GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusForbidden:
		// The CDN answers 403 for paths that do not exist.
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

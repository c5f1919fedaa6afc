package ddragon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dom/league-builds/internal/build"
	"github.com/dom/league-builds/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCDN struct {
	server *httptest.Server
	hits   atomic.Int32
	status int
}

func newFakeCDN(t *testing.T) *fakeCDN {
	t.Helper()
	f := &fakeCDN{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if f.status != 0 {
			w.WriteHeader(f.status)
			return
		}
		var file string
		switch {
		case r.URL.Path == "/api/versions.json":
			file = "versions.json"
		case r.URL.Path == "/cdn/14.1.1/data/en_US/champion.json":
			file = "champion.json"
		case r.URL.Path == "/cdn/14.1.1/data/en_US/item.json":
			file = "item.json"
		case strings.HasPrefix(r.URL.Path, "/cdn/14.1.1/data/en_US/champion/"):
			file = filepath.Base(r.URL.Path)
		default:
			w.WriteHeader(http.StatusForbidden)
			return
		}
		body, err := os.ReadFile(filepath.Join("testdata", file))
		if err != nil {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func newTestClient(f *fakeCDN) *Client {
	return NewClient(Options{BaseURL: f.server.URL, Cache: cache.NewMemory(), CacheTTL: time.Hour})
}

func TestClient_Versions(t *testing.T) {
	f := newFakeCDN(t)
	c := newTestClient(f)

	latest, err := c.LatestVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "14.2.1", latest)

	versions, err := c.Versions(context.Background())
	require.NoError(t, err)
	assert.Len(t, versions, 3)
	assert.EqualValues(t, 1, f.hits.Load(), "second call is served from cache")
}

func TestClient_Champions(t *testing.T) {
	c := newTestClient(newFakeCDN(t))

	list, err := c.Champions(context.Background(), "14.1.1")
	require.NoError(t, err)
	require.Contains(t, list.Data, "Lux")
	assert.Equal(t, "the Lady of Luminosity", list.Data["Lux"].Title)
}

func TestClient_ChampionProfile(t *testing.T) {
	c := newTestClient(newFakeCDN(t))

	detail, err := c.Champion(context.Background(), "14.1.1", "Garen")
	require.NoError(t, err)

	p := c.ToProfile(detail, "14.1.1")
	assert.Equal(t, "Garen", p.ID)
	assert.Len(t, p.Abilities, 4)
	assert.Equal(t, "R", p.Abilities[3].Key())
	require.NotNil(t, p.Passive)
	assert.Equal(t, "Perseverance", p.Passive.Name)
	assert.Equal(t, 690.0, p.Stats[build.StatHealth].Base)
	assert.InDelta(t, 0.625*0.0365, p.Stats[build.StatAttackSpeed].PerLevel, 1e-9)
	assert.Equal(t, c.ImageURL("14.1.1", "champion", "Garen.png"), p.ImageURL)
	assert.Equal(t, build.ResourceNone, build.DetectResource(p))
}

func TestClient_ChampionNotFound(t *testing.T) {
	c := newTestClient(newFakeCDN(t))

	_, err := c.Champion(context.Background(), "14.1.1", "Nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_UpstreamError(t *testing.T) {
	f := newFakeCDN(t)
	f.status = http.StatusBadGateway
	c := newTestClient(f)

	_, err := c.Items(context.Background(), "14.1.1")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)

	// failures are not cached
	f.status = 0
	_, err = c.Items(context.Background(), "14.1.1")
	assert.NoError(t, err)
}

func TestClient_ItemRecords(t *testing.T) {
	c := newTestClient(newFakeCDN(t))

	list, err := c.Items(context.Background(), "14.1.1")
	require.NoError(t, err)

	records := c.ToItemRecords(list, "14.1.1")
	assert.Len(t, records, 7)

	eligible := build.FilterEligible(records)
	var got []string
	for _, r := range eligible {
		got = append(got, r.ID)
	}
	sort.Strings(got)
	assert.Equal(t, []string{"1001", "223031", "3006"}, got)

	catalog := build.NewCatalog("14.1.1", eligible, nil)
	boots, ok := catalog.Get("3006")
	require.True(t, ok)
	assert.Equal(t, build.Category("boots"), boots.Category)
	assert.Equal(t, build.RarityLegendary, boots.Rarity)
	assert.Equal(t, c.ImageURL("14.1.1", "item", "3006.png"), boots.Image)
}

func TestClient_Invalidate(t *testing.T) {
	f := newFakeCDN(t)
	c := newTestClient(f)
	ctx := context.Background()

	_, err := c.Items(ctx, "14.1.1")
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, "14.1.1"))
	_, err = c.Items(ctx, "14.1.1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, f.hits.Load())
}

package testutil

import (
	"embed"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync/atomic"
	"testing"
)

// FixtureVersion is the only patch the fake CDN serves documents for.
const FixtureVersion = "14.1.1"

//go:embed testdata/*.json
var fixtures embed.FS

// FakeCDN serves the embedded Data Dragon fixtures. Champions in the
// fixture set are Garen and Lux; only Garen has a detail document.
type FakeCDN struct {
	server *httptest.Server
	hits   atomic.Int32
	status atomic.Int32
}

func NewFakeCDN(t *testing.T) *FakeCDN {
	t.Helper()

	f := &FakeCDN{}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *FakeCDN) serve(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	if code := f.status.Load(); code != 0 {
		w.WriteHeader(int(code))
		return
	}

	prefix := "/cdn/" + FixtureVersion + "/data/en_US/"
	var file string
	switch {
	case r.URL.Path == "/api/versions.json":
		file = "versions.json"
	case r.URL.Path == prefix+"champion.json":
		file = "champion.json"
	case r.URL.Path == prefix+"item.json":
		file = "item.json"
	case strings.HasPrefix(r.URL.Path, prefix+"champion/"):
		file = path.Base(r.URL.Path)
	default:
		w.WriteHeader(http.StatusForbidden)
		return
	}

	body, err := fixtures.ReadFile("testdata/" + file)
	if err != nil {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (f *FakeCDN) URL() string { return f.server.URL }

// Hits counts every request the CDN has received.
func (f *FakeCDN) Hits() int { return int(f.hits.Load()) }

// FailWith makes every later request answer with code. Zero restores
// normal service.
func (f *FakeCDN) FailWith(code int) { f.status.Store(int32(code)) }

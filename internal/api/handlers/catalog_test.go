package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dom/league-builds/internal/api/handlers"
	"github.com/dom/league-builds/internal/build"
	"github.com/dom/league-builds/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogHandler_Champions(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		query          string
		setup          func()
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name:           "empty database",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result handlers.ChampionsResponse
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Empty(t, result.Champions)
			},
		},
		{
			name: "sorted by name",
			setup: func() {
				testutil.NewChampionBuilder().WithID("Zed").Build(t, ts.DB.DB)
				testutil.NewChampionBuilder().WithID("Ahri").Build(t, ts.DB.DB)
				testutil.NewChampionBuilder().WithID("MonkeyKing").WithName("Wukong").Build(t, ts.DB.DB)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result handlers.ChampionsResponse
				testutil.AssertJSONResponse(t, resp, &result)
				require.Len(t, result.Champions, 3)
				assert.Equal(t, "Ahri", result.Champions[0].Name)
				assert.Equal(t, "Wukong", result.Champions[1].Name)
				assert.Equal(t, "Zed", result.Champions[2].Name)
				assert.Equal(t, []string{"Fighter"}, result.Champions[0].Tags)
				assert.Equal(t, testutil.FixtureVersion, result.Version)
			},
		},
		{
			name:  "filtered by version",
			query: "?version=13.24.1",
			setup: func() {
				testutil.NewChampionBuilder().WithID("Zed").Build(t, ts.DB.DB)
				testutil.NewChampionBuilder().WithID("Ahri").WithVersion("13.24.1").Build(t, ts.DB.DB)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result handlers.ChampionsResponse
				testutil.AssertJSONResponse(t, resp, &result)
				require.Len(t, result.Champions, 1)
				assert.Equal(t, "Ahri", result.Champions[0].Name)
				assert.Equal(t, "13.24.1", result.Version)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			resp, err := http.Get(ts.APIURL("/catalog/champions" + tt.query))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestCatalogHandler_Sync(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.DB.Truncate(t)

	resp, err := http.Post(ts.APIURL("/catalog/champions/sync"), "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result handlers.SyncResponse
	testutil.AssertJSONResponse(t, resp, &result)
	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, testutil.FixtureVersion, result.Version)

	listResp, err := http.Get(ts.APIURL("/catalog/champions"))
	require.NoError(t, err)
	defer listResp.Body.Close()

	var list handlers.ChampionsResponse
	testutil.AssertJSONResponse(t, listResp, &list)
	require.Len(t, list.Champions, 2)
	assert.Equal(t, "Garen", list.Champions[0].ID)
	assert.Equal(t, "Lux", list.Champions[1].ID)
	assert.Contains(t, list.Champions[0].ImageURL, "/img/champion/Garen.png")
}

func TestCatalogHandler_Champion(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		championID     string
		failWith       int
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name:           "full profile",
			championID:     "Garen",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var profile build.ChampionProfile
				testutil.AssertJSONResponse(t, resp, &profile)
				assert.Equal(t, "Garen", profile.ID)
				assert.Len(t, profile.Abilities, 4)
				assert.Equal(t, 690.0, profile.Stats[build.StatHealth].Base)
			},
		},
		{
			name:           "unknown champion",
			championID:     "Nobody",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "content service down",
			championID:     "Lux",
			failWith:       http.StatusInternalServerError,
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.CDN.FailWith(tt.failWith)
			defer ts.CDN.FailWith(0)

			resp, err := http.Get(ts.APIURL("/catalog/champions/" + tt.championID))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestCatalogHandler_Items(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{name: "eligible items only", query: "", wantIDs: []string{"3006", "1001", "223031"}},
		{name: "case insensitive search", query: "?q=INFINITY", wantIDs: []string{"223031"}},
		{name: "raw tag filter", query: "?tag=Boots", wantIDs: []string{"3006", "1001"}},
		{name: "no matches", query: "?q=nothing-like-this", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.APIURL("/catalog/items" + tt.query))
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusOK, resp.StatusCode)
			var result handlers.ItemsResponse
			testutil.AssertJSONResponse(t, resp, &result)

			ids := make([]string, 0, len(result.Items))
			for _, it := range result.Items {
				ids = append(ids, it.ID)
				assert.NotContains(t, it.PlainDescription, "<")
				assert.NotEmpty(t, it.RarityColor)
			}
			assert.ElementsMatch(t, tt.wantIDs, ids)
			assert.Equal(t, testutil.FixtureVersion, result.Version)
		})
	}
}

func TestCatalogHandler_Stats(t *testing.T) {
	ts := testutil.NewTestServer(t)

	post := func(t *testing.T, championID string, body interface{}) *http.Response {
		t.Helper()
		data, _ := json.Marshal(body)
		resp, err := http.Post(ts.APIURL("/catalog/champions/"+championID+"/stats"), "application/json", bytes.NewBuffer(data))
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	t.Run("computes snapshot", func(t *testing.T) {
		resp := post(t, "Garen", map[string]interface{}{
			"level": 3,
			"ranks": []int{1, 0, 0, 0},
			"items": []string{"3006", "223031"},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var snap build.Snapshot
		testutil.AssertJSONResponse(t, resp, &snap)
		assert.Equal(t, 3, snap.Level)
		testutil.AssertStat(t, snap, build.StatHealth, 690+98*2)
		testutil.AssertStat(t, snap, build.StatAttackDamage, 69+4.5*2+65)
	})

	t.Run("second boots rejected", func(t *testing.T) {
		resp := post(t, "Garen", map[string]interface{}{
			"level": 1,
			"items": []string{"3006", "1001"},
		})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var rejection handlers.RejectionResponse
		testutil.AssertJSONResponse(t, resp, &rejection)
		assert.Equal(t, build.BootsConflict, rejection.Reason)
		assert.Equal(t, "1001", rejection.ItemID)
		assert.NotEmpty(t, rejection.Message)
	})

	t.Run("unknown item", func(t *testing.T) {
		resp := post(t, "Garen", map[string]interface{}{"level": 1, "items": []string{"999999"}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("level out of range", func(t *testing.T) {
		resp := post(t, "Garen", map[string]interface{}{"level": 19})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rank above slot maximum", func(t *testing.T) {
		resp := post(t, "Garen", map[string]interface{}{"level": 1, "ranks": []int{0, 0, 0, 4}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown champion", func(t *testing.T) {
		resp := post(t, "Nobody", map[string]interface{}{"level": 1})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

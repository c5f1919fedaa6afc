package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/dom/league-builds/internal/build"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies error response with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	// Error responses are plain text in this API
	assert.Contains(t, string(body), expectedMessage, "error message mismatch")
}

// AssertItems decodes a persisted items string and compares the ids in order.
func AssertItems(t *testing.T, expected []string, items string) {
	t.Helper()
	ids, err := build.ParseItems(items)
	require.NoError(t, err, "items %q do not parse", items)
	assert.Equal(t, expected, ids, "unexpected build items")
}

// AssertStat checks a snapshot value with a small tolerance.
func AssertStat(t *testing.T, snap build.Snapshot, stat build.Stat, expected float64) {
	t.Helper()
	assert.InDelta(t, expected, snap.Value(stat), 1e-6, "unexpected %s", stat)
}

package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dom/league-builds/internal/build"
	"github.com/dom/league-builds/internal/testutil"
	"github.com/dom/league-builds/internal/websocket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wsTimeout = 5 * time.Second

func TestBuildSocket_Handshake(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.DB.Truncate(t)

	owner, ownerToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	_, strangerToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	saved := testutil.NewBuildBuilder().WithOwner(owner).Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		url            string
		expectedStatus int
	}{
		{name: "champion required", url: ts.BuildSessionURL("", "", ""), expectedStatus: http.StatusBadRequest},
		{name: "bad token", url: ts.BuildSessionURL("Garen", "garbage", ""), expectedStatus: http.StatusUnauthorized},
		{name: "edit needs token", url: ts.BuildSessionURL("Garen", "", saved.ID.String()), expectedStatus: http.StatusUnauthorized},
		{name: "edit unknown build", url: ts.BuildSessionURL("Garen", ownerToken, uuid.New().String()), expectedStatus: http.StatusNotFound},
		{name: "edit someone else's build", url: ts.BuildSessionURL("Garen", strangerToken, saved.ID.String()), expectedStatus: http.StatusForbidden},
		{name: "edit with wrong champion", url: ts.BuildSessionURL("Lux", ownerToken, saved.ID.String()), expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, testutil.DialStatus(t, tt.url))
		})
	}
}

func TestBuildSocket_AssembleAndSave(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.DB.Truncate(t)

	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	ws := testutil.NewWSClient(t, ts.BuildSessionURL("Garen", token, ""))

	ready := ws.ExpectReady(wsTimeout)
	assert.Equal(t, build.StateEmpty, ready.State)
	require.NotNil(t, ready.Champion)
	assert.Equal(t, "Garen", ready.Champion.ID)
	assert.Equal(t, testutil.FixtureVersion, ready.Version)
	require.NotNil(t, ready.Snapshot)
	testutil.AssertStat(t, *ready.Snapshot, build.StatHealth, 690)

	ws.AddItem("223031")
	state := ws.ExpectState(wsTimeout)
	assert.Equal(t, []string{"223031"}, state.Items)
	testutil.AssertStat(t, *state.Snapshot, build.StatAttackDamage, 69+65)

	ws.AddItem("1001")
	ws.ExpectState(wsTimeout)

	ws.AddItem("3006")
	rejected := ws.ExpectRejected(wsTimeout)
	assert.Equal(t, build.BootsConflict, rejected.Reason)
	assert.Equal(t, "3006", rejected.ItemID)

	ws.ToggleItem("1001")
	state = ws.ExpectState(wsTimeout)
	assert.Equal(t, []string{"223031"}, state.Items)

	ws.AddItem("3006")
	ws.ExpectState(wsTimeout)

	ws.SetLevel(6)
	state = ws.ExpectState(wsTimeout)
	assert.Equal(t, 6, state.Level)
	testutil.AssertStat(t, *state.Snapshot, build.StatHealth, 690+98*5)

	ws.RankUp(0)
	state = ws.ExpectState(wsTimeout)
	assert.Equal(t, 1, state.Ranks[0])

	ws.Save()
	saved := ws.ExpectSaved(wsTimeout)
	require.NotNil(t, saved.Build)
	assert.Equal(t, "Garen", saved.Build.Champion)
	testutil.AssertItems(t, []string{"3006", "223031"}, saved.Build.Items)

	ws.AddItem("1001")
	ws.ExpectErrorWithCode("ALREADY_SAVED", wsTimeout)

	builds, err := ts.Services.Build.List(t.Context(), user.ID, "Garen")
	require.NoError(t, err)
	require.Len(t, builds, 1)
	assert.Equal(t, saved.Build.ID, builds[0].ID.String())
}

func TestBuildSocket_EditExisting(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.DB.Truncate(t)

	owner, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	existing := testutil.NewBuildBuilder().
		WithOwner(owner).
		WithItems("1001", "223031", "999999").
		WithRunes("8010").
		Build(t, ts.DB.DB)

	ws := testutil.NewWSClient(t, ts.BuildSessionURL("Garen", token, existing.ID.String()))

	ready := ws.ExpectReady(wsTimeout)
	assert.Equal(t, []string{"1001", "223031"}, ready.Items, "unknown ids are dropped from the seed")

	ws.ToggleItem("1001")
	ws.ExpectState(wsTimeout)
	ws.Save()
	saved := ws.ExpectSaved(wsTimeout)
	assert.Equal(t, existing.ID.String(), saved.Build.ID)

	b, err := ts.Services.Build.Get(t.Context(), owner.ID, existing.ID)
	require.NoError(t, err)
	testutil.AssertItems(t, []string{"223031"}, b.Items)
	assert.Equal(t, "8010", b.Runes)
}

func TestBuildSocket_Errors(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.DB.Truncate(t)

	ws := testutil.NewWSClient(t, ts.BuildSessionURL("Garen", "", ""))
	ws.ExpectReady(wsTimeout)

	tests := []struct {
		name string
		send func()
		code string
	}{
		{name: "malformed json", send: func() { ws.SendRaw([]byte("{nope")) }, code: "INVALID_MESSAGE"},
		{name: "unknown type", send: func() { ws.Send("dance", nil) }, code: "UNKNOWN_TYPE"},
		{name: "missing item id", send: func() { ws.Send(websocket.MessageTypeAddItem, map[string]string{}) }, code: "INVALID_PAYLOAD"},
		{name: "unknown item", send: func() { ws.AddItem("999999") }, code: "UNKNOWN_ITEM"},
		{name: "level out of range", send: func() { ws.SetLevel(0) }, code: "INVALID_LEVEL"},
		{name: "bad slot", send: func() { ws.RankUp(7) }, code: "INVALID_SLOT"},
		{name: "save empty build", send: func() { ws.Save() }, code: "EMPTY_BUILD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.send()
			ws.ExpectErrorWithCode(tt.code, wsTimeout)
		})
	}

	t.Run("save without token", func(t *testing.T) {
		ws.AddItem("1001")
		ws.ExpectState(wsTimeout)
		ws.Save()
		ws.ExpectErrorWithCode("AUTH_REQUIRED", wsTimeout)
	})
}

func TestBuildSocket_UnknownChampion(t *testing.T) {
	ts := testutil.NewTestServer(t)

	ws := testutil.NewWSClient(t, ts.BuildSessionURL("Nobody", "", ""))
	ws.ExpectErrorWithCode("LOAD_FAILED", wsTimeout)

	ws.AddItem("1001")
	ws.ExpectErrorWithCode("LOAD_FAILED", wsTimeout)
}

func TestBuildSocket_CloseReleasesSession(t *testing.T) {
	ts := testutil.NewTestServer(t)

	ws := testutil.NewWSClient(t, ts.BuildSessionURL("Garen", "", ""))
	ws.ExpectReady(wsTimeout)
	require.Eventually(t, func() bool { return ts.Hub.Count() == 1 }, wsTimeout, 10*time.Millisecond)

	ws.Close()
	assert.Eventually(t, func() bool { return ts.Hub.Count() == 0 }, wsTimeout, 10*time.Millisecond)
}

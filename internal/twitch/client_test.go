package twitch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestClient(t *testing.T, gqlHandler http.HandlerFunc) (*Client, *httptest.Server) {
	mux := http.NewServeMux()
	mux.HandleFunc("/integrity", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Kpsdk-Ct", "ct-value")
		w.Header().Set("X-Kpsdk-R", "r-value")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token": "integrity-token"}`))
	})
	mux.HandleFunc("/gql", gqlHandler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewClient("")
	c.GQLURL = srv.URL + "/gql"
	c.IntegrityURL = srv.URL + "/integrity"
	return c, srv
}

func TestRefreshIntegrity(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	err := c.RefreshIntegrity(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "integrity-token", c.integrityToken)
	assert.Equal(t, "ct-value", c.kpsdkCT)
	assert.Equal(t, "r-value", c.kpsdkR)
}

func TestRefreshIntegrityFailureLeavesStateAlone(t *testing.T) {
	c := NewClient("")
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // transport failure
	c.IntegrityURL = srv.URL

	err := c.RefreshIntegrity(context.Background())
	assert.Error(t, err)
	assert.Empty(t, c.integrityToken)
	assert.Empty(t, c.kpsdkCT)
	assert.Empty(t, c.kpsdkR)
}

func TestQueryAttachesHeaders(t *testing.T) {
	var gotHeaders http.Header
	var gotPayload map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte(`{"data": {"user": {"id": "123", "login": "somestreamer", "displayName": "SomeStreamer", "profileImageURL": "https://img"}}}`))
	})

	err := c.RefreshIntegrity(context.Background())
	assert.NoError(t, err)

	user, err := c.FetchUser(context.Background(), "somestreamer")
	assert.NoError(t, err)
	assert.Equal(t, "123", user.ID)
	assert.Equal(t, "SomeStreamer", user.DisplayName)

	assert.Equal(t, clientID, gotHeaders.Get("Client-Id"))
	assert.Equal(t, c.deviceID, gotHeaders.Get("Device-Id"))
	assert.Equal(t, c.sessionID, gotHeaders.Get("Client-Session-Id"))
	assert.Equal(t, "integrity-token", gotHeaders.Get("Client-Integrity"))
	assert.Equal(t, "ct-value", gotHeaders.Get("X-Kpsdk-Ct"))
	assert.Equal(t, "r-value", gotHeaders.Get("X-Kpsdk-R"))
	assert.Empty(t, gotHeaders.Get("Authorization"))

	assert.Equal(t, "GetUser", gotPayload["operationName"])
	vars := gotPayload["variables"].(map[string]any)
	assert.Equal(t, "somestreamer", vars["login"])
}

func TestFetchVideoCommentsNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"video": null}}`))
	})

	video, err := c.FetchVideoComments(context.Background(), "missing", 0)
	assert.NoError(t, err)
	assert.Nil(t, video)
}

func TestFetchUserVideos(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"user": {"videos": {
			"edges": [
				{"cursor": "a", "node": {"id": "v1", "title": "First", "lengthSeconds": 100, "createdAt": "2024-02-23T12:34:56Z"}},
				{"cursor": "b", "node": {"id": "v2", "title": "Second", "lengthSeconds": 200, "createdAt": "2024-02-22T12:34:56Z"}}
			],
			"pageInfo": {"hasNextPage": false}
		}}}}`))
	})

	vods, err := c.FetchUserVideos(context.Background(), "somestreamer", 20)
	assert.NoError(t, err)
	assert.Len(t, vods, 2)
	assert.Equal(t, "v1", vods[0].ID)
	assert.Equal(t, 200, vods[1].LengthSeconds)
}

func TestNormalizeOAuth(t *testing.T) {
	assert.Equal(t, "", normalizeOAuth(""))
	assert.Equal(t, "", normalizeOAuth("   "))
	assert.Equal(t, "OAuth abc123", normalizeOAuth("abc123"))
	assert.Equal(t, "OAuth abc123", normalizeOAuth("OAuth abc123"))
	assert.Equal(t, "oauth abc123", normalizeOAuth("oauth abc123"))
}

package mirror

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpsert(t *testing.T) {
	var gotPath string
	var gotHeaders http.Header
	var gotRows []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		err := json.NewDecoder(r.Body).Decode(&gotRows)
		assert.NoError(t, err)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret-key")
	rows := []map[string]any{{"id": "c1", "message": "hello"}}
	err := c.Upsert(context.Background(), "comments", rows)
	assert.NoError(t, err)

	assert.Equal(t, "/rest/v1/comments", gotPath)
	assert.Equal(t, "secret-key", gotHeaders.Get("apikey"))
	assert.Equal(t, "Bearer secret-key", gotHeaders.Get("Authorization"))
	assert.Equal(t, "resolution=merge-duplicates", gotHeaders.Get("Prefer"))
	assert.Len(t, gotRows, 1)
	assert.Equal(t, "c1", gotRows[0]["id"])
}

func TestUpsertRejectionIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "permission denied"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret-key")
	err := c.Upsert(context.Background(), "comments", []map[string]any{{"id": "c1"}})
	assert.NoError(t, err)
}

func TestUpsertTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, "secret-key")
	err := c.Upsert(context.Background(), "comments", []map[string]any{{"id": "c1"}})
	assert.Error(t, err)
}

func TestNewFromEnvDisabled(t *testing.T) {
	os.Unsetenv("SUPABASE_URL")
	assert.Nil(t, NewFromEnv())
}

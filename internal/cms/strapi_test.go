package cms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-stats-backend/config"
)

func newTestClient(url string) *Client {
	return NewClient(config.StrapiConfig{
		URL:      url,
		Identity: "reporter",
		Password: "secret",
	})
}

func TestAuthenticate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/local", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "reporter", body["identifier"])
		assert.Equal(t, "secret", body["password"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jwt":"token-123"}`))
	}))
	defer srv.Close()

	jwt, err := newTestClient(srv.URL).Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-123", jwt)
}

func TestAuthenticateRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid credentials", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Authenticate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestAuthenticateEmptyJWT(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Authenticate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no jwt")
}

func TestGetGPUClasses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/gpu-classes", r.URL.Path)
		require.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"uuid":"a1","name":"A100","gpuClassType":"datacenter","batchPrice":0.2,"lowPrice":0.3,"mediumPrice":0.4,"highPrice":0.5},
			{"uuid":"b2","name":"RTX 4090","batchPrice":null}
		]`))
	}))
	defer srv.Close()

	classes, err := newTestClient(srv.URL).GetGPUClasses(context.Background(), "token-123")
	require.NoError(t, err)
	require.Len(t, classes, 2)

	a100 := classes["a1"]
	require.NotNil(t, a100.Name)
	assert.Equal(t, "A100", *a100.Name)
	require.NotNil(t, a100.BatchPrice)
	assert.Equal(t, 0.2, *a100.BatchPrice)

	rtx := classes["b2"]
	assert.Nil(t, rtx.BatchPrice)
	assert.Nil(t, rtx.GPUType)
}

func TestGetGPUClassesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetGPUClasses(context.Background(), "token-123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

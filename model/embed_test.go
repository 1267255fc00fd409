package model_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"docqa/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedderParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer srv.Close()

	e := model.NewEmbedder(srv.URL, "test-key", "text-embedding-3-small")
	vec, err := e.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbedderMapsRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	e := model.NewEmbedder(srv.URL, "k", "m")
	_, err := e.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, model.ErrRateLimited)
}

func TestEmbedderMapsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	e := model.NewEmbedder(srv.URL, "k", "m")
	_, err := e.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, model.ErrProviderUnavailable)
}

func TestEmbedderRejectsEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	e := model.NewEmbedder(srv.URL, "k", "m")
	_, err := e.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, model.ErrProviderUnavailable)
}

package model_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"docqa/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorReturnsAnswerVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Contains(t, req.Messages[1].Content, "what is the notice period?")
		assert.Contains(t, req.Messages[1].Content, "30 days written notice")

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"30 days."}}]}`))
	}))
	defer srv.Close()

	g := model.NewGenerator(srv.URL, "k", "gpt-4o-mini")
	answer, err := g.Generate(context.Background(), "what is the notice period?", "30 days written notice")
	require.NoError(t, err)
	assert.Equal(t, "30 days.", answer)
}

func TestGeneratorMapsProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := model.NewGenerator(srv.URL, "k", "m")
	_, err := g.Generate(context.Background(), "q", "ctx")
	assert.ErrorIs(t, err, model.ErrProviderUnavailable)
}

package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bizrag/internal/core/domain"
)

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, 768, svc.Dimensions())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
}

func TestNewEmbeddingService_UnknownModelDimensions(t *testing.T) {
	svc := NewEmbeddingService(Config{Model: "custom-embed"})

	assert.Equal(t, 0, svc.Dimensions())
}

func TestEmbeddingService_EmbedBatch(t *testing.T) {
	var prompts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultModel, req.Model)
		prompts = append(prompts, req.Prompt)

		if req.Prompt == "a" {
			_, _ = w.Write([]byte(`{"embedding":[1,0]}`))
			return
		}
		_, _ = w.Write([]byte(`{"embedding":[0,1]}`))
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	embeddings, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, prompts)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, embeddings)
}

func TestEmbeddingService_Embed_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"model missing", http.StatusNotFound, `{"error":"model not found"}`, domain.ErrUpstream},
		{"empty embedding", http.StatusOK, `{"embedding":[]}`, domain.ErrUpstream},
		{"overloaded", http.StatusTooManyRequests, `busy`, domain.ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			svc := NewEmbeddingService(Config{BaseURL: server.URL})

			_, err := svc.Embed(context.Background(), "text")

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEmbeddingService_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}

func TestEmbeddingService_Ping_Unreachable(t *testing.T) {
	svc := NewEmbeddingService(Config{BaseURL: "http://127.0.0.1:1"})

	err := svc.Ping(context.Background())

	assert.ErrorIs(t, err, domain.ErrUpstream)
}

package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bizrag/internal/core/domain"
)

func TestDo_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	body, err := Do(server.Client(), req, "test")

	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestDo_StatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, domain.ErrRateLimited},
		{"gateway timeout", http.StatusGatewayTimeout, domain.ErrUpstreamTimeout},
		{"server error", http.StatusInternalServerError, domain.ErrUpstream},
		{"unauthorised", http.StatusUnauthorized, domain.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, http.NoBody)
			require.NoError(t, err)

			_, err = Do(server.Client(), req, "test")

			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestDo_DeadlineIsUpstreamTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	_, err = Do(server.Client(), req, "test")

	require.ErrorIs(t, err, domain.ErrUpstreamTimeout)
	assert.True(t, domain.IsRetryable(err))
}

func TestTransport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Transport(ctx, "test", errors.New("connection reset"))

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, domain.IsUpstream(err))
}

func TestTransport_Other(t *testing.T) {
	err := Transport(context.Background(), "test", errors.New("connection refused"))

	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.False(t, domain.IsRetryable(err))
}

func TestStatus_TruncatesBody(t *testing.T) {
	err := Status("test", http.StatusBadRequest, []byte(strings.Repeat("x", 2000)))

	assert.Less(t, len(err.Error()), 700)
	assert.True(t, strings.HasSuffix(err.Error(), "..."))
}

func TestMalformed(t *testing.T) {
	err := Malformed("test", errors.New("unexpected EOF"))

	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "malformed response")
}

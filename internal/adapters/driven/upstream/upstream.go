// Package upstream sends requests to external AI providers and maps their
// failures onto the domain error taxonomy.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/custodia-labs/bizrag/internal/core/domain"
)

// maxErrorBody bounds how much of an error response is kept in the message.
const maxErrorBody = 512

// Do sends req with client and returns the body of a 2xx response.
//
// Errors wrap domain.ErrUpstreamTimeout for deadlines, domain.ErrRateLimited
// for HTTP 429 and domain.ErrUpstream for anything else. A cancelled request
// context is returned as context.Canceled so callers can stop.
func Do(client *http.Client, req *http.Request, provider string) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, Transport(req.Context(), provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Transport(req.Context(), provider, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, Status(provider, resp.StatusCode, body)
	}
	return body, nil
}

// Transport classifies an error returned while talking to the provider.
func Transport(ctx context.Context, provider string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%s: %w", provider, context.Canceled)
	}
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return fmt.Errorf("%s: %w: %w", provider, domain.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%s: %w: %w", provider, domain.ErrUpstream, err)
}

// Status builds the error for a non-2xx response.
func Status(provider string, code int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}

	var kind error
	switch code {
	case http.StatusTooManyRequests:
		kind = domain.ErrRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		kind = domain.ErrUpstreamTimeout
	default:
		kind = domain.ErrUpstream
	}
	return fmt.Errorf("%s: %w (status %d): %s", provider, kind, code, msg)
}

// Malformed builds the error for a response that could not be understood.
func Malformed(provider string, err error) error {
	return fmt.Errorf("%s: %w: malformed response: %w", provider, domain.ErrUpstream, err)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

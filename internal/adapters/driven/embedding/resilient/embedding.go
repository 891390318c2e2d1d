// Package resilient decorates an embedding service with a per-attempt
// timeout, client-side rate limiting and retry of transient failures.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/bizrag/internal/core/domain"
	"github.com/custodia-labs/bizrag/internal/core/ports/driven"
	"github.com/custodia-labs/bizrag/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultBaseDelay is the first retry delay; later delays follow a Fibonacci sequence.
const DefaultBaseDelay = 500 * time.Millisecond

var log = logger.Scoped("embedding")

// Config holds the resilience policy.
type Config struct {
	// Timeout bounds each attempt. 0 disables the timeout.
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt for
	// retryable failures (timeouts and rate limits). 0 disables retry.
	MaxRetries int

	// RatePerSecond throttles attempts. 0 is unlimited.
	RatePerSecond float64

	// BaseDelay is the first backoff delay (default: 500ms).
	BaseDelay time.Duration
}

// EmbeddingService wraps another EmbeddingService.
type EmbeddingService struct {
	next       driven.EmbeddingService
	timeout    time.Duration
	maxRetries uint64
	baseDelay  time.Duration
	limiter    *rate.Limiter
}

// New wraps next with the given policy.
func New(next driven.EmbeddingService, cfg Config) *EmbeddingService {
	s := &EmbeddingService{
		next:      next,
		timeout:   cfg.Timeout,
		baseDelay: cfg.BaseDelay,
	}
	if cfg.MaxRetries > 0 {
		s.maxRetries = uint64(cfg.MaxRetries)
	}
	if s.baseDelay <= 0 {
		s.baseDelay = DefaultBaseDelay
	}
	if cfg.RatePerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	return s
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.next.Embed(ctx, text)
		return err
	})
	return out, err
}

// EmbedBatch generates embeddings for multiple texts as a single attempt.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.next.EmbedBatch(ctx, texts)
		return err
	})
	return out, err
}

// Dimensions returns the wrapped service's vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.next.Dimensions()
}

// ModelName returns the wrapped service's model name.
func (s *EmbeddingService) ModelName() string {
	return s.next.ModelName()
}

// Ping checks the wrapped service without retry.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close releases the wrapped service.
func (s *EmbeddingService) Close() error {
	return s.next.Close()
}

func (s *EmbeddingService) run(ctx context.Context, fn func(context.Context) error) error {
	if s.maxRetries == 0 {
		return s.attempt(ctx, fn)
	}

	attempt := 0
	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewFibonacci(s.baseDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := s.attempt(ctx, fn)
		if err != nil && domain.IsRetryable(err) {
			log.Debug("attempt %d failed, retrying: %v", attempt, err)
			return retry.RetryableError(err)
		}
		return err
	})
}

// attempt makes one throttled, time-bounded call.
func (s *EmbeddingService) attempt(ctx context.Context, fn func(context.Context) error) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			if ctx.Err() == nil {
				// The limiter refuses waits that would outlast the deadline.
				return fmt.Errorf("rate limiter: %w: %w", domain.ErrUpstreamTimeout, err)
			}
			return err
		}
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	err := fn(callCtx)
	if err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && !domain.IsUpstream(err) {
		return fmt.Errorf("embedding call exceeded %s: %w: %w", s.timeout, domain.ErrUpstreamTimeout, err)
	}
	return err
}

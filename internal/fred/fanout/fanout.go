package fanout

import (
	"context"
	"sync"
	"time"

	"fredrecon/pkg/fred"

	"go.uber.org/zap"
)

// Failure records one parent identifier whose children could not be
// fetched, with the final error after retries were exhausted.
type Failure[K comparable] struct {
	ID  K
	Err error
}

// Options tunes the worker pool and retry policy of one fan-out run.
type Options struct {
	Workers          int           // concurrent fetches; default 8
	MinRequestGap    time.Duration // minimum spacing between request starts; 0 disables
	RateLimitRetries int           // retries after a 429; default 3
	BaseBackoff      time.Duration // first retry delay, doubled per attempt; default 500ms
	MaxBackoff       time.Duration // backoff cap; default 8s
	Logger           *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 8
	}
	if o.RateLimitRetries <= 0 {
		o.RateLimitRetries = 3
	}
	if o.BaseBackoff <= 0 {
		o.BaseBackoff = 500 * time.Millisecond
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = 8 * time.Second
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Run fetches the child collections of every id through a bounded worker
// pool and merges them into one slice. A failing id records exactly one
// Failure and never aborts its siblings. Ids are dispatched in the given
// order; the merged output preserves id order (children of ids[0] first),
// so two runs over identical upstream data produce identical output.
// Cancelling ctx stops dispatching further ids; already-dispatched
// fetches finish or fail on their own context.
func Run[K comparable, V any](ctx context.Context, ids []K, opts Options, fetch func(context.Context, K) ([]V, error)) ([]V, []Failure[K]) {
	opts = opts.withDefaults()

	results := make([][]V, len(ids))
	errs := make([]error, len(ids))

	sem := make(chan struct{}, opts.Workers)
	var wg sync.WaitGroup
	limiter := &requestSpacer{gap: opts.MinRequestGap}

	for i, id := range ids {
		if ctx.Err() != nil {
			errs[i] = ctx.Err()
			continue
		}

		i, id := i, id
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			limiter.wait()
			results[i], errs[i] = fetchWithRetry(ctx, id, opts, fetch)
		}()
	}
	wg.Wait()

	var merged []V
	var failures []Failure[K]
	for i, id := range ids {
		if errs[i] != nil {
			opts.Logger.Warn("fan-out item failed",
				zap.Any("id", id), zap.Error(errs[i]))
			failures = append(failures, Failure[K]{ID: id, Err: errs[i]})
			continue
		}
		merged = append(merged, results[i]...)
	}
	return merged, failures
}

// fetchWithRetry applies the per-error retry policy: rate-limited
// transients back off exponentially up to RateLimitRetries, other
// transients get a single retry, malformed responses none.
func fetchWithRetry[K comparable, V any](ctx context.Context, id K, opts Options, fetch func(context.Context, K) ([]V, error)) ([]V, error) {
	delay := opts.BaseBackoff
	var lastErr error

	for attempt := 0; ; attempt++ {
		out, err := fetch(ctx, id)
		if err == nil {
			return out, nil
		}
		lastErr = err

		var budget int
		switch {
		case fred.IsRateLimited(err):
			budget = opts.RateLimitRetries
		case fred.IsTransient(err):
			budget = 1
		default:
			return nil, err
		}
		if attempt >= budget {
			return nil, lastErr
		}

		opts.Logger.Warn("retrying fetch",
			zap.Any("id", id),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > opts.MaxBackoff {
			delay = opts.MaxBackoff
		}
	}
}

// requestSpacer enforces a minimum interval between request starts
// across all workers, keeping the pool under the remote rate limit.
type requestSpacer struct {
	mu   sync.Mutex
	gap  time.Duration
	last time.Time
}

func (s *requestSpacer) wait() {
	if s.gap <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if elapsed := time.Since(s.last); elapsed < s.gap {
		time.Sleep(s.gap - elapsed)
	}
	s.last = time.Now()
}

// Package pipeline drives the sequential scrape of all targets and the single publish
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"swotscraper/swot"
)

const (
	// DefaultDelay is the pause between two targets
	DefaultDelay = 3 * time.Second
	// DefaultPublishTimeout bounds the publish once the scrape is over
	DefaultPublishTimeout = 2 * time.Minute
)

// ErrRunning is returned by TryRun while another run holds the page
var ErrRunning = errors.New("a run is already in progress")

// Extractor produces one result per target from the shared page
type Extractor interface {
	Extract(ctx context.Context, page swot.Page, target swot.Target) swot.Result
}

// Sink receives the whole batch once per run
type Sink interface {
	Publish(ctx context.Context, results []swot.Result) error
}

// Cache keeps recent successful results by target name
type Cache interface {
	Get(ctx context.Context, name string) (swot.Result, bool, error)
	Put(ctx context.Context, result swot.Result) error
}

// Runner scrapes targets one at a time through a single page
type Runner struct {
	page      swot.Page
	extractor Extractor
	targets   []swot.Target
	sink      Sink
	cache     Cache
	delay     time.Duration
	publish   time.Duration
	logger    zerolog.Logger

	mu     sync.Mutex
	lastMu sync.RWMutex
	last   []swot.Result
}

type Option func(*Runner)

// WithSink sets where the batch goes. Without a sink the run is a dry run.
func WithSink(s Sink) Option {
	return func(r *Runner) { r.sink = s }
}

func WithCache(c Cache) Option {
	return func(r *Runner) { r.cache = c }
}

func WithDelay(d time.Duration) Option {
	return func(r *Runner) { r.delay = d }
}

func WithPublishTimeout(d time.Duration) Option {
	return func(r *Runner) { r.publish = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// New creates a Runner. The caller owns page and releases it after the last run.
func New(page swot.Page, extractor Extractor, targets []swot.Target, opts ...Option) *Runner {
	r := &Runner{
		page:      page,
		extractor: extractor,
		targets:   append([]swot.Target(nil), targets...),
		delay:     DefaultDelay,
		publish:   DefaultPublishTimeout,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run scrapes every target in order and then publishes the batch. The returned
// slice always has one result per target, also when the publish error is non-nil.
func (r *Runner) Run(ctx context.Context) ([]swot.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run(ctx)
}

// TryRun is Run that fails with ErrRunning instead of waiting for a run in progress
func (r *Runner) TryRun(ctx context.Context) ([]swot.Result, error) {
	if !r.mu.TryLock() {
		return nil, ErrRunning
	}
	defer r.mu.Unlock()
	return r.run(ctx)
}

// Last returns the results of the most recent completed run
func (r *Runner) Last() ([]swot.Result, bool) {
	r.lastMu.RLock()
	defer r.lastMu.RUnlock()
	if r.last == nil {
		return nil, false
	}
	return append([]swot.Result(nil), r.last...), true
}

func (r *Runner) run(ctx context.Context) ([]swot.Result, error) {
	start := time.Now()
	results := make([]swot.Result, 0, len(r.targets))

	for i, target := range r.targets {
		if i > 0 && r.delay > 0 {
			if err := sleep(ctx, r.delay); err != nil {
				r.logger.Warn().Err(err).Msg("delay interrupted")
			}
		}
		results = append(results, r.scrape(ctx, target))
	}

	r.lastMu.Lock()
	r.last = results
	r.lastMu.Unlock()

	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
		}
	}
	r.logger.Info().
		Int("targets", len(results)).
		Int("failed", failed).
		Dur("elapsed", time.Since(start)).
		Msg("scrape finished")

	if r.sink == nil {
		r.logger.Info().Msg("no sink configured, skipping publish")
		return results, nil
	}

	// An interrupted run still publishes what it has, so the write must
	// not inherit the caller's cancellation.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.publish)
	defer cancel()
	if err := r.sink.Publish(pubCtx, results); err != nil {
		return results, fmt.Errorf("publish: %w", err)
	}
	return results, nil
}

func (r *Runner) scrape(ctx context.Context, target swot.Target) swot.Result {
	if r.cache != nil {
		cached, ok, err := r.cache.Get(ctx, target.Name)
		if err != nil {
			r.logger.Warn().Err(err).Str("target", target.Name).Msg("cache read failed")
		} else if ok && cached.OK() {
			r.logger.Info().Str("target", target.Name).Msg("using cached result")
			return cached
		}
	}

	r.logger.Info().Str("target", target.Name).Msg("scraping")
	result := r.extractor.Extract(ctx, r.page, target)

	if r.cache != nil && result.OK() {
		if err := r.cache.Put(ctx, result); err != nil {
			r.logger.Warn().Err(err).Str("target", target.Name).Msg("cache write failed")
		}
	}
	return result
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

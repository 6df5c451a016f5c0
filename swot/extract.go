package swot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

const (
	DefaultNavigationTimeout = 60 * time.Second
	DefaultMarkerTimeout     = 10 * time.Second

	snapshotTimeout = 5 * time.Second
)

// ErrMarkerTimeout is returned when the SWOT widget does not render in time
var ErrMarkerTimeout = errors.New("marker element did not appear")

// Page is a navigable browser tab reused across targets
type Page interface {
	// Navigate loads url and returns once network activity is quiescent
	Navigate(ctx context.Context, url string) error
	// WaitReady blocks until selector is in the DOM or ctx is done
	WaitReady(ctx context.Context, selector string) error
	// HTML returns the rendered document
	HTML(ctx context.Context) (string, error)
}

// Snapshotter keeps the HTML of pages that failed extraction
type Snapshotter interface {
	Save(name, html string) (string, error)
}

// Extractor turns a rendered quote page into a Result
type Extractor struct {
	selectors         Selectors
	navigationTimeout time.Duration
	markerTimeout     time.Duration
	snapshots         Snapshotter
	logger            zerolog.Logger
}

type Option func(*Extractor)

func WithSelectors(sel Selectors) Option {
	return func(e *Extractor) { e.selectors = sel }
}

func WithNavigationTimeout(d time.Duration) Option {
	return func(e *Extractor) { e.navigationTimeout = d }
}

func WithMarkerTimeout(d time.Duration) Option {
	return func(e *Extractor) { e.markerTimeout = d }
}

// WithSnapshots saves the page HTML whenever a target fails
func WithSnapshots(s Snapshotter) Option {
	return func(e *Extractor) { e.snapshots = s }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor creates an Extractor with the moneycontrol defaults
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		selectors:         DefaultSelectors(),
		navigationTimeout: DefaultNavigationTimeout,
		markerTimeout:     DefaultMarkerTimeout,
		logger:            zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract navigates page to the target and parses it. It always returns exactly
// one result named after the target; any failure degrades the whole record.
func (e *Extractor) Extract(ctx context.Context, page Page, target Target) Result {
	result, err := e.extract(ctx, page, target)
	if err != nil {
		e.logger.Error().Err(err).Str("target", target.Name).Str("url", target.URL).Msg("scrape failed")
		e.snapshot(ctx, page, target)
		return Failure(target.Name)
	}
	return result
}

func (e *Extractor) extract(ctx context.Context, page Page, target Target) (Result, error) {
	navCtx, cancel := context.WithTimeout(ctx, e.navigationTimeout)
	err := page.Navigate(navCtx, target.URL)
	cancel()
	if err != nil {
		return Result{}, fmt.Errorf("navigate: %w", err)
	}

	marker := e.selectors.MarkerSelector()
	waitCtx, cancel := context.WithTimeout(ctx, e.markerTimeout)
	err = page.WaitReady(waitCtx, marker)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{}, fmt.Errorf("%w: %s", ErrMarkerTimeout, marker)
		}
		return Result{}, fmt.Errorf("wait for %s: %w", marker, err)
	}

	readCtx, cancel := context.WithTimeout(ctx, e.markerTimeout)
	html, err := page.HTML(readCtx)
	cancel()
	if err != nil {
		return Result{}, fmt.Errorf("read html: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Result{}, fmt.Errorf("parse html: %w", err)
	}

	return Parse(doc, target.Name, e.selectors), nil
}

func (e *Extractor) snapshot(ctx context.Context, page Page, target Target) {
	if e.snapshots == nil {
		return
	}

	readCtx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	html, err := page.HTML(readCtx)
	if err != nil || html == "" {
		return
	}

	path, err := e.snapshots.Save(target.Name, html)
	if err != nil {
		e.logger.Warn().Err(err).Str("target", target.Name).Msg("snapshot failed")
		return
	}
	e.logger.Debug().Str("target", target.Name).Str("path", path).Msg("snapshot saved")
}

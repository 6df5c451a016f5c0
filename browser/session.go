// Package browser provides the headless Chrome tab shared by all targets of a run
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/113.0.0.0 Safari/537.36"
	DefaultWidth     = 1280
	DefaultHeight    = 800
)

// Options is the identity presented to the fetched site
type Options struct {
	UserAgent string
	Width     int
	Height    int
	Headless  bool
	// Stealth hides the usual headless automation fingerprints
	Stealth bool
	Logger  zerolog.Logger
}

// DefaultOptions returns a headless 1280x800 desktop Chrome identity
func DefaultOptions() Options {
	return Options{
		UserAgent: DefaultUserAgent,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Headless:  true,
		Logger:    zerolog.Nop(),
	}
}

// Session is one browser with one tab. It is acquired once before the
// first target and closed once after the last.
type Session struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	lifecycle   *lifecycle
	logger      zerolog.Logger
	closeOnce   sync.Once
}

// Open starts Chrome and prepares the tab with the configured identity
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = DefaultWidth, DefaultHeight
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.WindowSize(opts.Width, opts.Height),
		chromedp.UserAgent(opts.UserAgent),
	)
	if opts.Stealth {
		allocOpts = append(allocOpts, chromedp.Flag("disable-blink-features", "AutomationControlled"))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		opts.Logger.Debug().Msgf(format, args...)
	}))

	s := &Session{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		lifecycle:   newLifecycle(),
		logger:      opts.Logger,
	}

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok {
			s.lifecycle.observe(e)
		}
	})

	setup := chromedp.Tasks{
		page.Enable(),
		page.SetLifecycleEventsEnabled(true),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return emulation.SetUserAgentOverride(opts.UserAgent).Do(ctx)
		}),
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			s.lifecycle.setMainFrame(tree.Frame.ID)
			return nil
		}),
	}
	if opts.Stealth {
		setup = append(setup, chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}))
	}

	if err := chromedp.Run(tabCtx, setup); err != nil {
		s.Close()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	s.logger.Info().
		Str("user_agent", opts.UserAgent).
		Int("width", opts.Width).
		Int("height", opts.Height).
		Bool("stealth", opts.Stealth).
		Msg("browser session opened")
	return s, nil
}

// Close releases the tab and then the browser
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.tabCancel()
		s.allocCancel()
		s.logger.Info().Msg("browser session closed")
	})
}

// Navigate loads url and waits until the main frame has at most two
// network connections left open
func (s *Session) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := s.bind(ctx)
	defer cancel()

	s.lifecycle.reset()
	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return err
	}
	return s.lifecycle.wait(runCtx)
}

// WaitReady blocks until selector is present in the DOM, visible or not
func (s *Session) WaitReady(ctx context.Context, selector string) error {
	runCtx, cancel := s.bind(ctx)
	defer cancel()
	return chromedp.Run(runCtx, chromedp.WaitReady(selector, chromedp.ByQuery))
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	runCtx, cancel := s.bind(ctx)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// bind derives a context from the tab that also ends with ctx
func (s *Session) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(s.tabCtx)
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		prev := cancel
		cancel = func() {
			cancelDeadline()
			prev()
		}
	}

	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

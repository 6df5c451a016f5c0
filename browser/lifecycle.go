package browser

import (
	"context"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
)

const (
	eventInit              = "init"
	eventNetworkAlmostIdle = "networkAlmostIdle"
)

// lifecycle follows the page lifecycle of the main frame only. Iframes
// (ads, widgets) emit their own init and idle events and are ignored.
type lifecycle struct {
	mu     sync.Mutex
	frame  cdp.FrameID
	loader cdp.LoaderID
	idle   bool
	notify chan struct{}
}

func newLifecycle() *lifecycle {
	return &lifecycle{notify: make(chan struct{}, 1)}
}

func (l *lifecycle) setMainFrame(id cdp.FrameID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frame = id
}

func (l *lifecycle) observe(e *page.EventLifecycleEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.frame == "" || e.FrameID != l.frame {
		return
	}
	switch e.Name {
	case eventInit:
		l.loader = e.LoaderID
		l.idle = false
	case eventNetworkAlmostIdle:
		if e.LoaderID != l.loader {
			return
		}
		l.idle = true
		select {
		case l.notify <- struct{}{}:
		default:
		}
	}
}

// reset forgets the previous document before a new navigation
func (l *lifecycle) reset() {
	l.mu.Lock()
	l.loader = ""
	l.idle = false
	l.mu.Unlock()

	select {
	case <-l.notify:
	default:
	}
}

// wait blocks until the current main frame document reports networkAlmostIdle
func (l *lifecycle) wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		idle := l.idle
		l.mu.Unlock()
		if idle {
			return nil
		}

		select {
		case <-l.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

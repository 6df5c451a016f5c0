package browser

import (
	"context"
	"testing"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mainFrame cdp.FrameID = "MAIN"
	adFrame   cdp.FrameID = "AD"
)

func event(frame cdp.FrameID, loader cdp.LoaderID, name string) *page.EventLifecycleEvent {
	return &page.EventLifecycleEvent{FrameID: frame, LoaderID: loader, Name: name}
}

func waitFor(l *lifecycle, d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return l.wait(ctx)
}

func TestLifecycleMainFrameAlmostIdleReleasesWait(t *testing.T) {
	l := newLifecycle()
	l.setMainFrame(mainFrame)
	l.reset()

	done := make(chan error, 1)
	go func() { done <- waitFor(l, time.Second) }()

	l.observe(event(mainFrame, "L1", eventInit))
	l.observe(event(mainFrame, "L1", eventNetworkAlmostIdle))

	require.NoError(t, <-done)
}

func TestLifecycleIgnoresSubframeEvents(t *testing.T) {
	l := newLifecycle()
	l.setMainFrame(mainFrame)
	l.reset()

	l.observe(event(mainFrame, "L1", eventInit))
	l.observe(event(adFrame, "A1", eventInit))
	l.observe(event(adFrame, "A1", eventNetworkAlmostIdle))

	assert.ErrorIs(t, waitFor(l, 20*time.Millisecond), context.DeadlineExceeded)
}

func TestLifecycleSubframeInitKeepsMainFrameIdle(t *testing.T) {
	l := newLifecycle()
	l.setMainFrame(mainFrame)
	l.reset()

	l.observe(event(mainFrame, "L1", eventInit))
	l.observe(event(mainFrame, "L1", eventNetworkAlmostIdle))
	l.observe(event(adFrame, "A2", eventInit))

	assert.NoError(t, waitFor(l, 20*time.Millisecond))
}

func TestLifecycleIgnoresNetworkIdleAndStaleLoader(t *testing.T) {
	l := newLifecycle()
	l.setMainFrame(mainFrame)
	l.reset()

	l.observe(event(mainFrame, "L2", eventInit))
	l.observe(event(mainFrame, "L2", "networkIdle"))
	l.observe(event(mainFrame, "L1", eventNetworkAlmostIdle))

	assert.ErrorIs(t, waitFor(l, 20*time.Millisecond), context.DeadlineExceeded)
}

func TestLifecycleResetForgetsPreviousDocument(t *testing.T) {
	l := newLifecycle()
	l.setMainFrame(mainFrame)
	l.observe(event(mainFrame, "L1", eventInit))
	l.observe(event(mainFrame, "L1", eventNetworkAlmostIdle))

	l.reset()

	assert.ErrorIs(t, waitFor(l, 20*time.Millisecond), context.DeadlineExceeded)
	assert.Empty(t, l.notify)
}

func TestLifecycleIgnoresEventsBeforeMainFrameKnown(t *testing.T) {
	l := newLifecycle()

	l.observe(event(mainFrame, "L1", eventInit))
	l.observe(event(mainFrame, "L1", eventNetworkAlmostIdle))

	assert.ErrorIs(t, waitFor(l, 20*time.Millisecond), context.DeadlineExceeded)
}

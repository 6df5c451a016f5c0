package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDetachedSession(tab context.Context) *Session {
	return &Session{tabCtx: tab, lifecycle: newLifecycle()}
}

func TestBindKeepsCallerDeadline(t *testing.T) {
	s := newDetachedSession(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	runCtx, release := s.bind(ctx)
	defer release()

	want, _ := ctx.Deadline()
	got, ok := runCtx.Deadline()
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestBindEndsWithCaller(t *testing.T) {
	s := newDetachedSession(context.Background())
	ctx, cancel := context.WithCancel(context.Background())

	runCtx, release := s.bind(ctx)
	defer release()

	cancel()
	select {
	case <-runCtx.Done():
	case <-time.After(time.Second):
		t.Fatal("bound context outlived the caller")
	}
}

func TestBindEndsWithTab(t *testing.T) {
	tab, closeTab := context.WithCancel(context.Background())
	s := newDetachedSession(tab)

	runCtx, release := s.bind(context.Background())
	defer release()

	closeTab()
	<-runCtx.Done()
	assert.ErrorIs(t, runCtx.Err(), context.Canceled)
}

func TestReleaseDoesNotCancelTab(t *testing.T) {
	s := newDetachedSession(context.Background())

	_, release := s.bind(context.Background())
	release()

	assert.NoError(t, s.tabCtx.Err())
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, DefaultUserAgent, opts.UserAgent)
	assert.Equal(t, 1280, opts.Width)
	assert.Equal(t, 800, opts.Height)
	assert.True(t, opts.Headless)
	assert.False(t, opts.Stealth)
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swotscraper/pipeline"
	"swotscraper/swot"
)

type fakeRunner struct {
	last    []swot.Result
	has     bool
	runErr  error
	results []swot.Result
}

func (f *fakeRunner) TryRun(ctx context.Context) ([]swot.Result, error) {
	if f.runErr == nil || !errors.Is(f.runErr, pipeline.ErrRunning) {
		f.last, f.has = f.results, true
	}
	return f.results, f.runErr
}

func (f *fakeRunner) Last() ([]swot.Result, bool) {
	return f.last, f.has
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func sample() []swot.Result {
	return []swot.Result{
		{Name: "TCS", Strengths: swot.Of(4), Essentials: "N/A", Status: swot.StatusOK},
		swot.Failure("INFY"),
	}
}

func TestHealth(t *testing.T) {
	rec := do(t, New(&fakeRunner{}, zerolog.Nop()), http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestResultsBeforeAnyRun(t *testing.T) {
	rec := do(t, New(&fakeRunner{}, zerolog.Nop()), http.MethodGet, "/results")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunThenResults(t *testing.T) {
	runner := &fakeRunner{results: sample()}
	h := New(runner, zerolog.Nop())

	rec := do(t, h, http.MethodPost, "/run")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []swot.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, sample(), got)

	rec = do(t, h, http.MethodGet, "/results/INFY")
	require.Equal(t, http.StatusOK, rec.Code)
	var one swot.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	assert.Equal(t, swot.Failure("INFY"), one)

	rec = do(t, h, http.MethodGet, "/results/WIPRO")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunConflict(t *testing.T) {
	rec := do(t, New(&fakeRunner{runErr: pipeline.ErrRunning}, zerolog.Nop()), http.MethodPost, "/run")

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRunPublishFailure(t *testing.T) {
	runner := &fakeRunner{results: sample(), runErr: errors.New("publish: quota")}

	rec := do(t, New(runner, zerolog.Nop()), http.MethodPost, "/run")

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var body struct {
		Error   string        `json:"error"`
		Results []swot.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "quota")
	assert.Len(t, body.Results, 2)
}

func TestRunRequiresPost(t *testing.T) {
	rec := do(t, New(&fakeRunner{}, zerolog.Nop()), http.MethodGet, "/run")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// Package server exposes the last scrape and a run trigger over HTTP
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"swotscraper/pipeline"
	"swotscraper/swot"
)

// Runner is what the server needs from pipeline.Runner
type Runner interface {
	TryRun(ctx context.Context) ([]swot.Result, error)
	Last() ([]swot.Result, bool)
}

type server struct {
	runner Runner
	logger zerolog.Logger
}

// New returns the router wrapped with access logging and panic recovery
func New(runner Runner, logger zerolog.Logger) http.Handler {
	s := &server{runner: runner, logger: logger}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	router.HandleFunc("/results", s.results).Methods(http.MethodGet)
	router.HandleFunc("/results/{name}", s.result).Methods(http.MethodGet)
	router.HandleFunc("/run", s.run).Methods(http.MethodPost)

	return handlers.RecoveryHandler()(handlers.CombinedLoggingHandler(&logger, router))
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

func (s *server) results(w http.ResponseWriter, r *http.Request) {
	results, ok := s.runner.Last()
	if !ok {
		http.Error(w, "no run has completed yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *server) result(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	results, _ := s.runner.Last()
	for _, res := range results {
		if res.Name == name {
			writeJSON(w, http.StatusOK, res)
			return
		}
	}
	http.Error(w, "no result for "+name, http.StatusNotFound)
}

// run scrapes synchronously; a failed publish still returns the results
func (s *server) run(w http.ResponseWriter, r *http.Request) {
	results, err := s.runner.TryRun(r.Context())
	switch {
	case errors.Is(err, pipeline.ErrRunning):
		http.Error(w, err.Error(), http.StatusConflict)
	case err != nil:
		s.logger.Error().Err(err).Msg("run failed")
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":   err.Error(),
			"results": results,
		})
	default:
		writeJSON(w, http.StatusOK, results)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServer exposes health, status, threshold configuration, and metrics.
type HTTPServer struct {
	lg     *slog.Logger
	store  *ThresholdStore
	eng    *Engine
	reload func() (Thresholds, error)
	http   *http.Server
}

// NewHTTPServer builds the controller API. reload re-reads the config file
// and returns validated thresholds; on success they are swapped into the
// store.
func NewHTTPServer(bind string, store *ThresholdStore, eng *Engine, reload func() (Thresholds, error), lg *slog.Logger) *HTTPServer {
	s := &HTTPServer{lg: lg, store: store, eng: eng, reload: reload}
	r := mux.NewRouter()
	r.HandleFunc("/health", s.getHealth).Methods("GET")
	r.HandleFunc("/status", s.getStatus).Methods("GET")
	r.HandleFunc("/config/thresholds", s.getThresholds).Methods("GET")
	r.HandleFunc("/config/thresholds", s.putThresholds).Methods("PUT")
	r.HandleFunc("/config/reload", s.postReload).Methods("POST")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	logged := handlers.LoggingHandler(os.Stdout, r)
	s.http = &http.Server{Addr: bind, Handler: logged}
	return s
}

func (s *HTTPServer) Start() error {
	s.lg.Info("http start", "bind", s.http.Addr)
	return s.http.ListenAndServe()
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.lg.Info("http stop")
	return s.http.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *HTTPServer) Handler() http.Handler { return s.http.Handler }

func (s *HTTPServer) getHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *HTTPServer) getStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.eng.Stats())
}

func (s *HTTPServer) getThresholds(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.store.Get())
}

func (s *HTTPServer) putThresholds(w http.ResponseWriter, r *http.Request) {
	var t Thresholds
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := s.store.Set(t); err != nil {
		if errors.Is(err, ErrThresholdOrder) || errors.Is(err, ErrTempBand) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.lg.Info("thresholds updated", "thresholds", t)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.store.Get())
}

func (s *HTTPServer) postReload(w http.ResponseWriter, _ *http.Request) {
	t, err := s.reload()
	if err != nil {
		s.lg.Error("reload", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.store.Set(t); err != nil {
		s.lg.Error("reload", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.lg.Info("thresholds reloaded", "thresholds", t)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("reloaded"))
}

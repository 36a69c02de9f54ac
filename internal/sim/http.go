package sim

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dalexaki/Showcase-IOT-grow-a-plant/internal/plant"
)

// StatusServer exposes the simulator's current plant state for inspection.
type StatusServer struct {
	lg    *slog.Logger
	model *plant.Model
	http  *http.Server
}

func NewStatusServer(bind string, model *plant.Model, lg *slog.Logger) *StatusServer {
	s := &StatusServer{lg: lg, model: model}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	s.http = &http.Server{Addr: bind, Handler: mux}
	return s
}

func (s *StatusServer) Start() error {
	s.lg.Info("http start", "bind", s.http.Addr)
	return s.http.ListenAndServe()
}

func (s *StatusServer) Stop(ctx context.Context) error {
	s.lg.Info("http stop")
	return s.http.Shutdown(ctx)
}

func (s *StatusServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *StatusServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.model.Snapshot())
}

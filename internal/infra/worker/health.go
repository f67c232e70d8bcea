package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthServer exposes the worker probes and its Prometheus metrics:
//   - /health: liveness, always 200
//   - /health/ready: 200 once the scheduler runs, 503 before and during shutdown
//   - /metrics: Prometheus exposition
type HealthServer struct {
	addr   string
	logger *slog.Logger
	ready  atomic.Bool
}

type probeBody struct {
	Status string `json:"status"`
}

// NewHealthServer creates a server that starts as not ready.
func NewHealthServer(addr string, logger *slog.Logger) *HealthServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthServer{addr: addr, logger: logger}
}

// Handler returns the probe and metrics routes.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleLiveness)
	mux.HandleFunc("GET /health/ready", h.handleReadiness)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

const shutdownGrace = 5 * time.Second

// Start serves until ctx is cancelled, then drains within shutdownGrace.
// A clean stop returns http.ErrServerClosed.
func (h *HealthServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("health server listen: %w", err)
	}
	srv := &http.Server{
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	stopped := make(chan error, 1)
	stop := context.AfterFunc(ctx, func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		stopped <- srv.Shutdown(drainCtx)
	})
	defer stop()

	h.logger.Info("worker probes listening", slog.String("addr", ln.Addr().String()))
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		h.logger.Error("worker probe server failed", slog.Any("error", err))
		return err
	}
	if err := <-stopped; err != nil {
		h.logger.Error("worker probe server did not drain", slog.Any("error", err))
		return err
	}
	return http.ErrServerClosed
}

// SetReady flips the readiness probe.
func (h *HealthServer) SetReady(ready bool) {
	h.ready.Store(ready)
	h.logger.Info("worker readiness changed", slog.Bool("ready", ready))
}

// Ready reports the current readiness.
func (h *HealthServer) Ready() bool {
	return h.ready.Load()
}

func (h *HealthServer) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	h.write(w, http.StatusOK, "ok")
}

func (h *HealthServer) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	if h.ready.Load() {
		h.write(w, http.StatusOK, "ok")
		return
	}
	h.write(w, http.StatusServiceUnavailable, "not ready")
}

func (h *HealthServer) write(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(probeBody{Status: status}); err != nil {
		h.logger.Error("failed to encode probe response", slog.Any("error", err))
	}
}

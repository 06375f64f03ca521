package metric

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c360/streamkit/errors"
)

// Server represents the metrics HTTP server
type Server struct {
	addr     string
	path     string
	logger   *slog.Logger
	registry *MetricsRegistry

	mu       sync.Mutex // protects server and listener fields
	server   *http.Server
	listener net.Listener
}

// NewServer creates a new metrics server with the provided registry.
// An empty addr defaults to ":9090" and an empty path to "/metrics".
// A nil logger falls back to slog.Default().
func NewServer(addr, path string, registry *MetricsRegistry, logger *slog.Logger) *Server {
	if path == "" {
		path = "/metrics"
	}
	if addr == "" {
		addr = ":9090"
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		addr:     addr,
		path:     path,
		logger:   logger,
		registry: registry,
	}
}

// Start binds the listen address and begins serving in the background.
// It returns once the listener is bound, so an addr of ":0" picks a free
// port that Address reports.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check if server is already running
	if s.server != nil {
		return errors.WrapInvalid(
			fmt.Errorf("server already running"),
			"Server", "Start", "cannot start server that is already running")
	}

	// Validate that we have a registry
	if s.registry == nil {
		return errors.WrapFatal(
			fmt.Errorf("nil registry"),
			"Server", "Start", "metrics registry not provided")
	}

	mux := http.NewServeMux()

	// Create Prometheus HTTP handler
	handler := promhttp.HandlerFor(
		s.registry.PrometheusRegistry(),
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		},
	)

	// Register the handler
	mux.Handle(s.path, handler)

	// Add a health endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Add a root handler with information
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprintf(w, `<html>
<head><title>StreamKit Metrics</title></head>
<body>
<h1>StreamKit Metrics Server</h1>
<p><a href="%s">Metrics</a></p>
<p><a href="/health">Health</a></p>
</body>
</html>`, s.path)
	})

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.WrapFatal(err, "Server", "Start",
			fmt.Sprintf("failed to listen on %s", s.addr))
	}

	s.listener = listener
	s.server = &http.Server{Handler: mux}

	go func(server *http.Server, ln net.Listener) {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("metrics server failed",
				"addr", ln.Addr().String(), "error", err)
		}
	}(s.server, listener)

	s.logger.Info("metrics server listening",
		"addr", listener.Addr().String(), "path", s.path)

	return nil
}

// Stop shuts the server down, draining in-flight scrapes until ctx expires
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}

	err := s.server.Shutdown(ctx)
	s.server = nil // reset server field to allow restart
	s.listener = nil
	if err != nil {
		return errors.WrapTransient(err, "Server", "Stop",
			"failed to stop HTTP server")
	}

	s.logger.Info("metrics server stopped")
	return nil
}

// Address returns the bound listen address, or the configured address when
// the server is not running
func (s *Server) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// URL returns the full metrics endpoint URL
func (s *Server) URL() string {
	return fmt.Sprintf("http://%s%s", s.Address(), s.path)
}

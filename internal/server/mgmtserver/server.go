package mgmtserver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

// DefaultSocketMode restricts the socket to its owner and group.
const DefaultSocketMode fs.FileMode = 0o660

// Server serves an http.Handler on a Unix domain socket.
type Server struct {
	path       string
	mode       fs.FileMode
	httpServer *http.Server
	listener   net.Listener
	running    atomic.Bool
	logger     *slog.Logger
}

// New creates a server for the socket at socketPath.
func New(socketPath string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		path: socketPath,
		mode: DefaultSocketMode,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		logger: logger,
	}
}

// Listen binds the socket, replacing a stale socket file left by a
// previous run.
func (s *Server) Listen() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create socket directory: %w", err)
	}
	if err := removeStaleSocket(s.path); err != nil {
		return err
	}

	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.path, err)
	}
	if err := os.Chmod(s.path, s.mode); err != nil {
		ln.Close()
		return fmt.Errorf("chmod %s: %w", s.path, err)
	}
	s.listener = ln
	return nil
}

// Serve accepts connections until Shutdown. It returns nil after a
// graceful shutdown.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("mgmtserver: Serve called before Listen")
	}
	s.running.Store(true)
	s.logger.Info("management API listening", "socket", s.path)

	err := s.httpServer.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) || !s.running.Load() {
		return nil
	}
	return err
}

// ListenAndServe binds the socket and serves.
func (s *Server) ListenAndServe() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Shutdown stops accepting connections, waits for active requests
// (bounded by ctx) and removes the socket file.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)
	err := s.httpServer.Shutdown(ctx)
	if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
		s.logger.Warn("failed to remove socket", "socket", s.path, "error", rmErr)
	}
	return err
}

// Path returns the socket path.
func (s *Server) Path() string {
	return s.path
}

// removeStaleSocket deletes path if it is a socket nobody listens on.
func removeStaleSocket(path string) error {
	fi, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if fi.Mode()&fs.ModeSocket == 0 {
		return fmt.Errorf("%s exists and is not a socket", path)
	}

	conn, err := net.DialTimeout("unix", path, time.Second)
	if err == nil {
		conn.Close()
		return fmt.Errorf("%s is in use by another process", path)
	}
	return os.Remove(path)
}

// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/logging"
	"github.com/spf13/afero"

	"github.com/vfsh/vfsh/internal/config"
	"github.com/vfsh/vfsh/internal/shell"
	"github.com/vfsh/vfsh/internal/vfs"
)

const (
	// StateCreated is a server that has not been started.
	StateCreated ServerState = iota
	// StateStarting is a server binding its listener.
	StateStarting
	// StateRunning is a server accepting connections.
	StateRunning
	// StateStopping is a server draining its sessions.
	StateStopping
	// StateStopped is a server that has shut down. Terminal.
	StateStopped
	// StateFailed is a server that could not start. Terminal.
	StateFailed
)

// ErrInvalidConfig is returned by New for an unusable Config.
var ErrInvalidConfig = errors.New("invalid SSH server config")

type (
	// ServerState represents the lifecycle state of the server.
	ServerState int32

	// Config is fixed for the life of a Server.
	Config struct {
		// Address is the host:port to bind to.
		Address string
		// HostKeyPath is the server's ed25519 host key, generated when missing.
		HostKeyPath string
		// AuthorizedKeysPath restricts logins to the listed keys. Empty accepts
		// every client.
		AuthorizedKeysPath string
		// ShutdownTimeout bounds how long Stop waits for open sessions.
		// Zero means 10s.
		ShutdownTimeout time.Duration
		// StartupTimeout bounds binding the listener. Zero means 5s.
		StartupTimeout time.Duration
	}

	// Environment is what every session is built from.
	Environment struct {
		// Guard confines all sessions to the same root.
		Guard *vfs.Guard
		// Table is the configuration shown by conf-dump.
		Table shell.ConfigTable
		// Script is replayed at the start of shell requests when set.
		Script string
		// ScriptFs is where Script is read from.
		ScriptFs afero.Fs
		// Host is shown in the prompt; the user is the SSH login name.
		Host string
		// ColorScheme selects the styles of shell requests.
		ColorScheme config.ColorScheme
	}

	// Server serves vfsh sessions over SSH. It is single-use: a stopped or
	// failed Server cannot be started again.
	Server struct {
		cfg    Config
		env    Environment
		logger *log.Logger

		state atomic.Int32
		ready chan struct{} // closed once Start has returned or Stop won the race
		done  chan struct{} // closed when the accept loop returns

		mu       sync.Mutex // guards the fields set by Start
		srv      *ssh.Server
		listener net.Listener
		addr     string
		serveErr error // set before done is closed
	}
)

// String returns the lowercase state name.
func (s ServerState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// New validates cfg and env and returns a server that is not yet listening.
// A nil logger logs to stderr with an "ssh-server" prefix.
func New(cfg Config, env Environment, logger *log.Logger) (*Server, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("%w: address is empty", ErrInvalidConfig)
	}
	if cfg.HostKeyPath == "" {
		return nil, fmt.Errorf("%w: host key path is empty", ErrInvalidConfig)
	}
	if env.Guard == nil {
		return nil, fmt.Errorf("%w: no virtual filesystem", ErrInvalidConfig)
	}
	if env.ScriptFs == nil {
		env.ScriptFs = afero.NewOsFs()
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = 5 * time.Second
	}

	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "ssh-server",
		})
	}

	s := &Server{
		cfg:    cfg,
		env:    env,
		logger: logger,
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}
	s.state.Store(int32(StateCreated))

	return s, nil
}

// newSSHServer builds the Wish server with authentication and the session
// middleware chain. The last middleware runs first.
func (s *Server) newSSHServer() (*ssh.Server, error) {
	opts := []ssh.Option{
		wish.WithAddress(s.cfg.Address),
		wish.WithHostKeyPath(s.cfg.HostKeyPath),
	}
	opts = append(opts, s.authOptions()...)
	opts = append(opts, wish.WithMiddleware(
		s.sessionMiddleware(),
		logging.StructuredMiddlewareWithLogger(s.logger, log.InfoLevel),
	))

	return wish.NewServer(opts...)
}

// Start binds the listener and begins accepting connections in the
// background. It fails when ctx is already done, when the address cannot be
// bound within StartupTimeout, or when the server was started before.
func (s *Server) Start(ctx context.Context) error {
	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return fmt.Errorf("cannot start server in state %s", s.State())
	}
	defer close(s.ready)

	if err := ctx.Err(); err != nil {
		s.state.Store(int32(StateFailed))
		return fmt.Errorf("context cancelled before start: %w", err)
	}

	srv, err := s.newSSHServer()
	if err != nil {
		s.state.Store(int32(StateFailed))
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	listenCtx, cancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer cancel()
	var lc net.ListenConfig
	ln, err := lc.Listen(listenCtx, "tcp", s.cfg.Address)
	if err != nil {
		s.state.Store(int32(StateFailed))
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address, err)
	}

	s.mu.Lock()
	s.srv, s.listener, s.addr = srv, ln, ln.Addr().String()
	s.mu.Unlock()

	if !s.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		// Stop ran while the listener was being bound.
		_ = ln.Close()
		s.mu.Lock()
		s.addr = ""
		s.mu.Unlock()
		return errors.New("server stopped during start")
	}

	go s.serve(srv, ln)
	s.logger.Info("SSH server started", "address", ln.Addr().String(), "root", s.env.Guard.Root())
	return nil
}

func (s *Server) serve(srv *ssh.Server, ln net.Listener) {
	defer close(s.done)
	err := srv.Serve(ln)
	if err == nil || errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
		return
	}
	s.mu.Lock()
	s.serveErr = fmt.Errorf("serve error: %w", err)
	s.mu.Unlock()
}

// Stop shuts the server down, waiting up to ShutdownTimeout for open
// sessions. Stopping a server that is not running is a no-op.
func (s *Server) Stop() error {
	for {
		switch st := s.State(); st {
		case StateCreated:
			if s.state.CompareAndSwap(int32(st), int32(StateStopped)) {
				close(s.ready)
				return nil
			}
		case StateStarting:
			if s.state.CompareAndSwap(int32(st), int32(StateStopped)) {
				return nil
			}
		case StateRunning:
			if s.state.CompareAndSwap(int32(st), int32(StateStopping)) {
				return s.shutdown()
			}
		case StateStopping:
			<-s.done
			return nil
		default:
			return nil
		}
	}
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	srv, ln := s.srv, s.listener
	s.mu.Unlock()

	err := srv.Shutdown(ctx)
	if errors.Is(err, net.ErrClosed) {
		err = nil
	}
	_ = ln.Close()
	<-s.done

	s.state.Store(int32(StateStopped))
	if err != nil {
		s.logger.Error("shutdown error", "error", err)
		return err
	}
	s.logger.Info("SSH server stopped")
	return nil
}

// Serve starts the server and blocks until ctx is done or the accept loop
// fails, then stops it. An accept failure takes precedence over a shutdown
// error.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-s.done:
	}
	stopErr := s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.serveErr != nil {
		return s.serveErr
	}
	return stopErr
}

// State returns the current lifecycle state.
func (s *Server) State() ServerState {
	return ServerState(s.state.Load())
}

// Address returns the bound host:port once Start has returned, or "" when
// the server never listened. It blocks until Start returns.
func (s *Server) Address() string {
	<-s.ready
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

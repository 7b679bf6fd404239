package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
)

// ErrNotLoopback is returned for listen addresses reachable from other hosts.
var ErrNotLoopback = errors.New("api address must be a loopback address")

const readHeaderTimeout = 5 * time.Second

// Server is a running API listener.
type Server struct {
	server   *http.Server
	listener net.Listener
	logger   hclog.Logger
}

// Listen binds addr and serves handler in the background. Only loopback
// hosts are accepted.
func Listen(addr string, handler http.Handler, logger hclog.Logger) (*Server, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if err := checkLoopback(addr); err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	server := &Server{
		server:   &http.Server{Handler: handler, ReadHeaderTimeout: readHeaderTimeout},
		listener: listener,
		logger:   logger.Named("api"),
	}
	go func() {
		if err := server.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.logger.Error("api server stopped", "error", err)
		}
	}()
	server.logger.Info("api listening", "addr", listener.Addr().String())
	return server, nil
}

// Addr returns the bound address, useful when listening on port 0.
func (server *Server) Addr() string {
	return server.listener.Addr().String()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (server *Server) Shutdown(ctx context.Context) error {
	if err := server.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown api: %w", err)
	}
	return nil
}

func checkLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("parse api address %q: %w", addr, err)
	}
	if host == "localhost" {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("%q: %w", addr, ErrNotLoopback)
	}
	return nil
}

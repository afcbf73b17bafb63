package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dtroode/attestkeeper-server/internal/model"
)

// Server runs an http.Handler with a managed lifecycle.
type Server struct {
	server *http.Server
}

var _ model.Server = (*Server)(nil)

func NewServer(handler http.Handler, addr string, readHeaderTimeout time.Duration) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// Start blocks until the server stops. A graceful Stop returns nil.
func (s *Server) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) Address() string {
	return s.server.Addr
}

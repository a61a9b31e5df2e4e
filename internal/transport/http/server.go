// Package http exposes the agent over a JSON API.
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sandevgo/pixbot/internal/config"
	"github.com/sandevgo/pixbot/pkg/log"
)

type Server struct {
	cfg    *config.HTTPConfig
	server *http.Server
}

func NewServer(ctx context.Context, cfg *config.HTTPConfig, handler *Handler) *Server {
	mux := http.NewServeMux()
	handler.Register(mux)

	return &Server{
		cfg: cfg,
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      mux,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			// Request contexts inherit the app context, so handlers log
			// through the configured logger.
			BaseContext: func(net.Listener) context.Context { return ctx },
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.cfg.Addr).Msg("starting http server")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

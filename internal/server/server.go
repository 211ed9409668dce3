package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Server runs the HTTP API.
type Server struct {
	httpServer *http.Server
	alive      *atomic.Bool
	drainDelay time.Duration
	stopped    chan struct{}
}

// New creates a server for handler on addr. alive turns false once a
// shutdown starts.
func New(addr string, handler *gin.Engine, alive *atomic.Bool, drainDelay time.Duration) *Server {
	if alive == nil {
		alive = &atomic.Bool{}
	}
	alive.Store(true)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		alive:      alive,
		drainDelay: drainDelay,
		stopped:    make(chan struct{}),
	}
}

// Start serves until the server is shut down and in-flight requests are done.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")

	err := s.httpServer.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-s.stopped
	return nil
}

// WaitShutdown blocks until SIGINT or SIGTERM, then shuts the server down
// gracefully.
func (s *Server) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown marks the server unhealthy, waits the drain delay and stops
// accepting requests, letting in-flight ones finish.
func (s *Server) Shutdown() {
	defer close(s.stopped)

	s.alive.Store(false)
	if s.drainDelay > 0 {
		log.Info().Dur("delay", s.drainDelay).Msg("graceful shutdown: failing health checks while draining")
		time.Sleep(s.drainDelay)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info().Msg("stopping http server ...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
		return
	}
	log.Info().Msg("http server was stopped")
}

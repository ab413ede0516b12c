// Package api exposes the selector use cases over HTTP for the browser
// extension.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"omnifetch/internal/config"
	"omnifetch/internal/usecase"
	"omnifetch/pkg/logg"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	serverName        = "APIServer"
	readHeaderTimeout = 5 * time.Second
)

type Server struct {
	config  *config.APIConfig
	logger  *zap.Logger
	handler *Handler
	server  *http.Server
}

type Params struct {
	fx.In

	Config  *config.Config
	Logger  *zap.Logger
	Usecase *usecase.Service
}

func NewServer(params Params) *Server {
	logger := params.Logger.With(zap.String(logg.Layer, serverName))

	return &Server{
		config:  params.Config.APIConfig,
		logger:  logger,
		handler: NewHandler(params.Usecase, logger),
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger), cors())

	router.GET("/health", s.handler.Health)
	router.POST("/", s.handler.Selector)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/selector", s.handler.Selector)
		v1.GET("/datasets", s.handler.Datasets)
	}

	return router
}

// Start binds the listener synchronously so address errors fail app start,
// then serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("HTTP API disabled")

		return nil
	}

	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", s.config.Addr)
	if err != nil {
		return err
	}

	s.server = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	s.logger.Info("HTTP API listening", zap.String("addr", listener.Addr().String()))

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("Shutting down HTTP API...")

	return s.server.Shutdown(ctx)
}

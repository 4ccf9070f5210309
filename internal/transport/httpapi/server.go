package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sandevgo/animus/internal/config"
	"github.com/sandevgo/animus/internal/service/chat"
	"github.com/sandevgo/animus/pkg/log"
)

// Server is the HTTP edge of the gateway. It implements srv.Service.
type Server struct {
	httpServer *http.Server
}

func NewServer(ctx context.Context, cfg *config.AppConfig, svc *chat.Service) *Server {
	if !config.IsDebug() {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           NewRouter(ctx, svc),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func NewRouter(ctx context.Context, svc *chat.Service) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestLogger(ctx))

	h := newHandler(svc)
	engine.GET("/healthz", h.health)
	engine.POST("/chat", h.chat)
	engine.GET("/conversations/:id/messages", h.messages)
	engine.GET("/messages/:id/metric", h.metric)
	engine.GET("/personalities/:id/boundaries", h.boundaries)

	return engine
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.httpServer.Addr).Msg("starting http server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

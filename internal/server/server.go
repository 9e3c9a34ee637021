package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Hegee0307/metadata-removal-api/internal/config"
	"github.com/Hegee0307/metadata-removal-api/internal/handler"
	"github.com/Hegee0307/metadata-removal-api/internal/repository"
	"github.com/Hegee0307/metadata-removal-api/internal/service"
)

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	objects, err := repository.NewObjectRepository(&cfg.S3, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create object repository: %w", err)
	}

	fetcher := repository.NewURLFetcher(cfg.App.FetchTimeout, cfg.App.FetchMaxRedirect, log)

	cleanService := service.NewCleanService(objects, fetcher, cfg, log)

	h := handler.NewHandler(cleanService, cfg, log)

	router.Use(requestID(), requestLogger(log), gin.CustomRecovery(h.Recovery))

	router.GET("/", h.Info)
	router.GET("/health", h.HealthCheck)
	router.POST("/remove-metadata", h.RemoveMetadata)
	router.POST("/remove-metadata-url", h.RemoveMetadataURL)
	router.POST("/remove-metadata-object", h.RemoveMetadataObject)

	server := &Server{
		httpServer: &http.Server{
			Addr:           cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:        router,
			ReadTimeout:    60 * time.Second,
			WriteTimeout:   60 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		cfg: cfg,
		log: log,
	}

	log.Info("Server created successfully",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port))

	return server, nil
}

func (s *Server) Run() error {
	s.log.Info("Server is running",
		zap.String("address", s.httpServer.Addr))

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}

// requestID tags every request with an ID, echoed back to the client.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("Request handled",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

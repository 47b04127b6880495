package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"carprice/internal/config"
	"carprice/internal/handler"
	"carprice/internal/service"
	"carprice/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// newRouter wires the handlers, operational endpoints and static assets
func newRouter(a *app) (*gin.Engine, error) {
	cfg := a.cfg

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(a.logger))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	corsConfig.AllowCredentials = !containsWildcard(cfg.Server.AllowedOrigins)
	router.Use(cors.New(corsConfig))

	// Templates and static files
	// webFiles is implemented in embed.go (production) or static_dev.go (development)
	files := webFiles(cfg)
	tmpl, err := web.Templates(files)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)
	static, err := web.Static(files)
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	router.StaticFS("/static", http.FS(static))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "healthy",
			"service":      "car-price-predictor",
			"version":      Version,
			"model":        fmt.Sprint(a.predictor),
			"catalog_rows": a.catalog.Len(),
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(a.metrics.Handler()))

	// Initialize services
	auth := service.NewAuthService(0, a.metrics)
	sessions := handler.NewSessionMiddleware(
		service.NewSessionStore(cfg.Session.TTL),
		handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.Secure,
		},
	)

	// Initialize handlers
	handlers := &handler.Handlers{
		Sessions: sessions,
		Auth:     handler.NewAuthHandler(auth, sessions),
		Predict:  handler.NewPredictHandler(a.prediction),
		API:      handler.NewAPIHandler(a.prediction),
	}
	handlers.Register(router)

	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.String(http.StatusNotFound, "404 page not found")
	})

	return router, nil
}

// serve runs the HTTP server until SIGINT or SIGTERM
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	printBanner(logger)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	a, err := loadApp(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("load artifacts: %w", err)
	}
	defer a.Close()

	logger.Info("✅ Services initialized")

	router, err := newRouter(a)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	logger.Info("🚀 Starting server", "addr", addr)
	logger.Info("🌐 Web UI", "url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-quit:
	case <-ctx.Done():
	}

	logger.Info("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("✅ Server stopped")
	return nil
}

// requestLogger logs one structured line per request
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"client_ip", c.ClientIP(),
		)
	}
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"obscond/internal/adapters/primary/http/handlers"
	"obscond/internal/adapters/primary/http/middleware"
	"obscond/internal/adapters/secondary/weather"
	"obscond/internal/core/domain"
	"obscond/internal/core/services"
	"obscond/internal/metrics"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bandpass, depth, potential, weather and run API over HTTP.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port, _ = cmd.Flags().GetInt("port")
			}
			return a.serve()
		},
	}
	cmd.Flags().Int("port", 0, "listen port (overrides SERVER_PORT)")
	return cmd
}

func (a *app) serve() error {
	cfg := a.cfg

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters
	bandpassSvc, bp, err := bandpassService(cfg)
	if err != nil {
		return err
	}
	calc, sky := skyCalculator(cfg, bandpassSvc, bp)

	results, closeResults, err := openResults(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer closeResults()

	// Weather histories (optional)
	var weatherData *domain.WeatherData
	if cfg.Weather.SeeingFile != "" && cfg.Weather.CloudFile != "" {
		startDate := cfg.Weather.StartDate
		weatherData, err = weather.Load(cfg.Weather.SeeingFile, cfg.Weather.CloudFile, &startDate)
		if err != nil {
			log.Warnf("weather histories unavailable (continuing without weather endpoints): %v", err)
			weatherData = nil
		}
	} else {
		log.Info("weather histories not configured")
	}

	// Core Services
	potentialSvc := services.NewPotentialService(sky)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(bandpassSvc, calc, potentialSvc, weatherData, results)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), middleware.Metrics(), gin.Recovery())

	api := router.Group("/api/v1/obscond")
	h.RegisterRoutes(api)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mushtrack/internal/api"
	"mushtrack/internal/database"
	"mushtrack/internal/monitoring"
	"mushtrack/internal/ws"
)

var (
	port        = flag.Int("port", 8080, "API server port")
	metricsPort = flag.Int("metrics-port", 9090, "Metrics server port")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	// A .env beside the binary overrides nothing, it just seeds the
	// environment for the config loader.
	_ = godotenv.Load()

	// Initialize context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	config, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// Flags passed explicitly win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			config.Server.Port = *port
		case "metrics-port":
			config.Metrics.Port = *metricsPort
		}
	})

	logger, err := newLogger(config.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := database.Open(config.Database.Driver, config.Database.DSN)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	store := database.NewStore(db)

	// Initialize metrics
	collector := monitoring.NewCollector()
	monitor := monitoring.NewMonitor()

	// Initialize event feed
	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	// Initialize API server
	server := api.NewServer(store, hub, collector, monitor, logger, config.Stats.FYStartMonth)

	// Start metrics server
	if config.Metrics.Enabled {
		go startMetricsServer(config.Metrics.Port, config.Metrics.Path, collector, logger)
	}

	// Start API server
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Server.Port),
		Handler: server.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down servers")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("API server shutdown", zap.Error(err))
		}

		cancel() // Cancel main context
	}()

	logger.Info("starting API server", zap.Int("port", config.Server.Port))
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("API server error", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		parsed, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
		cfg.Level = parsed
	}
	return cfg.Build()
}

func startMetricsServer(port int, path string, collector *monitoring.Collector, logger *zap.Logger) {
	if path == "" {
		path = "/metrics"
	}
	router := gin.New()
	router.GET(path, gin.WrapH(promhttp.HandlerFor(collector.Registry(), promhttp.HandlerOpts{})))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	logger.Info("starting metrics server", zap.Int("port", port))
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		logger.Error("metrics server error", zap.Error(err))
	}
}

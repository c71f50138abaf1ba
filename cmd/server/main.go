package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"searchlog/internal/config"
	"searchlog/internal/jobs"
	"searchlog/internal/metrics"
	"searchlog/internal/server"
	"searchlog/internal/terms"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	if !cfg.IsDev() {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	// Load policy overrides
	yamlCfg, err := config.LoadYAMLConfig(cfg.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load config file %s: %v", cfg.ConfigFile, err)
	}
	policy := yamlCfg.TermPolicy()
	log.Printf("Consolidation policy: merge window %v, max distance %d, cache ttl %v",
		policy.MergeWindow, policy.MaxMergeDistance, policy.GlobalCacheTTL)

	// Initialize store
	repo, closeStore, err := server.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	svc := terms.NewService(repo, policy)
	metrics.Init(prometheus.DefaultRegisterer, svc)

	// Start background consolidation
	if cfg.SweepInterval > 0 {
		go jobs.NewConsolidator(svc, cfg.SweepInterval).Start(ctx)
	} else {
		log.Println("Background consolidation disabled")
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(svc)

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/steamseek/steamseek/internal/app"
	"github.com/steamseek/steamseek/internal/cache"
	"github.com/steamseek/steamseek/internal/catalog"
	"github.com/steamseek/steamseek/internal/config"
	"github.com/steamseek/steamseek/internal/search"
	"github.com/steamseek/steamseek/internal/server"
	"github.com/steamseek/steamseek/internal/steam"
	"github.com/steamseek/steamseek/internal/steamgrid"
)

func main() {
	refreshOnly := flag.Bool("refresh-only", false, "Fetch the catalog, write the snapshot, and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := app.NewLogger(cfg.Log)

	steamClient := steam.NewClient(cfg.Steam.APIBase, cfg.Steam.StoreBase, cfg.Steam.Timeout)
	gridClient := steamgrid.NewClient(cfg.SteamGrid.BaseURL, cfg.SteamGrid.APIKey, cfg.SteamGrid.Timeout)
	if cfg.SteamGrid.APIKey == "" {
		logger.Warn("STEAMGRID_API_KEY not set, asset endpoints will return empty results")
	}

	store := catalog.NewStore(cfg.Catalog.SnapshotPath, steamClient, cfg.Search.Cutoff, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *refreshOnly {
		if err := store.Refresh(ctx); err != nil {
			logger.Error("catalog refresh failed", "error", err)
			os.Exit(1)
		}
		return
	}

	store.Load(ctx)
	if !store.Ready() {
		logger.Warn("starting without a catalog, requests will see 503 until a refresh succeeds")
	}

	c := cache.New()
	svc := search.NewService(store, c, search.Options{
		MaxCandidates: cfg.Search.MaxCandidates,
		ResultTTL:     cfg.Cache.SearchTTL,
	})

	handlers := server.NewHandlers(svc, store, steamClient, gridClient, c, cfg.Search, cfg.Cache, logger)
	srv := server.New(cfg.Server, handlers)

	go store.Run(ctx, cfg.Catalog.RefreshInterval)

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done
	cancel()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
}

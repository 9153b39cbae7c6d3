package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"buspredictor/internal/config"
	"buspredictor/internal/groups"
	"buspredictor/internal/gtfs"
	"buspredictor/internal/handler"
	"buspredictor/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// CLI flags
	importOnly := flag.Bool("import-gtfs", false, "Download GTFS data, then exit")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	flag.StringVar(&cfg.GTFSDir, "gtfs-dir", cfg.GTFSDir, "Directory with the GTFS .txt tables")
	flag.Parse()
	cfg.ImportGTFS = *importOnly

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Fetch the feed zip when the tables aren't shipped with the deployment.
	if cfg.GTFSURL != "" {
		downloader := gtfs.NewDownloader(cfg.GTFSURL, cfg.GTFSDir, logger)
		if cfg.ImportGTFS {
			if err := downloader.Download(ctx); err != nil {
				logger.Error("GTFS import failed", "error", err)
				os.Exit(1)
			}
			logger.Info("GTFS import complete")
			return
		}
		if err := downloader.EnsureData(ctx); err != nil {
			logger.Error("failed to ensure GTFS data", "error", err)
			os.Exit(1)
		}
	} else if cfg.ImportGTFS {
		logger.Error("-import-gtfs requires BUSPRED_GTFS_URL")
		os.Exit(1)
	}

	// Load eagerly so malformed source tables refuse to serve at all.
	store := gtfs.NewStore(cfg.GTFSDir, logger)
	if _, err := store.Tables(); err != nil {
		logger.Error("failed to load GTFS tables", "error", err)
		os.Exit(1)
	}

	gc := groups.NewClient(cfg.RemoteConfigURL, logger)
	h := handler.New(store, gc, cfg, logger)
	srv := server.New(cfg, h, logger)

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
		os.Exit(0)
	}()

	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

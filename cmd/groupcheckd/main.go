package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"groupcheck/internal/catalog"
	"groupcheck/internal/config"
	"groupcheck/internal/history"
	"groupcheck/internal/logging"
	"groupcheck/internal/review"
	"groupcheck/internal/server"
	"groupcheck/internal/session"
	"groupcheck/internal/verified"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Error("ensure directories", logging.Error(err))
		os.Exit(1)
	}

	// A missing or malformed catalog is the one fatal data error: the
	// server must not start without something to review.
	cat, err := catalog.Load(cfg.Paths.CatalogPath, catalog.Ordering(cfg.Catalog.Ordering))
	if err != nil {
		logger.Error("load catalog", logging.Error(err))
		os.Exit(1)
	}
	logger.Info("catalog loaded",
		logging.String("path", cfg.Paths.CatalogPath),
		logging.Int("groups", cat.Len()),
		logging.Int("items", cat.ItemCount()),
	)

	var hist *history.Store
	if cfg.History.Enabled {
		hist, err = history.Open(cfg.HistoryPath())
		if err != nil {
			logger.Error("open history store", logging.Error(err))
			os.Exit(1)
		}
		defer hist.Close()
	}

	sessions := session.NewManager(time.Duration(cfg.Review.SessionTTLMinutes) * time.Minute)
	store := verified.NewStore(cfg.Paths.DataDir, logger)
	svc := review.NewService(cat, sessions, store, hist, logger)

	srv, err := server.New(cfg, svc, cat, sessions, logger)
	if err != nil {
		logger.Error("create server", logging.Error(err))
		os.Exit(1)
	}
	if err := srv.Start(ctx); err != nil {
		logger.Error("start server", logging.Error(err))
		os.Exit(1)
	}

	<-ctx.Done()
	srv.Stop()
	logger.Info("groupcheckd shutting down")
}

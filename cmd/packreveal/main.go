package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/packreveal/internal/assets"
	"github.com/jask/packreveal/internal/bridge"
	"github.com/jask/packreveal/internal/catalog"
	"github.com/jask/packreveal/internal/config"
	"github.com/jask/packreveal/internal/database"
	"github.com/jask/packreveal/internal/database/repository"
	"github.com/jask/packreveal/internal/reveal"
	"github.com/jask/packreveal/internal/service"
	"github.com/jask/packreveal/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closeLog, err := openLogger(cfg.Log)
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	if created, err := config.WriteDefaultsIfMissing(); err != nil {
		logger.Warn("write default config", "path", config.Path(), "err", err)
	} else if created {
		logger.Info("wrote default config", "path", config.Path())
	}

	client := &http.Client{Timeout: cfg.Assets.Timeout}

	var cache *repository.CatalogRepo
	if cfg.Catalog.CachePath != "" {
		db, err := database.OpenMigrated(cfg.Catalog.CachePath)
		if err != nil {
			// the cache is an optimisation; run without it
			logger.Warn("catalog cache unavailable", "path", cfg.Catalog.CachePath, "err", err)
		} else {
			defer closeDB(logger, db)
			cache = repository.NewCatalogRepo(db)
		}
	}

	catalogs := &service.CatalogService{
		Source:   catalog.NewSource(cfg.Catalog.URL, client),
		Rewriter: catalog.Rewriter{BucketHost: cfg.Catalog.BucketHost, Proxied: cfg.Catalog.Proxied},
		Cache:    cache,
		Logger:   logger,
	}
	preloader := &assets.Preloader{
		Fetcher:     &assets.HTTPFetcher{Client: client, BaseURL: cfg.Assets.BaseURL},
		Concurrency: cfg.Assets.Concurrency,
		Timeout:     cfg.Assets.Timeout,
		Logger:      logger,
	}
	machine := reveal.NewMachine(reveal.Options{
		HandSize: cfg.Reveal.HandSize,
		Timings: reveal.Timings{
			PackOpen:   cfg.Reveal.PackOpen,
			CycleTop:   cfg.Reveal.CycleTop,
			PhaseBlend: cfg.Reveal.PhaseBlend,
		},
		Logger: logger,
	})

	deps := tui.Deps{
		Catalog:       catalogs,
		Preloader:     preloader,
		Machine:       machine,
		Scene:         reveal.NewScene(),
		FrameInterval: cfg.FrameInterval(),
		Logger:        logger,
	}

	if cfg.Bridge.Addr != "" {
		feed := bridge.NewFeed()
		srv, err := bridge.New(feed, bridge.Options{
			ImagesUpstream: "https://" + cfg.Catalog.BucketHost,
			Logger:         logger,
		})
		if err != nil {
			log.Fatalf("bridge: %v", err)
		}
		go func() {
			if err := srv.Start(cfg.Bridge.Addr); err != nil {
				logger.Error("bridge stopped", "addr", cfg.Bridge.Addr, "err", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				logger.Warn("bridge shutdown", "err", err)
			}
		}()
		deps.Feed = feed
	}

	p := tea.NewProgram(tui.New(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Printf("error: %v\n", err)
	}
}

// openLogger writes JSON logs to the configured file. The terminal belongs
// to the TUI.
func openLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		level = slog.LevelInfo
	}
	h := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})
	return slog.New(h), func() { _ = f.Close() }, nil
}

func closeDB(logger *slog.Logger, db *sql.DB) {
	if err := db.Close(); err != nil {
		logger.Warn("close catalog cache", "err", err)
	}
}

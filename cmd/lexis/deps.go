package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ersonp/lexis/internal/application/handlers"
	"github.com/ersonp/lexis/internal/domain/ports"
	"github.com/ersonp/lexis/internal/domain/services"
	"github.com/ersonp/lexis/internal/infrastructure/cache"
	"github.com/ersonp/lexis/internal/infrastructure/config"
	llm "github.com/ersonp/lexis/internal/infrastructure/llm/openai"
	"github.com/ersonp/lexis/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config         *config.Config
	Logger         *slog.Logger
	StringsHandler *handlers.StringsHandler
	QueryHandler   *handlers.QueryHandler
}

// internalDeps holds all dependencies including low-level components.
type internalDeps struct {
	Deps
	service *services.StringService
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withInternalDeps provides access to all dependencies including low-level components.
func withInternalDeps(fn func(*internalDeps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}

	if cfg.SQLite.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLite.Path), 0o755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}

	repo, err := sqlite.NewRepository(cfg.SQLite)
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(context.Background()); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	store, err := cache.Wrap(repo, cfg.Cache.Size)
	if err != nil {
		return fmt.Errorf("creating cache: %w", err)
	}

	interpreter, err := newInterpreter(cfg.LLM, logger)
	if err != nil {
		return err
	}

	service := services.NewStringService(store, interpreter, logger)

	deps := &internalDeps{
		Deps: Deps{
			Config:         cfg,
			Logger:         logger,
			StringsHandler: handlers.NewStringsHandler(service),
			QueryHandler:   handlers.NewQueryHandler(service),
		},
		service: service,
	}

	return fn(deps)
}

// withImportHandler creates an ImportHandler and calls the provided function.
func withImportHandler(fn func(*handlers.ImportHandler) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		importService := services.NewImportService(d.service)
		return fn(handlers.NewImportHandler(importService))
	})
}

// withExportHandler creates an ExportHandler and calls the provided function.
func withExportHandler(fn func(*handlers.ExportHandler) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(handlers.NewExportHandler(d.service))
	})
}

// newLogger builds the process logger from the log section of the config.
func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// newInterpreter returns the model-backed query interpreter, or nil when the
// fallback is disabled.
func newInterpreter(cfg config.LLMConfig, logger *slog.Logger) (ports.QueryInterpreter, error) {
	if !cfg.NLFallback {
		return nil, nil
	}
	if cfg.APIKey == "" {
		logger.Warn("llm.nl_fallback is enabled but no API key is set; natural-language fallback disabled")
		return nil, nil
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating llm client: %w", err)
	}
	return client, nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmorrel/seqprep/internal/artifact"
	"github.com/jmorrel/seqprep/internal/catalog"
	"github.com/jmorrel/seqprep/internal/config"
	"github.com/jmorrel/seqprep/internal/domain/build"
	"github.com/jmorrel/seqprep/internal/domain/source"
	"github.com/jmorrel/seqprep/internal/domain/split"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if err := ensureDBDir(cfg.Catalog.Path); err != nil {
		return fmt.Errorf("preparing catalog path: %w", err)
	}
	db, err := catalog.New(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrating catalog: %w", err)
	}
	runs := catalog.NewRunRepository(db)

	if prev, err := runs.List(ctx, cfg.Data.Dataset, 1); err != nil {
		logger.Warn("failed to read run catalog", "error", err)
	} else if len(prev) > 0 {
		logger.Info("previous build found",
			"dataset", cfg.Data.Dataset,
			"at", prev[0].CreatedAt,
			"users", prev[0].Users,
			"items", prev[0].Items)
	}

	store := artifact.NewStore(cfg.Data.Root)
	provider := source.ForDataset(cfg.Data.RawPath, cfg.Data.Dataset, logger)
	builder := build.NewService(provider, store, build.RandomIndexer{}, build.PlaceholderFeatures{}, logger)

	start := time.Now()
	summary, err := builder.Run(ctx, cfg.Data.Dataset, build.Options{
		RatingThreshold: cfg.Build.RatingThreshold,
		MinInteractions: cfg.Build.MinInteractions,
		MinItems:        cfg.Build.MinItems,
	})
	if err != nil {
		return fmt.Errorf("building canonical artifact: %w", err)
	}

	if err := runs.Record(ctx, &catalog.Run{
		Dataset:      cfg.Data.Dataset,
		Source:       summary.Source,
		RawRecords:   summary.RawRecords,
		Dropped:      summary.Dropped,
		Interactions: summary.Interactions,
		Users:        summary.Users,
		Items:        summary.Items,
		Duration:     time.Since(start),
	}); err != nil {
		logger.Warn("failed to record build run", "error", err)
	}

	reader, err := split.NewReader(store, cfg.Data.Dataset, cfg.Split.MaxSeqLen, cfg.Data.ItemFeatures, logger)
	if err != nil {
		return fmt.Errorf("generating splits: %w", err)
	}

	stats := reader.Stats()
	splits := reader.Splits()
	logger.Info("pipeline complete",
		"dataset", cfg.Data.Dataset,
		"n_users", stats.NUsers,
		"n_items", stats.NItems,
		"train", splits.Train.Len(),
		"valid", splits.Valid.Len(),
		"test", splits.Test.Len())
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

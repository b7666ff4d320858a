package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/conversant/threadstore/internal/config"
	"github.com/conversant/threadstore/internal/database"
	"github.com/conversant/threadstore/internal/store"
)

// runProvision brings the schema to the required generation. Safe to run on
// every deployment; the DDL converges.
func runProvision() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.Open(ctx, cfg.PostgresConnectionString())
	if err != nil {
		return err
	}
	defer pool.Close()

	st := store.New(pool, store.Config{
		Driver:              cfg.Driver,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	}, slog.Default())
	defer st.Close()

	if err := st.Setup(ctx); err != nil {
		return fmt.Errorf("failed to provision schema: %w", err)
	}

	slog.Info("schema provisioned",
		"host", cfg.PostgresHost,
		"database", cfg.PostgresDBName,
		"embedding_dimensions", cfg.EmbeddingDimensions)
	return nil
}

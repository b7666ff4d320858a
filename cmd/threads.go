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

// runThreads prints the thread listing for the given channel IDs.
func runThreads(channelIDs []string) error {
	if len(channelIDs) == 0 {
		return fmt.Errorf("usage: threadstore threads <channelID>...")
	}

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

	threads, err := st.Threads(ctx, channelIDs)
	if err != nil {
		return err
	}

	if len(threads) == 0 {
		fmt.Println("No threads found.")
		return nil
	}

	for _, t := range threads {
		title := t.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%s  %-40s  replies=%d  channel=%s\n", t.ID, title, t.ReplyCount, t.ChannelID)
	}
	return nil
}

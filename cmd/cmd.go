// Package cmd provides CLI commands for threadstore.
//
// Commands:
//   - provision: bring the database schema to the required generation
//   - threads: list assistant threads for one or more channels
//
// Signal handling and graceful shutdown are implemented for all commands via
// context cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
)

// Execute is the main entry point for the threadstore CLI.
func Execute() error {
	// Initialize logger once at entry point
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "provision":
		return runProvision()
	case "threads":
		return runThreads(os.Args[2:])
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("threadstore - persistence layer for assistant conversation state")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  threadstore provision            Provision schema (extension + tables), idempotent")
	fmt.Println("  threadstore threads <channel>... List assistant threads in the given channels")
	fmt.Println("  threadstore --version            Show version information")
	fmt.Println("  threadstore --help               Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DATABASE_URL       postgres:// connection URL (overrides THREADSTORE_POSTGRES_*)")
	fmt.Println("  THREADSTORE_*      Individual settings (POSTGRES_HOST, POSTGRES_PORT, ...)")
	fmt.Println("  DEBUG              Optional: Enable debug logging")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/spreadtable/internal/cli"
	"github.com/JonMunkholm/spreadtable/internal/config"
	"github.com/JonMunkholm/spreadtable/internal/core"
	"github.com/JonMunkholm/spreadtable/internal/logging"
)

func main() {
	// Load .env file if it exists; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(cfg).ExecuteContext(ctx); err != nil {
		var ue *core.UserError
		if errors.As(err, &ue) {
			slog.Debug("command failed", "error", ue.Technical)
			fmt.Fprintf(os.Stderr, "error: %s (Code: %s). %s\n", ue.User.Message, ue.User.Code, ue.User.Action)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		stop()
		os.Exit(1)
	}
}

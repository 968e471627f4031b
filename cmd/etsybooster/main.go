package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/etsy-booster-kit/internal/cli"
	"github.com/shouni/etsy-booster-kit/internal/observability"
)

func main() {
	slog.SetDefault(observability.NewLogger(os.Stderr, "info"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, &cli.App{}); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

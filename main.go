package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/vocabdrill/internal/cli"
)

func main() {
	// Cancel the command context on Ctrl+C or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.RootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

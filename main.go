// ./main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/tinybrowser/cmd"
	"github.com/xkilldash9x/tinybrowser/internal/observability"
)

// main is the entry point for the tinybrowser CLI.
func main() {
	// Cancelling stops batch scheduling; passes already running complete.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cmd.Execute(ctx)
	stop()
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}

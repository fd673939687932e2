// Package main runs the Atlas CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	atlascmd "github.com/atlasos/atlas/internal/cmd/atlas"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := atlascmd.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "atlas: %v\n", err)
		os.Exit(1)
	}
}

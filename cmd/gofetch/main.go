// Package main is the entry point for the gofetch CLI.
//
// gofetch is a command-line HTTP client with per-attempt deadlines and
// bounded exponential-backoff retries. Any received response is final,
// whatever its status class; only transport failures are retried.
//
// Commands: get, call, version.
//
// For detailed usage information, run:
//
//	gofetch --help
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gaborage/go-fetch/cmd/gofetch/commands"
	"github.com/gaborage/go-fetch/cmd/gofetch/handlers"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// An interrupt cancels the in-flight execution rather than killing
	// the process, so the executor can report a cancelled outcome.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	if err := commands.Root().ExecuteContext(ctx); err != nil {
		var exitErr *handlers.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Err != nil {
				fmt.Fprintln(os.Stderr, "Error:", exitErr.Err)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(handlers.ExitConfig)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sdejongh/differ/internal/cli"
	"github.com/sdejongh/differ/pkg/models"
)

func main() {
	os.Exit(run())
}

func run() int {
	// SIGINT and SIGTERM cancel the running operation
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return models.RunFailed.ExitCode()
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/getlrc/internal/shared"
)

const version = "0.1.0"

func main() {
	logger := shared.NewLogger(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{Logger: logger})
	if err := runner.app().Run(ctx, os.Args); err != nil {
		stop()
		logger.Fatalf("%v", err)
	}
}

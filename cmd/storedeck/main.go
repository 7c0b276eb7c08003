package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/raushankrgupta/storedeck/config"
	"github.com/raushankrgupta/storedeck/logging"
	"github.com/raushankrgupta/storedeck/pipeline"
	"go.uber.org/zap"
)

type deckRunner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// newRunner wires the pipeline from configuration. The returned func releases
// its collaborators.
var newRunner = func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (deckRunner, func(), error) {
	deps, err := pipeline.NewFromConfig(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return deps.Pipeline, deps.Close, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 2 || args[0] == "" || args[1] == "" {
		fmt.Fprintln(os.Stderr, "usage: storedeck <storeUrl> <toEmail>")
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Printf("Failed to build logger: %v", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, release, err := newRunner(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to wire pipeline", zap.Error(err))
		return 1
	}
	defer release()

	res, err := runner.Run(ctx, pipeline.Request{StoreURL: args[0], ToEmail: args[1]})
	if err != nil {
		if errors.Is(err, pipeline.ErrInsufficientProducts) {
			fmt.Fprintf(os.Stderr, "Not enough valid products found for %s\n", args[0])
		}
		return 1
	}

	fmt.Printf("Deck saved as %s\n", res.Path)
	for _, note := range res.Record.DeliveryNotes {
		fmt.Printf("  %s\n", note)
	}
	return 0
}

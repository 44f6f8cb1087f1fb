package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/Jamie-38/irc-message-relay/internal/config"
	"github.com/Jamie-38/irc-message-relay/internal/events"
	"github.com/Jamie-38/irc-message-relay/internal/httpapi"
	kstream "github.com/Jamie-38/irc-message-relay/internal/kafka"
	"github.com/Jamie-38/irc-message-relay/internal/observe"
)

func main() {
	lg := observe.C("relay_api")

	if err := config.LoadEnv(); err != nil {
		lg.Warn("env file not loaded", "err", err)
	}

	cfg, err := config.FromEnv()
	if err == nil {
		err = cfg.Require("HTTP_API_HOST", "HTTP_API_PORT", "KAFKA_BROKERS", "KAFKA_TOPIC")
	}
	if err != nil {
		lg.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	// ctx canceled by signal
	root, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(root)

	submitCh := make(chan events.Event, 1000)

	// kafka writer (lifecycle tied to main)
	w := kstream.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() {
		if err := w.Close(); err != nil {
			lg.Warn("kafka writer close failed", "err", err)
		}
	}()

	lg.Info("starting", "address", cfg.HTTPAddr(), "topic", cfg.KafkaTopic)

	// HTTP intake -> submitCh
	g.Go(func() error {
		return httpapi.Run(ctx, cfg.HTTPAddr(), httpapi.NewController(submitCh, nil))
	})

	// submitCh -> Kafka
	g.Go(func() error { return kstream.Produce(ctx, w, submitCh) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("fatal pipeline error", "err", err)
		os.Exit(1)
	}
	lg.Info("shutdown complete")
}

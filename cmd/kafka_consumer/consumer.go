package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/Jamie-38/irc-message-relay/internal/config"
	"github.com/Jamie-38/irc-message-relay/internal/events"
	kstream "github.com/Jamie-38/irc-message-relay/internal/kafka"
	"github.com/Jamie-38/irc-message-relay/internal/observe"
)

// Tails the topic and prints each message in its compatibility form.
func main() {
	lg := observe.C("kafka_consumer")

	if err := config.LoadEnv(); err != nil {
		lg.Warn("env file not loaded", "err", err)
	}
	cfg, err := config.FromEnv()
	if err == nil {
		err = cfg.Require("KAFKA_BROKERS", "KAFKA_TOPIC", "KAFKA_GROUPID")
	}
	if err != nil {
		lg.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := kstream.NewReader(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID)
	defer func() {
		if err := r.Close(); err != nil {
			lg.Warn("failed to close reader", "err", err)
		}
	}()

	out := make(chan events.Envelope)
	errCh := make(chan error, 1)
	go func() { errCh <- kstream.Consume(ctx, r, out) }()

	for {
		select {
		case env := <-out:
			fmt.Printf("%s [%s] %s\n", env.ReceivedAt.Format("15:04:05"), env.Key(), env.Message().String())
		case err := <-errCh:
			if ctx.Err() == nil {
				lg.Error("consumer stopped", "err", err)
				os.Exit(1)
			}
			return
		}
	}
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/Jamie-38/irc-message-relay/internal/archive"
	"github.com/Jamie-38/irc-message-relay/internal/config"
	"github.com/Jamie-38/irc-message-relay/internal/events"
	"github.com/Jamie-38/irc-message-relay/internal/httpapi"
	"github.com/Jamie-38/irc-message-relay/internal/ircmsg"
	kstream "github.com/Jamie-38/irc-message-relay/internal/kafka"
	"github.com/Jamie-38/irc-message-relay/internal/observe"
	"github.com/Jamie-38/irc-message-relay/internal/scheduler"
	"github.com/Jamie-38/irc-message-relay/internal/transport"
)

func main() {
	lg := observe.C("relay_sink")

	if err := config.LoadEnv(); err != nil {
		lg.Warn("env file not loaded", "err", err)
	}

	cfg, err := config.FromEnv()
	if err == nil {
		err = cfg.Require("HTTP_API_HOST", "HTTP_API_PORT", "KAFKA_BROKERS", "KAFKA_TOPIC", "KAFKA_GROUPID", "ARCHIVE_PATH")
	}
	if err != nil {
		lg.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	arch, err := archive.Open(cfg.ArchivePath)
	if err != nil {
		lg.Error("open archive", "err", err, "path", cfg.ArchivePath)
		os.Exit(1)
	}
	defer arch.Close()

	root, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(root)

	consumedCh := make(chan events.Envelope, 1000)

	r := kstream.NewReader(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID)
	defer func() {
		if err := r.Close(); err != nil {
			lg.Warn("kafka reader close failed", "err", err)
		}
	}()

	var sendCh chan ircmsg.Message
	if cfg.IRCURI != "" {
		sendCh = make(chan ircmsg.Message, 100)
		if err := startSender(ctx, g, cfg, sendCh); err != nil {
			lg.Error("irc sender", "err", err, "uri", cfg.IRCURI)
			os.Exit(1)
		}
	} else {
		lg.Info("IRC_URI not set; outbound sender disabled")
	}

	// Kafka -> consumedCh
	g.Go(func() error { return kstream.Consume(ctx, r, consumedCh) })

	// consumedCh -> archive; only envelopes stored for the first time go on
	// to IRC, so Kafka redeliveries are not sent twice
	var freshCh chan events.Envelope
	if sendCh != nil {
		freshCh = make(chan events.Envelope, 100)
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case env := <-freshCh:
					select {
					case sendCh <- env.Message():
					default:
						lg.Warn("outbound queue full; message not sent", "id", env.ID)
					}
				}
			}
		})
	}
	g.Go(func() error { return archive.Run(ctx, arch, consumedCh, freshCh) })

	// archive view
	g.Go(func() error {
		return httpapi.Run(ctx, cfg.HTTPAddr(), httpapi.NewController(nil, arch))
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("fatal pipeline error", "err", err)
		os.Exit(1)
	}
	lg.Info("shutdown complete")
}

// startSender connects before any goroutine starts so a bad URI or token
// fails fast.
func startSender(ctx context.Context, g *errgroup.Group, cfg config.Relay, sendCh <-chan ircmsg.Message) error {
	if err := cfg.Require("ACCOUNTS_PATH", "TOKENS_PATH"); err != nil {
		return err
	}
	account, err := config.LoadAccount(cfg.AccountPath)
	if err != nil {
		return err
	}
	token, err := config.LoadToken(cfg.TokenPath)
	if err != nil {
		return err
	}

	conn, err := transport.Dial(ctx, cfg.IRCURI, token.AccessToken, account.Nick)
	if err != nil {
		return err
	}
	observe.C("relay_sink").Info("connected", "uri", cfg.IRCURI, "nick", account.Nick)

	writerCh := make(chan string, 100)

	g.Go(func() error {
		return scheduler.Run(ctx, sendCh, writerCh, scheduler.Config{
			Commands: cfg.SendCommands,
			Rate:     cfg.SendRate,
			Burst:    cfg.SendBurst,
		})
	})
	g.Go(func() error { return transport.Keepalive(ctx, conn, writerCh) })
	g.Go(func() error { return transport.Writer(ctx, conn, writerCh) })
	return nil
}

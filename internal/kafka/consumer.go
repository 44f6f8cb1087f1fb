package kafka

import (
	"context"
	"fmt"

	"github.com/Jamie-38/irc-message-relay/internal/events"
	"github.com/Jamie-38/irc-message-relay/internal/observe"
)

// Consume decodes envelopes from reader into out. Payloads that fail to
// decode are logged and skipped; a read error ends the stage.
func Consume(ctx context.Context, reader MessageReader, out chan<- events.Envelope) error {
	lg := observe.C("kafka_consumer")

	for {
		m, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				lg.Info("consumer stopping", "reason", "context_canceled")
				return ctx.Err()
			}
			return fmt.Errorf("kafka read: %w", err)
		}

		env, err := events.Unmarshal(m.Value)
		if err != nil {
			lg.Warn("skip undecodable payload",
				"topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "err", err)
			continue
		}

		select {
		case out <- env:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

package kafka

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Jamie-38/irc-message-relay/internal/events"
	"github.com/Jamie-38/irc-message-relay/internal/observe"
)

// Produce publishes events until ctx is done or in is closed. A failed
// marshal or write drops that one event.
func Produce(ctx context.Context, writer MessageWriter, in <-chan events.Event) error {
	lg := observe.C("kafka_producer")

	for {
		select {
		case <-ctx.Done():
			lg.Info("producer stopping", "reason", "context_canceled")
			return ctx.Err()
		case evt, ok := <-in:
			if !ok {
				lg.Info("producer stopping", "reason", "input_closed")
				return nil
			}
			value, err := evt.Marshal()
			if err != nil {
				lg.Warn("marshal failed", "kind", evt.Kind(), "err", err)
				continue
			}
			msg := kafkago.Message{
				Key:     []byte(evt.Key()),
				Value:   value,
				Headers: []kafkago.Header{{Key: "kind", Value: []byte(evt.Kind())}},
			}
			if err := writer.WriteMessages(ctx, msg); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				lg.Error("kafka write failed", "kind", evt.Kind(), "key", evt.Key(), "err", err)
				continue
			}
			lg.Debug("event published", "kind", evt.Kind(), "key", evt.Key(), "bytes", len(value))
		}
	}
}

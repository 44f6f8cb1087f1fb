package transport

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Jamie-38/irc-message-relay/internal/observe"
)

// WriteTimeout bounds a single socket write.
var WriteTimeout = 10 * time.Second

// Writer owns every write to conn after Dial returns. Lines arrive already
// CRLF terminated. A closed writerCh ends the stage cleanly.
func Writer(ctx context.Context, conn *websocket.Conn, writerCh <-chan string) error {
	lg := observe.C("writer")
	sent := 0

	for {
		select {
		case <-ctx.Done():
			lg.Info("writer stopping", "reason", "context_canceled", "sent", sent)
			return ctx.Err()

		case line, ok := <-writerCh:
			if !ok {
				lg.Info("writer stopping", "reason", "input_closed", "sent", sent)
				return nil
			}
			if err := conn.SetWriteDeadline(time.Now().Add(WriteTimeout)); err != nil {
				return err
			}
			if err := writeLine(conn, line); err != nil {
				lg.Error("socket write failed", "err", err, "sent", sent)
				return err
			}
			sent++
		}
	}
}

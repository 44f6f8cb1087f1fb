package transport

import (
	"context"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/Jamie-38/irc-message-relay/internal/ircmsg"
	"github.com/Jamie-38/irc-message-relay/internal/observe"
)

// Keepalive drains the socket so the server sees us alive: PINGs are
// answered with a PONG echoing the token, everything else is dropped.
func Keepalive(ctx context.Context, conn *websocket.Conn, writerCh chan<- string) error {
	lg := observe.C("keepalive")

	// Ensure ReadMessage unblocks when ctx is cancelled.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				lg.Info("keepalive stopping", "reason", "context_canceled")
				return ctx.Err()
			}
			lg.Warn("socket read failed", "err", err)
			return err
		}

		for _, line := range strings.Split(string(payload), "\r\n") {
			if line == "" {
				continue
			}
			token, ok := pingToken(line)
			if !ok {
				lg.Debug("inbound line dropped", "len", len(line))
				continue
			}
			pong, err := ircmsg.New("", "PONG", nil, token).WireLine()
			if err != nil {
				lg.Warn("unanswerable PING", "err", err)
				continue
			}
			select {
			case writerCh <- pong + "\r\n":
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// "PING :tmi.twitch.tv" -> "tmi.twitch.tv"
func pingToken(line string) (string, bool) {
	if line != "PING" && !strings.HasPrefix(line, "PING ") {
		return "", false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, "PING"))
	return strings.TrimPrefix(rest, ":"), true
}

package transport

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/Jamie-38/irc-message-relay/internal/ircmsg"
	"github.com/Jamie-38/irc-message-relay/internal/observe"
)

// Capabilities requested right after registration.
var Capabilities = "twitch.tv/tags twitch.tv/commands twitch.tv/membership"

// Dial opens the websocket and registers: PASS, NICK, then CAP REQ.
func Dial(ctx context.Context, uri, token, nick string) (*websocket.Conn, error) {
	lg := observe.C("connector").With("nick", nick, "uri", uri)

	d := websocket.Dialer{}
	conn, _, err := d.DialContext(ctx, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	lg.Debug("websocket dialed")

	register := []ircmsg.Message{
		ircmsg.New("", "PASS", []string{"oauth:" + token}, ""),
		ircmsg.New("", "NICK", []string{nick}, ""),
		ircmsg.New("", "CAP", []string{"REQ"}, Capabilities),
	}
	for _, m := range register {
		line, err := m.WireLine()
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%s: %w", m.Command(), err)
		}
		if err := writeLine(conn, line+"\r\n"); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%s: %w", m.Command(), err)
		}
		lg.Debug("sent", "command", m.Command())
	}

	return conn, nil
}

func writeLine(conn *websocket.Conn, line string) error {
	return conn.WriteMessage(websocket.TextMessage, []byte(line))
}

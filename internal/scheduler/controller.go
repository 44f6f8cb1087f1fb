package scheduler

import (
	"context"
	"strings"

	"golang.org/x/time/rate"

	"github.com/Jamie-38/irc-message-relay/internal/ircmsg"
	"github.com/Jamie-38/irc-message-relay/internal/observe"
)

var DefaultCommands = []string{"PRIVMSG", "NOTICE", "JOIN", "PART"}

type Config struct {
	Commands []string // allowed outbound commands, DefaultCommands when empty
	Rate     float64  // lines per second
	Burst    int
}

// Run turns allowed messages into rate limited wire lines on writerCh.
func Run(ctx context.Context, in <-chan ircmsg.Message, writerCh chan<- string, cfg Config) error {
	lg := observe.C("scheduler")

	allowed := make(map[string]struct{})
	cmds := cfg.Commands
	if len(cmds) == 0 {
		cmds = DefaultCommands
	}
	for _, c := range cmds {
		allowed[strings.ToUpper(c)] = struct{}{}
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)

	for {
		select {
		case <-ctx.Done():
			lg.Info("stopping", "reason", "context_canceled")
			return ctx.Err()

		case msg, ok := <-in:
			if !ok {
				lg.Info("stopping", "reason", "input_closed")
				return nil
			}

			if _, ok := allowed[strings.ToUpper(msg.Command())]; !ok {
				lg.Debug("command not sendable; dropped", "command", msg.Command())
				continue
			}

			line, err := outbound(msg).WireLine()
			if err != nil {
				lg.Warn("malformed message; dropped", "command", msg.Command(), "err", err)
				continue
			}

			if err := limiter.Wait(ctx); err != nil {
				lg.Info("stopping before send", "command", msg.Command(), "err", err)
				return ctx.Err()
			}

			select {
			case writerCh <- line + "\r\n":
				lg.Debug("forwarded", "command", msg.Command(), "params", len(msg.Params()))
			case <-ctx.Done():
				lg.Info("stopping before send", "command", msg.Command())
				return ctx.Err()
			}
		}
	}
}

// Clients never send a prefix; the server fills in who we are.
func outbound(m ircmsg.Message) ircmsg.Message {
	if tags, ok := m.Tags(); ok {
		return ircmsg.NewExtended(tags, "", m.Command(), m.Params(), m.Trail())
	}
	return ircmsg.New("", m.Command(), m.Params(), m.Trail())
}

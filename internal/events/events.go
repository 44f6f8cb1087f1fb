package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jamie-38/irc-message-relay/internal/ircmsg"
)

type Event interface {
	Kind() string
	Key() string
	Marshal() ([]byte, error)
}

// Origin mirrors ircmsg.Origin for readers of the JSON. It is recomputed
// from the prefix on decode, never trusted.
type Origin struct {
	Kind   string `json:"kind"` // "server" or "user"
	Server string `json:"server,omitempty"`
	Nick   string `json:"nick,omitempty"`
	User   string `json:"user,omitempty"`
	Host   string `json:"host,omitempty"`
}

// Envelope carries one message across Kafka.
type Envelope struct {
	ID         string       `json:"id"`
	ReceivedAt time.Time    `json:"received_at"`
	Extended   bool         `json:"extended"`
	Tags       []ircmsg.Tag `json:"tags,omitempty"`
	Prefix     string       `json:"prefix"`
	Command    string       `json:"command"`
	Params     []string     `json:"params"`
	Trail      string       `json:"trail"`
	Origin     Origin       `json:"origin"`
	Rendered   string       `json:"rendered"`
}

func Wrap(m ircmsg.Message) Envelope {
	return WrapAt(m, uuid.New(), time.Now().UTC())
}

func WrapAt(m ircmsg.Message, id uuid.UUID, at time.Time) Envelope {
	env := Envelope{
		ID:         id.String(),
		ReceivedAt: at,
		Extended:   m.IsExtended(),
		Prefix:     m.Prefix(),
		Command:    m.Command(),
		Params:     m.Params(),
		Trail:      m.Trail(),
		Origin:     originOf(m),
		Rendered:   m.String(),
	}
	if tags, ok := m.Tags(); ok {
		env.Tags = tags.Pairs()
	}
	if env.Params == nil {
		env.Params = []string{}
	}
	return env
}

func originOf(m ircmsg.Message) Origin {
	switch o := m.Origin().(type) {
	case ircmsg.UserOrigin:
		return Origin{Kind: "user", Nick: o.Nick, User: o.User, Host: o.Host}
	default:
		return Origin{Kind: "server", Server: o.String()}
	}
}

// Message rebuilds the model through the permissive constructors.
func (e Envelope) Message() ircmsg.Message {
	if e.Extended {
		return ircmsg.NewExtended(ircmsg.NewTags(e.Tags...), e.Prefix, e.Command, e.Params, e.Trail)
	}
	return ircmsg.New(e.Prefix, e.Command, e.Params, e.Trail)
}

func (e Envelope) Kind() string {
	return strings.ToLower(e.Command)
}

// Key groups a channel's traffic on one partition; anything not addressed
// to a channel is keyed by its sender.
func (e Envelope) Key() string {
	if len(e.Params) > 0 && strings.HasPrefix(e.Params[0], "#") {
		return strings.ToLower(e.Params[0])
	}
	if e.Origin.Kind == "user" {
		return strings.ToLower(e.Origin.Nick)
	}
	return strings.ToLower(e.Origin.Server)
}

func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func Unmarshal(b []byte) (Envelope, error) {
	var raw Envelope
	if err := json.Unmarshal(b, &raw); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if raw.ID == "" {
		return Envelope{}, fmt.Errorf("decode envelope: missing id")
	}
	if _, err := uuid.Parse(raw.ID); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: id %q: %w", raw.ID, err)
	}
	if raw.Command == "" {
		return Envelope{}, fmt.Errorf("decode envelope %s: missing command", raw.ID)
	}

	// derived fields come from the model, not the wire
	return WrapAt(raw.Message(), uuid.MustParse(raw.ID), raw.ReceivedAt), nil
}

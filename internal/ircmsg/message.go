// Package ircmsg holds the immutable model of a single IRC protocol line.
// Messages are built from fields that were already split by whoever read the
// line; nothing here tokenizes raw input.
package ircmsg

import "strings"

// Message is either legacy (no tag set at all) or extended (IRCv3, tag set
// present even when empty). The two are told apart by IsExtended, never by
// counting tags. A Message is safe to share between goroutines.
type Message struct {
	tags    *Tags
	prefix  string
	command string
	params  []string
	trail   string
	origin  Origin
}

// New builds a legacy message. Inputs are stored verbatim and never rejected.
func New(prefix, command string, params []string, trail string) Message {
	return Message{
		prefix:  prefix,
		command: command,
		params:  append([]string(nil), params...),
		trail:   trail,
		origin:  ParseOrigin(prefix),
	}
}

// NewExtended builds an IRCv3 message carrying tags.
func NewExtended(tags Tags, prefix, command string, params []string, trail string) Message {
	m := New(prefix, command, params, trail)
	m.tags = &tags
	return m
}

func (m Message) Prefix() string  { return m.prefix }
func (m Message) Command() string { return m.command }
func (m Message) Trail() string   { return m.trail }

func (m Message) Params() []string {
	return append([]string(nil), m.params...)
}

func (m Message) IsExtended() bool { return m.tags != nil }

// Tags reports false for legacy messages.
func (m Message) Tags() (Tags, bool) {
	if m.tags == nil {
		return Tags{}, false
	}
	return *m.tags, true
}

func (m Message) Origin() Origin {
	if m.origin == nil {
		return ServerOrigin{}
	}
	return m.origin
}

// User reports false when the message came from a server.
func (m Message) User() (UserOrigin, bool) {
	u, ok := m.Origin().(UserOrigin)
	return u, ok
}

// Server reports false when the message came from a user. An empty prefix
// is a server origin with an empty name.
func (m Message) Server() (string, bool) {
	s, ok := m.Origin().(ServerOrigin)
	return s.Name, ok
}

func (m Message) Nickname() string {
	u, _ := m.User()
	return u.Nick
}

func (m Message) Username() string {
	u, _ := m.User()
	return u.User
}

func (m Message) Hostmask() string {
	u, _ := m.User()
	return u.Host
}

// String is the compatibility rendering: fields joined by single spaces with
// the parameters and the trail run together as the last field. Empty fields
// are kept, so an empty prefix shows up as a double space. Use Line for the
// wire form.
func (m Message) String() string {
	body := strings.Join(append(m.Params(), m.trail), " ")
	fields := []string{m.prefix, m.command, body}
	if m.tags != nil {
		fields = append([]string{m.tags.String()}, fields...)
	}
	return strings.Join(fields, " ")
}

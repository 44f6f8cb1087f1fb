package ircmsg

import "strings"

// WireLine is Line for messages that did not come through NewStrict. It
// refuses anything that would not render as exactly one well-formed line,
// such as CR or LF in any field, or a parameter holding a space.
func (m Message) WireLine() (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m.Line(), nil
}

// Line renders the message as it goes on the wire, without the trailing
// CRLF. Tag values are escaped, an empty value is sent as a bare key and an
// empty tag set is left out entirely. Fields are written as they are; use
// WireLine when the message was built permissively.
func (m Message) Line() string {
	var b strings.Builder

	if m.tags != nil && m.tags.Len() > 0 {
		b.WriteByte('@')
		for i, t := range m.tags.pairs {
			if i > 0 {
				b.WriteByte(';')
			}
			b.WriteString(t.Key)
			if t.Value != "" {
				b.WriteByte('=')
				b.WriteString(escapeTagValue(t.Value))
			}
		}
		b.WriteByte(' ')
	}

	if m.prefix != "" {
		b.WriteByte(':')
		b.WriteString(m.prefix)
		b.WriteByte(' ')
	}

	b.WriteString(m.command)

	for _, p := range m.params {
		b.WriteByte(' ')
		b.WriteString(p)
	}

	if m.trail != "" {
		b.WriteString(" :")
		b.WriteString(m.trail)
	}

	return b.String()
}

// IRCv3 tag value escapes: \s (space), \: (;), \\ (\), \r, \n
func escapeTagValue(s string) string {
	if !strings.ContainsAny(s, "; \\\r\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ';':
			b.WriteString(`\:`)
		case ' ':
			b.WriteString(`\s`)
		case '\\':
			b.WriteString(`\\`)
		case '\r':
			b.WriteString(`\r`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

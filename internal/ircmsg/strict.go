package ircmsg

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCommand = errors.New("invalid command")
	ErrInvalidParam   = errors.New("invalid parameter")
	ErrInvalidPrefix  = errors.New("invalid prefix")
	ErrInvalidTag     = errors.New("invalid tag")
	ErrForbiddenChar  = errors.New("forbidden character")
)

type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ircmsg: %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewStrict is New for callers that want malformed fields rejected up front.
// Only the shape of each field is checked, not whether a command exists.
func NewStrict(prefix, command string, params []string, trail string) (Message, error) {
	if err := validate(prefix, command, params, trail); err != nil {
		return Message{}, err
	}
	return New(prefix, command, params, trail), nil
}

func NewExtendedStrict(tags Tags, prefix, command string, params []string, trail string) (Message, error) {
	if err := validateTags(tags); err != nil {
		return Message{}, err
	}
	if err := validate(prefix, command, params, trail); err != nil {
		return Message{}, err
	}
	return NewExtended(tags, prefix, command, params, trail), nil
}

// Validate applies the NewStrict rules to an already built message, so a
// permissively constructed one can be checked before it is sent anywhere.
func (m Message) Validate() error {
	if m.tags != nil {
		if err := validateTags(*m.tags); err != nil {
			return err
		}
	}
	return validate(m.prefix, m.command, m.params, m.trail)
}

func validateTags(tags Tags) error {
	for _, t := range tags.pairs {
		if t.Key == "" || strings.ContainsAny(t.Key, "=; ") {
			return &ValidationError{Field: "tag key", Value: t.Key, Err: ErrInvalidTag}
		}
		if strings.ContainsAny(t.Key, "\x00\r\n") || strings.ContainsAny(t.Value, "\x00\r\n") {
			return &ValidationError{Field: "tag " + t.Key, Value: t.Value, Err: ErrForbiddenChar}
		}
	}
	return nil
}

func validate(prefix, command string, params []string, trail string) error {
	fields := []struct{ name, value string }{
		{"prefix", prefix},
		{"command", command},
		{"trail", trail},
	}
	for i, p := range params {
		fields = append(fields, struct{ name, value string }{fmt.Sprintf("param %d", i), p})
	}
	for _, f := range fields {
		if strings.ContainsAny(f.value, "\x00\r\n") {
			return &ValidationError{Field: f.name, Value: f.value, Err: ErrForbiddenChar}
		}
	}

	if !validCommand(command) {
		return &ValidationError{Field: "command", Value: command, Err: ErrInvalidCommand}
	}

	for i, p := range params {
		if p == "" || strings.Contains(p, " ") || p[0] == ':' {
			return &ValidationError{Field: fmt.Sprintf("param %d", i), Value: p, Err: ErrInvalidParam}
		}
	}

	if strings.Contains(prefix, " ") {
		return &ValidationError{Field: "prefix", Value: prefix, Err: ErrInvalidPrefix}
	}
	if strings.ContainsAny(prefix, "!@") {
		bang := strings.IndexByte(prefix, '!')
		at := strings.IndexByte(prefix, '@')
		if bang <= 0 || at < bang+2 || at == len(prefix)-1 ||
			strings.Count(prefix, "!") != 1 || strings.Count(prefix, "@") != 1 {
			return &ValidationError{Field: "prefix", Value: prefix, Err: ErrInvalidPrefix}
		}
	}
	return nil
}

// letters only, or a three digit numeric
func validCommand(c string) bool {
	if c == "" {
		return false
	}
	if len(c) == 3 && isDigit(c[0]) && isDigit(c[1]) && isDigit(c[2]) {
		return true
	}
	for i := 0; i < len(c); i++ {
		ch := c[i]
		if (ch < 'a' || ch > 'z') && (ch < 'A' || ch > 'Z') {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

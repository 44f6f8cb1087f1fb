package ircmsg

import (
	"errors"
	"strings"
	"testing"
)

func TestLine(t *testing.T) {
	cases := []struct {
		msg  Message
		want string
	}{
		{
			New("nick!user@host", "PRIVMSG", []string{"#chan"}, "hello world"),
			":nick!user@host PRIVMSG #chan :hello world",
		},
		{
			New("", "JOIN", []string{"#chess"}, ""),
			"JOIN #chess",
		},
		{
			New("", "PASS", []string{"oauth:abc"}, ""),
			"PASS oauth:abc",
		},
		{
			NewExtended(NewTags(Tag{"id", "1"}, Tag{"flag", ""}, Tag{"msg", "a b;c\\"}), "", "PRIVMSG", []string{"#c"}, "x"),
			`@id=1;flag;msg=a\sb\:c\\ PRIVMSG #c :x`,
		},
		{
			NewExtended(Tags{}, "srv", "PING", nil, "123"),
			":srv PING :123",
		},
	}
	for _, c := range cases {
		if got := c.msg.Line(); got != c.want {
			t.Fatalf("Line() = %q, want %q", got, c.want)
		}
	}
}

func TestEscapeTagValue(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"plain":     "plain",
		"a b":       `a\sb`,
		"x;y":       `x\:y`,
		`back\`:     `back\\`,
		"cr\rlf\n":  `cr\rlf\n`,
		"emoji 🙂":   `emoji\s🙂`,
	}
	for in, want := range cases {
		if got := escapeTagValue(in); got != want {
			t.Fatalf("escapeTagValue(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWireLine_RefusesUnsafeFields(t *testing.T) {
	cases := map[string]struct {
		msg  Message
		want error
	}{
		"crlf in trail":      {New("", "PRIVMSG", []string{"#a"}, "hi\r\nQUIT :bye"), ErrForbiddenChar},
		"lf in param":        {New("", "PRIVMSG", []string{"#a\nQUIT"}, "hi"), ErrForbiddenChar},
		"nul in command":     {New("", "PRIV\x00MSG", []string{"#a"}, "hi"), ErrForbiddenChar},
		"space in param":     {New("", "PRIVMSG", []string{"#a QUIT"}, "hi"), ErrInvalidParam},
		"colon param":        {New("", "PRIVMSG", []string{":#a"}, "hi"), ErrInvalidParam},
		"empty param":        {New("", "JOIN", []string{""}, ""), ErrInvalidParam},
		"crlf in prefix":     {New("n!u@h\r\nQUIT", "PRIVMSG", []string{"#a"}, "hi"), ErrForbiddenChar},
		"bad command":        {New("", "PRIVMSG #a :x\r\nQUIT", nil, ""), ErrForbiddenChar},
		"spaced command":     {New("", "PRIVMSG #a", nil, "x"), ErrInvalidCommand},
		"crlf in tag value":  {NewExtended(NewTags(Tag{"k", "v\r\nQUIT"}), "", "PRIVMSG", []string{"#a"}, "x"), ErrForbiddenChar},
		"space in tag key":   {NewExtended(NewTags(Tag{"a b", "v"}), "", "PRIVMSG", []string{"#a"}, "x"), ErrInvalidTag},
		"zero value message": {Message{}, ErrInvalidCommand},
	}
	for name, c := range cases {
		line, err := c.msg.WireLine()
		if !errors.Is(err, c.want) {
			t.Fatalf("%s: err = %v, want %v", name, err, c.want)
		}
		if line != "" {
			t.Fatalf("%s: line = %q, want none", name, line)
		}
	}
}

func TestWireLine_WellFormed(t *testing.T) {
	m := NewExtended(NewTags(Tag{"reply", "a b"}), "", "PRIVMSG", []string{"#chess"}, "good move: e4")
	got, err := m.WireLine()
	if err != nil {
		t.Fatalf("WireLine: %v", err)
	}
	if want := `@reply=a\sb PRIVMSG #chess :good move: e4`; got != want {
		t.Fatalf("WireLine() = %q, want %q", got, want)
	}
	if strings.ContainsAny(got, "\r\n") {
		t.Fatalf("line break in %q", got)
	}
}

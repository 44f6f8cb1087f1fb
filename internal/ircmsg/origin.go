package ircmsg

import "strings"

// Origin is who sent a message: either a ServerOrigin or a UserOrigin.
type Origin interface {
	String() string
	isOrigin()
}

type ServerOrigin struct {
	Name string
}

type UserOrigin struct {
	Nick string
	User string
	Host string
}

func (ServerOrigin) isOrigin() {}
func (UserOrigin) isOrigin()   {}

func (o ServerOrigin) String() string { return o.Name }

func (o UserOrigin) String() string {
	return o.Nick + "!" + o.User + "@" + o.Host
}

// ParseOrigin never fails. A prefix holding both '!' and '@' becomes a
// UserOrigin, cut at the first two delimiters (either character, left to
// right); anything past the second one stays in Host. Everything else,
// including the empty prefix, is a ServerOrigin.
func ParseOrigin(prefix string) Origin {
	if prefix == "" || !strings.Contains(prefix, "!") || !strings.Contains(prefix, "@") {
		return ServerOrigin{Name: prefix}
	}

	i := strings.IndexAny(prefix, "!@")
	rest := prefix[i+1:]
	j := strings.IndexAny(rest, "!@")

	return UserOrigin{
		Nick: prefix[:i],
		User: rest[:j],
		Host: rest[j+1:],
	}
}

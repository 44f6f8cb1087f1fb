package ircmsg

import (
	"sort"
	"strings"
)

type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Tags is an ordered, immutable IRCv3 tag set. Iteration follows insertion
// order; the zero value is an empty set.
type Tags struct {
	pairs []Tag
}

// NewTags keeps the first position of a repeated key and the last value
// given for it.
func NewTags(pairs ...Tag) Tags {
	out := make([]Tag, 0, len(pairs))
	idx := make(map[string]int, len(pairs))
	for _, p := range pairs {
		if i, ok := idx[p.Key]; ok {
			out[i].Value = p.Value
			continue
		}
		idx[p.Key] = len(out)
		out = append(out, p)
	}
	return Tags{pairs: out}
}

// TagsFromMap orders keys lexically since map iteration order is random.
func TagsFromMap(m map[string]string) Tags {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Tag, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Tag{Key: k, Value: m[k]})
	}
	return Tags{pairs: pairs}
}

func (t Tags) Len() int { return len(t.pairs) }

func (t Tags) Get(key string) (string, bool) {
	for _, p := range t.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

func (t Tags) Pairs() []Tag {
	return append([]Tag(nil), t.pairs...)
}

func (t Tags) Map() map[string]string {
	m := make(map[string]string, len(t.pairs))
	for _, p := range t.pairs {
		m[p.Key] = p.Value
	}
	return m
}

// String renders key=value pairs joined by ';', values unescaped.
func (t Tags) String() string {
	var b strings.Builder
	for i, p := range t.pairs {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}

package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Jamie-38/irc-message-relay/internal/ircmsg"
)

func TestRun_ForwardsAllowedAsWireLines(t *testing.T) {
	in := make(chan ircmsg.Message, 4)
	out := make(chan string, 4)

	in <- ircmsg.New("", "PRIVMSG", []string{"#chess"}, "good move")
	in <- ircmsg.New("", "QUIT", nil, "bye")
	in <- ircmsg.New("", "join", []string{"#go"}, "")
	close(in)

	if err := Run(context.Background(), in, out, Config{Rate: 1000, Burst: 10}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	close(out)

	var got []string
	for l := range out {
		got = append(got, l)
	}
	want := []string{"PRIVMSG #chess :good move\r\n", "join #go\r\n"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRun_CustomCommands(t *testing.T) {
	in := make(chan ircmsg.Message, 2)
	out := make(chan string, 2)
	in <- ircmsg.New("", "PRIVMSG", []string{"#a"}, "x")
	in <- ircmsg.New("", "NOTICE", []string{"#a"}, "y")
	close(in)

	if err := Run(context.Background(), in, out, Config{Commands: []string{"notice"}, Rate: 1000, Burst: 1}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 1 || <-out != "NOTICE #a :y\r\n" {
		t.Fatal("only NOTICE should pass")
	}
}

func TestRun_RateLimitHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan ircmsg.Message, 3)
	out := make(chan string, 3)
	for i := 0; i < 3; i++ {
		in <- ircmsg.New("", "PRIVMSG", []string{"#a"}, "spam")
	}

	done := make(chan error, 1)
	// one token, refilled every 100s: the second line has to wait
	go func() { done <- Run(ctx, in, out, Config{Rate: 0.01, Burst: 1}) }()

	select {
	case <-out:
	case <-time.After(time.Second):
		t.Fatal("first line not sent")
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	if len(out) != 0 {
		t.Fatalf("rate limit let %d extra lines through", len(out))
	}
}

func TestRun_DropsMessagesThatWouldSplitTheLine(t *testing.T) {
	in := make(chan ircmsg.Message, 5)
	out := make(chan string, 5)

	in <- ircmsg.New("", "PRIVMSG", []string{"#a"}, "hi\r\nQUIT :gone")
	in <- ircmsg.New("", "PRIVMSG", []string{"#a JOIN #b"}, "hi")
	in <- ircmsg.New("", "PRIVMSG", []string{":#a"}, "hi")
	in <- ircmsg.NewExtended(ircmsg.NewTags(ircmsg.Tag{Key: "k", Value: "v\nQUIT"}), "", "PRIVMSG", []string{"#a"}, "hi")
	in <- ircmsg.New("", "PRIVMSG", []string{"#a"}, "still here")
	close(in)

	if err := Run(context.Background(), in, out, Config{Rate: 1000, Burst: 10}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	close(out)

	var got []string
	for l := range out {
		if strings.Count(l, "\r\n") != 1 || !strings.HasSuffix(l, "\r\n") {
			t.Fatalf("line %q is not a single wire line", l)
		}
		got = append(got, l)
	}
	if len(got) != 1 || got[0] != "PRIVMSG #a :still here\r\n" {
		t.Fatalf("got %q, want only the well-formed message", got)
	}
}

func TestRun_SendsWithoutPrefix(t *testing.T) {
	in := make(chan ircmsg.Message, 2)
	out := make(chan string, 2)

	in <- ircmsg.New("nick!user@host.example", "PRIVMSG", []string{"#chess"}, "hello")
	in <- ircmsg.NewExtended(ircmsg.NewTags(ircmsg.Tag{Key: "reply-parent-msg-id", Value: "42"}), "irc.example.net", "PRIVMSG", []string{"#chess"}, "ok")
	close(in)

	if err := Run(context.Background(), in, out, Config{Rate: 1000, Burst: 10}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{
		"PRIVMSG #chess :hello\r\n",
		"@reply-parent-msg-id=42 PRIVMSG #chess :ok\r\n",
	}
	for i, w := range want {
		if got := <-out; got != w {
			t.Fatalf("line %d = %q, want %q", i, got, w)
		}
	}
}

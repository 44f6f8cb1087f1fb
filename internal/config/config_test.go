package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadAccount(t *testing.T) {
	p := writeFile(t, "account.yaml", "nick: relaybot\n")
	acc, err := LoadAccount(p)
	if err != nil {
		t.Fatalf("LoadAccount: %v", err)
	}
	if acc.Nick != "relaybot" || acc.User != "relaybot" {
		t.Fatalf("account = %+v", acc)
	}
}

func TestLoadAccount_MissingNick(t *testing.T) {
	p := writeFile(t, "account.yaml", "user: someone\n")
	if _, err := LoadAccount(p); err == nil {
		t.Fatal("expected error for missing nick")
	}
}

func TestLoadAccount_NoFile(t *testing.T) {
	_, err := LoadAccount(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want ErrNotExist", err)
	}
}

func TestLoadToken(t *testing.T) {
	p := writeFile(t, "token.json", `{"access_token":"abc","token_type":"bearer"}`)
	tok, err := LoadToken(p)
	if err != nil || tok.AccessToken != "abc" {
		t.Fatalf("LoadToken = %+v, %v", tok, err)
	}

	p = writeFile(t, "empty.json", `{}`)
	if _, err := LoadToken(p); err == nil {
		t.Fatal("expected error for missing access_token")
	}
}

func TestLoadEnv(t *testing.T) {
	p := writeFile(t, ".env", "RELAY_TEST_VALUE=from-file\n")
	t.Setenv("RELAY_TEST_VALUE", "")
	os.Unsetenv("RELAY_TEST_VALUE")

	if err := LoadEnv(p); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := os.Getenv("RELAY_TEST_VALUE"); got != "from-file" {
		t.Fatalf("RELAY_TEST_VALUE = %q", got)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("HTTP_API_HOST", "127.0.0.1")
	t.Setenv("HTTP_API_PORT", "8080")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("KAFKA_TOPIC", "irc")
	t.Setenv("SEND_RATE_PER_SEC", "0.5")
	t.Setenv("SEND_BURST", "3")
	t.Setenv("SEND_COMMANDS", "privmsg, notice")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.HTTPAddr() != "127.0.0.1:8080" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr())
	}
	if cfg.SendRate != 0.5 || cfg.SendBurst != 3 {
		t.Fatalf("send limits = %v/%d", cfg.SendRate, cfg.SendBurst)
	}
	if len(cfg.SendCommands) != 2 || cfg.SendCommands[0] != "PRIVMSG" || cfg.SendCommands[1] != "NOTICE" {
		t.Fatalf("SendCommands = %v", cfg.SendCommands)
	}
	if err := cfg.Require("HTTP_API_HOST", "KAFKA_TOPIC"); err != nil {
		t.Fatalf("Require: %v", err)
	}
	if err := cfg.Require("ARCHIVE_PATH"); !errors.Is(err, ErrMissingEnv) {
		t.Fatalf("Require(ARCHIVE_PATH) = %v, want ErrMissingEnv", err)
	}
}

func TestFromEnv_BadValues(t *testing.T) {
	cases := map[string]string{
		"HTTP_API_PORT":     "70000",
		"SEND_RATE_PER_SEC": "-1",
		"SEND_BURST":        "zero",
	}
	for name, val := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, val)
			if _, err := FromEnv(); err == nil {
				t.Fatalf("%s=%s: expected error", name, val)
			}
		})
	}
}

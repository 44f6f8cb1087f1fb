package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

var ErrMissingEnv = errors.New("missing required env var")

// Relay is the process configuration shared by the relay binaries. Which
// fields are required depends on the binary, see Require.
type Relay struct {
	HTTPHost string
	HTTPPort string

	KafkaBrokers string
	KafkaTopic   string
	KafkaGroupID string

	ArchivePath string

	IRCURI       string
	AccountPath  string
	TokenPath    string
	SendRate     float64 // lines per second
	SendBurst    int
	SendCommands []string
}

func FromEnv() (Relay, error) {
	cfg := Relay{
		HTTPHost:     env("HTTP_API_HOST"),
		HTTPPort:     env("HTTP_API_PORT"),
		KafkaBrokers: env("KAFKA_BROKERS"),
		KafkaTopic:   env("KAFKA_TOPIC"),
		KafkaGroupID: env("KAFKA_GROUPID"),
		ArchivePath:  env("ARCHIVE_PATH"),
		IRCURI:       env("IRC_URI"),
		AccountPath:  env("ACCOUNTS_PATH"),
		TokenPath:    env("TOKENS_PATH"),
		SendRate:     1,
		SendBurst:    5,
	}

	if v := env("SEND_RATE_PER_SEC"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return cfg, fmt.Errorf("SEND_RATE_PER_SEC %q: must be a positive number", v)
		}
		cfg.SendRate = f
	}
	if v := env("SEND_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("SEND_BURST %q: must be a positive integer", v)
		}
		cfg.SendBurst = n
	}
	if v := env("SEND_COMMANDS"); v != "" {
		for _, c := range strings.Split(v, ",") {
			if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
				cfg.SendCommands = append(cfg.SendCommands, c)
			}
		}
	}

	if cfg.HTTPPort != "" {
		port, err := strconv.Atoi(cfg.HTTPPort)
		if err != nil {
			return cfg, fmt.Errorf("HTTP_API_PORT parse error: %w", err)
		}
		if port <= 1 || port >= 65535 {
			return cfg, fmt.Errorf("HTTP_API_PORT out of bounds: %d", port)
		}
	}

	return cfg, nil
}

// Require fails on the first named env var whose field is empty.
func (r Relay) Require(names ...string) error {
	values := map[string]string{
		"HTTP_API_HOST": r.HTTPHost,
		"HTTP_API_PORT": r.HTTPPort,
		"KAFKA_BROKERS": r.KafkaBrokers,
		"KAFKA_TOPIC":   r.KafkaTopic,
		"KAFKA_GROUPID": r.KafkaGroupID,
		"ARCHIVE_PATH":  r.ArchivePath,
		"IRC_URI":       r.IRCURI,
		"ACCOUNTS_PATH": r.AccountPath,
		"TOKENS_PATH":   r.TokenPath,
	}
	for _, n := range names {
		if values[n] == "" {
			return fmt.Errorf("%w: %s", ErrMissingEnv, n)
		}
	}
	return nil
}

func (r Relay) HTTPAddr() string {
	return net.JoinHostPort(r.HTTPHost, r.HTTPPort)
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

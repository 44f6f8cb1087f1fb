package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/Jamie-38/irc-message-relay/internal/types"
)

func LoadAccount(path string) (types.Account, error) {
	var acc types.Account

	b, err := os.ReadFile(path)
	if err != nil {
		return acc, fmt.Errorf("read account file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &acc); err != nil {
		return acc, fmt.Errorf("decode account yaml %q: %w", path, err)
	}

	if acc.Nick == "" {
		return acc, fmt.Errorf("account %q missing required field: nick", path)
	}
	if acc.User == "" {
		acc.User = acc.Nick
	}
	return acc, nil
}

func LoadToken(path string) (types.Token, error) {
	var tok types.Token

	f, err := os.Open(path)
	if err != nil {
		return tok, fmt.Errorf("open token file %q: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := json.NewDecoder(f).Decode(&tok); err != nil {
		return tok, fmt.Errorf("decode token json %q: %w", path, err)
	}

	if tok.AccessToken == "" {
		return tok, fmt.Errorf("token %q missing access_token", path)
	}
	return tok, nil
}

package config

import (
	"fmt"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env (or the given files) into the process environment.
// Variables already set are left alone.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

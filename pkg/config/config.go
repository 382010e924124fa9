// Package config loads typed configuration structs from environment
// variables, with optional .env files for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsing indicates the environment could not be parsed into the
// target struct, usually a missing required variable or a bad value.
var ErrParsing = errors.New("failed to parse environment variables")

var loadEnvOnce sync.Once

// Load populates cfg from environment variables according to its `env`
// tags. A .env file in the working directory is loaded once per process
// if present; real environment variables take precedence over it.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config target", ErrParsing)
	}

	loadEnvOnce.Do(func() {
		if _, err := os.Stat(".env"); err == nil {
			_ = godotenv.Load()
		}
	})

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParsing, err)
	}
	return nil
}

// MustLoad is like Load but panics on error. Intended for use during
// application startup where a missing variable is unrecoverable.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

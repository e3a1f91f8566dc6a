package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Load populates a configuration struct from environment variables using
// `env` and `envDefault` struct tags. A .env file in the working directory is
// loaded first when present; a missing file is not an error.
func Load[T any]() (T, error) {
	var cfg T

	// Ignore the error: .env files exist in development only.
	_ = godotenv.Load()

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	return cfg, nil
}

// MustLoad is like Load but panics on failure. Use during application
// startup where a broken environment should fail fast.
func MustLoad[T any]() T {
	cfg, err := Load[T]()
	if err != nil {
		panic(err)
	}
	return cfg
}

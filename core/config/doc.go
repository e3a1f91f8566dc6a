// Package config provides type-safe environment variable loading for
// configuration structs tagged with `env` and `envDefault`, with optional
// .env file support for development.
package config

// Package logger provides structured logging built on slog: handler
// construction from environment configuration and nil-safe attribute helpers
// shared by all appkit components.
package logger

package auth

import "time"

// Config holds authentication manager configuration.
type Config struct {
	MaxLoginAttempts int           `env:"AUTH_MAX_LOGIN_ATTEMPTS" envDefault:"3"`
	LockoutDuration  time.Duration `env:"AUTH_LOCKOUT_DURATION" envDefault:"15m"`
	RefreshInterval  time.Duration `env:"AUTH_REFRESH_INTERVAL" envDefault:"1m"`
	RefreshThreshold time.Duration `env:"AUTH_REFRESH_THRESHOLD" envDefault:"5m"`
}

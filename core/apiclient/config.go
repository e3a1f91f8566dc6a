package apiclient

import "time"

// Config holds API client configuration.
type Config struct {
	BaseURL    string        `env:"API_BASE_URL" envDefault:"http://localhost:1337/api"`
	Timeout    time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	MaxRetries int           `env:"API_MAX_RETRIES" envDefault:"3"`
	RetryDelay time.Duration `env:"API_RETRY_DELAY" envDefault:"1s"`
}

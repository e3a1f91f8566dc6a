package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techfixpro/appkit/core/config"
)

type testConfig struct {
	Name    string        `env:"TEST_APP_NAME" envDefault:"techfix"`
	Port    int           `env:"TEST_APP_PORT" envDefault:"1337"`
	Timeout time.Duration `env:"TEST_APP_TIMEOUT" envDefault:"10s"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cfg, err := config.Load[testConfig]()
		require.NoError(t, err)
		assert.Equal(t, "techfix", cfg.Name)
		assert.Equal(t, 1337, cfg.Port)
		assert.Equal(t, 10*time.Second, cfg.Timeout)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("TEST_APP_NAME", "override")
		t.Setenv("TEST_APP_TIMEOUT", "3s")

		cfg, err := config.Load[testConfig]()
		require.NoError(t, err)
		assert.Equal(t, "override", cfg.Name)
		assert.Equal(t, 3*time.Second, cfg.Timeout)
	})

	t.Run("unparseable value fails", func(t *testing.T) {
		t.Setenv("TEST_APP_PORT", "not-a-number")

		_, err := config.Load[testConfig]()
		assert.ErrorIs(t, err, config.ErrParseFailed)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on failure", func(t *testing.T) {
		t.Setenv("TEST_APP_PORT", "broken")

		assert.Panics(t, func() {
			config.MustLoad[testConfig]()
		})
	})
}

package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techfixpro/appkit/core/logger"
)

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	t.Run("json format emits json records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.NewWithWriter(logger.Config{Level: "info", Format: "json"}, &buf)
		log.Info("hello", logger.Component("test"))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "hello", rec["msg"])
		assert.Equal(t, "test", rec["component"])
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.NewWithWriter(logger.Config{Level: "warn"}, &buf)

		log.Info("dropped")
		assert.Empty(t, buf.String())

		log.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("unknown level defaults to info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.NewWithWriter(logger.Config{Level: "nonsense"}, &buf)

		log.Debug("dropped")
		assert.Empty(t, buf.String())

		log.Info("kept")
		assert.Contains(t, buf.String(), "kept")
	})
}

func TestAttrHelpers(t *testing.T) {
	t.Parallel()

	t.Run("error attr", func(t *testing.T) {
		t.Parallel()

		attr := logger.Error(errors.New("boom"))
		assert.Equal(t, "error", attr.Key)

		assert.Equal(t, slog.Attr{}, logger.Error(nil))
	})

	t.Run("key attr is nil safe", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, slog.Attr{}, logger.Key("anything", nil))
		assert.Equal(t, "anything", logger.Key("anything", 1).Key)
	})
}

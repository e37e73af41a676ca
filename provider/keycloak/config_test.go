package keycloak

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigLogger(t *testing.T) {
	t.Run("defaults to the process logger", func(t *testing.T) {
		assert.Same(t, slog.Default(), Config{}.logger())
	})

	t.Run("uses the injected logger", func(t *testing.T) {
		logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
		assert.Same(t, logger, Config{Logger: logger}.logger())
	})
}

package common

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jackalchenxu/parse-idl/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("dropped")
	logger.Warn("unresolved type", "type", "PoolState")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"msg":"unresolved type"`)
	assert.Contains(t, out, `"type":"PoolState"`)
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LogConfig{Level: "debug", Format: "text"}, &buf)

	logger.Debug("emitting", "name", "Swap")
	assert.Contains(t, buf.String(), "name=Swap")
}

func TestLoggerMixin(t *testing.T) {
	var m LoggerMixin
	assert.Equal(t, slog.Default(), m.GetLogger())

	custom := DiscardLogger()
	m.SetLogger(custom)
	assert.Equal(t, custom, m.GetLogger())

	m.SetLogger(nil)
	assert.Equal(t, custom, m.GetLogger(), "nil logger is ignored")
}

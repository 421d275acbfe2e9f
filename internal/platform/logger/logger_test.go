package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"pollcast/internal/platform/config"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	log.Info("hidden")
	log.Warn("shown", "poll_id", "p1")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"poll_id":"p1"`)
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(config.LogConfig{Level: "debug", Format: "text"}, &buf).Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

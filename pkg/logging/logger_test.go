package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"fatal", LevelFatal},
		{"DEBUG", LevelDebug},
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "FATAL", LevelFatal.String())
	assert.Equal(t, "UNKNOWN", Level(99).String())
}

func TestSimpleLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSimpleLoggerWithWriter("test", LevelWarn, false, &buf)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestSimpleLoggerKeyValueArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSimpleLoggerWithWriter("session", LevelDebug, false, &buf)

	logger.Info("login succeeded", "email", "a@b.com", "userid", "42")

	output := buf.String()
	assert.Contains(t, output, "[session]")
	assert.Contains(t, output, "login succeeded")
	assert.Contains(t, output, "email=a@b.com")
	assert.Contains(t, output, "userid=42")
}

func TestSimpleLoggerOddArgsIgnored(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSimpleLoggerWithWriter("test", LevelDebug, false, &buf)

	logger.Info("message", "dangling")

	// A dangling key without a value is dropped, not rendered
	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, "message")
	assert.NotContains(t, line, "dangling")
}

func TestWithModule(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSimpleLoggerWithWriter("root", LevelDebug, false, &buf)

	child := logger.WithModule("gateway")
	child.Info("hello")

	assert.Contains(t, buf.String(), "[gateway]")
}

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	Configure(logger, &buf, "debug", "json", true)

	logger.WithField("portal", "acme-launch").Debug("event recorded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "event recorded", entry["msg"])
	assert.Equal(t, "acme-launch", entry["portal"])
	assert.Equal(t, "debug", entry["level"])
}

func TestConfigure_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"ERROR", logrus.ErrorLevel},
		{"", logrus.InfoLevel},
		{"chatty", logrus.InfoLevel},
	}

	for _, tt := range tests {
		logger := logrus.New()
		Configure(logger, &bytes.Buffer{}, tt.level, "text", false)
		assert.Equal(t, tt.expected, logger.GetLevel(), "level %q", tt.level)
	}
}

func TestConfigure_DefaultFormatter(t *testing.T) {
	logger := logrus.New()
	Configure(logger, &bytes.Buffer{}, "info", "", false)
	_, isJSON := logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON, "production default should be JSON")

	Configure(logger, &bytes.Buffer{}, "info", "", true)
	_, isText := logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText, "development default should be text")
}

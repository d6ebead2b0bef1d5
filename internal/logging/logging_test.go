package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monollogs/internal/config"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "DEBUG", Format: "json"}, &buf)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("session", "abc").Info("session deleted")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "session deleted", line["msg"])
	assert.Equal(t, "abc", line["session"])
}

func TestNewFallsBackToInfoText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "loud"}, &buf)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	_, ok := logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)

	logger.Debug("hidden")
	assert.Empty(t, buf.String())
}

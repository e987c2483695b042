package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("test")
	require.NotNil(t, l)
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestNewWithWriterFields(t *testing.T) {
	defer SetLevel("info")
	SetLevel("debug")
	var buf bytes.Buffer
	l := NewWithWriter("planner", &buf)
	l.Debugw("solved", map[string]any{"nodes": 12})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "planner", entry["component"])
	assert.Equal(t, "solved", entry["message"])
	assert.Equal(t, float64(12), entry["nodes"])
	assert.Equal(t, "debug", entry["level"])
}

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")
	assert.Equal(t, zerolog.WarnLevel, SetLevel("WARN"))
	assert.Equal(t, zerolog.InfoLevel, SetLevel("nonsense"))
	assert.Equal(t, zerolog.InfoLevel, SetLevel(""))

	SetLevel("error")
	var buf bytes.Buffer
	NewWithWriter("x", &buf).Infof("hidden")
	assert.Empty(t, buf.String())
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Infof("nothing")
	l.Debugw("nothing", nil)
}

package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseLogger_JSONWithService(t *testing.T) {
	var buf bytes.Buffer
	logger := newBaseLogger("contentguard", "info")
	logger.SetOutput(&buf)

	logger.WithField("severity", "BLOCK").Warn("content blocked")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "content blocked", entry["msg"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "contentguard", entry["service"])
	assert.Equal(t, "BLOCK", entry["severity"])
	assert.Contains(t, entry, "time")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, parseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, parseLevel(" warn "))
	assert.Equal(t, logrus.InfoLevel, parseLevel(""))
	assert.Equal(t, logrus.InfoLevel, parseLevel("verbose"))
}

func TestConsoleHook(t *testing.T) {
	var primary, mirror bytes.Buffer
	logger := NewTestLogger(&primary)
	logger.AddHook(NewConsoleHook(&mirror))

	logger.Info("hello")

	assert.Contains(t, primary.String(), `"msg":"hello"`)
	assert.Equal(t, primary.String(), mirror.String())
}

func TestAsyncFileWriter_FlushesOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	w, err := NewAsyncFileWriter(path, 1024)
	require.NoError(t, err)

	n, err := w.Write([]byte("line one\n"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line one\n", string(data))
}

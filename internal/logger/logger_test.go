package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handsomefox/flixora/internal/env"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestErrorAttr(t *testing.T) {
	assert.Equal(t, "nil", Error(nil).Value.String())
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
}

func TestHandlerFormatFollowsEnvironment(t *testing.T) {
	var buf bytes.Buffer
	slog.New(handler(&buf, slog.LevelInfo, env.Production)).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	slog.New(handler(&buf, slog.LevelInfo, env.Local)).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestNewFileWritesToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "flixora.log")
	log, closer, err := NewFile(path, slog.LevelDebug)
	require.NoError(t, err)

	log.Debug("carousel ready")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "carousel ready")
}

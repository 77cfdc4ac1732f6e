package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestBuild_JSONLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := Build(Options{Level: "warn", JSON: true, Output: &buf})
	l.Info("hidden")
	l.Warn("shown", zap.String("k", "v"))
	cleanup()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "v", entry["k"])
	assert.Contains(t, entry, "ts")
}

func TestBuild_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := Build(Options{Level: "loud", JSON: true, Output: &buf})
	l.Debug("debug")
	l.Info("info")
	cleanup()
	assert.NotContains(t, buf.String(), `"debug"`)
	assert.Contains(t, buf.String(), `"info"`)
}

func TestBuild_Rotate(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := Build(Options{Level: "info", JSON: true, Output: &buf, Rotate: FileRotate{Enable: true, Filename: file}})
	l.Info("to both")
	cleanup()
	assert.FileExists(t, file)
}

func TestToStdLogger(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := Build(Options{Level: "info", JSON: true, Output: &buf})
	std := ToStdLogger(l, zapcore.WarnLevel)
	std.Printf("slow sql %d", 1)
	cleanup()
	assert.Contains(t, buf.String(), "slow sql 1")
	assert.Contains(t, buf.String(), `"warn"`)
}

func TestBuild_FatalFlushesBeforeExit(t *testing.T) {
	var codes []int
	exit = func(code int) { codes = append(codes, code) }
	t.Cleanup(func() { exit = os.Exit })

	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := Build(Options{Level: "info", JSON: true, Output: &buf, Rotate: FileRotate{Enable: true, Filename: file}})
	l.Fatal("listen failed", zap.String("addr", ":8080"))

	assert.Equal(t, []int{1}, codes)
	assert.Contains(t, buf.String(), "listen failed")
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "listen failed")

	// 之后的 defer cleanup() 不会重复关闭
	assert.NotPanics(t, cleanup)
}

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfigSelectsEncoding(t *testing.T) {
	console := config(Defaults())
	assert.Equal(t, "console", console.Encoding)
	assert.True(t, console.DisableCaller)
	assert.Equal(t, zapcore.InfoLevel, console.Level.Level())

	js := config(Options{Level: "debug", Format: "json"})
	assert.Equal(t, "json", js.Encoding)
	assert.Equal(t, zapcore.DebugLevel, js.Level.Level())
	assert.Equal(t, []string{"stderr"}, js.OutputPaths)

	file := config(Options{Format: "json", Output: "/tmp/sand.log"})
	assert.Equal(t, []string{"/tmp/sand.log"}, file.OutputPaths)
	assert.Equal(t, []string{"/tmp/sand.log"}, file.ErrorOutputPaths)
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	cfg := config(Options{Level: "chatty"})
	assert.Equal(t, zapcore.InfoLevel, cfg.Level.Level())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Defaults().Validate())
	assert.NoError(t, Options{}.Validate())
	assert.Error(t, Options{Format: "xml"}.Validate())
	assert.Error(t, Options{Level: "chatty"}.Validate())
}

func TestNewBuildsLogger(t *testing.T) {
	log, err := New(Options{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

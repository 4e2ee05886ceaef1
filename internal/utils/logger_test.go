package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(zapcore.AddSync(&buf))

	t.Run("DebugHiddenByDefault", func(t *testing.T) {
		buf.Reset()
		l.Debug("rule %s", "hidden")
		l.Warning("rule %s matched nothing", "sc2034")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "WARN")
		assert.Contains(t, buf.String(), "rule sc2034 matched nothing")
	})

	t.Run("VerboseShowsDebug", func(t *testing.T) {
		buf.Reset()
		l.SetVerbose(true)
		defer l.SetVerbose(false)
		l.Debug("replaced %d occurrence(s)", 3)
		assert.Contains(t, buf.String(), "DEBUG")
		assert.Contains(t, buf.String(), "replaced 3 occurrence(s)")
	})
}

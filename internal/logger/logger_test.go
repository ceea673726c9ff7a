package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		env  string
	}{
		{name: "production", env: "production"},
		{name: "development", env: "development"},
		{name: "unknown env falls back to development", env: "staging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.env)
			require.NoError(t, err)
			require.NotNil(t, l)
		})
	}
}

func TestQuietDropsInfo(t *testing.T) {
	l, err := Quiet("production")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestProperty_LogsAreStructured(t *testing.T) {
	if testing.Short() {
		t.Skip("property test")
	}
	properties := gopter.NewProperties(nil)

	properties.Property("every entry with a uri field decodes as JSON", prop.ForAll(
		func(message string, uri string) bool {
			var buf bytes.Buffer
			core := zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(&buf),
				zapcore.DebugLevel,
			)
			l := zap.New(core)
			l.Info(message, zap.String("uri", uri))
			_ = l.Sync()

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				return false
			}
			return entry["msg"] == message && entry["uri"] == uri
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

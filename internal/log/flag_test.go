package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	slogcontext "github.com/veqryn/slog-context"
)

func newCommand(args ...string) (*cobra.Command, *bytes.Buffer) {
	var stderr bytes.Buffer

	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	RegisterLoggingFlags(cmd)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	return cmd, &stderr
}

func TestGetBaseLogger(t *testing.T) {
	cmd, stderr := newCommand("--loglevel", "info", "-f", "json")
	require.NoError(t, cmd.Execute())

	logger, err := GetBaseLogger(cmd)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown", "bundle", "bike")

	out := stderr.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"bundle":"bike"`)
}

func TestGetLoggerLevel(t *testing.T) {
	tests := []struct {
		flag     string
		expected slog.Level
		wantErr  bool
	}{
		{flag: "debug", expected: slog.LevelDebug},
		{flag: "info", expected: slog.LevelInfo},
		{flag: "warn", expected: slog.LevelWarn},
		{flag: "error", expected: slog.LevelError},
		{flag: "fatal", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			cmd, _ := newCommand("--loglevel", tt.flag)
			require.NoError(t, cmd.Execute())

			level, err := GetLoggerLevel(cmd)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid log level")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	cmd, _ := newCommand("-f", "xml")
	require.NoError(t, cmd.Execute())

	_, err := GetBaseLogger(cmd)
	assert.ErrorContains(t, err, "invalid log format: xml")
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewLogger(&buf, "text", slog.LevelDebug)
	require.NoError(t, err)

	ctx := WithLogger(context.Background(), logger)
	ctx = slogcontext.With(ctx, "request", "r1")

	slogcontext.FromCtx(ctx).Warn("unknown part")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "request=r1")
}

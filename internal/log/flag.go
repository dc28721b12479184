// Package log wires command-line logging flags to a slog logger that is
// carried through context.Context.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"
)

var levels = []string{"warn", "debug", "info", "error"}

func RegisterLoggingFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("loglevel", levels[0],
		fmt.Sprintf("set the log level (%s)", strings.Join(levels, ", ")))
	cmd.PersistentFlags().StringP("logformat", "f", "text", "set the log format (text, json)")
}

// GetBaseLogger builds the logger selected by the logging flags. Logs go to
// the command's error stream so that stdout carries only results.
func GetBaseLogger(cmd *cobra.Command) (*slog.Logger, error) {
	logLevel, err := GetLoggerLevel(cmd)
	if err != nil {
		return nil, err
	}

	return NewLogger(cmd.ErrOrStderr(), cmd.Flag("logformat").Value.String(), logLevel)
}

// NewLogger returns a logger writing format ("text" or "json") to w.
// Attributes stored with slogcontext.With are added to every record.
func NewLogger(w io.Writer, format string, level slog.Level) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler

	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	return slog.New(slogcontext.NewHandler(handler, nil)), nil
}

func GetLoggerLevel(cmd *cobra.Command) (slog.Level, error) {
	logLevel := cmd.Flag("loglevel").Value.String()
	if !slices.Contains(levels, logLevel) {
		return slog.LevelWarn, fmt.Errorf("invalid log level: %s", logLevel)
	}

	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return level, nil
}

// WithLogger stores logger in ctx for retrieval with slogcontext.FromCtx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return slogcontext.NewCtx(ctx, logger)
}

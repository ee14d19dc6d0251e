package cmd

import (
	"io"
	"log/slog"

	"github.com/lepinkainen/humanlog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// logLevel is the level of the current default logger
var logLevel = slog.LevelInfo

func initLogging(level slog.Level, w io.Writer) {
	logLevel = level

	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(w, &humanlog.Options{
		Level: level,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}

// tuiLogWriter returns a size-rotated log file for use while the terminal UI runs.
func tuiLogWriter(path string) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
}

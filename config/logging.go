package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger builds the process logger. Debug level is enabled by
// ADCRAFT_DEBUG; in debug mode output is mirrored to <data_dir>/debug.log.
// The returned close function releases the log file, if any.
func NewLogger(cfg *Config, w io.Writer) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	noColor := false
	closeFn := func() error { return nil }

	if cfg.Debug {
		level = slog.LevelDebug
		logPath := filepath.Join(cfg.DataDir(), "debug.log")

		// 0600 - may contain prompts and tool arguments
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open debug log at %s: %w", logPath, err)
		}
		w = io.MultiWriter(w, f)
		noColor = true
		closeFn = f.Close
	}

	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}))
	if cfg.Debug {
		logger.Debug("debug logging started", "data_dir", cfg.DataDir())
	}
	return logger, closeFn, nil
}

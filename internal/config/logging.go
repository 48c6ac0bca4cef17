package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the root logger: console output, plus a rotated JSON file when
// Log.File is set. It also sets the zerolog global level.
func NewLogger(c Log) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("parse LOG_LEVEL %q: %w", c.Level, err)
	}
	zerolog.SetGlobalLevel(lvl)

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if c.File == "" {
		return zerolog.New(console).With().Timestamp().Logger(), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(c.File), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   c.File,
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAgeDays,
		Compress:   true,
	}
	w := zerolog.MultiLevelWriter(console, file)
	return zerolog.New(w).With().Timestamp().Logger(), file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

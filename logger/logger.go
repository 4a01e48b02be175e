package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	Console  = 0
	File     = 1
	Combined = 2
)

const fileName = "iqoption-mock.log"

// NewLogger builds a logger for the given mode. File output goes to dir and
// is rotated by size.
func NewLogger(mode int, dir string) (*slog.Logger, error) {
	switch mode {
	case Console:
		return NewConsoleLogger(os.Stdout), nil
	case File:
		return NewFileLogger(dir), nil
	case Combined:
		return NewCombinedLogger(os.Stdout, dir), nil
	default:
		return nil, fmt.Errorf("wrong mode %d, mode can be only: 0,1,2", mode)
	}
}

func NewConsoleLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, nil))
}

func NewFileLogger(dir string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(rotatingFile(dir), nil))
}

func NewCombinedLogger(w io.Writer, dir string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.MultiWriter(w, rotatingFile(dir)), nil))
}

func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rotatingFile(dir string) io.Writer {
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, fileName),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     7,
	}
}

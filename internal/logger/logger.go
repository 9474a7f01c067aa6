// Package logger installs the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // text, json, pretty
	Dir    string
	// Stderr receives a copy of every record at debug level. Nil means os.Stderr.
	Stderr io.Writer
}

// File returns the path of the log file under dir.
func File(dir string) string {
	return filepath.Join(dir, "logs", "hwhelper.log")
}

// Init installs a charmbracelet/log handler as the slog default, writing to a
// rotating file. The returned closer flushes and closes that file.
func Init(cfg Config) (io.Closer, error) {
	logFile := File(cfg.Dir)
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := ParseLevel(cfg.Level)
	var writer io.Writer = fileWriter
	if level == log.DebugLevel {
		stderr := cfg.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		writer = io.MultiWriter(stderr, fileWriter)
	}

	l := log.NewWithOptions(writer, log.Options{
		ReportCaller:    level == log.DebugLevel,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "hwhelper",
		Formatter:       formatter(cfg.Format),
	})
	slog.SetDefault(slog.New(l))
	return fileWriter, nil
}

// ParseLevel maps a level name to a log level; unknown names mean info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func formatter(s string) log.Formatter {
	switch strings.ToLower(s) {
	case "json":
		return log.JSONFormatter
	case "pretty":
		return log.TextFormatter
	default:
		return log.LogfmtFormatter
	}
}

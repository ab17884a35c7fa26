package config

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file rotation limits
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// NewRunID returns an identifier attached to every log record of one run
func NewRunID() string {
	return uuid.NewString()
}

// SetupLogging configures the global slog logger based on args.
// Diagnostics always go to stderr; stdout is reserved for the summary.
// Returns the log file writer (caller must close it) or nil if no file
func SetupLogging(args Args, runID string) (io.Closer, error) {
	writers := []io.Writer{os.Stderr}
	var logFile *lumberjack.Logger

	// Add file writer if specified
	if args.Log != "" {
		logFile = &lumberjack.Logger{
			Filename:   args.Log,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAgeDays,
		}
		// Open now so a bad path fails before any probing starts
		if _, err := logFile.Write(nil); err != nil {
			return nil, err
		}
		writers = append(writers, logFile)
	}

	// Combine writers if multiple
	var output io.Writer
	if len(writers) == 1 {
		output = writers[0]
	} else {
		output = io.MultiWriter(writers...)
	}

	slog.SetDefault(newLogger(output, args, runID))

	if logFile == nil {
		return nil, nil
	}
	return logFile, nil
}

func newLogger(w io.Writer, args Args, runID string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(args.LogLevel),
	}
	if opts.Level == slog.LevelDebug && !args.Verbose {
		opts.AddSource = true
	}

	var handler slog.Handler
	if args.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	if runID != "" {
		logger = logger.With("run_id", runID)
	}
	return logger
}

// parseLogLevel converts string to slog.Level
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

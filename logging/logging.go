package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	logger  = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	logFile *os.File
	mu      sync.Mutex
)

// SetupLogger routes log output to the given file in addition to
// stderr. Safe to call more than once; later calls are ignored.
func SetupLogger(logFilePath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		return nil
	}

	f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f

	sinks := io.MultiWriter(zerolog.ConsoleWriter{Out: os.Stderr}, f)
	logger = zerolog.New(sinks).With().Timestamp().Logger().Level(logger.GetLevel())

	logger.Info().Msg("debug log started")
	return nil
}

// SetDebug toggles debug-level logging.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}
}

// CloseLogger closes the log file, if one was opened.
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logger.Info().Msg("debug log closed")
		logFile.Close()
		logFile = nil
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(logger.GetLevel())
	}
}

// LogInfo logs an information message
func LogInfo(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	logger.Info().Msgf(format, args...)
}

// DebugLog logs a message if debug mode is enabled
func DebugLog(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	logger.Debug().Msgf(format, args...)
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	logger.Error().Msgf(format, args...)
}

// LogWarning logs a warning message
func LogWarning(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	logger.Warn().Msgf(format, args...)
}

// LogImageProcessed logs the outcome of processing one image
func LogImageProcessed(path string, success bool, errMsg string) {
	mu.Lock()
	defer mu.Unlock()

	if success {
		logger.Debug().Str("path", path).Msg("processed")
	} else {
		logger.Error().Str("path", path).Str("error", errMsg).Msg("failed")
	}
}

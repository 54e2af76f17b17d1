package core

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var once sync.Once

type logger struct {
	*log.Logger
}

var singleton *logger

// LogLevel mirrors the levels of the underlying logger so that callers do not
// need to import it.
type LogLevel int32

const (
	LOG_LEVEL_DEBUG LogLevel = LogLevel(log.DebugLevel)
	LOG_LEVEL_INFO  LogLevel = LogLevel(log.InfoLevel)
	LOG_LEVEL_WARN  LogLevel = LogLevel(log.WarnLevel)
	LOG_LEVEL_ERROR LogLevel = LogLevel(log.ErrorLevel)
	LOG_LEVEL_FATAL LogLevel = LogLevel(log.FatalLevel)
)

func getLogger() *logger {
	if singleton == nil {
		once.Do(
			func() {
				l := log.NewWithOptions(os.Stderr, log.Options{
					ReportCaller:    true,
					ReportTimestamp: true,
					TimeFormat:      time.RFC3339,
					Prefix:          "tinyrender 🔺",
					// report the caller of the Log* helper, not the helper itself
					CallerOffset: 1,
				})
				l.SetLevel(log.InfoLevel)
				singleton = &logger{l}
			})
	}
	return singleton
}

// ParseLogLevel converts a level name (debug, info, warn, error, fatal) into a LogLevel.
func ParseLogLevel(level string) (LogLevel, error) {
	l, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return LOG_LEVEL_INFO, fmt.Errorf("log level %q: %w", level, err)
	}
	return LogLevel(l), nil
}

func SetLogLevel(level LogLevel) {
	getLogger().SetLevel(log.Level(level))
}

func GetLogLevel() LogLevel {
	return LogLevel(getLogger().GetLevel())
}

// SetLogOutput redirects the engine logger, mostly useful in tests.
func SetLogOutput(w io.Writer) {
	getLogger().SetOutput(w)
}

func LogDebug(msg string, args ...interface{}) {
	getLogger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...interface{}) {
	getLogger().Infof(msg, args...)
}

func LogWarn(msg string, args ...interface{}) {
	getLogger().Warnf(msg, args...)
}

func LogError(msg string, args ...interface{}) {
	getLogger().Errorf(msg, args...)
}

func LogFatal(msg string, args ...interface{}) {
	getLogger().Fatalf(msg, args...)
}

// Package log is this core's own ambient diagnostic logger — distinct
// from the sdk/log telemetry pipeline — used to report dropped
// attributes, swallowed export failures, and other conditions spec.md §7
// classifies as "logged and absorbed" rather than surfaced to callers.
package log

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Level orders diagnostic severities; only messages at or above the
// current threshold are written.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is the sink this package's package-level functions write to. The
// default Logger writes to the standard library's log package; embedders
// that want telemetry-aware diagnostics can install their own.
type Logger interface {
	Log(level Level, msg string)
}

type stdLogger struct{}

func (stdLogger) Log(level Level, msg string) {
	log.Print(levelPrefix(level) + msg)
}

func levelPrefix(l Level) string {
	switch l {
	case LevelDebug:
		return "[otelcore debug] "
	case LevelInfo:
		return "[otelcore info] "
	case LevelWarn:
		return "[otelcore warn] "
	default:
		return "[otelcore error] "
	}
}

var (
	currentLevel  int32 = int32(LevelInfo)
	currentLogger atomic.Value // Logger

	errMu        sync.Mutex
	errSometimes = rate.Sometimes{Interval: 5 * time.Second}
)

func init() {
	currentLogger.Store(Logger(stdLogger{}))
}

// SetLogger installs a custom sink for package-level Debug/Info/Warn/Error.
func SetLogger(l Logger) {
	if l == nil {
		l = stdLogger{}
	}
	currentLogger.Store(l)
}

// SetLevel sets the minimum level that will be written.
func SetLevel(l Level) { atomic.StoreInt32(&currentLevel, int32(l)) }

func enabled(l Level) bool { return int32(l) >= atomic.LoadInt32(&currentLevel) }

func logger() Logger { return currentLogger.Load().(Logger) }

func Debug(format string, args ...interface{}) {
	if !enabled(LevelDebug) {
		return
	}
	logger().Log(LevelDebug, fmt.Sprintf(format, args...))
}

func Info(format string, args ...interface{}) {
	if !enabled(LevelInfo) {
		return
	}
	logger().Log(LevelInfo, fmt.Sprintf(format, args...))
}

func Warn(format string, args ...interface{}) {
	if !enabled(LevelWarn) {
		return
	}
	logger().Log(LevelWarn, fmt.Sprintf(format, args...))
}

// Error logs at error level, rate-limited so a hot failure loop (e.g. a
// collector down for an extended period) cannot flood the process's own
// log output. At most one Error message is emitted per rate-limiting
// interval; callers needing every occurrence should use Debug instead.
func Error(format string, args ...interface{}) {
	if !enabled(LevelError) {
		return
	}
	errMu.Lock()
	errSometimes.Do(func() {
		logger().Log(LevelError, fmt.Sprintf(format, args...))
	})
	errMu.Unlock()
}

// SetErrorInterval reconfigures the minimum spacing between emitted Error
// messages.
func SetErrorInterval(d time.Duration) {
	errMu.Lock()
	errSometimes = rate.Sometimes{Interval: d}
	errMu.Unlock()
}

package texcache

import (
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// loggerPtr stores the active logger. SetLogger may be called from any
// goroutine; the watcher goroutine logs through it too.
var loggerPtr atomic.Pointer[log.Logger]

func init() {
	loggerPtr.Store(newDefaultLogger())
}

func newDefaultLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "texcache",
		Level:  log.WarnLevel,
	})
}

// SetLogger replaces the package logger. Pass nil to restore the default
// stderr logger at warn level.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = newDefaultLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current package logger.
func Logger() *log.Logger {
	return loggerPtr.Load()
}

// SetDebug toggles debug-level logging of cache hits, misses, decodes and
// reloads on the current logger.
func SetDebug(enabled bool) {
	if enabled {
		Logger().SetLevel(log.DebugLevel)
		return
	}
	Logger().SetLevel(log.WarnLevel)
}

func logger() *log.Logger { return loggerPtr.Load() }

// Package log provides the subsystem-scoped structured logging facade used
// throughout the actor kernel. It mirrors the shape of the teacher's own
// internal logging package (a per-subsystem logger exposing leveled calls
// that take structured fields) while being backed by a real third-party
// leveled logger, btclog/v2, instead of a hand-rolled one.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/btcsuite/btclog/v2"
)

var (
	backendMu sync.Mutex
	backend   = btclog.NewBackend(os.Stderr)
)

// SetOutput makes loggers created by later calls to New write to w. Loggers
// already returned by New, including package-level ones created at init,
// keep writing to the previous output.
func SetOutput(w io.Writer) {
	backendMu.Lock()
	defer backendMu.Unlock()
	backend = btclog.NewBackend(w)
}

// Field is a single structured key/value pair attached to a log line,
// mirroring the teacher's log.Message(value)-style field helpers.
type Field struct {
	Key   string
	Value interface{}
}

// Message builds a Field named "message", matching the teacher's
// log.Message(msg) helper used at every system-message dispatch site.
func Message(v interface{}) Field { return Field{Key: "message", Value: v} }

// Logger is a subsystem-scoped leveled logger.
type Logger struct {
	subsystem string
	l         btclog.Logger
}

// New creates a Logger for the named subsystem (e.g. "actor", "dispatcher",
// "watcher"), matching the teacher's per-subsystem logger construction.
func New(subsystem string) *Logger {
	backendMu.Lock()
	l := backend.Logger(subsystem)
	backendMu.Unlock()
	l.SetLevel(btclog.LevelInfo)
	return &Logger{subsystem: subsystem, l: l}
}

func (lg *Logger) format(msg string, fields []Field) string {
	if len(fields) == 0 {
		return msg
	}
	s := msg
	for _, f := range fields {
		s += fmt.Sprintf(" %s=%v", f.Key, f.Value)
	}
	return s
}

func (lg *Logger) Debug(msg string, fields ...Field) { lg.l.Debug(lg.format(msg, fields)) }
func (lg *Logger) Info(msg string, fields ...Field)  { lg.l.Info(lg.format(msg, fields)) }
func (lg *Logger) Warn(msg string, fields ...Field)  { lg.l.Warn(lg.format(msg, fields)) }
func (lg *Logger) Error(msg string, fields ...Field) { lg.l.Error(lg.format(msg, fields)) }

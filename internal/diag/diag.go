// Package diag collects the non-fatal diagnostics produced while parsing and
// merging. Warnings accumulate here instead of aborting the run; every entry
// is also written to the logger the collection was created with.
package diag

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Level classifies a diagnostic.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// String returns the lower-case level name.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Message is a single recorded diagnostic.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Messages is an append-only diagnostic list. It is not safe for concurrent
// use; give each parse or merge its own instance.
type Messages struct {
	log     *zap.SugaredLogger
	entries []Message
}

// New returns an empty collection that mirrors entries to log.
// A nil logger discards log output.
func New(log *zap.SugaredLogger) *Messages {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Messages{log: log}
}

// Discard returns a collection with a no-op logger, mostly for tests.
func Discard() *Messages {
	return New(nil)
}

// Logger returns the underlying logger.
func (m *Messages) Logger() *zap.SugaredLogger {
	return m.log
}

// Debugf logs without recording a diagnostic.
func (m *Messages) Debugf(format string, args ...any) {
	m.log.Debugf(format, args...)
}

// Infof records and logs an informational message.
func (m *Messages) Infof(format string, args ...any) {
	m.add(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf records and logs a warning.
func (m *Messages) Warnf(format string, args ...any) {
	m.add(LevelWarning, fmt.Sprintf(format, args...))
}

// Errorf records and logs a non-fatal error.
func (m *Messages) Errorf(format string, args ...any) {
	m.add(LevelError, fmt.Sprintf(format, args...))
}

func (m *Messages) add(level Level, text string) {
	m.entries = append(m.entries, Message{Level: level, Text: text})
	switch level {
	case LevelInfo:
		m.log.Info(text)
	case LevelWarning:
		m.log.Warn(text)
	case LevelError:
		m.log.Error(text)
	}
}

// All returns a copy of every recorded message in order.
func (m *Messages) All() []Message {
	return slices.Clone(m.entries)
}

// Texts returns the text of every message at the given level.
func (m *Messages) Texts(level Level) []string {
	var out []string
	for _, e := range m.entries {
		if e.Level == level {
			out = append(out, e.Text)
		}
	}
	return out
}

// Warnings returns the recorded warning texts.
func (m *Messages) Warnings() []string {
	return m.Texts(LevelWarning)
}

// Errors returns the recorded error texts.
func (m *Messages) Errors() []string {
	return m.Texts(LevelError)
}

// HasErrors reports whether any error-level diagnostic was recorded.
func (m *Messages) HasErrors() bool {
	return slices.ContainsFunc(m.entries, func(e Message) bool { return e.Level == LevelError })
}

// Len returns the number of recorded messages.
func (m *Messages) Len() int {
	return len(m.entries)
}

package log

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
)

// TestLogger is a Logger that captures output in an in-memory buffer for
// assertions in tests.
type TestLogger struct {
	mu     sync.Mutex
	buffer *bytes.Buffer
	level  Level
	fields []any
}

// NewTestLogger creates a TestLogger capturing records at or above level.
// The returned buffer holds the captured output.
func NewTestLogger(level Level) (*TestLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &TestLogger{buffer: buf, level: level}, buf
}

func (t *TestLogger) log(level Level, msg string, fields []any) {
	if level < t.level {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buffer.WriteString(level.String())
	t.buffer.WriteString(" ")
	t.buffer.WriteString(msg)
	for i := 0; i+1 < len(t.fields); i += 2 {
		writeField(t.buffer, t.fields[i], t.fields[i+1])
	}
	for i := 0; i+1 < len(fields); i += 2 {
		writeField(t.buffer, fields[i], fields[i+1])
	}
	t.buffer.WriteString("\n")
}

func writeField(buf *bytes.Buffer, key, value any) {
	buf.WriteString(" ")
	if s, ok := key.(string); ok {
		buf.WriteString(s)
	}
	buf.WriteString("=")
	switch v := value.(type) {
	case string:
		buf.WriteString(v)
	case error:
		buf.WriteString(v.Error())
	default:
		buf.WriteString(fmt.Sprint(v))
	}
}

func (t *TestLogger) Debug(msg string, fields ...any) { t.log(LevelDebug, msg, fields) }
func (t *TestLogger) Info(msg string, fields ...any)  { t.log(LevelInfo, msg, fields) }
func (t *TestLogger) Warn(msg string, fields ...any)  { t.log(LevelWarn, msg, fields) }
func (t *TestLogger) Error(msg string, fields ...any) { t.log(LevelError, msg, fields) }

// With implements Logger.
func (t *TestLogger) With(fields ...any) Logger {
	return &TestLogger{
		buffer: t.buffer,
		level:  t.level,
		fields: append(append([]any{}, t.fields...), fields...),
	}
}

// Enabled implements Logger.
func (t *TestLogger) Enabled(_ context.Context, level Level) bool {
	return level >= t.level
}

// Contains reports whether the captured output contains s.
func (t *TestLogger) Contains(s string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Contains(t.buffer.String(), s)
}

// Clear discards all captured output.
func (t *TestLogger) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buffer.Reset()
}

// TestLoggerProvider implements LoggerProvider for tests.
type TestLoggerProvider struct {
	logger *TestLogger
}

// NewTestLoggerProvider creates a test provider and the buffer capturing
// its output.
func NewTestLoggerProvider(level Level) (*TestLoggerProvider, *bytes.Buffer) {
	logger, buf := NewTestLogger(level)
	return &TestLoggerProvider{logger: logger}, buf
}

// GetLogger implements LoggerProvider.
func (p *TestLoggerProvider) GetLogger() Logger {
	return p.logger
}

// GetLoggerWithName implements LoggerProvider.
func (p *TestLoggerProvider) GetLoggerWithName(name string) Logger {
	return p.logger.With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.
func (p *TestLoggerProvider) SetLevel(level Level) {
	p.logger.level = level
}

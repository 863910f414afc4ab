package log

import (
	"context"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// zerologLogger implements Logger on top of a zerolog.Logger.
type zerologLogger struct {
	zl zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, fields ...any) { l.emit(l.zl.Debug(), msg, fields) }
func (l *zerologLogger) Info(msg string, fields ...any)  { l.emit(l.zl.Info(), msg, fields) }
func (l *zerologLogger) Warn(msg string, fields ...any)  { l.emit(l.zl.Warn(), msg, fields) }

func (l *zerologLogger) Error(msg string, fields ...any) {
	ev := l.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			if st := extractStacktrace(err); st != "" {
				ev = ev.Str("stacktrace", st)
			}
			fields = fields[1:]
		}
	}
	l.emit(ev, msg, fields)
}

func (l *zerologLogger) With(fields ...any) Logger {
	return &zerologLogger{zl: l.zl.With().Fields(pairsToMap(fields)).Logger()}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= l.zl.GetLevel()
}

func (l *zerologLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	ev.Fields(pairsToMap(fields)).Msg(msg)
}

// pairsToMap converts alternating key-value fields into a map. A trailing
// key without a value is dropped; non-string keys are skipped.
func pairsToMap(fields []any) map[string]interface{} {
	if len(fields) == 0 {
		return nil
	}
	m := make(map[string]interface{}, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		m[key] = fields[i+1]
	}
	return m
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level < LevelInfo:
		return zerolog.DebugLevel
	case level < LevelWarn:
		return zerolog.InfoLevel
	case level < LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// extractStacktrace pulls the stack trace cockroachdb/errors embeds in an
// error's safe details, if any.
func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}

// zerologProvider is the default LoggerProvider. Loggers write JSON lines
// to stderr.
type zerologProvider struct {
	mu    sync.Mutex
	level zerolog.Level
}

func (p *zerologProvider) newLogger() zerolog.Logger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return zerolog.New(os.Stderr).Level(p.level).With().Timestamp().Logger()
}

// GetLogger implements LoggerProvider.
func (p *zerologProvider) GetLogger() Logger {
	return &zerologLogger{zl: p.newLogger()}
}

// GetLoggerWithName implements LoggerProvider.
func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{zl: p.newLogger().With().Str(ComponentKey, name).Logger()}
}

// SetLevel implements LoggerProvider.
func (p *zerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = toZerologLevel(level)
}

var (
	providerMu      sync.RWMutex
	defaultProvider LoggerProvider = &zerologProvider{level: zerolog.WarnLevel}
)

// SetProvider replaces the package-level logger provider. It is intended
// for wiring alternative backends or the test provider.
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	defaultProvider = p
}

// GetLogger returns a logger from the current provider.
func GetLogger() Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider.GetLogger()
}

// GetLoggerWithName returns a logger tagged with a component name from the
// current provider.
func GetLoggerWithName(name string) Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider.GetLoggerWithName(name)
}

// SetLevel sets the minimum level on the current provider.
func SetLevel(level Level) {
	providerMu.RLock()
	defer providerMu.RUnlock()
	defaultProvider.SetLevel(level)
}

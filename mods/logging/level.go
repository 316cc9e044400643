package logging

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	gometrics "github.com/rcrowley/go-metrics"
)

type Level int

const (
	LevelAll Level = iota
	LevelTrace
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var logLevelNames = []string{"ALL", "TRACE", "DEBUG", "INFO", "WARN", "ERROR"}

func ParseLogLevel(name string) Level {
	lvl, _ := ParseLogLevelP(name)
	return lvl
}

// ParseLogLevelP reports false for names it does not know.
// "NONE" is accepted and silences the logger completely.
func ParseLogLevelP(name string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return LevelTrace, true
	case "DEBUG":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	case "NONE":
		return LevelError + 1, true
	default:
		return LevelAll, false
	}
}

func LogLevelName(level Level) string {
	if level >= 0 && int(level) < len(logLevelNames) {
		return logLevelNames[level]
	}
	return "UNKNOWN"
}

func (lvl Level) String() string { return LogLevelName(lvl) }

type Log interface {
	io.Writer

	TraceEnabled() bool
	Trace(...any)
	Tracef(format string, args ...any)
	DebugEnabled() bool
	Debug(...any)
	Debugf(format string, args ...any)
	InfoEnabled() bool
	Info(...any)
	Infof(format string, args ...any)
	WarnEnabled() bool
	Warn(...any)
	Warnf(format string, args ...any)
	ErrorEnabled() bool
	Error(...any)
	Errorf(format string, args ...any)

	LogEnabled(level Level) bool
	Logf(level Level, format string, args ...any)

	SetLevel(level Level)
	Level() Level
}

type levelLogger struct {
	name         string
	level        Level
	underlying   []*logWriter // nil follows the default writers
	prefixWidth  int
	enableSrcLoc bool
	// slog compat
	attrs  []slog.Attr
	filter func(string, slog.Record) bool
}

var _ Log = (*levelLogger)(nil)

func (l *levelLogger) SetLevel(level Level) { l.level = level }
func (l *levelLogger) Level() Level         { return l.level }

func (l *levelLogger) TraceEnabled() bool { return l.level <= LevelTrace }
func (l *levelLogger) DebugEnabled() bool { return l.level <= LevelDebug }
func (l *levelLogger) InfoEnabled() bool  { return l.level <= LevelInfo }
func (l *levelLogger) WarnEnabled() bool  { return l.level <= LevelWarn }
func (l *levelLogger) ErrorEnabled() bool { return l.level <= LevelError }

func (l *levelLogger) LogEnabled(lvl Level) bool { return l.level <= lvl }

func (l *levelLogger) Trace(m ...any) { l._log(LevelTrace, 1, m) }
func (l *levelLogger) Debug(m ...any) { l._log(LevelDebug, 1, m) }
func (l *levelLogger) Info(m ...any)  { l._log(LevelInfo, 1, m) }
func (l *levelLogger) Warn(m ...any)  { l._log(LevelWarn, 1, m) }
func (l *levelLogger) Error(m ...any) { l._log(LevelError, 1, m) }

func (l *levelLogger) Tracef(format string, args ...any)          { l._logf(LevelTrace, 0, format, args) }
func (l *levelLogger) Debugf(format string, args ...any)          { l._logf(LevelDebug, 0, format, args) }
func (l *levelLogger) Infof(format string, args ...any)           { l._logf(LevelInfo, 0, format, args) }
func (l *levelLogger) Warnf(format string, args ...any)           { l._logf(LevelWarn, 0, format, args) }
func (l *levelLogger) Errorf(format string, args ...any)          { l._logf(LevelError, 0, format, args) }
func (l *levelLogger) Logf(lvl Level, format string, args ...any) { l._logf(lvl, 0, format, args) }

// Write lets a Log stand in for an io.Writer, every buffer is one INFO line.
func (l *levelLogger) Write(buff []byte) (int, error) {
	l._logf(LevelInfo, 0, "%s", []any{strings.TrimRight(string(buff), "\n")})
	return len(buff), nil
}

func (l *levelLogger) outputs() []*logWriter {
	if l.underlying != nil {
		return l.underlying
	}
	return writers()
}

var (
	warnCounter  = gometrics.NewRegisteredCounter("log.warns", gometrics.DefaultRegistry)
	errorCounter = gometrics.NewRegisteredCounter("log.errors", gometrics.DefaultRegistry)
	totalCounter = gometrics.NewRegisteredCounter("log.total", gometrics.DefaultRegistry)
)

type levelPattern struct {
	pattern string
	matcher glob.Glob
	level   Level
}

var (
	levelLock                   sync.RWMutex
	levelConfig                 = map[string]levelPattern{}
	levelDefault                = LevelInfo
	prefixWidthDefault          = 10
	enableSourceLocationDefault = false
)

func SetDefaultLevel(lvl Level) {
	levelLock.Lock()
	levelDefault = lvl
	levelLock.Unlock()
}

func DefaultLevel() Level {
	levelLock.RLock()
	defer levelLock.RUnlock()
	return levelDefault
}

func SetDefaultEnableSourceLocation(flag bool) {
	levelLock.Lock()
	enableSourceLocationDefault = flag
	levelLock.Unlock()
}

func DefaultEnableSourceLocation() bool {
	levelLock.RLock()
	defer levelLock.RUnlock()
	return enableSourceLocationDefault
}

func SetDefaultPrefixWidth(width int) {
	levelLock.Lock()
	if width > 0 {
		prefixWidthDefault = width
	} else {
		prefixWidthDefault = 10
	}
	levelLock.Unlock()
}

func DefaultPrefixWidth() int {
	levelLock.RLock()
	defer levelLock.RUnlock()
	return prefixWidthDefault
}

// SetLevel assigns a level to every logger whose name matches the glob pattern.
// Invalid patterns fall back to exact name matching.
func SetLevel(pattern string, lvl Level) {
	lp := levelPattern{pattern: pattern, level: lvl}
	if g, err := glob.Compile(pattern); err == nil {
		lp.matcher = g
	}
	levelLock.Lock()
	levelConfig[pattern] = lp
	levelLock.Unlock()
}

// GetLevel returns the level of the longest pattern matching name.
func GetLevel(name string) Level {
	levelLock.RLock()
	defer levelLock.RUnlock()

	var matched *levelPattern
	for _, lp := range levelConfig {
		ok := lp.pattern == name
		if !ok && lp.matcher != nil {
			ok = lp.matcher.Match(name)
		}
		if ok && (matched == nil || len(matched.pattern) < len(lp.pattern)) {
			lp := lp
			matched = &lp
		}
	}
	if matched != nil {
		return matched.level
	}
	return levelDefault
}

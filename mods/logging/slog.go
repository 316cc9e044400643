package logging

import (
	"context"
	"log/slog"
)

// Wrap exposes a Log as a *slog.Logger. The optional filter drops records
// for which it returns false.
func Wrap(l Log, filter func(name string, r slog.Record) bool) *slog.Logger {
	h, ok := l.(*levelLogger)
	if !ok || h == nil {
		return slog.Default()
	}
	clone := *h
	clone.filter = filter
	return slog.New(&clone)
}

func (ll *levelLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return ll.LogEnabled(fromSlogLevel(level))
}

func (ll *levelLogger) Handle(ctx context.Context, r slog.Record) error {
	if ll.filter != nil && !ll.filter(ll.name, r) {
		return nil
	}
	args := []any{r.Message}
	r.Attrs(func(a slog.Attr) bool {
		args = append(args, a.Key+"="+a.Value.String())
		return true
	})
	ll._log(fromSlogLevel(r.Level), 2, args)
	return nil
}

func (ll *levelLogger) WithAttrs(attrs []slog.Attr) slog.Handler {
	ret := *ll
	ret.attrs = append(append([]slog.Attr{}, ll.attrs...), attrs...)
	return &ret
}

// WithGroup switches to the named logger, groups double as logger names.
func (ll *levelLogger) WithGroup(name string) slog.Handler {
	if name == "" {
		return ll
	}
	ret := *ll
	ret.name = name
	ret.level = GetLevel(name)
	return &ret
}

func fromSlogLevel(level slog.Level) Level {
	switch {
	case level < slog.LevelInfo:
		return LevelDebug
	case level < slog.LevelWarn:
		return LevelInfo
	case level < slog.LevelError:
		return LevelWarn
	default:
		return LevelError
	}
}

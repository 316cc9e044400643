package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelPatterns(t *testing.T) {
	SetLevel("crs*", LevelWarn)
	SetLevel("crs.converter", LevelTrace)
	defer func() {
		levelLock.Lock()
		delete(levelConfig, "crs*")
		delete(levelConfig, "crs.converter")
		levelLock.Unlock()
	}()

	require.Equal(t, LevelWarn, GetLevel("crs"))
	require.Equal(t, LevelWarn, GetLevel("crs.registry"))
	require.Equal(t, LevelTrace, GetLevel("crs.converter"))
	require.Equal(t, DefaultLevel(), GetLevel("extent"))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name string
		want Level
		ok   bool
	}{
		{"trace", LevelTrace, true},
		{"DEBUG", LevelDebug, true},
		{" info ", LevelInfo, true},
		{"warning", LevelWarn, true},
		{"Error", LevelError, true},
		{"none", LevelError + 1, true},
		{"verbose", LevelAll, false},
	}
	for _, tt := range tests {
		lvl, ok := ParseLogLevelP(tt.name)
		require.Equal(t, tt.want, lvl, tt.name)
		require.Equal(t, tt.ok, ok, tt.name)
	}
}

func TestNewLogWrites(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLog("extent", buf)
	log.SetLevel(LevelDebug)

	log.Trace("hidden")
	log.Debugf("subdivide %dx%d", 2, 2)
	log.Warn("union", "crs mismatch")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "DEBUG extent")
	require.Contains(t, out, "subdivide 2x2")
	require.Contains(t, out, "WARN  extent")
	require.Contains(t, out, "union crs mismatch")
	require.Equal(t, 2, strings.Count(out, "\n"))
}

func TestWrapSlog(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLog("sun", buf)
	log.SetLevel(LevelInfo)

	logger := Wrap(log, func(name string, r slog.Record) bool {
		return !strings.HasPrefix(r.Message, "skip")
	})
	logger.Debug("too low")
	logger.Info("skip me")
	logger.With("lat", 37.5).Info("position", "alt", 0.25)

	out := buf.String()
	require.NotContains(t, out, "too low")
	require.NotContains(t, out, "skip me")
	require.Contains(t, out, "position alt=0.25 lat=37.5")
}

func TestRemoveEscape(t *testing.T) {
	require.Equal(t, "WARN x", removeEscape(yellow+"WARN"+reset+" x"))
	require.Equal(t, "plain", removeEscape("plain"))
}

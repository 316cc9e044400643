package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/robfig/cron/v3"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

/*
	Log rotation schedule

	"0 30 * * * *"             Every hour on the half hour
	"@hourly"                  Every hour
	"@every 1h30m"             Every hour thirty
	"@midnight"                Every day at 00:00
*/

type Config struct {
	Console              bool          `hcl:"console,optional" yaml:"console"`
	Filename             string        `hcl:"filename,optional" yaml:"filename"`
	Append               bool          `hcl:"append,optional" yaml:"append"`
	RotateSchedule       string        `hcl:"rotate_schedule,optional" yaml:"rotateSchedule"`
	MaxSize              int           `hcl:"max_size,optional" yaml:"maxSize"`
	MaxBackups           int           `hcl:"max_backups,optional" yaml:"maxBackups"`
	MaxAge               int           `hcl:"max_age,optional" yaml:"maxAge"`
	Compress             bool          `hcl:"compress,optional" yaml:"compress"`
	UTC                  bool          `hcl:"utc,optional" yaml:"utc"`
	PrefixWidth          int           `hcl:"prefix_width,optional" yaml:"prefixWidth"`
	EnableSourceLocation bool          `hcl:"source_location,optional" yaml:"sourceLocation"`
	DefaultLevel         string        `hcl:"level,optional" yaml:"level"`
	Levels               []LevelConfig `hcl:"level_override,block" yaml:"levels"`
}

type LevelConfig struct {
	Pattern string `hcl:"pattern,label" yaml:"pattern"`
	Level   string `hcl:"level" yaml:"level"`
}

// DefaultConfig writes INFO and above to stdout.
func DefaultConfig() Config {
	return Config{
		Filename:       "-",
		Append:         true,
		RotateSchedule: "@midnight",
		MaxSize:        10,
		MaxBackups:     1,
		MaxAge:         7,
		PrefixWidth:    10,
		DefaultLevel:   "INFO",
	}
}

// PresetConfigDiscard drops every log line, tests use it to keep output quiet.
var PresetConfigDiscard = Config{
	Filename:     ".",
	PrefixWidth:  10,
	DefaultLevel: "ERROR",
}

var (
	writerLock    sync.RWMutex
	defaultWriter = []*logWriter{stdoutWriter()}
	rotateCron    *cron.Cron
)

func stdoutWriter() *logWriter {
	return &logWriter{Writer: colorable.NewColorableStdout(), isTerm: term.IsTerminal(int(os.Stdout.Fd()))}
}

// Configure replaces the process wide writers and level table.
// Filename "-" means stdout only, "." discards everything.
func Configure(cfg *Config) {
	for _, c := range cfg.Levels {
		SetLevel(c.Pattern, ParseLogLevel(c.Level))
	}
	SetDefaultPrefixWidth(cfg.PrefixWidth)
	if cfg.DefaultLevel != "" {
		SetDefaultLevel(ParseLogLevel(cfg.DefaultLevel))
	}
	SetDefaultEnableSourceLocation(cfg.EnableSourceLocation)

	writers := []*logWriter{}
	switch cfg.Filename {
	case ".":
	case "", "-":
		writers = append(writers, stdoutWriter())
	default:
		lj := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
			LocalTime:  !cfg.UTC,
		}
		if !cfg.Append {
			lj.Rotate()
		}
		scheduleRotation(cfg.RotateSchedule, lj)
		writers = append(writers, &logWriter{Writer: lj, isTerm: false})
		if cfg.Console {
			writers = append(writers, stdoutWriter())
		}
	}

	writerLock.Lock()
	defaultWriter = writers
	writerLock.Unlock()
}

func scheduleRotation(schedule string, lj *lumberjack.Logger) {
	if rotateCron != nil {
		rotateCron.Stop()
		rotateCron = nil
	}
	if schedule == "" {
		return
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { lj.Rotate() }); err != nil {
		fmt.Fprintf(os.Stderr, "ERR logger rotate schedule %q %s\n", schedule, err.Error())
		return
	}
	c.Start()
	rotateCron = c
}

// Shutdown stops the rotation scheduler if one is running.
func Shutdown() {
	if rotateCron != nil {
		<-rotateCron.Stop().Done()
		rotateCron = nil
	}
}

func writers() []*logWriter {
	writerLock.RLock()
	defer writerLock.RUnlock()
	return defaultWriter
}

// GetLog returns a logger that writes to the configured default writers.
func GetLog(name string) Log {
	return &levelLogger{
		name:         name,
		level:        GetLevel(name),
		prefixWidth:  DefaultPrefixWidth(),
		enableSrcLoc: DefaultEnableSourceLocation(),
	}
}

// NewLog returns a logger bound to the given writer.
func NewLog(name string, writer io.Writer) Log {
	return &levelLogger{
		name:         name,
		level:        GetLevel(name),
		underlying:   []*logWriter{{Writer: writer, isTerm: false}},
		prefixWidth:  DefaultPrefixWidth(),
		enableSrcLoc: DefaultEnableSourceLocation(),
	}
}

type logWriter struct {
	io.Writer
	isTerm bool
}

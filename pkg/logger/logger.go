// Package logger holds the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	TargetConsole = "console"
	TargetFile    = "file"
)

type Config struct {
	Filename   string   `yaml:"filename"`
	Level      string   `yaml:"level"`
	Targets    []string `yaml:"targets"`
	MaxSize    int      `yaml:"max_size_in_mb"`
	MaxBackups int      `yaml:"max_backups"`
	MaxAge     int      `yaml:"max_age_in_days"`
	Compress   bool     `yaml:"compress"`
}

var (
	mu     sync.RWMutex
	global = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// InitGlobalLogger replaces the global logger with one built from cfg.
// Unknown levels fall back to info; an empty target list logs to the console.
func InitGlobalLogger(cfg *Config) {
	l := New(cfg)

	mu.Lock()
	global = l
	mu.Unlock()
}

func New(cfg *Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	writers := make([]io.Writer, 0, 2)
	for _, target := range cfg.Targets {
		switch target {
		case TargetConsole:
			writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
		case TargetFile:
			if cfg.Filename == "" {
				continue
			}
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.Filename,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
			})
		}
	}

	if len(writers) == 0 {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return global
}

func Debug(msg string, keysAndValues ...any) {
	l := get()
	write(l.Debug(), msg, keysAndValues)
}

func Info(msg string, keysAndValues ...any) {
	l := get()
	write(l.Info(), msg, keysAndValues)
}

func Warn(msg string, keysAndValues ...any) {
	l := get()
	write(l.Warn(), msg, keysAndValues)
}

func Error(msg string, keysAndValues ...any) {
	l := get()
	write(l.Error(), msg, keysAndValues)
}

func write(e *zerolog.Event, msg string, keysAndValues []any) {
	if len(keysAndValues) > 0 {
		e = e.Fields(keysAndValues)
	}

	e.Msg(msg)
}

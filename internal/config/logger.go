package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger writes to stdout (human-readable for log_format "console",
// JSON lines for "json") and, unless LogFile is empty, to a rotated JSON file.
func SetupLogger(cfg Config) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	logger := zerolog.New(logWriter(cfg, os.Stdout)).
		With().Timestamp().Str("service", "noolsaka").Logger()
	log.Logger = logger
	return logger
}

func logWriter(cfg Config, stdout io.Writer) io.Writer {
	var out io.Writer = stdout
	if cfg.LogFormat != "json" {
		out = zerolog.ConsoleWriter{Out: stdout, TimeFormat: time.RFC3339}
	}
	if cfg.LogFile == "" {
		return out
	}
	_ = os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755)
	return zerolog.MultiLevelWriter(out, &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    20, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	})
}

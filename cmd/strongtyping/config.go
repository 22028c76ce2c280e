package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	charmlog "github.com/charmbracelet/log"
	"github.com/joeshaw/envdecode"

	"github.com/ggoodman/strongtyping-go/internal/logctx"
)

// config holds the environment defaults. Every field can be overridden by the
// matching persistent flag.
type config struct {
	// LogLevel is one of debug, info, warn, error. ENV: STRONGTYPING_LOG_LEVEL
	LogLevel string `env:"STRONGTYPING_LOG_LEVEL,default=warn"`
	// LogFormat is text, logfmt or json. ENV: STRONGTYPING_LOG_FORMAT
	LogFormat string `env:"STRONGTYPING_LOG_FORMAT,default=text"`
	// RedisAddr like "localhost:6379". When empty the store commands use an
	// in-process store. ENV: STRONGTYPING_REDIS_ADDR
	RedisAddr string `env:"STRONGTYPING_REDIS_ADDR"`
	// KeyPrefix for all redis keys. ENV: STRONGTYPING_KEY_PREFIX
	KeyPrefix string `env:"STRONGTYPING_KEY_PREFIX,default=strongtyping:store:"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}

// newLogger builds a slog logger backed by charmbracelet/log and decorated
// with the context groups from logctx.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	l := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	switch format {
	case "", "text":
		l.SetFormatter(charmlog.TextFormatter)
	case "logfmt":
		l.SetFormatter(charmlog.LogfmtFormatter)
	case "json":
		l.SetFormatter(charmlog.JSONFormatter)
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
	return slog.New(logctx.Handler{Handler: l}), nil
}

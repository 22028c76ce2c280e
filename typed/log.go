package typed

import (
	"log/slog"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

// SetLogger routes the package's debug logging (clamped values, fields reset
// to their default, migrations) to l. A nil l restores slog.Default().
func SetLogger(l *slog.Logger) { current.Store(l) }

func logger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return slog.Default()
}

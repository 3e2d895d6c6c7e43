package plotgg

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/plotgg/cache"
)

// nopHandler discards every record. Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger sets the logger for plotgg and its cache. By default nothing is
// logged; pass nil to restore that.
//
// Levels used:
//   - [slog.LevelDebug]: pattern builds, marker conversions, context resets
//   - [slog.LevelInfo]: default backend selection
//   - [slog.LevelWarn]: draw calls aborted by a drawing failure
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
	cache.SetLogger(l)
}

// Logger returns the current logger. Sub-packages such as
// integration/plotcanvas use it to share the configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

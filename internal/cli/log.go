// Package cli implements the progression command-line interface.
//
// # Commands
//
// The main commands are:
//   - generate: order the units of a definition file and export the result
//   - compare: show the ascending and descending tie-breaks side by side
//   - usages: tabulate the usage counts of a usage pass
//   - graph: draw the definition as DOT or SVG, or convert it to TOML/JSON
//   - step: walk through a progression, copying each unit to the clipboard
//   - stamp: prefix stdin lines with the time since start, for play-test logs
//   - cache: manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context, and debug logging also reports generation
// and cache events through the observability hooks.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/progression/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Generated 14 units (3ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Hooks
// =============================================================================

// logHooks reports generation and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

func installHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetGenerationHooks(h)
	observability.SetCacheHooks(h)
}

func (h logHooks) OnLoad(_ context.Context, source string, nodes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("load", "source", source, "nodes", nodes, "duration", d)
}

func (h logHooks) OnUsagePass(_ context.Context, root string, total int, d time.Duration) {
	h.logger.Debug("usage pass", "root", root, "total", total, "duration", d)
}

func (h logHooks) OnProgression(_ context.Context, root string, units int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("progression failed", "root", root, "err", err)
		return
	}
	h.logger.Debug("progression", "root", root, "units", units, "duration", d)
}

func (h logHooks) OnCompare(_ context.Context, root string, diffs int, d time.Duration, err error) {
	h.logger.Debug("compare", "root", root, "differences", diffs, "duration", d, "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ observability.GenerationHooks = logHooks{}
	_ observability.CacheHooks      = logHooks{}
)

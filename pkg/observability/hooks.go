// Package observability provides hooks for metrics, tracing, and logging.
//
// Hooks let a binary instrument generation runs and cache traffic without
// the library packages depending on any particular backend. The core
// packages never call hooks themselves; the pipeline runner does, because it
// is the layer that owns a [context.Context].
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetGenerationHooks(&myGenerationHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// The runner emits events as it goes:
//
//	start := time.Now()
//	res, err := progression.Generate(g, root, params)
//	observability.Generation().OnProgression(ctx, name, len(res.Order), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Generation Hooks
// =============================================================================

// GenerationHooks receives events from progression generation.
type GenerationHooks interface {
	// OnLoad records reading a graph definition.
	OnLoad(ctx context.Context, source string, nodeCount int, duration time.Duration, err error)

	// OnUsagePass records a completed usage pass. total is the sum of all
	// usage counters.
	OnUsagePass(ctx context.Context, root string, total int, duration time.Duration)

	// OnProgression records a full generation run.
	OnProgression(ctx context.Context, root string, units int, duration time.Duration, err error)

	// OnCompare records a diagnostic comparison.
	OnCompare(ctx context.Context, root string, differences int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGenerationHooks is a no-op implementation of GenerationHooks.
type NoopGenerationHooks struct{}

func (NoopGenerationHooks) OnLoad(context.Context, string, int, time.Duration, error)        {}
func (NoopGenerationHooks) OnUsagePass(context.Context, string, int, time.Duration)          {}
func (NoopGenerationHooks) OnProgression(context.Context, string, int, time.Duration, error) {}
func (NoopGenerationHooks) OnCompare(context.Context, string, int, time.Duration, error)     {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	generationHooks GenerationHooks = NoopGenerationHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	hooksMu         sync.RWMutex
)

// SetGenerationHooks registers custom generation hooks.
// This should be called once at application startup. Nil is ignored.
func SetGenerationHooks(h GenerationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		generationHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Generation returns the registered generation hooks.
func Generation() GenerationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return generationHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	generationHooks = NoopGenerationHooks{}
	cacheHooks = NoopCacheHooks{}
}

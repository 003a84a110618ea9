// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about project persistence, diagram overlays, exports and
// cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetProjectHooks(&myProjectHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Project().OnLoadStart(path)
//	// ... read index and element files ...
//	observability.Project().OnLoadComplete(path, count, duration, err)
//
// Project and diagram persistence is synchronous and not cancellable, so
// those hooks carry no context. Export and cache hooks do.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Project Hooks
// =============================================================================

// ProjectHooks receives events from the project store.
type ProjectHooks interface {
	// Load events
	OnLoadStart(path string)
	OnLoadComplete(path string, elements int, duration time.Duration, err error)

	// Save events. files is the number of files written.
	OnSaveStart(path string)
	OnSaveComplete(path string, files int, duration time.Duration, err error)

	// OnFileRemoved records a lazily deleted file being unlinked.
	OnFileRemoved(path string)
}

// =============================================================================
// Diagram Hooks
// =============================================================================

// DiagramHooks receives events from diagram overlays.
type DiagramHooks interface {
	// OnOpen records an overlay being read. skipped counts shapes whose
	// element no longer exists.
	OnOpen(diagram string, nodes, edges, skipped int, duration time.Duration, err error)

	// OnSave records an overlay being written.
	OnSave(diagram string, duration time.Duration, err error)
}

// =============================================================================
// Export Hooks
// =============================================================================

// ExportHooks receives events from the export renderer.
type ExportHooks interface {
	OnRenderStart(ctx context.Context, format string, nodeCount int)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
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

// NoopProjectHooks is a no-op implementation of ProjectHooks.
type NoopProjectHooks struct{}

func (NoopProjectHooks) OnLoadStart(string)                                {}
func (NoopProjectHooks) OnLoadComplete(string, int, time.Duration, error) {}
func (NoopProjectHooks) OnSaveStart(string)                                {}
func (NoopProjectHooks) OnSaveComplete(string, int, time.Duration, error) {}
func (NoopProjectHooks) OnFileRemoved(string)                              {}

// NoopDiagramHooks is a no-op implementation of DiagramHooks.
type NoopDiagramHooks struct{}

func (NoopDiagramHooks) OnOpen(string, int, int, int, time.Duration, error) {}
func (NoopDiagramHooks) OnSave(string, time.Duration, error)                {}

// NoopExportHooks is a no-op implementation of ExportHooks.
type NoopExportHooks struct{}

func (NoopExportHooks) OnRenderStart(context.Context, string, int) {}
func (NoopExportHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	projectHooks ProjectHooks = NoopProjectHooks{}
	diagramHooks DiagramHooks = NoopDiagramHooks{}
	exportHooks  ExportHooks  = NoopExportHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hooksMu      sync.RWMutex
)

// SetProjectHooks registers custom project hooks.
// This should be called once at application startup before any project is loaded.
func SetProjectHooks(h ProjectHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		projectHooks = h
	}
}

// SetDiagramHooks registers custom diagram hooks.
func SetDiagramHooks(h DiagramHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		diagramHooks = h
	}
}

// SetExportHooks registers custom export hooks.
func SetExportHooks(h ExportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		exportHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Project returns the registered project hooks.
func Project() ProjectHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return projectHooks
}

// Diagram returns the registered diagram hooks.
func Diagram() DiagramHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return diagramHooks
}

// Export returns the registered export hooks.
func Export() ExportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return exportHooks
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
	projectHooks = NoopProjectHooks{}
	diagramHooks = NoopDiagramHooks{}
	exportHooks = NoopExportHooks{}
	cacheHooks = NoopCacheHooks{}
}

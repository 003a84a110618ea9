package export

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/umlstack/pkg/cache"
	errs "github.com/matzehuels/umlstack/pkg/errors"
	"github.com/matzehuels/umlstack/pkg/observability"
)

// Output formats accepted by [Runner.Render].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// Formats lists the supported output formats.
var Formats = []string{FormatDOT, FormatSVG}

// RenderFunc turns a DOT document into SVG bytes.
type RenderFunc func(ctx context.Context, dot string) ([]byte, error)

// Runner renders DOT documents with caching.
//
// The Runner is stateless except for the cache and logger, so one Runner
// may serve several goroutines.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
	// TTL is the lifetime of cached renders. Zero never expires.
	TTL time.Duration

	render RenderFunc
}

// RunnerOption configures a [Runner].
type RunnerOption func(*Runner)

// WithRenderFunc replaces the Graphviz renderer.
func WithRenderFunc(f RenderFunc) RunnerOption { return func(r *Runner) { r.render = f } }

// WithTTL sets the lifetime of cached renders.
func WithTTL(ttl time.Duration) RunnerOption { return func(r *Runner) { r.TTL = ttl } }

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger, opts ...RunnerOption) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	r := &Runner{Cache: c, Logger: logger, render: RenderSVG}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts dot to the requested format and reports whether the result
// came from the cache. The dot format is returned as is.
func (r *Runner) Render(ctx context.Context, dot, format string) ([]byte, bool, error) {
	switch format {
	case FormatDOT:
		return []byte(dot), false, nil
	case FormatSVG:
	default:
		return nil, false, errs.New(errs.ErrCodeUnsupportedFormat, "unsupported format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}

	key := cache.RenderKey(format, dot)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "render")
		r.Logger.Debug("render cache hit", "format", format)
		return data, true, nil
	} else if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	hooks := observability.Export()
	nodes, _ := Stats(dot)
	hooks.OnRenderStart(ctx, format, nodes)
	start := time.Now()
	data, err := r.render(ctx, dot)
	hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "render", len(data))
	}
	return data, false, nil
}

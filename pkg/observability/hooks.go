// Package observability lets applications observe layout passes, cache
// traffic and API requests without the libraries depending on a metrics
// backend.
//
// Libraries report events to the hooks registered here; applications
// register implementations at startup. The defaults do nothing. The
// [github.com/matzehuels/chartcore/pkg/observability/prom] package
// provides Prometheus implementations:
//
//	if _, err := prom.Install(prom.Config{}); err != nil {
//	    return err
//	}
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from layout passes.
type PipelineHooks interface {
	// OnPassStart is called before the model of a pass is built.
	OnPassStart(ctx context.Context)
	// OnPassComplete is called when a pass ends, err is nil on success.
	OnPassComplete(ctx context.Context, seriesCount int, duration time.Duration, err error)
	// OnTask is called after a layout task ran over all its series.
	OnTask(ctx context.Context, task string, chunks int, duration time.Duration)
}

// CacheHooks receives events from cached pipeline stages. kind is
// "layout" or "export".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// HTTPHooks receives events from the API server. route is the matched
// route pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopPipelineHooks ignores all pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnPassStart(context.Context)                               {}
func (NoopPipelineHooks) OnPassComplete(context.Context, int, time.Duration, error) {}
func (NoopPipelineHooks) OnTask(context.Context, string, int, time.Duration)        {}

// NoopCacheHooks ignores all cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores all HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// hookSet is one consistent registration of all hooks. Setters swap in a
// modified copy, so readers never take a lock.
type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var registered atomic.Pointer[hookSet]

func init() { Reset() }

func update(set func(*hookSet)) {
	for {
		old := registered.Load()
		next := *old
		set(&next)
		if registered.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks registers h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(s *hookSet) { s.pipeline = h })
	}
}

// SetCacheHooks registers h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetHTTPHooks registers h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(s *hookSet) { s.http = h })
	}
}

// Pipeline, Cache and HTTP return the registered hooks.
func Pipeline() PipelineHooks { return registered.Load().pipeline }
func Cache() CacheHooks       { return registered.Load().cache }
func HTTP() HTTPHooks         { return registered.Load().http }

// Reset restores the no-op hooks.
func Reset() {
	registered.Store(&hookSet{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	})
}

package openapi

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// cacheTTL bounds how stale the cached public document may get.
const cacheTTL = 30 * time.Second

// Service wraps the Generator with a short-lived cache of the unfiltered
// public document. Filtered or authenticated requests always regenerate:
// their output depends on the request, not just the route set.
type Service struct {
	generator *Generator
	logger    zerolog.Logger

	cache atomic.Pointer[cachedSpec]
	mu    sync.Mutex // serializes cache regeneration
	onHit func()
}

type cachedSpec struct {
	spec        *Spec
	generatedAt time.Time
}

// NewService creates a service around a generator.
func NewService(gen *Generator, logger zerolog.Logger) *Service {
	return &Service{generator: gen, logger: logger}
}

// OnCacheHit registers a callback invoked whenever a document is served
// from cache, used for metrics. Must be called before the service handles
// requests.
func (s *Service) OnCacheHit(fn func()) {
	s.onHit = fn
}

// Generate returns the document for a request. Plain public requests are
// served from cache when fresh.
func (s *Service) Generate(ctx context.Context, req *DocRequest, public bool) (*Spec, error) {
	if !cacheable(req, public) {
		return s.generator.GenerateDocument(ctx, req, public)
	}

	if cached := s.cache.Load(); cached != nil && time.Since(cached.generatedAt) < cacheTTL {
		s.recordHit()
		return withServer(cached.spec, req.BaseURL), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another request may have refreshed the cache while we waited.
	if cached := s.cache.Load(); cached != nil && time.Since(cached.generatedAt) < cacheTTL {
		s.recordHit()
		return withServer(cached.spec, req.BaseURL), nil
	}

	spec, err := s.generator.GenerateDocument(ctx, &DocRequest{}, public)
	if err != nil {
		return nil, err
	}
	s.cache.Store(&cachedSpec{spec: spec, generatedAt: time.Now()})
	s.logger.Debug().Msg("document cache refreshed")
	return withServer(spec, req.BaseURL), nil
}

// Invalidate drops the cached document. Called when routes or settings
// change.
func (s *Service) Invalidate() {
	s.cache.Store(nil)
}

func (s *Service) recordHit() {
	if s.onHit != nil {
		s.onHit()
	}
}

// cacheable reports whether the request can share the plain public
// document.
func cacheable(req *DocRequest, public bool) bool {
	if !public || req == nil {
		return false
	}
	return req.Plugin == "" && !req.Bindings && !req.IncludeHTML && req.Identity == ""
}

// withServer returns a shallow copy of the spec carrying the request's
// server URL. The cached document itself is never mutated.
func withServer(spec *Spec, baseURL string) *Spec {
	if baseURL == "" {
		return spec
	}
	out := *spec
	out.Servers = []Server{{URL: baseURL}}
	return &out
}

package openapi

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/artpar/docgate/domain/route"
)

// countingRegistry counts List calls so tests can observe cache behavior.
type countingRegistry struct {
	endpoints []*route.Endpoint
	calls     int
}

func (c *countingRegistry) List(ctx context.Context) ([]*route.Endpoint, error) {
	c.calls++
	return c.endpoints, nil
}

func newTestService(reg *countingRegistry) *Service {
	gen := NewGenerator(GeneratorConfig{Routes: reg, Logger: zerolog.Nop()})
	return NewService(gen, zerolog.Nop())
}

func TestService_CachesPublicDocument(t *testing.T) {
	reg := &countingRegistry{endpoints: fixtureEndpoints()}
	svc := newTestService(reg)
	ctx := context.Background()

	if _, err := svc.Generate(ctx, &DocRequest{}, true); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := svc.Generate(ctx, &DocRequest{}, true); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if reg.calls != 1 {
		t.Errorf("expected 1 registry walk, got %d", reg.calls)
	}
}

func TestService_FilteredRequestsBypassCache(t *testing.T) {
	reg := &countingRegistry{endpoints: fixtureEndpoints()}
	svc := newTestService(reg)
	ctx := context.Background()

	if _, err := svc.Generate(ctx, &DocRequest{}, true); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := svc.Generate(ctx, &DocRequest{Plugin: "file"}, true); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := svc.Generate(ctx, &DocRequest{Bindings: true}, true); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if reg.calls != 3 {
		t.Errorf("expected 3 registry walks, got %d", reg.calls)
	}
}

func TestService_PrivateRequestsBypassCache(t *testing.T) {
	reg := &countingRegistry{endpoints: fixtureEndpoints()}
	svc := newTestService(reg)
	ctx := context.Background()

	if _, err := svc.Generate(ctx, &DocRequest{}, false); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := svc.Generate(ctx, &DocRequest{}, false); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if reg.calls != 2 {
		t.Errorf("expected 2 registry walks, got %d", reg.calls)
	}
}

func TestService_Invalidate(t *testing.T) {
	reg := &countingRegistry{endpoints: fixtureEndpoints()}
	svc := newTestService(reg)
	ctx := context.Background()

	if _, err := svc.Generate(ctx, &DocRequest{}, true); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	svc.Invalidate()
	if _, err := svc.Generate(ctx, &DocRequest{}, true); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if reg.calls != 2 {
		t.Errorf("expected regeneration after Invalidate, got %d walks", reg.calls)
	}
}

func TestService_OnCacheHitFiresForCachedServes(t *testing.T) {
	reg := &countingRegistry{endpoints: fixtureEndpoints()}
	svc := newTestService(reg)
	ctx := context.Background()

	var hits int
	svc.OnCacheHit(func() { hits++ })

	for i := 0; i < 3; i++ {
		if _, err := svc.Generate(ctx, &DocRequest{}, true); err != nil {
			t.Fatalf("Generate: %v", err)
		}
	}
	if hits != 2 {
		t.Errorf("cache hits = %d, want 2 (first request fills the cache)", hits)
	}

	// Requests that bypass the cache never count as hits.
	if _, err := svc.Generate(ctx, &DocRequest{Plugin: "file"}, true); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if hits != 2 {
		t.Errorf("cache hits after filtered request = %d, want 2", hits)
	}
}

func TestService_CachedCopyCarriesRequestServer(t *testing.T) {
	reg := &countingRegistry{endpoints: fixtureEndpoints()}
	svc := newTestService(reg)
	ctx := context.Background()

	first, err := svc.Generate(ctx, &DocRequest{BaseURL: "https://one.example.com/"}, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := svc.Generate(ctx, &DocRequest{BaseURL: "https://two.example.com/"}, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if first.Servers[0].URL != "https://one.example.com/" {
		t.Errorf("first server = %q", first.Servers[0].URL)
	}
	if second.Servers[0].URL != "https://two.example.com/" {
		t.Errorf("second server = %q", second.Servers[0].URL)
	}
}

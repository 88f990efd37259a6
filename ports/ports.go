// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/artpar/docgate/domain/route"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Documentation Ports
// -----------------------------------------------------------------------------

// RouteRegistry supplies the endpoints to document. The registry is the
// generator's only view of the server's routing table.
type RouteRegistry interface {
	// List returns every registered endpoint. The returned slice is shared;
	// callers must not mutate it.
	List(ctx context.Context) ([]*route.Endpoint, error)
}

// PermissionChecker decides whether an identity may see an endpoint in the
// generated document. Denied endpoints are skipped, never reported.
type PermissionChecker interface {
	Allowed(ctx context.Context, identity string, ep *route.Endpoint) bool
}

// Settings holds the document metadata persisted between restarts.
type Settings struct {
	Title       string
	Description string
	LogoURL     string
	// Versions maps component names to their installed versions. It is
	// published on the document as x-component-versions.
	Versions  map[string]string
	UpdatedAt time.Time
}

// SettingsStore persists document settings.
type SettingsStore interface {
	Get(ctx context.Context) (Settings, error)
	Put(ctx context.Context, s Settings) error
}

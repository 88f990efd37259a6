package client

import (
	"context"
	"fmt"
)

// Repository is the wire format for repositories.
type Repository struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Arch         string            `json:"arch"`
	Feed         string            `json:"feed,omitempty"`
	UseSymlinks  bool              `json:"use_symlinks,omitempty"`
	SyncSchedule string            `json:"sync_schedule,omitempty"`
	CertData     map[string]string `json:"cert_data,omitempty"`

	// Filled on Get by follow-up subresource fetches.
	Packages               []Package        `json:"packages,omitempty"`
	PackageGroups          []PackageGroup   `json:"packagegroups,omitempty"`
	PackageGroupCategories []map[string]any `json:"packagegroupcategories,omitempty"`
}

// PackageGroup is the wire format for package groups.
type PackageGroup struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Packages    []string `json:"packages,omitempty"`
}

// SyncStatus reports the progress of a repository sync task.
type SyncStatus struct {
	ID        string `json:"id"`
	State     string `json:"state"`
	Progress  string `json:"progress,omitempty"`
	Exception string `json:"exception,omitempty"`
}

// RepositoryService accesses repository calls.
type RepositoryService struct {
	c *Client
}

// NewRepositoryService creates a repository service.
func NewRepositoryService(c *Client) *RepositoryService {
	return &RepositoryService{c: c}
}

// Create registers a new repository.
func (s *RepositoryService) Create(ctx context.Context, repo Repository) (*Repository, error) {
	var out Repository
	if _, err := s.c.put(ctx, "/repositories/", repo, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a repository with its deferred subresources. Returns nil
// without error when the repository does not exist.
func (s *RepositoryService) Get(ctx context.Context, id string) (*Repository, error) {
	base := fmt.Sprintf("/repositories/%s/", id)

	var out Repository
	found, err := s.c.get(ctx, base, &out)
	if err != nil || !found {
		return nil, err
	}

	if _, err := s.c.get(ctx, base+"packages/", &out.Packages); err != nil {
		return nil, err
	}
	if _, err := s.c.get(ctx, base+"packagegroups/", &out.PackageGroups); err != nil {
		return nil, err
	}
	if _, err := s.c.get(ctx, base+"packagegroupcategories/", &out.PackageGroupCategories); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns all repositories.
func (s *RepositoryService) List(ctx context.Context) ([]Repository, error) {
	var out []Repository
	if _, err := s.c.get(ctx, "/repositories/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces a repository definition.
func (s *RepositoryService) Update(ctx context.Context, repo Repository) (*Repository, error) {
	var out Repository
	if _, err := s.c.put(ctx, fmt.Sprintf("/repositories/%s/", repo.ID), repo, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a repository.
func (s *RepositoryService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, fmt.Sprintf("/repositories/%s/", id))
}

// Sync starts a sync task and returns the status path to poll.
func (s *RepositoryService) Sync(ctx context.Context, id string, timeoutSecs *int) (string, error) {
	var statusPath string
	body := map[string]any{"timeout": timeoutSecs}
	if _, err := s.c.post(ctx, fmt.Sprintf("/repositories/%s/sync/", id), body, &statusPath); err != nil {
		return "", err
	}
	return statusPath, nil
}

// SyncStatus polls a sync status path returned by Sync. Returns nil when
// the task is no longer known.
func (s *RepositoryService) SyncStatus(ctx context.Context, statusPath string) (*SyncStatus, error) {
	var out SyncStatus
	found, err := s.c.get(ctx, statusPath, &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

// AddPackage associates an existing package with a repository.
func (s *RepositoryService) AddPackage(ctx context.Context, repoID, packageID string) error {
	body := map[string]string{"repoid": repoID, "packageid": packageID}
	_, err := s.c.post(ctx, fmt.Sprintf("/repositories/%s/add_package/", repoID), body, nil)
	return err
}

// Packages lists the packages in a repository.
func (s *RepositoryService) Packages(ctx context.Context, repoID string) ([]Package, error) {
	var out []Package
	if _, err := s.c.get(ctx, fmt.Sprintf("/repositories/%s/packages/", repoID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PackageGroups lists the package groups in a repository.
func (s *RepositoryService) PackageGroups(ctx context.Context, repoID string) ([]PackageGroup, error) {
	var out []PackageGroup
	if _, err := s.c.get(ctx, fmt.Sprintf("/repositories/%s/packagegroups/", repoID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddErrata associates errata with a repository.
func (s *RepositoryService) AddErrata(ctx context.Context, repoID string, errataIDs []string) error {
	body := map[string]any{"repoid": repoID, "errataid": errataIDs}
	_, err := s.c.post(ctx, fmt.Sprintf("/repositories/%s/add_errata/", repoID), body, nil)
	return err
}

// DeleteErrata removes errata from a repository.
func (s *RepositoryService) DeleteErrata(ctx context.Context, repoID string, errataIDs []string) error {
	body := map[string]any{"repoid": repoID, "errataid": errataIDs}
	_, err := s.c.post(ctx, fmt.Sprintf("/repositories/%s/delete_errata/", repoID), body, nil)
	return err
}

// ListErrata lists repository errata, optionally filtered by type.
func (s *RepositoryService) ListErrata(ctx context.Context, repoID string, types []string) ([]Erratum, error) {
	body := map[string]any{"repoid": repoID, "types": types}
	var out []Erratum
	if _, err := s.c.post(ctx, fmt.Sprintf("/repositories/%s/list_errata/", repoID), body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Upload pushes package content into a repository. The stream is
// base64-encoded on the wire.
func (s *RepositoryService) Upload(ctx context.Context, repoID string, info Package, stream []byte) error {
	body := map[string]any{"repo": repoID, "pkginfo": info, "pkgstream": stream}
	_, err := s.c.post(ctx, fmt.Sprintf("/repositories/%s/upload/", repoID), body, nil)
	return err
}

// Schedules returns the sync schedule of every repository, keyed by id.
func (s *RepositoryService) Schedules(ctx context.Context) (map[string]string, error) {
	var out map[string]string
	if _, err := s.c.get(ctx, "/repositories/schedules/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

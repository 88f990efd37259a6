package client

import (
	"context"
	"fmt"
	"net/url"
)

// Package is the wire format for packages.
type Package struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Epoch        string `json:"epoch,omitempty"`
	Version      string `json:"version"`
	Release      string `json:"release"`
	Arch         string `json:"arch"`
	Description  string `json:"description,omitempty"`
	ChecksumType string `json:"checksum_type,omitempty"`
	Checksum     string `json:"checksum,omitempty"`
	Filename     string `json:"filename,omitempty"`
}

// PackageService accesses package calls.
type PackageService struct {
	c *Client
}

// NewPackageService creates a package service.
func NewPackageService(c *Client) *PackageService {
	return &PackageService{c: c}
}

// Create registers a new package.
func (s *PackageService) Create(ctx context.Context, pkg Package) (*Package, error) {
	var out Package
	if _, err := s.c.put(ctx, "/packages/", pkg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a package by id. Returns nil without error when the package
// does not exist.
func (s *PackageService) Get(ctx context.Context, id string) (*Package, error) {
	var out Package
	found, err := s.c.get(ctx, fmt.Sprintf("/packages/%s/", id), &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

// List returns all packages.
func (s *PackageService) List(ctx context.Context) ([]Package, error) {
	var out []Package
	if _, err := s.c.get(ctx, "/packages/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a package.
func (s *PackageService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, fmt.Sprintf("/packages/%s/", id))
}

// GetByNVREA looks a package up by name, version, release, epoch, and
// arch. Returns nil without error when no such package exists.
func (s *PackageService) GetByNVREA(ctx context.Context, name, version, release, epoch, arch string) (*Package, error) {
	path := fmt.Sprintf("/packages/%s/%s/%s/%s/%s/",
		url.PathEscape(name), url.PathEscape(version), url.PathEscape(release),
		url.PathEscape(epoch), url.PathEscape(arch))

	var out Package
	found, err := s.c.get(ctx, path, &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

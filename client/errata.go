package client

import (
	"context"
	"fmt"
)

// Erratum is the wire format for errata.
type Erratum struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Version         string   `json:"version,omitempty"`
	Release         string   `json:"release,omitempty"`
	Type            string   `json:"type"`
	Status          string   `json:"status,omitempty"`
	Updated         string   `json:"updated,omitempty"`
	Issued          string   `json:"issued,omitempty"`
	PushCount       string   `json:"pushcount,omitempty"`
	UpdateID        string   `json:"update_id,omitempty"`
	From            string   `json:"from_str,omitempty"`
	RebootSuggested bool     `json:"reboot_suggested,omitempty"`
	References      []string `json:"references,omitempty"`
	PackageList     []string `json:"pkglist,omitempty"`
}

// ErrataService accesses errata calls.
type ErrataService struct {
	c *Client
}

// NewErrataService creates an errata service.
func NewErrataService(c *Client) *ErrataService {
	return &ErrataService{c: c}
}

// Get fetches an erratum by id. Returns nil without error when the
// erratum does not exist.
func (s *ErrataService) Get(ctx context.Context, id string) (*Erratum, error) {
	var out Erratum
	found, err := s.c.get(ctx, fmt.Sprintf("/errata/%s/", id), &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

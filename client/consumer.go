package client

import (
	"context"
	"fmt"
	"net/url"
)

// Consumer is the wire format for consumers.
type Consumer struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`

	// Filled on Get by follow-up subresource fetches.
	PackageProfile []Package `json:"package_profile,omitempty"`
	RepoIDs        []string  `json:"repoids,omitempty"`
}

// ConsumerService accesses consumer calls.
type ConsumerService struct {
	c *Client
}

// NewConsumerService creates a consumer service.
func NewConsumerService(c *Client) *ConsumerService {
	return &ConsumerService{c: c}
}

// Create registers a new consumer.
func (s *ConsumerService) Create(ctx context.Context, id, description string) (*Consumer, error) {
	body := map[string]string{"id": id, "description": description}
	var out Consumer
	if _, err := s.c.put(ctx, "/consumers/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BulkCreate registers many consumers in one call.
func (s *ConsumerService) BulkCreate(ctx context.Context, consumers []Consumer) error {
	_, err := s.c.post(ctx, "/consumers/bulk/", consumers, nil)
	return err
}

// Get fetches a consumer with its deferred subresources. Returns nil
// without error when the consumer does not exist.
func (s *ConsumerService) Get(ctx context.Context, id string) (*Consumer, error) {
	base := fmt.Sprintf("/consumers/%s/", id)

	var out Consumer
	found, err := s.c.get(ctx, base, &out)
	if err != nil || !found {
		return nil, err
	}

	if _, err := s.c.get(ctx, base+"package_profile/", &out.PackageProfile); err != nil {
		return nil, err
	}
	if _, err := s.c.get(ctx, base+"repoids/", &out.RepoIDs); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns all consumers.
func (s *ConsumerService) List(ctx context.Context) ([]Consumer, error) {
	var out []Consumer
	if _, err := s.c.get(ctx, "/consumers/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListWithPackage returns the consumers that have the named package
// installed.
func (s *ConsumerService) ListWithPackage(ctx context.Context, packageName string) ([]Consumer, error) {
	var out []Consumer
	path := "/consumers/?package_name=" + url.QueryEscape(packageName)
	if _, err := s.c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces a consumer definition.
func (s *ConsumerService) Update(ctx context.Context, consumer Consumer) (*Consumer, error) {
	var out Consumer
	if _, err := s.c.put(ctx, fmt.Sprintf("/consumers/%s/", consumer.ID), consumer, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a consumer.
func (s *ConsumerService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, fmt.Sprintf("/consumers/%s/", id))
}

// Bind subscribes a consumer to a repository.
func (s *ConsumerService) Bind(ctx context.Context, id, repoID string) error {
	_, err := s.c.post(ctx, fmt.Sprintf("/consumers/%s/bind/", id), repoID, nil)
	return err
}

// Unbind removes a consumer's subscription to a repository.
func (s *ConsumerService) Unbind(ctx context.Context, id, repoID string) error {
	_, err := s.c.post(ctx, fmt.Sprintf("/consumers/%s/unbind/", id), repoID, nil)
	return err
}

// Profile uploads the consumer's installed-package profile.
func (s *ConsumerService) Profile(ctx context.Context, id string, profile []Package) error {
	_, err := s.c.post(ctx, fmt.Sprintf("/consumers/%s/profile/", id), profile, nil)
	return err
}

// InstallPackages schedules a package install on the consumer and returns
// the task id.
func (s *ConsumerService) InstallPackages(ctx context.Context, id string, packageNames []string) (string, error) {
	body := map[string]any{"packagenames": packageNames}
	var task string
	if _, err := s.c.post(ctx, fmt.Sprintf("/consumers/%s/installpackages/", id), body, &task); err != nil {
		return "", err
	}
	return task, nil
}

// InstallErrata schedules an errata install on the consumer and returns
// the task id.
func (s *ConsumerService) InstallErrata(ctx context.Context, id string, errataIDs, types []string) (string, error) {
	body := map[string]any{"consumerid": id, "errataids": errataIDs, "types": types}
	var task string
	if _, err := s.c.post(ctx, fmt.Sprintf("/consumers/%s/installerrata/", id), body, &task); err != nil {
		return "", err
	}
	return task, nil
}

// ListErrata lists the errata applicable to a consumer, optionally
// filtered by type.
func (s *ConsumerService) ListErrata(ctx context.Context, id string, types []string) ([]Erratum, error) {
	body := map[string]any{"types": types}
	var out []Erratum
	if _, err := s.c.post(ctx, fmt.Sprintf("/consumers/%s/listerrata/", id), body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Certificate fetches the consumer's identity certificate bundle.
func (s *ConsumerService) Certificate(ctx context.Context, id string) (map[string]string, error) {
	var out map[string]string
	if _, err := s.c.get(ctx, fmt.Sprintf("/consumers/%s/certificate/", id), &out); err != nil {
		return nil, err
	}
	return out, nil
}

package client

import (
	"context"
	"fmt"
)

// ConsumerGroup is the wire format for consumer groups.
type ConsumerGroup struct {
	ID          string   `json:"id"`
	Description string   `json:"description,omitempty"`
	ConsumerIDs []string `json:"consumerids,omitempty"`
}

// ConsumerGroupService accesses consumer group calls.
type ConsumerGroupService struct {
	c *Client
}

// NewConsumerGroupService creates a consumer group service.
func NewConsumerGroupService(c *Client) *ConsumerGroupService {
	return &ConsumerGroupService{c: c}
}

// Create registers a new consumer group.
func (s *ConsumerGroupService) Create(ctx context.Context, id, description string, consumerIDs []string) (*ConsumerGroup, error) {
	body := map[string]any{"id": id, "description": description, "consumerids": consumerIDs}
	var out ConsumerGroup
	if _, err := s.c.put(ctx, "/consumergroups/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a consumer group. Returns nil without error when the group
// does not exist.
func (s *ConsumerGroupService) Get(ctx context.Context, id string) (*ConsumerGroup, error) {
	var out ConsumerGroup
	found, err := s.c.get(ctx, fmt.Sprintf("/consumergroups/%s/", id), &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

// List returns all consumer groups.
func (s *ConsumerGroupService) List(ctx context.Context) ([]ConsumerGroup, error) {
	var out []ConsumerGroup
	if _, err := s.c.get(ctx, "/consumergroups/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces a consumer group definition.
func (s *ConsumerGroupService) Update(ctx context.Context, group ConsumerGroup) (*ConsumerGroup, error) {
	var out ConsumerGroup
	if _, err := s.c.put(ctx, fmt.Sprintf("/consumergroups/%s/", group.ID), group, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a consumer group.
func (s *ConsumerGroupService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, fmt.Sprintf("/consumergroups/%s/", id))
}

// AddConsumer adds a consumer to the group.
func (s *ConsumerGroupService) AddConsumer(ctx context.Context, id, consumerID string) error {
	_, err := s.c.post(ctx, fmt.Sprintf("/consumergroups/%s/add_consumer/", id), consumerID, nil)
	return err
}

// DeleteConsumer removes a consumer from the group.
func (s *ConsumerGroupService) DeleteConsumer(ctx context.Context, id, consumerID string) error {
	_, err := s.c.post(ctx, fmt.Sprintf("/consumergroups/%s/delete_consumer/", id), consumerID, nil)
	return err
}

// Bind subscribes every consumer in the group to a repository.
func (s *ConsumerGroupService) Bind(ctx context.Context, id, repoID string) error {
	_, err := s.c.post(ctx, fmt.Sprintf("/consumergroups/%s/bind/", id), repoID, nil)
	return err
}

// Unbind removes the group's subscription to a repository.
func (s *ConsumerGroupService) Unbind(ctx context.Context, id, repoID string) error {
	_, err := s.c.post(ctx, fmt.Sprintf("/consumergroups/%s/unbind/", id), repoID, nil)
	return err
}

// InstallPackages schedules a package install on every consumer in the
// group and returns the task id.
func (s *ConsumerGroupService) InstallPackages(ctx context.Context, id string, packageNames []string) (string, error) {
	body := map[string]any{"packagenames": packageNames}
	var task string
	if _, err := s.c.post(ctx, fmt.Sprintf("/consumergroups/%s/installpackages/", id), body, &task); err != nil {
		return "", err
	}
	return task, nil
}

// InstallErrata schedules an errata install on every consumer in the
// group and returns the task id.
func (s *ConsumerGroupService) InstallErrata(ctx context.Context, id string, errataIDs, types []string) (string, error) {
	body := map[string]any{"consumerid": id, "errataids": errataIDs, "types": types}
	var task string
	if _, err := s.c.post(ctx, fmt.Sprintf("/consumergroups/%s/installerrata/", id), body, &task); err != nil {
		return "", err
	}
	return task, nil
}

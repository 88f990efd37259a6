package client

import (
	"context"
	"fmt"
)

// User is the wire format for users.
type User struct {
	ID       string `json:"id,omitempty"`
	Login    string `json:"login"`
	Password string `json:"password,omitempty"`
	Name     string `json:"name,omitempty"`
}

// UserService accesses user calls.
type UserService struct {
	c *Client
}

// NewUserService creates a user service.
func NewUserService(c *Client) *UserService {
	return &UserService{c: c}
}

// Create registers a new user.
func (s *UserService) Create(ctx context.Context, login, password, name string) (*User, error) {
	body := map[string]string{"login": login, "password": password, "name": name}
	var out User
	if _, err := s.c.put(ctx, "/users/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a user by login. Returns nil without error when the user
// does not exist.
func (s *UserService) Get(ctx context.Context, login string) (*User, error) {
	var out User
	found, err := s.c.get(ctx, fmt.Sprintf("/users/%s/", login), &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]User, error) {
	var out []User
	if _, err := s.c.get(ctx, "/users/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces a user definition.
func (s *UserService) Update(ctx context.Context, user User) (*User, error) {
	var out User
	if _, err := s.c.put(ctx, fmt.Sprintf("/users/%s/", user.Login), user, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a user by login.
func (s *UserService) Delete(ctx context.Context, login string) error {
	return s.c.del(ctx, fmt.Sprintf("/users/%s/", login))
}

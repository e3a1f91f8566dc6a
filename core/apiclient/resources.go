package apiclient

import (
	"context"
	"net/url"
)

// User is the backend's account record as returned by the auth endpoints.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Confirmed bool   `json:"confirmed"`
	Blocked   bool   `json:"blocked"`
}

// AuthResponse is the payload of a successful login or registration.
type AuthResponse struct {
	JWT  string `json:"jwt"`
	User User   `json:"user"`
}

// Pagination describes the slice of a collection a list response covers.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// Meta carries response metadata alongside collection payloads.
type Meta struct {
	Pagination Pagination `json:"pagination"`
}

// ListResponse is the envelope for collection queries.
type ListResponse struct {
	Data []map[string]any `json:"data"`
	Meta Meta             `json:"meta"`
}

// ItemResponse is the envelope for single-item reads and writes.
type ItemResponse struct {
	Data map[string]any `json:"data"`
	Meta Meta           `json:"meta"`
}

// Login exchanges credentials for a token and profile via the local auth
// provider.
func (c *Client) Login(ctx context.Context, identifier, password string) (*AuthResponse, error) {
	body := map[string]string{"identifier": identifier, "password": password}
	var resp AuthResponse
	if err := c.Post(ctx, "/auth/local", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns the resulting session.
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var resp AuthResponse
	if err := c.Post(ctx, "/auth/local/register", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh exchanges a token nearing expiry for a fresh one.
func (c *Client) Refresh(ctx context.Context, token string) (*AuthResponse, error) {
	body := map[string]string{"token": token}
	var resp AuthResponse
	if err := c.Post(ctx, "/auth/refresh", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the profile of the authenticated user. Requires a bearer token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.Get(ctx, "/users/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetCollection lists items from a collection with optional query
// parameters (filters, sort, pagination).
func (c *Client) GetCollection(ctx context.Context, collection string, query url.Values) (*ListResponse, error) {
	endpoint := "/" + collection
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var resp ListResponse
	if err := c.Get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetItem reads a single collection item by id.
func (c *Client) GetItem(ctx context.Context, collection, id string) (*ItemResponse, error) {
	var resp ItemResponse
	if err := c.Get(ctx, "/"+collection+"/"+id, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateItem creates a collection item. The payload is sent wrapped in the
// backend's data envelope.
func (c *Client) CreateItem(ctx context.Context, collection string, data any) (*ItemResponse, error) {
	var resp ItemResponse
	if err := c.Post(ctx, "/"+collection, map[string]any{"data": data}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateItem updates a collection item by id.
func (c *Client) UpdateItem(ctx context.Context, collection, id string, data any) (*ItemResponse, error) {
	var resp ItemResponse
	if err := c.Put(ctx, "/"+collection+"/"+id, map[string]any{"data": data}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteItem removes a collection item by id.
func (c *Client) DeleteItem(ctx context.Context, collection, id string) error {
	return c.Delete(ctx, "/"+collection+"/"+id, nil)
}

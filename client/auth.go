package client

import (
	"context"
	"net/http"
)

func (c *Client) Register(ctx context.Context, email, password, nickname string) (*Profile, error) {
	req := map[string]string{"email": email, "password": password, "nickname": nickname}
	var p Profile
	if err := c.do(ctx, http.MethodPost, "/api/register", nil, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Login exchanges credentials for a token pair and stores it on the client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	req := map[string]string{"email": email, "password": password}
	var resp struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/token", nil, req, &resp); err != nil {
		return err
	}
	c.SetTokens(resp.Access, resp.Refresh)
	return nil
}

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

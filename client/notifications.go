package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) Notifications(ctx context.Context, unreadOnly bool, limit int) (*NotificationPage, error) {
	vals := url.Values{}
	if !unreadOnly {
		vals.Set("unread_only", "false")
	}
	if limit > 0 {
		vals.Set("limit", strconv.Itoa(limit))
	}
	var page NotificationPage
	if err := c.do(ctx, http.MethodGet, "/api/notifications", vals, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) MarkNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/notifications/read", nil, nil, nil)
}

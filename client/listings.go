package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type ListingsQuery struct {
	Limit    int
	Offset   int
	Category string
}

func (c *Client) Listings(ctx context.Context, q ListingsQuery) (*ListingPage, error) {
	vals := url.Values{}
	if q.Limit > 0 {
		vals.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		vals.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Category != "" {
		vals.Set("category", q.Category)
	}
	var page ListingPage
	if err := c.do(ctx, http.MethodGet, "/api/listings", vals, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Listing(ctx context.Context, id uint64) (*Listing, error) {
	var l Listing
	if err := c.do(ctx, http.MethodGet, listingPath(id), nil, nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) SearchListings(ctx context.Context, query string, limit int) ([]Listing, error) {
	vals := url.Values{"q": {query}}
	if limit > 0 {
		vals.Set("limit", strconv.Itoa(limit))
	}
	var page ListingPage
	if err := c.do(ctx, http.MethodGet, "/api/listings/search", vals, nil, &page); err != nil {
		return nil, err
	}
	return page.Listings, nil
}

func (c *Client) CreateListing(ctx context.Context, draft ListingDraft) (*Listing, error) {
	var l Listing
	if err := c.do(ctx, http.MethodPost, "/api/listings", nil, draft, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) UpdateListing(ctx context.Context, id uint64, draft ListingDraft) (*Listing, error) {
	var l Listing
	if err := c.do(ctx, http.MethodPut, listingPath(id), nil, draft, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) DeleteListing(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, listingPath(id), nil, nil, nil)
}

func (c *Client) LikeListing(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodPost, listingPath(id)+"/like", nil, nil, nil)
}

func (c *Client) UnlikeListing(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, listingPath(id)+"/like", nil, nil, nil)
}

func (c *Client) LikedListings(ctx context.Context) ([]Listing, error) {
	var page ListingPage
	if err := c.do(ctx, http.MethodGet, "/api/listings/liked", nil, nil, &page); err != nil {
		return nil, err
	}
	return page.Listings, nil
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func listingPath(id uint64) string {
	return fmt.Sprintf("/api/listings/%d", id)
}

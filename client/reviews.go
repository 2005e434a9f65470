package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) CreateReview(ctx context.Context, listingID uint64, rating int, text string) (*Review, error) {
	req := struct {
		ListingID uint64 `json:"listingId"`
		Rating    int    `json:"rating"`
		Text      string `json:"text"`
	}{ListingID: listingID, Rating: rating, Text: text}
	var rv Review
	if err := c.do(ctx, http.MethodPost, "/api/reviews", nil, req, &rv); err != nil {
		return nil, err
	}
	return &rv, nil
}

func (c *Client) HasReviewed(ctx context.Context, listingID uint64) (bool, error) {
	vals := url.Values{"listingId": {strconv.FormatUint(listingID, 10)}}
	var resp struct {
		Reviewed bool `json:"reviewed"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/reviews/check", vals, nil, &resp); err != nil {
		return false, err
	}
	return resp.Reviewed, nil
}

func (c *Client) UserReviews(ctx context.Context, uid string) ([]Review, error) {
	var reviews []Review
	if err := c.do(ctx, http.MethodGet, "/api/users/"+uid+"/reviews", nil, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

package client

import (
	"context"
	"fmt"
	"net/http"
)

// StartConversation opens (or returns the existing) conversation between the
// caller and the listing's seller.
func (c *Client) StartConversation(ctx context.Context, listingID uint64) (*Conversation, error) {
	var cv Conversation
	path := fmt.Sprintf("/api/listings/%d/conversations", listingID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &cv); err != nil {
		return nil, err
	}
	return &cv, nil
}

func (c *Client) Conversations(ctx context.Context) ([]Conversation, error) {
	var list []Conversation
	if err := c.do(ctx, http.MethodGet, "/api/chat/conversations", nil, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Conversation(ctx context.Context, id uint64) (*Conversation, error) {
	var cv Conversation
	if err := c.do(ctx, http.MethodGet, conversationPath(id), nil, nil, &cv); err != nil {
		return nil, err
	}
	return &cv, nil
}

func (c *Client) Messages(ctx context.Context, conversationID uint64) ([]Message, error) {
	var msgs []Message
	if err := c.do(ctx, http.MethodGet, conversationPath(conversationID)+"/messages", nil, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *Client) SendMessage(ctx context.Context, out OutgoingMessage) (*Message, error) {
	var m Message
	if err := c.do(ctx, http.MethodPost, "/api/chat/messages", nil, out, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) MarkConversationRead(ctx context.Context, conversationID uint64) error {
	return c.do(ctx, http.MethodPost, conversationPath(conversationID)+"/read", nil, nil, nil)
}

func (c *Client) AcceptOffer(ctx context.Context, offerID string) (*Offer, error) {
	return c.offerAction(ctx, offerID, "accept")
}

func (c *Client) RejectOffer(ctx context.Context, offerID string) (*Offer, error) {
	return c.offerAction(ctx, offerID, "reject")
}

func (c *Client) CancelOffer(ctx context.Context, offerID string) (*Offer, error) {
	return c.offerAction(ctx, offerID, "cancel")
}

func (c *Client) offerAction(ctx context.Context, offerID, action string) (*Offer, error) {
	var o Offer
	path := fmt.Sprintf("/api/offers/%s/%s", offerID, action)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func conversationPath(id uint64) string {
	return fmt.Sprintf("/api/chat/conversations/%d", id)
}

package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/listtra/listtra/client"
)

var (
	ErrWrongRole      = errors.New("wrong role for this action")
	ErrOfferPending   = errors.New("an offer is already pending")
	ErrNoPendingOffer = errors.New("no pending offer")
	ErrInvalidAmount  = errors.New("offer amount must be positive")
)

// OfferAPI is the slice of the marketplace client the negotiator calls.
type OfferAPI interface {
	SendMessage(ctx context.Context, out client.OutgoingMessage) (*client.Message, error)
	AcceptOffer(ctx context.Context, offerID string) (*client.Offer, error)
	RejectOffer(ctx context.Context, offerID string) (*client.Offer, error)
	CancelOffer(ctx context.Context, offerID string) (*client.Offer, error)
}

// Negotiator drives the offer lifecycle for one conversation. Every action
// is role-checked locally before any network call; the server remains the
// final authority and its 403 responses also surface as ErrWrongRole.
type Negotiator struct {
	api            OfferAPI
	store          *MessageStore
	conversationID uint64
	userUID        string
	sellerUID      string
}

func NewNegotiator(api OfferAPI, store *MessageStore, conversationID uint64, userUID, sellerUID string) *Negotiator {
	return &Negotiator{
		api:            api,
		store:          store,
		conversationID: conversationID,
		userUID:        userUID,
		sellerUID:      sellerUID,
	}
}

// IsBuyer derives the caller's role from listing ownership.
func (n *Negotiator) IsBuyer() bool { return n.userUID != n.sellerUID }

func (n *Negotiator) MakeOffer(ctx context.Context, amount int64) (*client.Offer, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !n.IsBuyer() {
		return nil, ErrWrongRole
	}
	if n.store.PendingOffer() != nil {
		return nil, ErrOfferPending
	}
	return n.createOffer(ctx, amount)
}

// AmendOffer replaces the pending offer with a new amount by cancelling it
// and creating a fresh one. If the cancel succeeds but the create fails the
// conversation is left with no pending offer until the next poll.
func (n *Negotiator) AmendOffer(ctx context.Context, amount int64) (*client.Offer, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !n.IsBuyer() {
		return nil, ErrWrongRole
	}
	pending := n.store.PendingOffer()
	if pending == nil {
		return nil, ErrNoPendingOffer
	}
	if _, err := n.api.CancelOffer(ctx, pending.ID); err != nil {
		return nil, roleDenied(err)
	}
	n.store.MarkOfferStatus(pending.ID, client.OfferStatusCancelled)
	return n.createOffer(ctx, amount)
}

func (n *Negotiator) CancelOffer(ctx context.Context) (*client.Offer, error) {
	if !n.IsBuyer() {
		return nil, ErrWrongRole
	}
	return n.resolve(ctx, n.api.CancelOffer, client.OfferStatusCancelled)
}

func (n *Negotiator) AcceptOffer(ctx context.Context) (*client.Offer, error) {
	if n.IsBuyer() {
		return nil, ErrWrongRole
	}
	return n.resolve(ctx, n.api.AcceptOffer, client.OfferStatusAccepted)
}

func (n *Negotiator) RejectOffer(ctx context.Context) (*client.Offer, error) {
	if n.IsBuyer() {
		return nil, ErrWrongRole
	}
	return n.resolve(ctx, n.api.RejectOffer, client.OfferStatusRejected)
}

func (n *Negotiator) resolve(ctx context.Context, action func(context.Context, string) (*client.Offer, error), status string) (*client.Offer, error) {
	pending := n.store.PendingOffer()
	if pending == nil {
		return nil, ErrNoPendingOffer
	}
	o, err := action(ctx, pending.ID)
	if err != nil {
		return nil, roleDenied(err)
	}
	n.store.MarkOfferStatus(o.ID, status)
	return o, nil
}

func (n *Negotiator) createOffer(ctx context.Context, amount int64) (*client.Offer, error) {
	tempID := n.store.Append(client.Message{
		ConversationID: n.conversationID,
		SenderUID:      n.userUID,
		Body:           fmt.Sprintf("Made offer: ₹%d", amount),
		IsOffer:        true,
		Offer:          &client.Offer{Price: amount, Status: client.OfferStatusPending, BuyerUID: n.userUID},
		CreatedAt:      time.Now(),
	})
	m, err := n.api.SendMessage(ctx, client.OutgoingMessage{
		ConversationID: n.conversationID,
		IsOffer:        true,
		Price:          amount,
	})
	if err != nil {
		n.store.Rollback(tempID)
		return nil, roleDenied(err)
	}
	n.store.Reconcile(tempID, *m)
	return m.Offer, nil
}

func roleDenied(err error) error {
	if client.IsForbidden(err) {
		return fmt.Errorf("%w: %v", ErrWrongRole, err)
	}
	return err
}

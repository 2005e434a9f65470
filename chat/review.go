package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/listtra/listtra/client"
)

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrNotEligible   = errors.New("not eligible to review this listing")
)

// ReviewAPI is the slice of the marketplace client the gate calls.
type ReviewAPI interface {
	CreateReview(ctx context.Context, listingID uint64, rating int, text string) (*client.Review, error)
	HasReviewed(ctx context.Context, listingID uint64) (bool, error)
}

// ReviewGate allows the buyer of a completed negotiation to review the
// seller at most once per listing. Once the gate closes it stays closed for
// the life of the view; the server's "already_reviewed" conflict also closes
// it rather than surfacing as an error.
type ReviewGate struct {
	api       ReviewAPI
	store     *MessageStore
	listingID uint64
	userUID   string
	buyerUID  string

	mu       sync.Mutex
	reviewed bool
}

func NewReviewGate(api ReviewAPI, store *MessageStore, listingID uint64, userUID, buyerUID string, alreadyReviewed bool) *ReviewGate {
	return &ReviewGate{
		api:       api,
		store:     store,
		listingID: listingID,
		userUID:   userUID,
		buyerUID:  buyerUID,
		reviewed:  alreadyReviewed,
	}
}

// CanReview reports whether the review affordance should be shown: the
// caller is the buyer, the latest offer is accepted, and no review exists.
func (g *ReviewGate) CanReview() bool {
	if g.userUID != g.buyerUID {
		return false
	}
	g.mu.Lock()
	reviewed := g.reviewed
	g.mu.Unlock()
	if reviewed {
		return false
	}
	o := g.store.LatestOffer()
	return o != nil && o.Status == client.OfferStatusAccepted
}

// Refresh re-checks the server-side review record and folds it into the gate.
func (g *ReviewGate) Refresh(ctx context.Context) error {
	reviewed, err := g.api.HasReviewed(ctx, g.listingID)
	if err != nil {
		return err
	}
	if reviewed {
		g.close()
	}
	return nil
}

// SubmitReview posts the review. A second call after a success is a local
// no-op returning nil.
func (g *ReviewGate) SubmitReview(ctx context.Context, rating int, text string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	g.mu.Lock()
	if g.reviewed {
		g.mu.Unlock()
		return nil
	}
	g.mu.Unlock()
	if !g.CanReview() {
		return ErrNotEligible
	}
	if _, err := g.api.CreateReview(ctx, g.listingID, rating, text); err != nil {
		if client.IsConflict(err) && client.ErrorCode(err) == "already_reviewed" {
			g.close()
			return nil
		}
		return err
	}
	g.close()
	return nil
}

func (g *ReviewGate) close() {
	g.mu.Lock()
	g.reviewed = true
	g.mu.Unlock()
}

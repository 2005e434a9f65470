package service

import (
	"context"
	"testing"
)

func TestReviewRequiresAcceptedOffer(t *testing.T) {
	f := newNegotiationFixture(t)
	ctx := context.Background()

	if _, err := f.reviews.Create(ctx, "buyer", f.listing.ID, 5, "great"); err != ErrForbidden {
		t.Fatalf("err=%v want=%v", err, ErrForbidden)
	}

	o := f.makeOffer(t, 450)
	if _, err := f.offers.Reject(ctx, o.ID, "seller"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	// A rejected negotiation still does not qualify.
	if _, err := f.reviews.Create(ctx, "buyer", f.listing.ID, 5, "great"); err != ErrForbidden {
		t.Fatalf("err=%v want=%v", err, ErrForbidden)
	}
}

func TestReviewLifecycle(t *testing.T) {
	f := newNegotiationFixture(t)
	ctx := context.Background()

	o := f.makeOffer(t, 450)
	if _, err := f.offers.Accept(ctx, o.ID, "seller"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	rv, err := f.reviews.Create(ctx, "buyer", f.listing.ID, 5, "smooth deal")
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if rv.ReviewedUID != "seller" || rv.Rating != 5 {
		t.Fatalf("review=%+v", rv)
	}

	if _, err := f.reviews.Create(ctx, "buyer", f.listing.ID, 4, "again"); err != ErrAlreadyReviewed {
		t.Fatalf("err=%v want=%v", err, ErrAlreadyReviewed)
	}

	reviewed, err := f.reviews.HasReviewed(ctx, "buyer", f.listing.ID)
	if err != nil || !reviewed {
		t.Fatalf("hasReviewed=%v err=%v", reviewed, err)
	}
	list, err := f.reviews.ListForUser(ctx, "seller")
	if err != nil || len(list) != 1 {
		t.Fatalf("list=%v err=%v", list, err)
	}
}

func TestSellerCannotReviewOwnListing(t *testing.T) {
	f := newNegotiationFixture(t)
	if _, err := f.reviews.Create(context.Background(), "seller", f.listing.ID, 5, ""); err != ErrForbidden {
		t.Fatalf("err=%v want=%v", err, ErrForbidden)
	}
}

func TestReviewRatingBounds(t *testing.T) {
	f := newNegotiationFixture(t)
	ctx := context.Background()
	o := f.makeOffer(t, 450)
	if _, err := f.offers.Accept(ctx, o.ID, "seller"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	for _, rating := range []int{0, 6} {
		if _, err := f.reviews.Create(ctx, "buyer", f.listing.ID, rating, ""); err == nil {
			t.Fatalf("rating=%d accepted", rating)
		}
	}
}

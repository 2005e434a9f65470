package service

import (
	"context"
	"testing"

	"github.com/listtra/listtra/internal/model"
	"github.com/listtra/listtra/internal/repository"
)

type negotiationFixture struct {
	conv    ConversationService
	offers  OfferService
	reviews ReviewService

	listing *model.Listing
	convID  uint64
}

// newNegotiationFixture wires the services over in-memory repositories with
// one listing by "seller" and an open conversation with "buyer".
func newNegotiationFixture(t *testing.T) *negotiationFixture {
	t.Helper()
	ctx := context.Background()

	users := repository.NewMemoryUserRepository()
	listings := repository.NewMemoryListingRepository()
	convs := repository.NewMemoryConversationRepository()
	offers := repository.NewMemoryOfferRepository()
	reviews := repository.NewMemoryReviewRepository()
	notifier := NewNotificationService(repository.NewMemoryNotificationRepository())

	for _, u := range []*model.User{
		{UID: "seller", Email: "s@example.com", Nickname: "s"},
		{UID: "buyer", Email: "b@example.com", Nickname: "b"},
	} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	listingSvc := NewListingService(listings)
	l, err := listingSvc.Create(ctx, "seller", "Old phone", "Still boots.", 500, "", nil)
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	convSvc := NewConversationService(convs, listings, offers, reviews, users, notifier)
	cv, err := convSvc.CreateOrGet(ctx, l.ID, "buyer")
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}

	return &negotiationFixture{
		conv:    convSvc,
		offers:  NewOfferService(offers, convs, notifier),
		reviews: NewReviewService(reviews, offers, listings, notifier),
		listing: l,
		convID:  cv.ID,
	}
}

func (f *negotiationFixture) makeOffer(t *testing.T, price int64) *model.Offer {
	t.Helper()
	mo, err := f.conv.CreateMessage(context.Background(), f.convID, "buyer", "", true, price)
	if err != nil {
		t.Fatalf("make offer: %v", err)
	}
	if mo.Offer == nil {
		t.Fatalf("offer message has no offer: %+v", mo)
	}
	return mo.Offer
}

func TestOfferRoleChecks(t *testing.T) {
	f := newNegotiationFixture(t)
	ctx := context.Background()
	o := f.makeOffer(t, 450)

	tests := []struct {
		name string
		run  func() (*model.Offer, error)
	}{
		{"buyer cannot accept", func() (*model.Offer, error) { return f.offers.Accept(ctx, o.ID, "buyer") }},
		{"buyer cannot reject", func() (*model.Offer, error) { return f.offers.Reject(ctx, o.ID, "buyer") }},
		{"seller cannot cancel", func() (*model.Offer, error) { return f.offers.Cancel(ctx, o.ID, "seller") }},
		{"stranger cannot accept", func() (*model.Offer, error) { return f.offers.Accept(ctx, o.ID, "other") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.run(); err != ErrForbidden {
				t.Fatalf("err=%v want=%v", err, ErrForbidden)
			}
		})
	}
}

func TestOfferTerminalStatesAreImmutable(t *testing.T) {
	f := newNegotiationFixture(t)
	ctx := context.Background()
	o := f.makeOffer(t, 450)

	if _, err := f.offers.Accept(ctx, o.ID, "seller"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.offers.Accept(ctx, o.ID, "seller"); err != ErrOfferNotPending {
		t.Fatalf("second accept err=%v want=%v", err, ErrOfferNotPending)
	}
	if _, err := f.offers.Cancel(ctx, o.ID, "buyer"); err != ErrOfferNotPending {
		t.Fatalf("cancel after accept err=%v want=%v", err, ErrOfferNotPending)
	}
}

func TestOfferPendingConflict(t *testing.T) {
	f := newNegotiationFixture(t)
	ctx := context.Background()
	f.makeOffer(t, 450)

	if _, err := f.conv.CreateMessage(ctx, f.convID, "buyer", "", true, 400); err != ErrOfferPending {
		t.Fatalf("err=%v want=%v", err, ErrOfferPending)
	}
}

func TestSellerCannotMakeOffers(t *testing.T) {
	f := newNegotiationFixture(t)
	if _, err := f.conv.CreateMessage(context.Background(), f.convID, "seller", "", true, 400); err != ErrForbidden {
		t.Fatalf("err=%v want=%v", err, ErrForbidden)
	}
}

func TestCancelThenNewOffer(t *testing.T) {
	f := newNegotiationFixture(t)
	ctx := context.Background()
	first := f.makeOffer(t, 450)

	if _, err := f.offers.Cancel(ctx, first.ID, "buyer"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	second := f.makeOffer(t, 300)
	if second.ID == first.ID {
		t.Fatalf("new offer reused id")
	}
	if second.Price != 300 || second.Status != model.OfferStatusPending {
		t.Fatalf("second=%+v", second)
	}
}

func TestTransitionAppendsTranscriptMessage(t *testing.T) {
	f := newNegotiationFixture(t)
	ctx := context.Background()
	o := f.makeOffer(t, 450)

	before, err := f.conv.ListMessages(ctx, f.convID, "buyer")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := f.offers.Accept(ctx, o.ID, "seller"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	after, err := f.conv.ListMessages(ctx, f.convID, "buyer")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(after) != len(before)+1 {
		t.Fatalf("messages=%d want=%d", len(after), len(before)+1)
	}
	last := after[len(after)-1]
	if last.Message.Body != "Offer of ₹450 has been accepted" {
		t.Fatalf("body=%q", last.Message.Body)
	}
	// The offer embedded in the original card must now read accepted.
	if after[len(after)-2].Offer == nil || after[len(after)-2].Offer.Status != model.OfferStatusAccepted {
		t.Fatalf("offer card not updated: %+v", after[len(after)-2].Offer)
	}
}

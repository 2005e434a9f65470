package chat

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/listtra/listtra/client"
	"github.com/listtra/listtra/internal/auth"
	"github.com/listtra/listtra/internal/repository"
	"github.com/listtra/listtra/internal/server"
)

// testBackend boots the API server against in-memory repositories and hands
// out signed-in clients.
type testBackend struct {
	t   *testing.T
	srv *httptest.Server
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()
	tokens, err := auth.NewManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	s := server.New(server.Deps{
		Users:         repository.NewMemoryUserRepository(),
		Listings:      repository.NewMemoryListingRepository(),
		Conversations: repository.NewMemoryConversationRepository(),
		Offers:        repository.NewMemoryOfferRepository(),
		Reviews:       repository.NewMemoryReviewRepository(),
		Notifications: repository.NewMemoryNotificationRepository(),
		Tokens:        tokens,
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return &testBackend{t: t, srv: ts}
}

func (b *testBackend) signIn(email, nickname string) (*client.Client, string) {
	b.t.Helper()
	ctx := context.Background()
	c := client.New(b.srv.URL)
	p, err := c.Register(ctx, email, "password123", nickname)
	if err != nil {
		b.t.Fatalf("register %s: %v", email, err)
	}
	if err := c.Login(ctx, email, "password123"); err != nil {
		b.t.Fatalf("login %s: %v", email, err)
	}
	return c, p.UID
}

func countPendingOffers(msgs []client.Message) (count int, price int64) {
	for _, m := range msgs {
		if m.IsOffer && m.Offer != nil && m.Offer.Status == client.OfferStatusPending {
			count++
			price = m.Offer.Price
		}
	}
	return count, price
}

func TestNegotiationAndReviewEndToEnd(t *testing.T) {
	ctx := context.Background()
	backend := newTestBackend(t)

	sellerClient, sellerUID := backend.signIn("seller@example.com", "u2")
	buyerClient, buyerUID := backend.signIn("buyer@example.com", "u1")

	listing, err := sellerClient.CreateListing(ctx, client.ListingDraft{
		Title: "Vintage camera", Description: "Works fine.", Price: 500,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	conv, err := buyerClient.StartConversation(ctx, listing.ID)
	if err != nil {
		t.Fatalf("start conversation: %v", err)
	}

	buyer, err := OpenSession(ctx, buyerClient, SessionConfig{
		ConversationID: conv.ConversationID,
		UserUID:        buyerUID,
		PollInterval:   time.Hour,
	})
	if err != nil {
		t.Fatalf("open buyer session: %v", err)
	}
	defer buyer.Close()

	offer, err := buyer.Offers().MakeOffer(ctx, 450)
	if err != nil {
		t.Fatalf("make offer: %v", err)
	}
	if count, price := countPendingOffers(buyer.Messages()); count != 1 || price != 450 {
		t.Fatalf("pending offers=%d price=%d want 1 of 450", count, price)
	}

	seller, err := OpenSession(ctx, sellerClient, SessionConfig{
		ConversationID: conv.ConversationID,
		UserUID:        sellerUID,
		PollInterval:   time.Hour,
	})
	if err != nil {
		t.Fatalf("open seller session: %v", err)
	}
	defer seller.Close()

	accepted, err := seller.Offers().AcceptOffer(ctx)
	if err != nil {
		t.Fatalf("accept offer: %v", err)
	}
	if accepted.ID != offer.ID || accepted.Status != client.OfferStatusAccepted {
		t.Fatalf("accepted=%+v", accepted)
	}

	// The acceptance grows the remote transcript, so the buyer's next poll
	// tick re-ingests and observes the new status.
	buyer.syncer.poll(ctx)
	latest := buyer.Store().LatestOffer()
	if latest == nil || latest.Status != client.OfferStatusAccepted {
		t.Fatalf("buyer sees offer=%+v want accepted", latest)
	}

	gate := buyer.Reviews()
	if !gate.CanReview() {
		t.Fatalf("buyer cannot review after acceptance")
	}
	if err := gate.SubmitReview(ctx, 5, "smooth deal"); err != nil {
		t.Fatalf("submit review: %v", err)
	}
	// Second submission is a cached no-op.
	if err := gate.SubmitReview(ctx, 5, "smooth deal"); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if gate.CanReview() {
		t.Fatalf("gate still open after review")
	}

	reviewed, err := buyerClient.HasReviewed(ctx, listing.ID)
	if err != nil {
		t.Fatalf("has reviewed: %v", err)
	}
	if !reviewed {
		t.Fatalf("server has no review record")
	}
	reviews, err := buyerClient.UserReviews(ctx, sellerUID)
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Rating != 5 {
		t.Fatalf("reviews=%+v want one 5-star", reviews)
	}
}

func TestAmendOfferEndToEnd(t *testing.T) {
	ctx := context.Background()
	backend := newTestBackend(t)

	sellerClient, _ := backend.signIn("seller@example.com", "u2")
	buyerClient, buyerUID := backend.signIn("buyer@example.com", "u1")

	listing, err := sellerClient.CreateListing(ctx, client.ListingDraft{
		Title: "Road bike", Description: "Recently serviced.", Price: 500,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	conv, err := buyerClient.StartConversation(ctx, listing.ID)
	if err != nil {
		t.Fatalf("start conversation: %v", err)
	}

	buyer, err := OpenSession(ctx, buyerClient, SessionConfig{
		ConversationID: conv.ConversationID,
		UserUID:        buyerUID,
		PollInterval:   time.Hour,
	})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	defer buyer.Close()

	first, err := buyer.Offers().MakeOffer(ctx, 450)
	if err != nil {
		t.Fatalf("make offer: %v", err)
	}
	second, err := buyer.Offers().AmendOffer(ctx, 300)
	if err != nil {
		t.Fatalf("amend offer: %v", err)
	}

	buyer.syncer.poll(ctx)
	msgs := buyer.Messages()
	if count, price := countPendingOffers(msgs); count != 1 || price != 300 {
		t.Fatalf("pending offers=%d price=%d want 1 of 300", count, price)
	}
	for _, m := range msgs {
		if m.IsOffer && m.Offer != nil && m.Offer.ID == first.ID {
			if m.Offer.Status != client.OfferStatusCancelled {
				t.Fatalf("first offer status=%s want=cancelled", m.Offer.Status)
			}
		}
	}
	if pending := buyer.Store().PendingOffer(); pending == nil || pending.ID != second.ID {
		t.Fatalf("pending=%+v want id=%s", pending, second.ID)
	}
}

func TestSendMessageOptimisticFlow(t *testing.T) {
	ctx := context.Background()
	backend := newTestBackend(t)

	sellerClient, _ := backend.signIn("seller@example.com", "u2")
	buyerClient, buyerUID := backend.signIn("buyer@example.com", "u1")

	listing, err := sellerClient.CreateListing(ctx, client.ListingDraft{
		Title: "Desk lamp", Description: "Warm light.", Price: 200,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	conv, err := buyerClient.StartConversation(ctx, listing.ID)
	if err != nil {
		t.Fatalf("start conversation: %v", err)
	}

	updates := 0
	buyer, err := OpenSession(ctx, buyerClient, SessionConfig{
		ConversationID: conv.ConversationID,
		UserUID:        buyerUID,
		PollInterval:   time.Hour,
		OnUpdate:       func() { updates++ },
	})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	defer buyer.Close()

	if _, err := buyer.SendMessage(ctx, "  "); err != ErrEmptyMessage {
		t.Fatalf("err=%v want=%v", err, ErrEmptyMessage)
	}

	m, err := buyer.SendMessage(ctx, "is this available?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if m.ID == 0 {
		t.Fatalf("message not confirmed: %+v", m)
	}
	msgs := buyer.Messages()
	if len(msgs) != 1 || msgs[0].ID != m.ID {
		t.Fatalf("transcript=%+v want exactly the confirmed message", msgs)
	}
	if updates == 0 {
		t.Fatalf("OnUpdate never fired")
	}

	for i := 0; i < 3; i++ {
		if _, err := buyer.SendMessage(ctx, fmt.Sprintf("ping %d", i)); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	if got := len(buyer.Messages()); got != 4 {
		t.Fatalf("transcript=%d want=4", got)
	}
}

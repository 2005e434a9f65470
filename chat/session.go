package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/listtra/listtra/client"
)

var ErrEmptyMessage = errors.New("message body is empty")

// API is the full client surface a conversation session needs. It is
// satisfied by *client.Client.
type API interface {
	MessageFetcher
	OfferAPI
	ReviewAPI
	MarkConversationRead(ctx context.Context, conversationID uint64) error
}

type SessionConfig struct {
	ConversationID uint64
	UserUID        string
	// PollInterval defaults to 5s when zero.
	PollInterval time.Duration
	// OnUpdate is called whenever the transcript changes, from whichever
	// goroutine caused the change. Optional.
	OnUpdate func()
}

// Session owns one open conversation view: it loads the transcript, starts
// the poll loop, and exposes the negotiator and review gate bound to the
// conversation's roles. Close tears the polling down.
type Session struct {
	api        API
	store      *MessageStore
	syncer     *Syncer
	negotiator *Negotiator
	gate       *ReviewGate
	conv       *client.Conversation
	userUID    string

	cancel context.CancelFunc
	done   chan struct{}
}

// OpenSession performs the initial load and starts polling. A load failure
// is fatal and no session is returned.
func OpenSession(ctx context.Context, api API, cfg SessionConfig) (*Session, error) {
	store := NewMessageStore()
	store.OnChange = cfg.OnUpdate
	syncer := NewSyncer(api, store, cfg.ConversationID, WithInterval(cfg.PollInterval))

	conv, err := syncer.Load(ctx)
	if err != nil {
		return nil, err
	}

	s := &Session{
		api:        api,
		store:      store,
		syncer:     syncer,
		negotiator: NewNegotiator(api, store, cfg.ConversationID, cfg.UserUID, conv.SellerUID),
		gate:       NewReviewGate(api, store, conv.ListingID, cfg.UserUID, conv.BuyerUID, conv.ReviewedByBuyer),
		conv:       conv,
		userUID:    cfg.UserUID,
		done:       make(chan struct{}),
	}

	pollCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go func() {
		defer close(s.done)
		syncer.Run(pollCtx)
	}()

	// Best effort; an unread marker failure never blocks the view.
	_ = api.MarkConversationRead(ctx, cfg.ConversationID)

	return s, nil
}

// Close stops the poll loop and waits for it to exit.
func (s *Session) Close() {
	s.cancel()
	<-s.done
}

func (s *Session) Conversation() *client.Conversation { return s.conv }

func (s *Session) Store() *MessageStore { return s.store }

func (s *Session) Offers() *Negotiator { return s.negotiator }

func (s *Session) Reviews() *ReviewGate { return s.gate }

// Messages returns the current render-ready transcript.
func (s *Session) Messages() []client.Message { return s.store.Messages() }

// SendMessage appends the message optimistically, posts it, and reconciles
// the temp entry with the server echo. On failure the optimistic entry is
// rolled back so the transcript never shows an unconfirmed send as real.
func (s *Session) SendMessage(ctx context.Context, body string) (*client.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}
	tempID := s.store.Append(client.Message{
		ConversationID: s.conv.ConversationID,
		SenderUID:      s.userUID,
		Body:           body,
		CreatedAt:      time.Now(),
	})
	m, err := s.api.SendMessage(ctx, client.OutgoingMessage{
		ConversationID: s.conv.ConversationID,
		Body:           body,
	})
	if err != nil {
		s.store.Rollback(tempID)
		return nil, err
	}
	s.store.Reconcile(tempID, *m)
	return m, nil
}

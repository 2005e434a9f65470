package chat

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/listtra/listtra/client"
)

const defaultPollInterval = 5 * time.Second

// MessageFetcher is the slice of the marketplace client the syncer calls.
type MessageFetcher interface {
	Conversation(ctx context.Context, id uint64) (*client.Conversation, error)
	Messages(ctx context.Context, conversationID uint64) ([]client.Message, error)
}

// Syncer keeps a MessageStore eventually consistent with the remote
// transcript by polling on a fixed interval.
type Syncer struct {
	api            MessageFetcher
	store          *MessageStore
	conversationID uint64
	interval       time.Duration
}

type SyncerOption func(*Syncer)

func WithInterval(d time.Duration) SyncerOption {
	return func(s *Syncer) {
		if d > 0 {
			s.interval = d
		}
	}
}

func NewSyncer(api MessageFetcher, store *MessageStore, conversationID uint64, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		api:            api,
		store:          store,
		conversationID: conversationID,
		interval:       defaultPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load performs the one-shot initial fetch of conversation metadata and
// messages in parallel. Any failure is fatal to the caller, unlike poll
// errors which are swallowed.
func (s *Syncer) Load(ctx context.Context) (*client.Conversation, error) {
	var (
		wg      sync.WaitGroup
		conv    *client.Conversation
		msgs    []client.Message
		convErr error
		msgErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		conv, convErr = s.api.Conversation(ctx, s.conversationID)
	}()
	go func() {
		defer wg.Done()
		msgs, msgErr = s.api.Messages(ctx, s.conversationID)
	}()
	wg.Wait()
	if convErr != nil {
		return nil, convErr
	}
	if msgErr != nil {
		return nil, msgErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.store.Ingest(msgs)
	return conv, nil
}

// Run polls until ctx is cancelled. Poll errors are logged and swallowed;
// stale data is preferred over breaking the view.
func (s *Syncer) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.poll(ctx)
		}
	}
}

func (s *Syncer) poll(ctx context.Context) {
	msgs, err := s.api.Messages(ctx, s.conversationID)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("chat: poll conversation %d: %v", s.conversationID, err)
		}
		return
	}
	// The view may have been torn down while the fetch was in flight;
	// a stale result must not be applied.
	if ctx.Err() != nil {
		return
	}
	if len(msgs) > s.store.Len() {
		s.store.Ingest(msgs)
	}
}

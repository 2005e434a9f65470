package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/listtra/listtra/client"
)

type fakeFetcher struct {
	mu      sync.Mutex
	conv    *client.Conversation
	msgs    []client.Message
	convErr error
	msgErr  error
	fetches int
}

func (f *fakeFetcher) Conversation(ctx context.Context, id uint64) (*client.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.convErr != nil {
		return nil, f.convErr
	}
	c := *f.conv
	return &c, nil
}

func (f *fakeFetcher) Messages(ctx context.Context, conversationID uint64) ([]client.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.msgErr != nil {
		return nil, f.msgErr
	}
	out := make([]client.Message, len(f.msgs))
	copy(out, f.msgs)
	return out, nil
}

func (f *fakeFetcher) setMessages(msgs []client.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = msgs
}

func testConv() *client.Conversation {
	return &client.Conversation{ConversationID: 1, ListingID: 10, SellerUID: "u2", BuyerUID: "u1"}
}

func TestLoadIngestsInitialTranscript(t *testing.T) {
	f := &fakeFetcher{conv: testConv(), msgs: []client.Message{textMsg(1, "u1", "hi")}}
	store := NewMessageStore()
	s := NewSyncer(f, store, 1)

	conv, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if conv.SellerUID != "u2" {
		t.Fatalf("conv=%+v", conv)
	}
	if store.Len() != 1 {
		t.Fatalf("len=%d want=1", store.Len())
	}
}

func TestLoadFailureIsFatal(t *testing.T) {
	tests := []struct {
		name string
		mut  func(f *fakeFetcher)
	}{
		{"conversation error", func(f *fakeFetcher) { f.convErr = errors.New("boom") }},
		{"messages error", func(f *fakeFetcher) { f.msgErr = errors.New("boom") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFetcher{conv: testConv()}
			tt.mut(f)
			s := NewSyncer(f, NewMessageStore(), 1)
			if _, err := s.Load(context.Background()); err == nil {
				t.Fatalf("load should fail")
			}
		})
	}
}

func TestPollIngestsOnlyWhenLonger(t *testing.T) {
	f := &fakeFetcher{conv: testConv(), msgs: []client.Message{textMsg(1, "u1", "hi")}}
	store := NewMessageStore()
	s := NewSyncer(f, store, 1)
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	changes := 0
	store.OnChange = func() { changes++ }

	// Same length: no ingest.
	s.poll(context.Background())
	if changes != 0 {
		t.Fatalf("ingested despite unchanged length")
	}

	f.setMessages([]client.Message{textMsg(1, "u1", "hi"), textMsg(2, "u2", "hello")})
	s.poll(context.Background())
	if changes != 1 {
		t.Fatalf("changes=%d want=1", changes)
	}
	if store.Len() != 2 {
		t.Fatalf("len=%d want=2", store.Len())
	}
}

func TestPollSwallowsErrors(t *testing.T) {
	f := &fakeFetcher{conv: testConv(), msgErr: errors.New("boom")}
	store := NewMessageStore()
	s := NewSyncer(f, store, 1)
	s.poll(context.Background())
	if store.Len() != 0 {
		t.Fatalf("store mutated on poll error")
	}
}

func TestPollDiscardsResultAfterCancel(t *testing.T) {
	f := &fakeFetcher{conv: testConv(), msgs: []client.Message{textMsg(1, "u1", "hi")}}
	store := NewMessageStore()
	s := NewSyncer(f, store, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.poll(ctx)
	if store.Len() != 0 {
		t.Fatalf("stale poll result applied after cancel")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	f := &fakeFetcher{conv: testConv(), msgs: []client.Message{textMsg(1, "u1", "hi")}}
	s := NewSyncer(f, NewMessageStore(), 1, WithInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("run did not stop after cancel")
	}
	f.mu.Lock()
	fetched := f.fetches
	f.mu.Unlock()
	if fetched == 0 {
		t.Fatalf("run never polled")
	}
}

// Package chat holds the conversation core of the Listtra client: an
// optimistic message transcript, the offer negotiation rules, the polling
// loop that keeps the transcript fresh, and the one-review-per-listing gate.
package chat

import (
	"sync"

	"github.com/google/uuid"
	"github.com/listtra/listtra/client"
)

// entry is one transcript slot: a server-confirmed message, or a local
// message still awaiting confirmation. tempID is the discriminator; it is
// empty exactly when the message is confirmed.
type entry struct {
	tempID string
	msg    client.Message
}

func (e entry) confirmed() bool { return e.tempID == "" }

// MessageStore keeps the ordered transcript of one conversation, merging the
// authoritative polled stream with locally-appended optimistic messages, and
// derives the single pending offer from it.
type MessageStore struct {
	mu      sync.Mutex
	entries []entry

	// OnChange, when set, is called after every mutation. It runs outside
	// the store lock, on the mutating goroutine.
	OnChange func()
}

func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

// Ingest replaces the confirmed transcript with the remote list and carries
// unconfirmed local entries over to the end. Messages missing an id or a
// sender are dropped.
func (s *MessageStore) Ingest(remote []client.Message) {
	s.mu.Lock()
	next := make([]entry, 0, len(remote))
	for _, m := range remote {
		if m.ID == 0 || m.SenderUID == "" {
			continue
		}
		next = append(next, entry{msg: m})
	}
	for _, e := range s.entries {
		if !e.confirmed() {
			next = append(next, e)
		}
	}
	s.entries = next
	s.mu.Unlock()
	s.notify()
}

// Append adds an optimistic local message and returns the temp id used to
// reconcile or roll it back.
func (s *MessageStore) Append(msg client.Message) string {
	tempID := uuid.NewString()
	s.mu.Lock()
	s.entries = append(s.entries, entry{tempID: tempID, msg: msg})
	s.mu.Unlock()
	s.notify()
	return tempID
}

// Reconcile swaps the temp entry for the server-confirmed message, keeping
// its position. If a poll already delivered the confirmed message, the temp
// entry is simply removed so the message appears exactly once. Returns false
// when the temp id is unknown (already reconciled or rolled back).
func (s *MessageStore) Reconcile(tempID string, server client.Message) bool {
	s.mu.Lock()
	idx := -1
	seen := false
	for i, e := range s.entries {
		if e.tempID == tempID {
			idx = i
		}
		if e.confirmed() && e.msg.ID == server.ID {
			seen = true
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	if seen {
		s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	} else {
		s.entries[idx] = entry{msg: server}
	}
	s.mu.Unlock()
	s.notify()
	return true
}

// Rollback removes a temp entry after a failed send.
func (s *MessageStore) Rollback(tempID string) bool {
	s.mu.Lock()
	for i, e := range s.entries {
		if e.tempID == tempID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.mu.Unlock()
			s.notify()
			return true
		}
	}
	s.mu.Unlock()
	return false
}

// PendingOffer returns the offer carried by the last transcript message whose
// offer is still pending, or nil.
func (s *MessageStore) PendingOffer() *client.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *client.Offer
	for _, e := range s.entries {
		if e.msg.IsOffer && e.msg.Offer != nil && e.msg.Offer.Status == client.OfferStatusPending {
			o := *e.msg.Offer
			found = &o
		}
	}
	return found
}

// LatestOffer returns the offer carried by the last offer-bearing message
// regardless of status, or nil.
func (s *MessageStore) LatestOffer() *client.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *client.Offer
	for _, e := range s.entries {
		if e.msg.IsOffer && e.msg.Offer != nil {
			o := *e.msg.Offer
			found = &o
		}
	}
	return found
}

// MarkOfferStatus overlays a status onto every transcript message carrying
// the given offer, ahead of server confirmation.
func (s *MessageStore) MarkOfferStatus(offerID, status string) {
	s.mu.Lock()
	for i := range s.entries {
		o := s.entries[i].msg.Offer
		if s.entries[i].msg.IsOffer && o != nil && o.ID == offerID {
			oc := *o
			oc.Status = status
			s.entries[i].msg.Offer = &oc
		}
	}
	s.mu.Unlock()
	s.notify()
}

// Messages returns the render-ready transcript. An offer-bearing message is
// dropped when an earlier message already carries the same offer id, so
// repeated poll merges never show duplicate offer cards.
func (s *MessageStore) Messages() []client.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]client.Message, 0, len(s.entries))
	seen := make(map[string]bool)
	for _, e := range s.entries {
		if e.msg.IsOffer && e.msg.Offer != nil && e.msg.Offer.ID != "" {
			if seen[e.msg.Offer.ID] {
				continue
			}
			seen[e.msg.Offer.ID] = true
		}
		out = append(out, e.msg)
	}
	return out
}

// Len counts confirmed messages only; the poll loop compares it against the
// remote list length to decide whether to re-ingest.
func (s *MessageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if e.confirmed() {
			n++
		}
	}
	return n
}

func (s *MessageStore) notify() {
	if s.OnChange != nil {
		s.OnChange()
	}
}

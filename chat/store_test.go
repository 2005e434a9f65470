package chat

import (
	"testing"

	"github.com/listtra/listtra/client"
)

func offerMsg(id uint64, offerID string, price int64, status string) client.Message {
	return client.Message{
		ID:        id,
		SenderUID: "u1",
		Body:      "offer",
		IsOffer:   true,
		Offer:     &client.Offer{ID: offerID, Price: price, Status: status, BuyerUID: "u1"},
	}
}

func textMsg(id uint64, sender, body string) client.Message {
	return client.Message{ID: id, SenderUID: sender, Body: body}
}

func TestIngestDropsMalformed(t *testing.T) {
	s := NewMessageStore()
	s.Ingest([]client.Message{
		textMsg(1, "u1", "hi"),
		{ID: 0, SenderUID: "u1", Body: "no id"},
		{ID: 2, SenderUID: "", Body: "no sender"},
		textMsg(3, "u2", "hello"),
	})
	if got := s.Len(); got != 2 {
		t.Fatalf("len=%d want=2", got)
	}
}

func TestIngestPreservesUnconfirmed(t *testing.T) {
	s := NewMessageStore()
	s.Ingest([]client.Message{textMsg(1, "u1", "hi")})
	s.Append(client.Message{SenderUID: "u1", Body: "pending send"})
	s.Ingest([]client.Message{textMsg(1, "u1", "hi"), textMsg(2, "u2", "hello")})

	msgs := s.Messages()
	if len(msgs) != 3 {
		t.Fatalf("messages=%d want=3", len(msgs))
	}
	if msgs[2].Body != "pending send" {
		t.Fatalf("unconfirmed message not carried over: %q", msgs[2].Body)
	}
	if got := s.Len(); got != 2 {
		t.Fatalf("confirmed len=%d want=2", got)
	}
}

func TestReconcileReplacesInPlace(t *testing.T) {
	s := NewMessageStore()
	s.Ingest([]client.Message{textMsg(1, "u1", "hi")})
	tempID := s.Append(client.Message{SenderUID: "u1", Body: "draft"})
	s.Ingest([]client.Message{textMsg(1, "u1", "hi")})

	if !s.Reconcile(tempID, textMsg(2, "u1", "draft")) {
		t.Fatalf("reconcile returned false")
	}
	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("messages=%d want=2", len(msgs))
	}
	if msgs[1].ID != 2 || msgs[1].Body != "draft" {
		t.Fatalf("reconciled message wrong: %+v", msgs[1])
	}
	// A second reconcile with the same temp id must be a no-op.
	if s.Reconcile(tempID, textMsg(3, "u1", "draft")) {
		t.Fatalf("second reconcile should return false")
	}
}

func TestReconcileAfterPollDeliveredCopy(t *testing.T) {
	s := NewMessageStore()
	tempID := s.Append(client.Message{SenderUID: "u1", Body: "draft"})
	// A poll lands the confirmed copy before the send echo returns.
	s.Ingest([]client.Message{textMsg(5, "u1", "draft")})

	s.Reconcile(tempID, textMsg(5, "u1", "draft"))
	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("messages=%d want=1", len(msgs))
	}
	if msgs[0].ID != 5 {
		t.Fatalf("id=%d want=5", msgs[0].ID)
	}
}

func TestRollbackRestoresTranscript(t *testing.T) {
	s := NewMessageStore()
	s.Ingest([]client.Message{textMsg(1, "u1", "hi")})
	before := len(s.Messages())
	tempID := s.Append(client.Message{SenderUID: "u1", Body: "doomed"})
	if !s.Rollback(tempID) {
		t.Fatalf("rollback returned false")
	}
	if got := len(s.Messages()); got != before {
		t.Fatalf("messages=%d want=%d", got, before)
	}
}

func TestDedupeByOfferID(t *testing.T) {
	s := NewMessageStore()
	remote := []client.Message{
		textMsg(1, "u1", "hi"),
		offerMsg(2, "off-1", 450, client.OfferStatusPending),
		offerMsg(3, "off-1", 450, client.OfferStatusPending),
	}
	s.Ingest(remote)
	first := len(s.Messages())
	if first != 2 {
		t.Fatalf("messages=%d want=2", first)
	}
	// Ingesting the same list again must not change the rendered count.
	s.Ingest(remote)
	if got := len(s.Messages()); got != first {
		t.Fatalf("messages=%d want=%d after re-ingest", got, first)
	}
}

func TestPendingOfferDerivation(t *testing.T) {
	tests := []struct {
		name   string
		msgs   []client.Message
		wantID string
	}{
		{"none", []client.Message{textMsg(1, "u1", "hi")}, ""},
		{"single pending", []client.Message{offerMsg(1, "off-1", 450, client.OfferStatusPending)}, "off-1"},
		{"cancelled then new", []client.Message{
			offerMsg(1, "off-1", 450, client.OfferStatusCancelled),
			offerMsg(2, "off-2", 300, client.OfferStatusPending),
		}, "off-2"},
		{"terminal only", []client.Message{offerMsg(1, "off-1", 450, client.OfferStatusAccepted)}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMessageStore()
			s.Ingest(tt.msgs)
			got := s.PendingOffer()
			if tt.wantID == "" {
				if got != nil {
					t.Fatalf("pending=%+v want=nil", got)
				}
				return
			}
			if got == nil || got.ID != tt.wantID {
				t.Fatalf("pending=%+v want id=%s", got, tt.wantID)
			}
		})
	}
}

func TestMarkOfferStatus(t *testing.T) {
	s := NewMessageStore()
	s.Ingest([]client.Message{offerMsg(1, "off-1", 450, client.OfferStatusPending)})
	s.MarkOfferStatus("off-1", client.OfferStatusAccepted)
	if s.PendingOffer() != nil {
		t.Fatalf("offer still pending after mark")
	}
	o := s.LatestOffer()
	if o == nil || o.Status != client.OfferStatusAccepted {
		t.Fatalf("latest=%+v want accepted", o)
	}
}

func TestOnChangeFires(t *testing.T) {
	s := NewMessageStore()
	calls := 0
	s.OnChange = func() { calls++ }
	s.Ingest([]client.Message{textMsg(1, "u1", "hi")})
	tempID := s.Append(client.Message{SenderUID: "u1", Body: "x"})
	s.Rollback(tempID)
	if calls != 3 {
		t.Fatalf("calls=%d want=3", calls)
	}
}

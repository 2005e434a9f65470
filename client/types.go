package client

import "time"

// Offer statuses as they appear on the wire.
const (
	OfferStatusPending   = "pending"
	OfferStatusAccepted  = "accepted"
	OfferStatusRejected  = "rejected"
	OfferStatusCancelled = "cancelled"
)

type Profile struct {
	UID      string  `json:"uid"`
	Email    string  `json:"email"`
	Nickname string  `json:"nickname"`
	IconURL  *string `json:"iconUrl,omitempty"`
}

type Listing struct {
	ID           uint64  `json:"id"`
	SellerUID    string  `json:"sellerUid"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        int64   `json:"price"`
	CategorySlug string  `json:"categorySlug,omitempty"`
	ImageURL     *string `json:"imageUrl,omitempty"`
	Liked        bool    `json:"liked,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

type ListingPage struct {
	Listings []Listing `json:"listings"`
	Total    int64     `json:"total"`
}

type ListingDraft struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        int64   `json:"price"`
	CategorySlug string  `json:"categorySlug"`
	ImageURL     *string `json:"imageUrl"`
}

type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type ListingSummary struct {
	ID       uint64  `json:"id"`
	Title    string  `json:"title"`
	Price    int64   `json:"price"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

type Participant struct {
	UID      string  `json:"uid"`
	Nickname string  `json:"nickname"`
	IconURL  *string `json:"iconUrl,omitempty"`
}

type Conversation struct {
	ConversationID   uint64          `json:"conversationId"`
	ListingID        uint64          `json:"listingId"`
	SellerUID        string          `json:"sellerUid"`
	BuyerUID         string          `json:"buyerUid"`
	HasUnread        bool            `json:"hasUnread,omitempty"`
	ReviewedByBuyer  bool            `json:"reviewedByBuyer,omitempty"`
	Listing          *ListingSummary `json:"listing,omitempty"`
	OtherParticipant *Participant    `json:"otherParticipant,omitempty"`
}

type Offer struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Status   string `json:"status"`
	BuyerUID string `json:"buyerUid"`
}

type Message struct {
	ID             uint64    `json:"id"`
	ConversationID uint64    `json:"conversationId"`
	SenderUID      string    `json:"senderUid"`
	Body           string    `json:"body"`
	IsOffer        bool      `json:"isOffer"`
	Offer          *Offer    `json:"offer,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type OutgoingMessage struct {
	ConversationID uint64 `json:"conversationId"`
	Body           string `json:"body"`
	IsOffer        bool   `json:"isOffer"`
	Price          int64  `json:"price"`
}

type Review struct {
	ID          uint64 `json:"id"`
	ReviewerUID string `json:"reviewerUid"`
	ReviewedUID string `json:"reviewedUid"`
	ListingID   uint64 `json:"listingId"`
	Rating      int    `json:"rating"`
	Text        string `json:"text,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

type Notification struct {
	ID             uint64  `json:"id"`
	Type           string  `json:"type"`
	Title          string  `json:"title"`
	Body           string  `json:"body"`
	ListingID      *uint64 `json:"listingId,omitempty"`
	ConversationID *uint64 `json:"conversationId,omitempty"`
	Read           bool    `json:"read"`
	CreatedAt      string  `json:"createdAt"`
}

type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unreadCount"`
}

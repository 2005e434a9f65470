package model

import "time"

type OfferStatus string

const (
	OfferStatusPending   OfferStatus = "pending"
	OfferStatusAccepted  OfferStatus = "accepted"
	OfferStatusRejected  OfferStatus = "rejected"
	OfferStatusCancelled OfferStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed.
func (s OfferStatus) Terminal() bool {
	return s == OfferStatusAccepted || s == OfferStatusRejected || s == OfferStatusCancelled
}

type Offer struct {
	ID             string      `gorm:"primaryKey;size:36"`
	ConversationID uint64      `gorm:"column:conversation_id;index;not null"`
	ListingID      uint64      `gorm:"column:listing_id;index;not null"`
	BuyerUID       string      `gorm:"column:buyer_uid;size:64;index;not null"`
	Price          int64       `gorm:"not null"`
	Status         OfferStatus `gorm:"column:status;size:16;not null"`
	CreatedAt      time.Time   `gorm:"autoCreateTime"`
	UpdatedAt      time.Time   `gorm:"autoUpdateTime"`
}

func (Offer) TableName() string {
	return "offers"
}

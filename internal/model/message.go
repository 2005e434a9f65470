package model

import "time"

type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	ConversationID uint64    `gorm:"column:conversation_id;index"`
	SenderUID      string    `gorm:"column:sender_uid;size:64;index"`
	Body           string    `gorm:"type:text;not null"`
	IsOffer        bool      `gorm:"column:is_offer;not null"`
	OfferID        *string   `gorm:"column:offer_id;size:36;index"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}

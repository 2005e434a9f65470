package model

import "time"

type Like struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ListingID uint64    `gorm:"column:listing_id;uniqueIndex:uk_likes_listing_user;not null"`
	UserUID   string    `gorm:"column:user_uid;size:64;uniqueIndex:uk_likes_listing_user;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Like) TableName() string {
	return "likes"
}

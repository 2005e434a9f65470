package model

import "time"

type Review struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	ReviewerUID string    `gorm:"column:reviewer_uid;size:64;uniqueIndex:uk_reviews_reviewer_listing;not null"`
	ReviewedUID string    `gorm:"column:reviewed_uid;size:64;index;not null"`
	ListingID   uint64    `gorm:"column:listing_id;uniqueIndex:uk_reviews_reviewer_listing;not null"`
	Rating      int       `gorm:"not null"`
	Text        string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Review) TableName() string {
	return "reviews"
}

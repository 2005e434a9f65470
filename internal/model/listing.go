package model

import "time"

type Listing struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	SellerUID    string    `gorm:"column:seller_uid;size:64;index;not null"`
	Title        string    `gorm:"size:120;not null"`
	Description  string    `gorm:"type:text;not null"`
	Price        int64     `gorm:"not null"`
	CategorySlug string    `gorm:"column:category_slug;size:64;index"`
	ImageURL     *string   `gorm:"column:image_url;size:512"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Listing) TableName() string {
	return "listings"
}

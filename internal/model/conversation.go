package model

import "time"

type Conversation struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ListingID uint64    `gorm:"column:listing_id;index:idx_listing_buyer,unique" json:"listingId"`
	SellerUID string    `gorm:"column:seller_uid;size:64;index" json:"sellerUid"`
	BuyerUID  string    `gorm:"column:buyer_uid;size:64;index:idx_listing_buyer,unique" json:"buyerUid"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Conversation) TableName() string {
	return "conversations"
}

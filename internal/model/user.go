package model

import "time"

type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	UID          string    `gorm:"column:uid;size:64;uniqueIndex:uk_users_uid;not null"`
	Email        string    `gorm:"size:255;uniqueIndex:uk_users_email;not null"`
	PasswordHash string    `gorm:"column:password_hash;size:128;not null"`
	Nickname     string    `gorm:"size:64;not null"`
	IconURL      *string   `gorm:"column:icon_url;size:512"`
	RefreshToken string    `gorm:"column:refresh_token;size:128;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// UserProfile holds the public-facing profile details for a user.
// Authentication data lives on the User model; exactly one profile
// exists per user and it is created lazily on first profile access.
type UserProfile struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UserID      uint   `json:"userID" gorm:"not null;uniqueIndex"`
	User        User   `json:"user" gorm:"foreignKey:UserID"`
	DisplayName string `json:"displayName" gorm:"size:100"`
	AvatarURL   string `json:"avatarURL" gorm:"size:512"`
	Bio         string `json:"bio" gorm:"type:text"`
	College     string `json:"college" gorm:"size:100"`
	Phone       string `json:"phone" gorm:"size:20"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}

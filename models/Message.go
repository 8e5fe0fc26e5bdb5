package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is a single unit of communication about a listing. Messages
// are append-only; the only mutable field is the receiver-owned ReadAt
// marker.
type Message struct {
	gorm.Model
	SenderID   uint       `json:"senderID" gorm:"not null;index"`
	ReceiverID uint       `json:"receiverID" gorm:"not null;index"`
	ListingID  uint       `json:"listingID" gorm:"not null;index"`
	Body       string     `json:"body" gorm:"type:text;not null"`
	ReadAt     *time.Time `json:"readAt"`
}

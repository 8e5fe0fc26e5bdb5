package models

import (
	"time"
)

// WishlistEntry bookmarks one listing for one user. The composite
// unique index enforces at most one entry per (user, listing) pair.
type WishlistEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userID" gorm:"not null;uniqueIndex:idx_wishlist_user_listing"`
	ListingID uint      `json:"listingID" gorm:"not null;uniqueIndex:idx_wishlist_user_listing"`
	CreatedAt time.Time `json:"createdAt"`

	Listing Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID;references:ID"`
}

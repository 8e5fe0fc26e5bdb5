package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Listing statuses. Deleted is terminal: nothing transitions out of it.
const (
	ListingStatusDraft   = "draft"
	ListingStatusActive  = "active"
	ListingStatusSold    = "sold"
	ListingStatusDeleted = "deleted"
)

type Listing struct {
	gorm.Model
	SellerID    uint           `json:"sellerID" gorm:"not null;index"`
	Seller      User           `json:"seller" gorm:"foreignKey:SellerID;references:ID"`
	Title       string         `json:"title" gorm:"size:100;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Price       float64        `json:"price" gorm:"not null"`
	Category    string         `json:"category" gorm:"size:32;index"`
	Condition   string         `json:"condition" gorm:"size:16"` // new, like_new, good, fair, poor
	Status      string         `json:"status" gorm:"size:16;default:active;index"`
	Images      datatypes.JSON `json:"images"` // ordered array of image URLs, first is the cover
}

// listingTransitions is the allowed status state machine.
var listingTransitions = map[string][]string{
	ListingStatusDraft:  {ListingStatusActive},
	ListingStatusActive: {ListingStatusSold, ListingStatusDeleted},
	ListingStatusSold:   {ListingStatusActive, ListingStatusDeleted},
}

// CanTransition reports whether a listing may move from its current
// status to target.
func (l *Listing) CanTransition(target string) bool {
	for _, to := range listingTransitions[l.Status] {
		if to == target {
			return true
		}
	}
	return false
}

// CanSetStatus is CanTransition plus the no-op case: an edit that
// resubmits the current status is accepted unchanged.
func (l *Listing) CanSetStatus(target string) bool {
	return target == l.Status || l.CanTransition(target)
}

// ImageURLs decodes the stored JSON image array, preserving order.
func (l *Listing) ImageURLs() []string {
	images := []string{}
	if l.Images != nil {
		json.Unmarshal(l.Images, &images)
	}
	return images
}

// MarshalJSON renders Images as a real array instead of raw JSON bytes.
func (l Listing) MarshalJSON() ([]byte, error) {
	type Alias Listing
	aux := &struct {
		*Alias
		Images []string `json:"images"`
	}{
		Alias:  (*Alias)(&l),
		Images: l.ImageURLs(),
	}
	return json.Marshal(aux)
}

package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name           string    `json:"name"`
	Email          string    `json:"email" gorm:"uniqueIndex"`
	Password       string    `json:"-"`
	SocialLogin    bool      `json:"socialLogin"`
	SocialProvider string    `json:"socialProvider"`
	Role           string    `json:"role" gorm:"type:varchar(20);default:user;index"` // user, admin
	Listings       []Listing `json:"listings,omitempty" gorm:"foreignKey:SellerID;references:ID"`
}

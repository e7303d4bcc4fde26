package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `json:"-"`
	Role     string `gorm:"not null;default:user" json:"role"`

	// Loyalty ledger fields. LoyaltyPoints is the spendable balance,
	// LoyaltyPointsUsed and TotalSpent are cumulative.
	LoyaltyPoints     int     `gorm:"not null;default:0" json:"loyaltyPoints"`
	LoyaltyPointsUsed int     `gorm:"not null;default:0" json:"loyaltyPointsUsed"`
	TotalSpent        float64 `gorm:"not null;default:0" json:"totalSpent"`

	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`

	LastCartUpdate *time.Time `json:"lastCartUpdate"`

	Cart   []CartItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"cart"`
	Orders []Order    `json:"-"`
}

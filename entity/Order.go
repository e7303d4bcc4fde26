package entity

import (
	"gorm.io/gorm"
)

// Order statuses. payment_pending is only used for orders routed
// through the external payment processor; direct-payment orders start
// at pending.
const (
	StatusPaymentPending = "payment_pending"
	StatusPending        = "pending"
	StatusPreparing      = "preparing"
	StatusCompleted      = "completed"
	StatusCancelled      = "cancelled"
)

const (
	PaymentMethodCOD  = "COD"
	PaymentMethodCard = "CARD"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPaymentPending, StatusPending, StatusPreparing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	gorm.Model
	// Nil for guest orders.
	UserID *uint `gorm:"index" json:"userId"`
	User   *User `json:"-"`

	CustomerName    string `json:"customerName"`
	ContactPhone    string `json:"contactPhone"`
	DeliveryAddress string `json:"deliveryAddress"`

	Items []OrderItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`

	Subtotal            float64 `gorm:"not null" json:"subtotal"`
	DiscountAmount      float64 `gorm:"not null;default:0" json:"discountAmount"`
	LoyaltyPointsUsed   int     `gorm:"not null;default:0" json:"loyaltyPointsUsed"`
	LoyaltyPointsEarned int     `gorm:"not null;default:0" json:"loyaltyPointsEarned"`
	Total               float64 `gorm:"not null" json:"total"`

	Status        string `gorm:"index;not null;default:pending" json:"status"`
	PaymentMethod string `gorm:"default:COD" json:"paymentMethod"`
	PaymentStatus string `json:"paymentStatus"`
	// Session id at the external payment processor, set for CARD orders.
	PaymentSessionID string `gorm:"index" json:"-"`

	Notes string `json:"notes"`
}

// LoyaltyApplied reports whether the order's loyalty mutations (points
// deducted/credited, totalSpent bumped) have taken effect. Orders still
// waiting for payment have not touched the ledger, and a cancelled
// order has already been reversed.
func (o *Order) LoyaltyApplied() bool {
	return o.Status != StatusPaymentPending && o.Status != StatusCancelled
}

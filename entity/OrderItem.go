package entity

import (
	"gorm.io/gorm"
)

// OrderItem snapshots the menu item name and unit price at checkout
// time; later menu edits never change a placed order.
type OrderItem struct {
	gorm.Model
	OrderID    uint     `gorm:"index;not null" json:"orderId"`
	MenuItemID uint     `gorm:"not null" json:"menuItemId"`
	MenuItem   MenuItem `json:"menuItem"`

	Name     string  `json:"name"`
	Price    float64 `gorm:"not null" json:"price"`
	Quantity int     `gorm:"not null;default:1" json:"quantity"`
	Notes    string  `json:"notes"`
}

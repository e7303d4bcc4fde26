package entity

import (
	"gorm.io/gorm"
)

type MenuItem struct {
	gorm.Model
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Image       string  `json:"image"`
	IsAvailable bool    `gorm:"default:true" json:"isAvailable"`
	IsTopDeal   bool    `gorm:"default:false" json:"isTopDeal"`

	Categories []Category `gorm:"many2many:menu_item_categories;" json:"categories"`
}

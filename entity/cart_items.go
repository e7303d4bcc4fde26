package entity

import (
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

// CustomMap holds per-line customizations, e.g. "size" -> "large".
type CustomMap map[string]string

// Key returns a canonical signature: keys sorted, joined as k=v;k=v.
// Two maps with equal content produce the same key regardless of
// insertion order, so it can be used for merge matching.
func (m CustomMap) Key() string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+m[k])
	}
	return strings.Join(parts, ";")
}

type CartItem struct {
	gorm.Model
	UserID     uint     `gorm:"index;not null" json:"userId"`
	MenuItemID uint     `gorm:"not null" json:"menuItemId"`
	MenuItem   MenuItem `json:"-"`

	Quantity       int       `gorm:"not null;default:1" json:"quantity"`
	Customizations CustomMap `gorm:"serializer:json" json:"customizations"`
	// CustomKey is Customizations.Key(), persisted so lines can be
	// matched with a plain WHERE instead of decoding JSON.
	CustomKey string    `gorm:"index" json:"-"`
	AddedAt   time.Time `json:"addedAt"`
}

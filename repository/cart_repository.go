package repository

import (
	"errors"
	"time"

	"github.com/humamchoudhary/burgnice-backend/entity"

	"gorm.io/gorm"
)

type CartRepository struct {
	DB *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{DB: db}
}

// ItemsForUser returns the persisted cart lines with their menu items
// preloaded, oldest first.
func (r *CartRepository) ItemsForUser(userID uint) ([]entity.CartItem, error) {
	var items []entity.CartItem
	err := r.DB.Where("user_id = ?", userID).
		Preload("MenuItem").
		Order("added_at ASC").
		Find(&items).Error
	return items, err
}

// FindLine locates a cart line by its merge key: same menu item, same
// canonical customizations signature.
func (r *CartRepository) FindLine(tx *gorm.DB, userID, menuItemID uint, customKey string) (*entity.CartItem, error) {
	var line entity.CartItem
	err := tx.Where("user_id = ? AND menu_item_id = ? AND custom_key = ?", userID, menuItemID, customKey).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *CartRepository) FindItem(tx *gorm.DB, userID, itemID uint) (*entity.CartItem, error) {
	var line entity.CartItem
	err := tx.Where("id = ? AND user_id = ?", itemID, userID).First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *CartRepository) Save(tx *gorm.DB, item *entity.CartItem) error {
	return tx.Save(item).Error
}

func (r *CartRepository) Create(tx *gorm.DB, item *entity.CartItem) error {
	return tx.Create(item).Error
}

func (r *CartRepository) Remove(tx *gorm.DB, userID, itemID uint) error {
	res := tx.Where("id = ? AND user_id = ?", itemID, userID).Delete(&entity.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CartRepository) Clear(tx *gorm.DB, userID uint) error {
	return tx.Where("user_id = ?", userID).Delete(&entity.CartItem{}).Error
}

// StampCartUpdate records the user's lastCartUpdate timestamp.
func (r *CartRepository) StampCartUpdate(tx *gorm.DB, userID uint, at time.Time) error {
	return tx.Model(&entity.User{}).Where("id = ?", userID).
		UpdateColumn("last_cart_update", at).Error
}

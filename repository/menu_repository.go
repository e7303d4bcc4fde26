package repository

import (
	"github.com/humamchoudhary/burgnice-backend/entity"

	"gorm.io/gorm"
)

// MenuRepository is read-only: the core resolves cart and order line
// prices from it but never mutates the catalog.
type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

func (r *MenuRepository) FindByID(id uint) (*entity.MenuItem, error) {
	var m entity.MenuItem
	if err := r.DB.Preload("Categories").First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByIDs returns the items that exist; callers decide what a missing
// id means.
func (r *MenuRepository) FindByIDs(ids []uint) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.DB.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MenuRepository) List(onlyAvailable bool) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	q := r.DB.Preload("Categories")
	if onlyAvailable {
		q = q.Where("is_available = ?", true)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MenuRepository) ListByCategory(categoryID uint) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	err := r.DB.
		Joins("JOIN menu_item_categories mic ON mic.menu_item_id = menu_items.id").
		Where("mic.category_id = ?", categoryID).
		Preload("Categories").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MenuRepository) ListCategories() ([]entity.Category, error) {
	var cats []entity.Category
	if err := r.DB.Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

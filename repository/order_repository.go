package repository

import (
	"time"

	"github.com/humamchoudhary/burgnice-backend/entity"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) Create(tx *gorm.DB, order *entity.Order) error {
	return tx.Create(order).Error
}

func (r *OrderRepository) Get(id uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetWithItems(id uint) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.Preload("Items").Preload("Items.MenuItem").First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetBySessionID(sessionID string) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.Where("payment_session_id = ?", sessionID).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListForUser(userID uint) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.DB.Where("user_id = ?", userID).
		Preload("Items").Preload("Items.MenuItem").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) ListAll() ([]entity.Order, error) {
	var orders []entity.Order
	err := r.DB.Preload("Items").Preload("Items.MenuItem").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) ListPaginated(page, limit int) ([]entity.Order, int64, error) {
	var total int64
	if err := r.DB.Model(&entity.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []entity.Order
	err := r.DB.Preload("Items").Preload("Items.MenuItem").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

// ListWithLoyalty returns the user's orders that earned or spent
// points, newest first. Feeds the loyalty summary history.
func (r *OrderRepository) ListWithLoyalty(userID uint) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.DB.Where("user_id = ? AND (loyalty_points_earned > 0 OR loyalty_points_used > 0)", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// UpdateStatusGuard transitions the order only while it still holds one
// of the expected statuses. The caller checks RowsAffected: zero means
// another request won the race or the transition is not legal.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from []string, to string, extra map[string]any) (int64, error) {
	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status IN ?", orderID, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *OrderRepository) SetStatus(tx *gorm.DB, orderID uint, status string) error {
	return tx.Model(&entity.Order{}).Where("id = ?", orderID).
		Update("status", status).Error
}

func (r *OrderRepository) SetPaymentSession(tx *gorm.DB, orderID uint, sessionID string) error {
	return tx.Model(&entity.Order{}).Where("id = ?", orderID).
		Update("payment_session_id", sessionID).Error
}

func (r *OrderRepository) Delete(tx *gorm.DB, orderID uint) error {
	if err := tx.Where("order_id = ?", orderID).Delete(&entity.OrderItem{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Delete(&entity.Order{}, orderID).Error
}

// ----- admin stats -----

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

func (r *OrderRepository) CountByStatus() ([]StatusCount, error) {
	var rows []StatusCount
	err := r.DB.Model(&entity.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *OrderRepository) CountSince(since time.Time) (int64, error) {
	var n int64
	err := r.DB.Model(&entity.Order{}).Where("created_at >= ?", since).Count(&n).Error
	return n, err
}

type RevenueTotals struct {
	TotalRevenue           float64 `json:"totalRevenue"`
	TotalDiscounts         float64 `json:"totalDiscounts"`
	TotalLoyaltyPointsUsed int64   `json:"totalLoyaltyPointsUsed"`
}

func (r *OrderRepository) RevenueForCompleted() (*RevenueTotals, error) {
	var t RevenueTotals
	err := r.DB.Model(&entity.Order{}).
		Select("COALESCE(SUM(total),0) AS total_revenue, COALESCE(SUM(discount_amount),0) AS total_discounts, COALESCE(SUM(loyalty_points_used),0) AS total_loyalty_points_used").
		Where("status = ?", entity.StatusCompleted).
		Scan(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

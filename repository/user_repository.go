package repository

import (
	"github.com/humamchoudhary/burgnice-backend/entity"

	"gorm.io/gorm"
)

// UserRepository talks to the users table only.
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByEmail(email string) (*entity.User, error) {
	var user entity.User
	if err := r.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(id uint) (*entity.User, error) {
	var user entity.User
	if err := r.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) CountByEmail(email string) (int64, error) {
	var count int64
	if err := r.DB.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepository) CountByUsername(username string) (int64, error) {
	var count int64
	if err := r.DB.Model(&entity.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepository) Create(user *entity.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) Update(userID uint, updates map[string]any) error {
	return r.DB.Model(&entity.User{}).Where("id = ?", userID).Updates(updates).Error
}

// ApplyLoyaltyDelta applies increment-style updates to the loyalty
// counters so concurrent requests never clobber each other's values.
func (r *UserRepository) ApplyLoyaltyDelta(tx *gorm.DB, userID uint, points, pointsUsed int, spent float64) error {
	return tx.Model(&entity.User{}).Where("id = ?", userID).
		UpdateColumns(map[string]any{
			"loyalty_points":      gorm.Expr("loyalty_points + ?", points),
			"loyalty_points_used": gorm.Expr("loyalty_points_used + ?", pointsUsed),
			"total_spent":         gorm.Expr("total_spent + ?", spent),
		}).Error
}

// DeductPointsGuard atomically deducts points only while the balance
// covers them. Returns the number of rows updated; zero means the
// balance was insufficient.
func (r *UserRepository) DeductPointsGuard(tx *gorm.DB, userID uint, points int) (int64, error) {
	res := tx.Model(&entity.User{}).
		Where("id = ? AND loyalty_points >= ?", userID, points).
		UpdateColumns(map[string]any{
			"loyalty_points":      gorm.Expr("loyalty_points - ?", points),
			"loyalty_points_used": gorm.Expr("loyalty_points_used + ?", points),
		})
	return res.RowsAffected, res.Error
}

package configs

import (
	"errors"

	"github.com/humamchoudhary/burgnice-backend/entity"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the admin account on first boot. ADMIN_PASSWORD
// must be set when the account does not exist yet.
func SeedAdmin(cfg *Config) error {
	var existing entity.User
	err := db.Where("email = ?", cfg.AdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if cfg.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD is required to seed the admin account")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := entity.User{
		Username: "admin",
		Email:    cfg.AdminEmail,
		Password: string(hashed),
		Role:     entity.RoleAdmin,
	}
	return db.Create(&admin).Error
}

// SeedCatalog inserts a starter menu so a fresh install is browsable.
func SeedCatalog() error {
	var count int64
	if err := db.Model(&entity.MenuItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	burgers := entity.Category{Name: "Burgers", Description: "Flame-grilled classics"}
	sides := entity.Category{Name: "Sides", Description: "Fries and more"}
	drinks := entity.Category{Name: "Drinks", Description: "Cold drinks"}
	if err := db.Create(&[]*entity.Category{&burgers, &sides, &drinks}).Error; err != nil {
		return err
	}

	items := []entity.MenuItem{
		{Name: "Classic Burger", Description: "Beef patty, lettuce, tomato", Price: 8.50, IsAvailable: true, Categories: []entity.Category{burgers}},
		{Name: "Double Cheese", Description: "Double patty, double cheese", Price: 11.00, IsAvailable: true, IsTopDeal: true, Categories: []entity.Category{burgers}},
		{Name: "Fries", Description: "Skin-on fries", Price: 3.00, IsAvailable: true, Categories: []entity.Category{sides}},
		{Name: "Onion Rings", Description: "Crispy battered rings", Price: 3.50, IsAvailable: true, Categories: []entity.Category{sides}},
		{Name: "Cola", Description: "330ml can", Price: 1.50, IsAvailable: true, Categories: []entity.Category{drinks}},
	}
	return db.Create(&items).Error
}

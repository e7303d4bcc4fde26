package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/humamchoudhary/burgnice-backend/entity"
	"github.com/humamchoudhary/burgnice-backend/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// named shared-cache DSN so every pooled connection sees one database
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Category{}, &entity.MenuItem{},
		&entity.CartItem{},
		&entity.Order{}, &entity.OrderItem{},
	))
	return db
}

func newOrderService(t *testing.T, db *gorm.DB) *OrderService {
	t.Helper()
	return NewOrderService(db,
		repository.NewOrderRepository(db),
		repository.NewUserRepository(db),
		repository.NewCartRepository(db),
		repository.NewMenuRepository(db),
		zerolog.Nop(),
	)
}

func newCartService(t *testing.T, db *gorm.DB) *CartService {
	t.Helper()
	return NewCartService(db,
		repository.NewCartRepository(db),
		repository.NewMenuRepository(db),
		repository.NewUserRepository(db),
		zerolog.Nop(),
	)
}

func seedUser(t *testing.T, db *gorm.DB, points int) *entity.User {
	t.Helper()
	user := &entity.User{
		Username:      randomName(t, "user"),
		Email:         randomName(t, "user") + "@example.com",
		Password:      "hashed",
		Role:          entity.RoleUser,
		LoyaltyPoints: points,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedMenuItem(t *testing.T, db *gorm.DB, name string, price float64) *entity.MenuItem {
	t.Helper()
	item := &entity.MenuItem{Name: name, Price: price, IsAvailable: true}
	require.NoError(t, db.Create(item).Error)
	return item
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *entity.User {
	t.Helper()
	var user entity.User
	require.NoError(t, db.First(&user, id).Error)
	return &user
}

var nameSeq int

func randomName(t *testing.T, prefix string) string {
	t.Helper()
	nameSeq++
	return fmt.Sprintf("%s-%d", prefix, nameSeq)
}

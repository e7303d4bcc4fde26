package services

import (
	"testing"

	"github.com/humamchoudhary/burgnice-backend/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderWithRedemption(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 25)
	burger := seedMenuItem(t, db, "Classic Burger", 25.00)

	out, err := svc.Create(&user.ID, &CreateOrderIn{
		Items:             []OrderItemIn{{MenuItemID: burger.ID, Quantity: 2}},
		LoyaltyPointsUsed: 20,
		CustomerName:      "Ada",
		ContactPhone:      "0123456789",
		DeliveryAddress:   "1 Test Street",
	})
	require.NoError(t, err)

	// subtotal 50, 20 points = 20% discount, earned floor(50/10) = 5
	assert.InDelta(t, 50.0, out.Order.Subtotal, 1e-9)
	assert.InDelta(t, 10.0, out.DiscountAmount, 1e-9)
	assert.InDelta(t, 40.0, out.Order.Total, 1e-9)
	assert.Equal(t, 5, out.LoyaltyPointsEarned)
	assert.Equal(t, entity.StatusPending, out.Order.Status)

	after := reloadUser(t, db, user.ID)
	assert.Equal(t, 10, after.LoyaltyPoints) // 25 - 20 + 5
	assert.Equal(t, 20, after.LoyaltyPointsUsed)
	assert.InDelta(t, 40.0, after.TotalSpent, 1e-9)
}

func TestCreateOrderInsufficientPointsLeavesNothingBehind(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 5)
	burger := seedMenuItem(t, db, "Classic Burger", 25.00)

	_, err := svc.Create(&user.ID, &CreateOrderIn{
		Items:             []OrderItemIn{{MenuItemID: burger.ID, Quantity: 2}},
		LoyaltyPointsUsed: 10,
		CustomerName:      "Ada",
		ContactPhone:      "0123456789",
		DeliveryAddress:   "1 Test Street",
	})
	require.ErrorIs(t, err, ErrInsufficientPoints)

	after := reloadUser(t, db, user.ID)
	assert.Equal(t, 5, after.LoyaltyPoints)
	assert.Equal(t, 0, after.LoyaltyPointsUsed)
	assert.InDelta(t, 0.0, after.TotalSpent, 1e-9)

	var count int64
	require.NoError(t, db.Model(&entity.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateOrderRejectsGuestRedemption(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	burger := seedMenuItem(t, db, "Classic Burger", 25.00)

	_, err := svc.Create(nil, &CreateOrderIn{
		Items:             []OrderItemIn{{MenuItemID: burger.ID, Quantity: 1}},
		LoyaltyPointsUsed: 10,
		CustomerName:      "Guest",
		ContactPhone:      "0123456789",
		DeliveryAddress:   "1 Test Street",
	})
	assert.ErrorIs(t, err, ErrGuestRedemption)
}

func TestCreateOrderRejectsPartialStacks(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 30)
	burger := seedMenuItem(t, db, "Classic Burger", 25.00)

	_, err := svc.Create(&user.ID, &CreateOrderIn{
		Items:             []OrderItemIn{{MenuItemID: burger.ID, Quantity: 1}},
		LoyaltyPointsUsed: 15,
		CustomerName:      "Ada",
		ContactPhone:      "0123456789",
		DeliveryAddress:   "1 Test Street",
	})
	assert.ErrorIs(t, err, ErrInvalidRedemption)
}

func TestCreateOrderClearsServerCart(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	carts := newCartService(t, db)
	user := seedUser(t, db, 0)
	burger := seedMenuItem(t, db, "Classic Burger", 8.50)

	require.NoError(t, carts.Add(user.ID, &AddToCartIn{MenuItemID: burger.ID, Quantity: 2}))

	out, err := svc.Create(&user.ID, &CreateOrderIn{
		Items:           []OrderItemIn{{MenuItemID: burger.ID, Quantity: 2}},
		CustomerName:    "Ada",
		ContactPhone:    "0123456789",
		DeliveryAddress: "1 Test Street",
	})
	require.NoError(t, err)
	assert.True(t, out.CartCleared)

	view, err := carts.View(UserOwner(user.ID))
	require.NoError(t, err)
	assert.Empty(t, view.Cart)
}

func TestCancelRestoresUsedPointsOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 30)
	burger := seedMenuItem(t, db, "Classic Burger", 25.00)

	out, err := svc.Create(&user.ID, &CreateOrderIn{
		Items:             []OrderItemIn{{MenuItemID: burger.ID, Quantity: 2}},
		LoyaltyPointsUsed: 20,
		CustomerName:      "Ada",
		ContactPhone:      "0123456789",
		DeliveryAddress:   "1 Test Street",
	})
	require.NoError(t, err)
	// after create: 30 - 20 + 5 earned = 15

	cancelled, err := svc.Cancel(out.Order.ID, user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, cancelled.Status)

	after := reloadUser(t, db, user.ID)
	// the 20 used points come back, the 5 earned stay banked
	assert.Equal(t, 35, after.LoyaltyPoints)
	assert.InDelta(t, 40.0, after.TotalSpent, 1e-9)
}

func TestCancelTwiceDoesNotDoubleRefund(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 30)
	burger := seedMenuItem(t, db, "Classic Burger", 25.00)

	out, err := svc.Create(&user.ID, &CreateOrderIn{
		Items:             []OrderItemIn{{MenuItemID: burger.ID, Quantity: 2}},
		LoyaltyPointsUsed: 20,
		CustomerName:      "Ada",
		ContactPhone:      "0123456789",
		DeliveryAddress:   "1 Test Street",
	})
	require.NoError(t, err)

	_, err = svc.Cancel(out.Order.ID, user.ID, false)
	require.NoError(t, err)

	_, err = svc.Cancel(out.Order.ID, user.ID, false)
	assert.ErrorIs(t, err, ErrInvalidState)

	after := reloadUser(t, db, user.ID)
	assert.Equal(t, 35, after.LoyaltyPoints)
}

func TestCancelRejectsOtherUsers(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	owner := seedUser(t, db, 0)
	other := seedUser(t, db, 0)
	burger := seedMenuItem(t, db, "Classic Burger", 8.50)

	out, err := svc.Create(&owner.ID, &CreateOrderIn{
		Items:           []OrderItemIn{{MenuItemID: burger.ID, Quantity: 1}},
		CustomerName:    "Ada",
		ContactPhone:    "0123456789",
		DeliveryAddress: "1 Test Street",
	})
	require.NoError(t, err)

	_, err = svc.Cancel(out.Order.ID, other.ID, false)
	assert.ErrorIs(t, err, ErrForbidden)

	// admins may cancel anyone's order
	_, err = svc.Cancel(out.Order.ID, other.ID, true)
	assert.NoError(t, err)
}

func TestCancelRejectedOncePreparing(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 0)
	burger := seedMenuItem(t, db, "Classic Burger", 8.50)

	out, err := svc.Create(&user.ID, &CreateOrderIn{
		Items:           []OrderItemIn{{MenuItemID: burger.ID, Quantity: 1}},
		CustomerName:    "Ada",
		ContactPhone:    "0123456789",
		DeliveryAddress: "1 Test Street",
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(out.Order.ID, entity.StatusPreparing)
	require.NoError(t, err)

	_, err = svc.Cancel(out.Order.ID, user.ID, false)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestAdminCancelViaSetStatusReversesOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 30)
	burger := seedMenuItem(t, db, "Classic Burger", 25.00)

	out, err := svc.Create(&user.ID, &CreateOrderIn{
		Items:             []OrderItemIn{{MenuItemID: burger.ID, Quantity: 2}},
		LoyaltyPointsUsed: 20,
		CustomerName:      "Ada",
		ContactPhone:      "0123456789",
		DeliveryAddress:   "1 Test Street",
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(out.Order.ID, entity.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, 35, reloadUser(t, db, user.ID).LoyaltyPoints)

	// setting cancelled again must not credit the points a second time
	_, err = svc.SetStatus(out.Order.ID, entity.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, 35, reloadUser(t, db, user.ID).LoyaltyPoints)
}

func TestDeleteReversesPointsAndSpend(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 30)
	burger := seedMenuItem(t, db, "Classic Burger", 25.00)

	out, err := svc.Create(&user.ID, &CreateOrderIn{
		Items:             []OrderItemIn{{MenuItemID: burger.ID, Quantity: 2}},
		LoyaltyPointsUsed: 20,
		CustomerName:      "Ada",
		ContactPhone:      "0123456789",
		DeliveryAddress:   "1 Test Street",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(out.Order.ID))

	after := reloadUser(t, db, user.ID)
	assert.Equal(t, 35, after.LoyaltyPoints)
	assert.InDelta(t, 0.0, after.TotalSpent, 1e-9)

	var count int64
	require.NoError(t, db.Unscoped().Model(&entity.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteAfterCancelDoesNotReverseAgain(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 30)
	burger := seedMenuItem(t, db, "Classic Burger", 25.00)

	out, err := svc.Create(&user.ID, &CreateOrderIn{
		Items:             []OrderItemIn{{MenuItemID: burger.ID, Quantity: 2}},
		LoyaltyPointsUsed: 20,
		CustomerName:      "Ada",
		ContactPhone:      "0123456789",
		DeliveryAddress:   "1 Test Street",
	})
	require.NoError(t, err)

	_, err = svc.Cancel(out.Order.ID, user.ID, false)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(out.Order.ID))

	after := reloadUser(t, db, user.ID)
	assert.Equal(t, 35, after.LoyaltyPoints)
	// totalSpent keeps the 40 banked by the original purchase
	assert.InDelta(t, 40.0, after.TotalSpent, 1e-9)
}

func TestOrderRejectsUnknownAndUnavailableItems(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 0)
	off := seedMenuItem(t, db, "Seasonal Special", 12.00)
	require.NoError(t, db.Model(&entity.MenuItem{}).Where("id = ?", off.ID).Update("is_available", false).Error)

	_, err := svc.Create(&user.ID, &CreateOrderIn{
		Items:           []OrderItemIn{{MenuItemID: 9999, Quantity: 1}},
		CustomerName:    "Ada",
		ContactPhone:    "0123456789",
		DeliveryAddress: "1 Test Street",
	})
	assert.ErrorIs(t, err, ErrMenuItemNotFound)

	_, err = svc.Create(&user.ID, &CreateOrderIn{
		Items:           []OrderItemIn{{MenuItemID: off.ID, Quantity: 1}},
		CustomerName:    "Ada",
		ContactPhone:    "0123456789",
		DeliveryAddress: "1 Test Street",
	})
	assert.ErrorIs(t, err, ErrMenuItemUnavailable)
}

func TestTrackingTimeline(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 0)
	burger := seedMenuItem(t, db, "Classic Burger", 8.50)

	out, err := svc.Create(&user.ID, &CreateOrderIn{
		Items:           []OrderItemIn{{MenuItemID: burger.ID, Quantity: 1}},
		CustomerName:    "Ada",
		ContactPhone:    "0123456789",
		DeliveryAddress: "1 Test Street",
	})
	require.NoError(t, err)

	track, err := svc.Tracking(out.Order.ID, user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, OrderNumber(out.Order.ID), track.OrderNumber)
	assert.NotEmpty(t, track.TrackingInfo.Timeline)

	_, err = svc.Tracking(out.Order.ID, user.ID+1, false)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestHistoryAndLoyaltySummary(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 30)
	burger := seedMenuItem(t, db, "Classic Burger", 25.00)

	_, err := svc.Create(&user.ID, &CreateOrderIn{
		Items:             []OrderItemIn{{MenuItemID: burger.ID, Quantity: 2}},
		LoyaltyPointsUsed: 20,
		CustomerName:      "Ada",
		ContactPhone:      "0123456789",
		DeliveryAddress:   "1 Test Street",
	})
	require.NoError(t, err)

	hist, err := svc.History(user.ID)
	require.NoError(t, err)
	require.Len(t, hist.Orders, 1)
	assert.Equal(t, 1, hist.TotalOrders)
	assert.NotNil(t, hist.RecentOrder)
	assert.InDelta(t, 40.0, hist.TotalSpent, 1e-9)

	sum, err := svc.LoyaltySummary(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, sum.LoyaltyPoints)
	require.Len(t, sum.PointsHistory, 1)
	assert.Equal(t, 20, sum.PointsHistory[0].PointsUsed)
	assert.Equal(t, 5, sum.PointsHistory[0].PointsEarned)
}

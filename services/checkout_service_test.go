package services

import (
	"context"
	"strconv"
	"testing"

	"github.com/humamchoudhary/burgnice-backend/entity"
	"github.com/humamchoudhary/burgnice-backend/payment"
	"github.com/humamchoudhary/burgnice-backend/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakePaymentClient struct {
	sessions map[string]*payment.Session
	created  int
}

func newFakePaymentClient() *fakePaymentClient {
	return &fakePaymentClient{sessions: map[string]*payment.Session{}}
}

func (f *fakePaymentClient) CreateSession(_ context.Context, params *payment.SessionParams) (*payment.Session, error) {
	f.created++
	s := &payment.Session{
		ID:            "sess_" + strconv.Itoa(f.created),
		URL:           "https://pay.example/s/" + strconv.Itoa(f.created),
		Status:        "open",
		PaymentStatus: payment.SessionUnpaid,
		Metadata:      params.Metadata,
	}
	f.sessions[s.ID] = s
	return s, nil
}

func (f *fakePaymentClient) RetrieveSession(_ context.Context, id string) (*payment.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakePaymentClient) settle(id string) { f.sessions[id].PaymentStatus = payment.SessionPaid }

func newCheckoutService(t *testing.T, db *gorm.DB, fake *fakePaymentClient) *CheckoutService {
	t.Helper()
	return NewCheckoutService(db,
		repository.NewOrderRepository(db),
		repository.NewUserRepository(db),
		repository.NewMenuRepository(db),
		fake,
		"https://shop.example", "https://api.shop.example",
		zerolog.Nop(),
	)
}

func createSessionIn(menuItemID uint, pointsUsed int) *CreateSessionIn {
	return &CreateSessionIn{
		Items:             []OrderItemIn{{MenuItemID: menuItemID, Quantity: 2}},
		LoyaltyPointsUsed: pointsUsed,
		CustomerName:      "Ada",
		ContactPhone:      "0123456789",
		DeliveryAddress:   "1 Test Street",
	}
}

func TestCheckoutCreateSessionHoldsLedger(t *testing.T) {
	db := newTestDB(t)
	fake := newFakePaymentClient()
	svc := newCheckoutService(t, db, fake)
	user := seedUser(t, db, 25)
	burger := seedMenuItem(t, db, "Classic Burger", 25.00)

	out, err := svc.CreateSession(context.Background(), &user.ID, createSessionIn(burger.ID, 20))
	require.NoError(t, err)
	assert.NotEmpty(t, out.URL)

	var order entity.Order
	require.NoError(t, db.First(&order, out.OrderID).Error)
	assert.Equal(t, entity.StatusPaymentPending, order.Status)
	assert.Equal(t, entity.PaymentMethodCard, order.PaymentMethod)
	assert.NotEmpty(t, order.PaymentSessionID)
	assert.InDelta(t, 40.0, order.Total, 1e-9)
	assert.Equal(t, 5, order.LoyaltyPointsEarned)

	// nothing is deducted or credited until payment settles
	after := reloadUser(t, db, user.ID)
	assert.Equal(t, 25, after.LoyaltyPoints)
	assert.InDelta(t, 0.0, after.TotalSpent, 1e-9)
}

func TestCheckoutCreateSessionChecksBalanceUpfront(t *testing.T) {
	db := newTestDB(t)
	fake := newFakePaymentClient()
	svc := newCheckoutService(t, db, fake)
	user := seedUser(t, db, 5)
	burger := seedMenuItem(t, db, "Classic Burger", 25.00)

	_, err := svc.CreateSession(context.Background(), &user.ID, createSessionIn(burger.ID, 10))
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Zero(t, fake.created)
}

func TestCheckoutStatusSettlesOnce(t *testing.T) {
	db := newTestDB(t)
	fake := newFakePaymentClient()
	svc := newCheckoutService(t, db, fake)
	user := seedUser(t, db, 25)
	burger := seedMenuItem(t, db, "Classic Burger", 25.00)

	out, err := svc.CreateSession(context.Background(), &user.ID, createSessionIn(burger.ID, 20))
	require.NoError(t, err)

	paid, err := svc.Status(context.Background(), out.OrderID)
	require.NoError(t, err)
	assert.False(t, paid)

	var order entity.Order
	require.NoError(t, db.First(&order, out.OrderID).Error)
	fake.settle(order.PaymentSessionID)

	// poll twice; the ledger must move exactly once
	for i := 0; i < 2; i++ {
		paid, err = svc.Status(context.Background(), out.OrderID)
		require.NoError(t, err)
		assert.True(t, paid)
	}

	require.NoError(t, db.First(&order, out.OrderID).Error)
	assert.Equal(t, entity.StatusPending, order.Status)
	assert.Equal(t, "paid", order.PaymentStatus)

	after := reloadUser(t, db, user.ID)
	assert.Equal(t, 10, after.LoyaltyPoints) // 25 - 20 + 5
	assert.Equal(t, 20, after.LoyaltyPointsUsed)
	assert.InDelta(t, 40.0, after.TotalSpent, 1e-9)
}

func TestCheckoutStatusWithoutSession(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckoutService(t, db, newFakePaymentClient())
	orders := newOrderService(t, db)
	user := seedUser(t, db, 0)
	burger := seedMenuItem(t, db, "Classic Burger", 8.50)

	out, err := orders.Create(&user.ID, &CreateOrderIn{
		Items:           []OrderItemIn{{MenuItemID: burger.ID, Quantity: 1}},
		CustomerName:    "Ada",
		ContactPhone:    "0123456789",
		DeliveryAddress: "1 Test Street",
	})
	require.NoError(t, err)

	_, err = svc.Status(context.Background(), out.Order.ID)
	assert.ErrorIs(t, err, ErrNoPaymentSession)
}

func webhookEvent(eventType string, orderID uint) payment.Event {
	var e payment.Event
	e.ID = "evt_1"
	e.Type = eventType
	e.Data.Object = payment.Session{
		ID:       "sess_x",
		Metadata: map[string]string{"orderId": strconv.FormatUint(uint64(orderID), 10)},
	}
	return e
}

func TestCheckoutWebhookCompletedAndPollRace(t *testing.T) {
	db := newTestDB(t)
	fake := newFakePaymentClient()
	svc := newCheckoutService(t, db, fake)
	user := seedUser(t, db, 25)
	burger := seedMenuItem(t, db, "Classic Burger", 25.00)

	out, err := svc.CreateSession(context.Background(), &user.ID, createSessionIn(burger.ID, 20))
	require.NoError(t, err)

	var order entity.Order
	require.NoError(t, db.First(&order, out.OrderID).Error)
	fake.settle(order.PaymentSessionID)

	// webhook lands first, then the client polls
	require.NoError(t, svc.HandleEvent(webhookEvent(payment.EventSessionCompleted, out.OrderID)))
	paid, err := svc.Status(context.Background(), out.OrderID)
	require.NoError(t, err)
	assert.True(t, paid)

	after := reloadUser(t, db, user.ID)
	assert.Equal(t, 10, after.LoyaltyPoints)
	assert.InDelta(t, 40.0, after.TotalSpent, 1e-9)
}

func TestCheckoutWebhookFallsBackToSessionLookup(t *testing.T) {
	db := newTestDB(t)
	fake := newFakePaymentClient()
	svc := newCheckoutService(t, db, fake)
	user := seedUser(t, db, 0)
	burger := seedMenuItem(t, db, "Classic Burger", 25.00)

	out, err := svc.CreateSession(context.Background(), &user.ID, createSessionIn(burger.ID, 0))
	require.NoError(t, err)

	var order entity.Order
	require.NoError(t, db.First(&order, out.OrderID).Error)

	// event carries the session id but no metadata
	var e payment.Event
	e.ID = "evt_nometa"
	e.Type = payment.EventSessionCompleted
	e.Data.Object = payment.Session{ID: order.PaymentSessionID}
	require.NoError(t, svc.HandleEvent(e))

	require.NoError(t, db.First(&order, out.OrderID).Error)
	assert.Equal(t, entity.StatusPending, order.Status)
}

func TestCheckoutWebhookUnknownOrderIsNoOp(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckoutService(t, db, newFakePaymentClient())

	assert.NoError(t, svc.HandleEvent(webhookEvent(payment.EventSessionCompleted, 9999)))
}

func TestCheckoutWebhookExpiredCancelsWithoutLedger(t *testing.T) {
	db := newTestDB(t)
	fake := newFakePaymentClient()
	svc := newCheckoutService(t, db, fake)
	user := seedUser(t, db, 25)
	burger := seedMenuItem(t, db, "Classic Burger", 25.00)

	out, err := svc.CreateSession(context.Background(), &user.ID, createSessionIn(burger.ID, 20))
	require.NoError(t, err)

	require.NoError(t, svc.HandleEvent(webhookEvent(payment.EventSessionExpired, out.OrderID)))

	var order entity.Order
	require.NoError(t, db.First(&order, out.OrderID).Error)
	assert.Equal(t, entity.StatusCancelled, order.Status)
	assert.Equal(t, "expired", order.PaymentStatus)

	// no funds moved, so nothing to reverse
	after := reloadUser(t, db, user.ID)
	assert.Equal(t, 25, after.LoyaltyPoints)
	assert.InDelta(t, 0.0, after.TotalSpent, 1e-9)
}

func TestCheckoutWebhookIgnoresOtherEvents(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckoutService(t, db, newFakePaymentClient())
	assert.NoError(t, svc.HandleEvent(payment.Event{ID: "evt_x", Type: "charge.refunded"}))
}

package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/humamchoudhary/burgnice-backend/entity"
	"github.com/humamchoudhary/burgnice-backend/payment"
	"github.com/humamchoudhary/burgnice-backend/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// PaymentClient is the slice of the processor API the checkout flow
// needs. payment.Client implements it; tests substitute a fake.
type PaymentClient interface {
	CreateSession(ctx context.Context, params *payment.SessionParams) (*payment.Session, error)
	RetrieveSession(ctx context.Context, id string) (*payment.Session, error)
}

type CheckoutService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	UserRepo *repository.UserRepository
	MenuRepo *repository.MenuRepository
	Payments PaymentClient

	FrontendURL string
	BackendURL  string

	notifier StatusNotifier
	logger   zerolog.Logger
}

func NewCheckoutService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	userRepo *repository.UserRepository,
	menuRepo *repository.MenuRepository,
	payments PaymentClient,
	frontendURL, backendURL string,
	logger zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		DB:          db,
		Repo:        repo,
		UserRepo:    userRepo,
		MenuRepo:    menuRepo,
		Payments:    payments,
		FrontendURL: frontendURL,
		BackendURL:  backendURL,
		logger:      logger.With().Str("service", "checkout").Logger(),
	}
}

func (s *CheckoutService) SetNotifier(n StatusNotifier) { s.notifier = n }

func (s *CheckoutService) notify(orderID uint, status string) {
	if s.notifier != nil {
		s.notifier.OrderStatusChanged(orderID, status)
	}
}

type CreateSessionIn struct {
	Items             []OrderItemIn `json:"items" binding:"required,min=1,dive"`
	LoyaltyPointsUsed int           `json:"loyaltyPointsUsed"`
	CustomerName      string        `json:"customerName" binding:"required"`
	ContactPhone      string        `json:"contactPhone" binding:"required"`
	DeliveryAddress   string        `json:"deliveryAddress" binding:"required"`
	Notes             string        `json:"notes"`
}

type CreateSessionOut struct {
	URL     string `json:"url"`
	OrderID uint   `json:"orderId"`
}

// CreateSession places a card order in payment_pending and opens the
// processor session. Loyalty redemption is only pre-validated here;
// the ledger is untouched until the paid transition lands.
func (s *CheckoutService) CreateSession(ctx context.Context, userID *uint, in *CreateSessionIn) (*CreateSessionOut, error) {
	rows, subtotal, err := resolveOrderItems(s.MenuRepo, in.Items)
	if err != nil {
		return nil, err
	}
	if err := validateRedemption(userID, in.LoyaltyPointsUsed); err != nil {
		return nil, err
	}
	if userID != nil && in.LoyaltyPointsUsed > 0 {
		user, err := s.UserRepo.FindByID(*userID)
		if err != nil {
			return nil, err
		}
		if user.LoyaltyPoints < in.LoyaltyPointsUsed {
			return nil, ErrInsufficientPoints
		}
	}

	discount := DiscountForPoints(in.LoyaltyPointsUsed, subtotal)
	total := subtotal - discount
	earned := 0
	if userID != nil {
		earned = PointsEarned(subtotal)
	}

	order := &entity.Order{
		UserID:              userID,
		CustomerName:        in.CustomerName,
		ContactPhone:        in.ContactPhone,
		DeliveryAddress:     in.DeliveryAddress,
		Items:               rows,
		Subtotal:            subtotal,
		DiscountAmount:      discount,
		LoyaltyPointsUsed:   in.LoyaltyPointsUsed,
		LoyaltyPointsEarned: earned,
		Total:               total,
		Status:              entity.StatusPaymentPending,
		PaymentMethod:       entity.PaymentMethodCard,
		Notes:               in.Notes,
	}
	if err := s.Repo.Create(s.DB, order); err != nil {
		return nil, err
	}

	lineItems := make([]payment.LineItem, 0, len(rows))
	for _, r := range rows {
		images := []string{}
		if m, err := s.MenuRepo.FindByID(r.MenuItemID); err == nil && m.Image != "" {
			images = append(images, s.BackendURL+m.Image)
		}
		lineItems = append(lineItems, payment.LineItem{
			Name:       r.Name,
			Images:     images,
			UnitAmount: int64(math.Round(r.Price * 100)),
			Quantity:   r.Quantity,
		})
	}

	metaUser := "guest"
	if userID != nil {
		metaUser = strconv.FormatUint(uint64(*userID), 10)
	}
	sess, err := s.Payments.CreateSession(ctx, &payment.SessionParams{
		LineItems:  lineItems,
		SuccessURL: fmt.Sprintf("%s/success?orderId=%d", s.FrontendURL, order.ID),
		CancelURL:  fmt.Sprintf("%s/cancel?orderId=%d", s.FrontendURL, order.ID),
		Metadata: map[string]string{
			"orderId": strconv.FormatUint(uint64(order.ID), 10),
			"userId":  metaUser,
		},
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("order_id", order.ID).Msg("create payment session failed")
		return nil, err
	}

	if err := s.Repo.SetPaymentSession(s.DB, order.ID, sess.ID); err != nil {
		return nil, err
	}

	s.logger.Info().
		Uint("order_id", order.ID).
		Str("session_id", sess.ID).
		Float64("total", total).
		Msg("checkout session created")

	return &CreateSessionOut{URL: sess.URL, OrderID: order.ID}, nil
}

// Status is the client-initiated poll: it asks the processor directly
// and applies the paid transition when settled.
func (s *CheckoutService) Status(ctx context.Context, orderID uint) (bool, error) {
	order, err := s.Repo.Get(orderID)
	if err != nil {
		return false, err
	}
	if order.PaymentSessionID == "" {
		return false, ErrNoPaymentSession
	}

	sess, err := s.Payments.RetrieveSession(ctx, order.PaymentSessionID)
	if err != nil {
		return false, err
	}
	if !sess.Paid() {
		return false, nil
	}
	return true, s.markPaid(order.ID)
}

// markPaid moves an order from payment_pending to pending and applies
// the loyalty side effects, exactly once. The status flip is a
// conditional update, so whichever of webhook and poll loses the race
// sees zero rows and does nothing.
func (s *CheckoutService) markPaid(orderID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.Repo.Get(orderID)
		if err != nil {
			return err
		}

		affected, err := s.Repo.UpdateStatusGuard(tx, order.ID,
			[]string{entity.StatusPaymentPending}, entity.StatusPending,
			map[string]any{"payment_status": "paid"})
		if err != nil {
			return err
		}
		if affected == 0 {
			// someone else already applied the transition
			return nil
		}

		if order.UserID != nil {
			delta := order.LoyaltyPointsEarned - order.LoyaltyPointsUsed
			if err := s.UserRepo.ApplyLoyaltyDelta(tx, *order.UserID, delta, order.LoyaltyPointsUsed, order.Total); err != nil {
				return err
			}
		}

		s.logger.Info().Uint("order_id", order.ID).Msg("payment confirmed")
		s.notify(order.ID, entity.StatusPending)
		return nil
	})
}

// HandleEvent processes a verified webhook event. An unknown order is
// a log-only no-op: the processor retries deliveries and may outlive
// deleted orders.
func (s *CheckoutService) HandleEvent(event payment.Event) error {
	switch event.Type {
	case payment.EventSessionCompleted:
		orderID, ok := s.resolveOrder(event)
		if !ok {
			s.logger.Warn().Str("event_id", event.ID).Msg("completed event matches no order")
			return nil
		}
		if err := s.markPaid(orderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Info().Uint("order_id", orderID).Msg("completed event for unknown order")
				return nil
			}
			return err
		}
		return nil

	case payment.EventSessionExpired:
		orderID, ok := s.resolveOrder(event)
		if !ok {
			return nil
		}
		affected, err := s.Repo.UpdateStatusGuard(s.DB, orderID,
			[]string{entity.StatusPaymentPending}, entity.StatusCancelled,
			map[string]any{"payment_status": "expired"})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if affected > 0 {
			s.logger.Info().Uint("order_id", orderID).Msg("payment session expired, order cancelled")
			s.notify(orderID, entity.StatusCancelled)
		}
		return nil
	}

	s.logger.Debug().Str("type", event.Type).Msg("unhandled webhook event type")
	return nil
}

// resolveOrder maps a webhook event to an order, preferring the id we
// stamped into the session metadata and falling back to a session-id
// lookup for events that arrive without it.
func (s *CheckoutService) resolveOrder(event payment.Event) (uint, bool) {
	if raw, ok := event.Data.Object.Metadata["orderId"]; ok && raw != "" {
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return uint(n), true
		}
	}
	if event.Data.Object.ID != "" {
		if order, err := s.Repo.GetBySessionID(event.Data.Object.ID); err == nil {
			return order.ID, true
		}
	}
	return 0, false
}

package services

import (
	"fmt"
	"time"

	"github.com/humamchoudhary/burgnice-backend/entity"
	"github.com/humamchoudhary/burgnice-backend/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// StatusNotifier receives order status changes. The websocket tracking
// hub implements it; a nil notifier is a no-op.
type StatusNotifier interface {
	OrderStatusChanged(orderID uint, status string)
}

type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	UserRepo *repository.UserRepository
	CartRepo *repository.CartRepository
	MenuRepo *repository.MenuRepository
	notifier StatusNotifier
	logger   zerolog.Logger
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	userRepo *repository.UserRepository,
	cartRepo *repository.CartRepository,
	menuRepo *repository.MenuRepository,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		DB:       db,
		Repo:     repo,
		UserRepo: userRepo,
		CartRepo: cartRepo,
		MenuRepo: menuRepo,
		logger:   logger.With().Str("service", "order").Logger(),
	}
}

func (s *OrderService) SetNotifier(n StatusNotifier) { s.notifier = n }

func (s *OrderService) notify(orderID uint, status string) {
	if s.notifier != nil {
		s.notifier.OrderStatusChanged(orderID, status)
	}
}

// ----- DTOs from controllers -----

type OrderItemIn struct {
	MenuItemID uint   `json:"menuItemId" binding:"required"`
	Quantity   int    `json:"quantity" binding:"min=1"`
	Notes      string `json:"notes"`
}

type CreateOrderIn struct {
	Items             []OrderItemIn `json:"items" binding:"required,min=1,dive"`
	LoyaltyPointsUsed int           `json:"loyaltyPointsUsed"`
	CustomerName      string        `json:"customerName" binding:"required"`
	ContactPhone      string        `json:"contactPhone" binding:"required"`
	DeliveryAddress   string        `json:"deliveryAddress" binding:"required"`
	PaymentMethod     string        `json:"paymentMethod"`
	Notes             string        `json:"notes"`
}

type CreateOrderOut struct {
	Order               *entity.Order `json:"order"`
	LoyaltyPointsEarned int           `json:"loyaltyPointsEarned"`
	LoyaltyPointsUsed   int           `json:"loyaltyPointsUsed"`
	DiscountAmount      float64       `json:"discountAmount"`
	TotalLoyaltyPoints  int           `json:"totalLoyaltyPoints"`
	CartCleared         bool          `json:"cartCleared"`
}

// resolveOrderItems snapshots live menu prices into order items. A
// missing or unavailable menu item fails the whole order.
func resolveOrderItems(menuRepo *repository.MenuRepository, items []OrderItemIn) ([]entity.OrderItem, float64, error) {
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.MenuItemID)
	}
	menuItems, err := menuRepo.FindByIDs(ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[uint]entity.MenuItem, len(menuItems))
	for _, m := range menuItems {
		byID[m.ID] = m
	}

	var subtotal float64
	rows := make([]entity.OrderItem, 0, len(items))
	for _, it := range items {
		m, ok := byID[it.MenuItemID]
		if !ok {
			return nil, 0, ErrMenuItemNotFound
		}
		if !m.IsAvailable {
			return nil, 0, ErrMenuItemUnavailable
		}
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		rows = append(rows, entity.OrderItem{
			MenuItemID: m.ID,
			Name:       m.Name,
			Price:      m.Price,
			Quantity:   qty,
			Notes:      it.Notes,
		})
		subtotal += m.Price * float64(qty)
	}
	return rows, subtotal, nil
}

// validateRedemption rejects redemptions a guest cannot make and
// amounts that are not whole stacks.
func validateRedemption(userID *uint, pointsUsed int) error {
	if pointsUsed == 0 {
		return nil
	}
	if pointsUsed < 0 || pointsUsed%StackSize != 0 {
		return ErrInvalidRedemption
	}
	if userID == nil {
		return ErrGuestRedemption
	}
	return nil
}

// Create places a direct-payment order. The order starts at pending;
// for a logged-in user the four loyalty/cart mutations are applied in
// the same transaction; when any validation fails none of them stick.
func (s *OrderService) Create(userID *uint, in *CreateOrderIn) (*CreateOrderOut, error) {
	rows, subtotal, err := resolveOrderItems(s.MenuRepo, in.Items)
	if err != nil {
		return nil, err
	}
	if err := validateRedemption(userID, in.LoyaltyPointsUsed); err != nil {
		return nil, err
	}

	discount := DiscountForPoints(in.LoyaltyPointsUsed, subtotal)
	total := subtotal - discount
	earned := 0
	if userID != nil {
		earned = PointsEarned(subtotal)
	}

	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = entity.PaymentMethodCOD
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
		Status:              entity.StatusPending,
		PaymentMethod:       paymentMethod,
		Notes:               in.Notes,
	}

	out := &CreateOrderOut{
		LoyaltyPointsEarned: earned,
		LoyaltyPointsUsed:   in.LoyaltyPointsUsed,
		DiscountAmount:      discount,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if userID != nil {
			if in.LoyaltyPointsUsed > 0 {
				affected, err := s.UserRepo.DeductPointsGuard(tx, *userID, in.LoyaltyPointsUsed)
				if err != nil {
					return err
				}
				if affected == 0 {
					return ErrInsufficientPoints
				}
			}
			if err := s.UserRepo.ApplyLoyaltyDelta(tx, *userID, earned, 0, total); err != nil {
				return err
			}
			if err := s.CartRepo.Clear(tx, *userID); err != nil {
				return err
			}
			if err := s.CartRepo.StampCartUpdate(tx, *userID, time.Now()); err != nil {
				return err
			}
			out.CartCleared = true
		}
		return s.Repo.Create(tx, order)
	})
	if err != nil {
		return nil, err
	}

	if userID != nil {
		if user, err := s.UserRepo.FindByID(*userID); err == nil {
			out.TotalLoyaltyPoints = user.LoyaltyPoints
		}
	}
	out.Order = order

	s.logger.Info().
		Uint("order_id", order.ID).
		Float64("total", order.Total).
		Int("points_used", in.LoyaltyPointsUsed).
		Int("points_earned", earned).
		Msg("order created")
	s.notify(order.ID, order.Status)

	return out, nil
}

// ----- reads -----

func (s *OrderService) GetForActor(orderID, actorID uint, admin bool) (*entity.Order, error) {
	order, err := s.Repo.GetWithItems(orderID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOrderAccess(order, actorID, admin); err != nil {
		return nil, err
	}
	return order, nil
}

// authorizeOrderAccess allows the owning user and admins. Guest orders
// have no owner to check against.
func authorizeOrderAccess(order *entity.Order, actorID uint, admin bool) error {
	if admin || order.UserID == nil {
		return nil
	}
	if actorID == 0 || *order.UserID != actorID {
		return ErrForbidden
	}
	return nil
}

type OrderHistoryEntry struct {
	ID                  uint               `json:"id"`
	OrderNumber         string             `json:"orderNumber"`
	Total               float64            `json:"total"`
	Status              string             `json:"status"`
	StatusText          string             `json:"statusText"`
	Items               []entity.OrderItem `json:"items"`
	ItemCount           int                `json:"itemCount"`
	DeliveryAddress     string             `json:"deliveryAddress"`
	ContactPhone        string             `json:"contactPhone"`
	CustomerName        string             `json:"customerName"`
	CreatedAt           time.Time          `json:"createdAt"`
	EstimatedDelivery   *EstimatedDelivery `json:"estimatedDelivery"`
	DiscountApplied     float64            `json:"discountApplied"`
	LoyaltyPointsEarned int                `json:"loyaltyPointsEarned"`
	LoyaltyPointsUsed   int                `json:"loyaltyPointsUsed"`
	PaymentMethod       string             `json:"paymentMethod"`
	Notes               string             `json:"notes"`
}

type OrderHistoryOut struct {
	Orders        []OrderHistoryEntry `json:"orders"`
	TotalOrders   int                 `json:"totalOrders"`
	TotalSpent    float64             `json:"totalSpent"`
	LoyaltyPoints int                 `json:"loyaltyPoints"`
	RecentOrder   *OrderHistoryEntry  `json:"recentOrder"`
}

// History returns the user's orders newest first with tracking data,
// plus the loyalty headline numbers.
func (s *OrderService) History(userID uint) (*OrderHistoryOut, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	orders, err := s.Repo.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	entries := make([]OrderHistoryEntry, 0, len(orders))
	for _, o := range orders {
		itemCount := 0
		for _, it := range o.Items {
			itemCount += it.Quantity
		}
		entries = append(entries, OrderHistoryEntry{
			ID:                  o.ID,
			OrderNumber:         OrderNumber(o.ID),
			Total:               o.Total,
			Status:              o.Status,
			StatusText:          StatusText(o.Status),
			Items:               o.Items,
			ItemCount:           itemCount,
			DeliveryAddress:     o.DeliveryAddress,
			ContactPhone:        o.ContactPhone,
			CustomerName:        o.CustomerName,
			CreatedAt:           o.CreatedAt,
			EstimatedDelivery:   EstimateDelivery(o.CreatedAt, o.Status),
			DiscountApplied:     o.DiscountAmount,
			LoyaltyPointsEarned: o.LoyaltyPointsEarned,
			LoyaltyPointsUsed:   o.LoyaltyPointsUsed,
			PaymentMethod:       o.PaymentMethod,
			Notes:               o.Notes,
		})
	}

	out := &OrderHistoryOut{
		Orders:        entries,
		TotalOrders:   len(entries),
		TotalSpent:    user.TotalSpent,
		LoyaltyPoints: user.LoyaltyPoints,
	}
	if len(entries) > 0 {
		out.RecentOrder = &entries[0]
	}
	return out, nil
}

func (s *OrderService) ListAll() ([]entity.Order, error) {
	return s.Repo.ListAll()
}

type PaginatedOrdersOut struct {
	Data       []entity.Order `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
	HasNext    bool           `json:"hasNext"`
	HasPrev    bool           `json:"hasPrev"`
}

func (s *OrderService) ListPaginated(page, limit int) (*PaginatedOrdersOut, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	orders, total, err := s.Repo.ListPaginated(page, limit)
	if err != nil {
		return nil, err
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &PaginatedOrdersOut{
		Data:       orders,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}

// OrderNumber is the customer-facing reference for an order id.
func OrderNumber(id uint) string {
	return fmt.Sprintf("BN-%06d", id)
}

// ----- loyalty reads -----

type LoyaltyHistoryEntry struct {
	OrderID         uint      `json:"orderId"`
	Date            time.Time `json:"date"`
	Amount          float64   `json:"amount"`
	PointsEarned    int       `json:"pointsEarned"`
	PointsUsed      int       `json:"pointsUsed"`
	DiscountApplied float64   `json:"discountApplied"`
	Status          string    `json:"status"`
}

type LoyaltySummaryOut struct {
	LoyaltyPoints     int                   `json:"loyaltyPoints"`
	LoyaltyPointsUsed int                   `json:"loyaltyPointsUsed"`
	TotalSpent        float64               `json:"totalSpent"`
	PointsHistory     []LoyaltyHistoryEntry `json:"pointsHistory"`
}

func (s *OrderService) LoyaltySummary(userID uint) (*LoyaltySummaryOut, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	orders, err := s.Repo.ListWithLoyalty(userID)
	if err != nil {
		return nil, err
	}

	history := make([]LoyaltyHistoryEntry, 0, len(orders))
	for _, o := range orders {
		history = append(history, LoyaltyHistoryEntry{
			OrderID:         o.ID,
			Date:            o.CreatedAt,
			Amount:          o.Total,
			PointsEarned:    o.LoyaltyPointsEarned,
			PointsUsed:      o.LoyaltyPointsUsed,
			DiscountApplied: o.DiscountAmount,
			Status:          o.Status,
		})
	}
	return &LoyaltySummaryOut{
		LoyaltyPoints:     user.LoyaltyPoints,
		LoyaltyPointsUsed: user.LoyaltyPointsUsed,
		TotalSpent:        user.TotalSpent,
		PointsHistory:     history,
	}, nil
}

// Quote prices a redemption of the user's current balance against an
// order total.
func (s *OrderService) Quote(userID uint, orderTotal float64) (*LoyaltyQuote, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	q := QuoteLoyaltyDiscount(user.LoyaltyPoints, orderTotal)
	return &q, nil
}

// ----- admin stats -----

type OrderStats struct {
	TotalOrders            int64   `json:"totalOrders"`
	PendingOrders          int64   `json:"pendingOrders"`
	PreparingOrders        int64   `json:"preparingOrders"`
	CompletedOrders        int64   `json:"completedOrders"`
	CancelledOrders        int64   `json:"cancelledOrders"`
	TodayOrders            int64   `json:"todayOrders"`
	WeekOrders             int64   `json:"weekOrders"`
	MonthOrders            int64   `json:"monthOrders"`
	TotalRevenue           float64 `json:"totalRevenue"`
	TotalDiscounts         float64 `json:"totalDiscounts"`
	TotalLoyaltyPointsUsed int64   `json:"totalLoyaltyPointsUsed"`
}

func (s *OrderService) Stats() (*OrderStats, error) {
	counts, err := s.Repo.CountByStatus()
	if err != nil {
		return nil, err
	}

	stats := &OrderStats{}
	for _, c := range counts {
		stats.TotalOrders += c.Count
		switch c.Status {
		case entity.StatusPending:
			stats.PendingOrders = c.Count
		case entity.StatusPreparing:
			stats.PreparingOrders = c.Count
		case entity.StatusCompleted:
			stats.CompletedOrders = c.Count
		case entity.StatusCancelled:
			stats.CancelledOrders = c.Count
		}
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if stats.TodayOrders, err = s.Repo.CountSince(today); err != nil {
		return nil, err
	}
	if stats.WeekOrders, err = s.Repo.CountSince(now.AddDate(0, 0, -7)); err != nil {
		return nil, err
	}
	if stats.MonthOrders, err = s.Repo.CountSince(now.AddDate(0, 0, -30)); err != nil {
		return nil, err
	}

	rev, err := s.Repo.RevenueForCompleted()
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = rev.TotalRevenue
	stats.TotalDiscounts = rev.TotalDiscounts
	stats.TotalLoyaltyPointsUsed = rev.TotalLoyaltyPointsUsed
	return stats, nil
}

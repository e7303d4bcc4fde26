package services

import (
	"time"

	"github.com/humamchoudhary/burgnice-backend/entity"
)

const (
	preparationMinutes = 25
	deliveryMinutes    = 45
)

// StatusText maps a status to its customer-facing label.
func StatusText(status string) string {
	switch status {
	case entity.StatusPaymentPending:
		return "Awaiting Payment"
	case entity.StatusPending:
		return "Order Placed"
	case entity.StatusPreparing:
		return "Preparing Your Order"
	case entity.StatusCompleted:
		return "Delivered"
	case entity.StatusCancelled:
		return "Cancelled"
	}
	return "Processing"
}

type TrackingStep struct {
	Status      string     `json:"status"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Time        *time.Time `json:"time"`
	Completed   bool       `json:"completed"`
}

type TrackingInfo struct {
	Timeline      []TrackingStep `json:"timeline"`
	CurrentStatus string         `json:"currentStatus"`
	// Minutes; rough kitchen estimates, not promises.
	EstimatedPreparationTime int `json:"estimatedPreparationTime"`
	DeliveryTime             int `json:"deliveryTime"`
}

type EstimatedDelivery struct {
	Estimated     time.Time  `json:"estimated"`
	IsDelivered   bool       `json:"isDelivered"`
	DeliveredAt   *time.Time `json:"deliveredAt,omitempty"`
	TimeRemaining int        `json:"timeRemaining,omitempty"`
}

type TrackingOut struct {
	OrderID           uint               `json:"orderId"`
	OrderNumber       string             `json:"orderNumber"`
	Status            string             `json:"status"`
	StatusText        string             `json:"statusText"`
	TrackingInfo      *TrackingInfo      `json:"trackingInfo"`
	EstimatedDelivery *EstimatedDelivery `json:"estimatedDelivery"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

func step(status, title, desc string, at *time.Time, done bool) TrackingStep {
	return TrackingStep{Status: status, Title: title, Description: desc, Time: at, Completed: done}
}

// BuildTrackingInfo derives the timeline shown on the tracking screen
// from the order's current status and timestamps.
func BuildTrackingInfo(order *entity.Order) *TrackingInfo {
	created := order.CreatedAt
	updated := order.UpdatedAt
	confirmedAt := created.Add(5 * time.Minute)

	timeline := []TrackingStep{
		step("ordered", "Order Placed", "Your order has been received", &created, true),
	}

	switch order.Status {
	case entity.StatusPreparing:
		timeline = append(timeline,
			step("confirmed", "Order Confirmed", "We are preparing your order", &confirmedAt, true),
			step("preparing", "In Preparation", "Your food is being prepared", &updated, true),
			step("delivering", "Out for Delivery", "Your order is on the way", nil, false),
		)
	case entity.StatusCompleted:
		preparingAt := created.Add(15 * time.Minute)
		deliveringAt := created.Add(25 * time.Minute)
		timeline = append(timeline,
			step("confirmed", "Order Confirmed", "We are preparing your order", &confirmedAt, true),
			step("preparing", "In Preparation", "Your food is being prepared", &preparingAt, true),
			step("delivering", "Out for Delivery", "Your order is on the way", &deliveringAt, true),
			step("completed", "Delivered", "Your order has been delivered", &updated, true),
		)
	case entity.StatusCancelled:
		timeline = append(timeline,
			step("cancelled", "Order Cancelled", "Your order has been cancelled", &updated, true),
		)
	default:
		// payment_pending and pending share the forward-looking view
		timeline = append(timeline,
			step("confirmed", "Order Confirmed", "We are preparing your order", &confirmedAt, false),
			step("preparing", "In Preparation", "Your food is being prepared", nil, false),
			step("delivering", "Out for Delivery", "Your order is on the way", nil, false),
		)
	}

	return &TrackingInfo{
		Timeline:                 timeline,
		CurrentStatus:            order.Status,
		EstimatedPreparationTime: preparationMinutes,
		DeliveryTime:             deliveryMinutes,
	}
}

// EstimateDelivery projects the delivery window from the order time.
func EstimateDelivery(createdAt time.Time, status string) *EstimatedDelivery {
	estimated := createdAt.Add(deliveryMinutes * time.Minute)
	if status == entity.StatusCompleted {
		deliveredAt := createdAt.Add(40 * time.Minute)
		return &EstimatedDelivery{Estimated: estimated, IsDelivered: true, DeliveredAt: &deliveredAt}
	}
	remaining := int(time.Until(estimated).Minutes())
	if remaining < 0 {
		remaining = 0
	}
	return &EstimatedDelivery{Estimated: estimated, TimeRemaining: remaining}
}

// Tracking returns the tracking view for an order, enforcing the same
// owner-or-admin access rule as order detail.
func (s *OrderService) Tracking(orderID, actorID uint, admin bool) (*TrackingOut, error) {
	order, err := s.Repo.Get(orderID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOrderAccess(order, actorID, admin); err != nil {
		return nil, err
	}

	return &TrackingOut{
		OrderID:           order.ID,
		OrderNumber:       OrderNumber(order.ID),
		Status:            order.Status,
		StatusText:        StatusText(order.Status),
		TrackingInfo:      BuildTrackingInfo(order),
		EstimatedDelivery: EstimateDelivery(order.CreatedAt, order.Status),
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}, nil
}

package services

import (
	"github.com/humamchoudhary/burgnice-backend/entity"

	"gorm.io/gorm"
)

// reverseLoyalty credits back the points an order consumed and, when
// debitSpent is set (deletion), subtracts the order total from the
// user's cumulative spend. Earned points are deliberately left alone.
// Callers must ensure it runs at most once per order.
func (s *OrderService) reverseLoyalty(tx *gorm.DB, order *entity.Order, debitSpent bool) error {
	if order.UserID == nil {
		return nil
	}
	if order.LoyaltyPointsUsed == 0 && !debitSpent {
		return nil
	}
	spent := 0.0
	if debitSpent {
		spent = -order.Total
	}
	return s.UserRepo.ApplyLoyaltyDelta(tx, *order.UserID, order.LoyaltyPointsUsed, 0, spent)
}

// Cancel is the customer-facing cancellation: only the owning user or
// an admin, and only while the order is still pending or waiting for
// payment. Points are restored only when they were actually applied,
// i.e. when the order had left payment_pending.
func (s *OrderService) Cancel(orderID, actorID uint, admin bool) (*entity.Order, error) {
	var out *entity.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.Repo.Get(orderID)
		if err != nil {
			return err
		}
		if err := authorizeOrderAccess(order, actorID, admin); err != nil {
			return err
		}

		from := []string{entity.StatusPending, entity.StatusPaymentPending}
		affected, err := s.Repo.UpdateStatusGuard(tx, order.ID, from, entity.StatusCancelled, nil)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInvalidState
		}

		if order.Status == entity.StatusPending {
			if err := s.reverseLoyalty(tx, order, false); err != nil {
				return err
			}
		}

		order.Status = entity.StatusCancelled
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("order_id", orderID).Msg("order cancelled")
	s.notify(orderID, entity.StatusCancelled)
	return out, nil
}

// SetStatus is the admin transition. Any valid status is accepted;
// moving to cancelled runs the same reversal as a user cancellation,
// once at most (orders still in payment_pending never touched the
// ledger, already-cancelled orders were reversed on the way in).
func (s *OrderService) SetStatus(orderID uint, status string) (*entity.Order, error) {
	if !entity.ValidStatus(status) {
		return nil, ErrInvalidState
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.Repo.Get(orderID)
		if err != nil {
			return err
		}

		if status == entity.StatusCancelled && order.LoyaltyApplied() {
			if err := s.reverseLoyalty(tx, order, false); err != nil {
				return err
			}
		}
		return s.Repo.SetStatus(tx, order.ID, status)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("order_id", orderID).Str("status", status).Msg("order status updated")
	s.notify(orderID, status)
	return s.Repo.GetWithItems(orderID)
}

// Delete hard-removes an order. For owned orders that hit the ledger,
// the used points come back and the order total leaves totalSpent.
func (s *OrderService) Delete(orderID uint) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.Repo.Get(orderID)
		if err != nil {
			return err
		}
		if order.LoyaltyApplied() {
			if err := s.reverseLoyalty(tx, order, true); err != nil {
				return err
			}
		}
		return s.Repo.Delete(tx, order.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Uint("order_id", orderID).Msg("order deleted")
	return nil
}

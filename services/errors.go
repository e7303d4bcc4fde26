package services

import "errors"

var (
	ErrInsufficientPoints = errors.New("insufficient loyalty points")
	ErrInvalidRedemption  = errors.New("loyalty points must be redeemed in stacks of 10")
	ErrGuestRedemption    = errors.New("login required to redeem loyalty points")

	ErrForbidden    = errors.New("not authorized")
	ErrInvalidState = errors.New("operation not allowed for current order status")

	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrMenuItemUnavailable = errors.New("menu item is not available")

	ErrNoPaymentSession = errors.New("no payment session found for this order")
)

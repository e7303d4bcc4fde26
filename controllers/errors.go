package controllers

import (
	"errors"

	"github.com/humamchoudhary/burgnice-backend/pkg/resp"
	"github.com/humamchoudhary/burgnice-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// serviceError maps the services package sentinels onto HTTP responses
// so every controller reports identical bodies for identical failures.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		resp.NotFound(c, "Order not found")
	case errors.Is(err, services.ErrMenuItemNotFound):
		resp.NotFound(c, "Menu item not found")
	case errors.Is(err, services.ErrForbidden):
		resp.Forbidden(c, "Not authorized to access this order")
	case errors.Is(err, services.ErrInsufficientPoints):
		resp.BadRequest(c, "Insufficient loyalty points")
	case errors.Is(err, services.ErrInvalidRedemption):
		resp.BadRequest(c, "Loyalty points must be redeemed in multiples of 10")
	case errors.Is(err, services.ErrGuestRedemption):
		resp.BadRequest(c, "Login required to redeem loyalty points")
	case errors.Is(err, services.ErrMenuItemUnavailable):
		resp.BadRequest(c, "Menu item is not available")
	case errors.Is(err, services.ErrInvalidState):
		resp.BadRequest(c, "Order cannot be changed in its current status")
	case errors.Is(err, services.ErrNoPaymentSession):
		resp.BadRequest(c, "Order has no payment session")
	case errors.Is(err, services.ErrEmailTaken):
		resp.BadRequest(c, "Email is already registered")
	case errors.Is(err, services.ErrUsernameTaken):
		resp.BadRequest(c, "Username is already taken")
	case errors.Is(err, services.ErrInvalidCredentials):
		resp.Unauthorized(c, "Invalid email or password")
	default:
		resp.ServerError(c, err)
	}
}

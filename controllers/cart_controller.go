package controllers

import (
	"strconv"

	"github.com/humamchoudhary/burgnice-backend/entity"
	"github.com/humamchoudhary/burgnice-backend/middlewares"
	"github.com/humamchoudhary/burgnice-backend/pkg/resp"
	"github.com/humamchoudhary/burgnice-backend/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	Carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{Carts: carts}
}

// GET /api/cart (logged-in users)
func (ct *CartController) Get(c *gin.Context) {
	view, err := ct.Carts.View(services.UserOwner(middlewares.CurrentUserID(c)))
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, view)
}

type guestCartRequest struct {
	Cart []services.GuestCartLine `json:"cart"`
}

// POST /api/cart/view (guests: cart travels in the body)
func (ct *CartController) GuestView(c *gin.Context) {
	var req guestCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	view, err := ct.Carts.View(services.GuestOwner(req.Cart))
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, view)
}

type guestAddRequest struct {
	services.AddToCartIn
	Cart []services.GuestCartLine `json:"cart"`
}

// POST /api/cart/add
// Logged-in users mutate the server cart; guests get their updated
// lines back and keep them client side.
func (ct *CartController) Add(c *gin.Context) {
	userID := middlewares.CurrentUserID(c)

	var req guestAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	if userID == 0 {
		lines := services.AddGuestLine(req.Cart, &req.AddToCartIn)
		view, err := ct.Carts.View(services.GuestOwner(lines))
		if err != nil {
			serviceError(c, err)
			return
		}
		resp.OK(c, gin.H{"cart": lines, "view": view})
		return
	}

	if err := ct.Carts.Add(userID, &req.AddToCartIn); err != nil {
		serviceError(c, err)
		return
	}
	view, err := ct.Carts.View(services.UserOwner(userID))
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, view)
}

type updateQuantityRequest struct {
	ItemID         uint                     `json:"itemId"`
	MenuItemID     uint                     `json:"menuItemId"`
	Customizations entity.CustomMap         `json:"customizations"`
	Quantity       int                      `json:"quantity"`
	Cart           []services.GuestCartLine `json:"cart"`
}

// PUT /api/cart/update
func (ct *CartController) UpdateQuantity(c *gin.Context) {
	userID := middlewares.CurrentUserID(c)

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	if userID == 0 {
		lines := services.UpdateGuestLine(req.Cart, req.MenuItemID, req.Customizations, req.Quantity)
		view, err := ct.Carts.View(services.GuestOwner(lines))
		if err != nil {
			serviceError(c, err)
			return
		}
		resp.OK(c, gin.H{"cart": lines, "view": view})
		return
	}

	if err := ct.Carts.UpdateQuantity(userID, req.ItemID, req.Quantity); err != nil {
		serviceError(c, err)
		return
	}
	view, err := ct.Carts.View(services.UserOwner(userID))
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, view)
}

// DELETE /api/cart/remove/:id
func (ct *CartController) Remove(c *gin.Context) {
	userID := middlewares.CurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "Invalid cart item ID")
		return
	}

	if err := ct.Carts.Remove(userID, uint(id)); err != nil {
		serviceError(c, err)
		return
	}
	view, err := ct.Carts.View(services.UserOwner(userID))
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, view)
}

// DELETE /api/cart/clear
func (ct *CartController) Clear(c *gin.Context) {
	if err := ct.Carts.Clear(middlewares.CurrentUserID(c)); err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "Cart cleared"})
}

// GET /api/cart/count
func (ct *CartController) Count(c *gin.Context) {
	count, err := ct.Carts.Count(services.UserOwner(middlewares.CurrentUserID(c)))
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, gin.H{"count": count})
}

type syncCartRequest struct {
	Cart []services.GuestCartLine `json:"cart" binding:"required"`
}

// POST /api/cart/sync
// Merges the guest cart accumulated before login into the server cart.
func (ct *CartController) Sync(c *gin.Context) {
	var req syncCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	view, err := ct.Carts.Merge(middlewares.CurrentUserID(c), req.Cart)
	if err != nil {
		serviceError(c, err)
		return
	}
	// empty guestCart tells the client to drop its local copy
	resp.OK(c, gin.H{"guestCart": []services.GuestCartLine{}, "view": view})
}

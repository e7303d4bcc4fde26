package controllers

import (
	"github.com/humamchoudhary/burgnice-backend/middlewares"
	"github.com/humamchoudhary/burgnice-backend/pkg/resp"
	"github.com/humamchoudhary/burgnice-backend/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth  *services.AuthService
	Carts *services.CartService
}

func NewAuthController(auth *services.AuthService, carts *services.CartService) *AuthController {
	return &AuthController{Auth: auth, Carts: carts}
}

type registerRequest struct {
	services.RegisterIn
	// Guest cart carried over so a signup does not lose the basket.
	GuestCart []services.GuestCartLine `json:"guestCart"`
}

type loginRequest struct {
	services.LoginIn
	GuestCart []services.GuestCartLine `json:"guestCart"`
}

// POST /api/auth/register
func (a *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	out, err := a.Auth.Register(&req.RegisterIn)
	if err != nil {
		serviceError(c, err)
		return
	}

	if len(req.GuestCart) > 0 {
		if _, err := a.Carts.Merge(out.User.ID, req.GuestCart); err != nil {
			serviceError(c, err)
			return
		}
	}

	resp.Created(c, out)
}

// POST /api/auth/login
func (a *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	out, err := a.Auth.Login(&req.LoginIn)
	if err != nil {
		serviceError(c, err)
		return
	}

	if len(req.GuestCart) > 0 {
		if _, err := a.Carts.Merge(out.User.ID, req.GuestCart); err != nil {
			serviceError(c, err)
			return
		}
	}

	resp.OK(c, out)
}

// GET /api/auth/me
func (a *AuthController) Me(c *gin.Context) {
	user, err := a.Auth.Profile(middlewares.CurrentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, user)
}

// PUT /api/auth/me
func (a *AuthController) UpdateMe(c *gin.Context) {
	var req services.UpdateProfileIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	user, err := a.Auth.UpdateProfile(middlewares.CurrentUserID(c), &req)
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, user)
}

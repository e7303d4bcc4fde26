package routes

import (
	"github.com/humamchoudhary/burgnice-backend/controllers"
	"github.com/humamchoudhary/burgnice-backend/entity"
	"github.com/humamchoudhary/burgnice-backend/middlewares"
	"github.com/humamchoudhary/burgnice-backend/ws"

	"github.com/gin-gonic/gin"
)

// Controllers bundles everything RegisterRoutes wires up.
type Controllers struct {
	Auth     *controllers.AuthController
	Cart     *controllers.CartController
	Menu     *controllers.MenuController
	Order    *controllers.OrderController
	Checkout *controllers.CheckoutController
	Tracking *ws.TrackingHub
}

func RegisterRoutes(r *gin.Engine, ctrls Controllers) {
	r.Use(middlewares.CORSMiddleware())
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	api := r.Group("/api")

	// Auth (public, rate limited against credential stuffing)
	a := api.Group("/auth", middlewares.RateLimit(5, 10))
	{
		a.POST("/register", ctrls.Auth.Register)
		a.POST("/login", ctrls.Auth.Login)
	}
	aAuth := api.Group("/auth", middlewares.AuthMiddleware())
	{
		aAuth.GET("/me", ctrls.Auth.Me)
		aAuth.PUT("/me", ctrls.Auth.UpdateMe)
	}

	// Catalog (public)
	api.GET("/menu", ctrls.Menu.List)
	api.GET("/menu/category/:id", ctrls.Menu.ListByCategory)
	api.GET("/menu/:id", ctrls.Menu.GetByID)
	api.GET("/categories", ctrls.Menu.Categories)

	// Cart. Guests pass their lines in the body; users need a token.
	api.POST("/cart/view", ctrls.Cart.GuestView)
	api.POST("/cart/add", middlewares.OptionalAuth(), ctrls.Cart.Add)
	api.PUT("/cart/update", middlewares.OptionalAuth(), ctrls.Cart.UpdateQuantity)

	cart := api.Group("/cart", middlewares.AuthMiddleware())
	{
		cart.GET("", ctrls.Cart.Get)
		cart.GET("/count", ctrls.Cart.Count)
		cart.DELETE("/remove/:id", ctrls.Cart.Remove)
		cart.DELETE("/clear", ctrls.Cart.Clear)
		cart.POST("/sync", ctrls.Cart.Sync)
	}

	// Orders. Creation and lookup allow guests.
	api.POST("/orders", middlewares.OptionalAuth(), ctrls.Order.Create)
	api.GET("/orders/history", middlewares.AuthMiddleware(), ctrls.Order.History)
	api.GET("/orders/loyalty/summary", middlewares.AuthMiddleware(), ctrls.Order.LoyaltySummary)
	api.POST("/orders/loyalty/discount", middlewares.AuthMiddleware(), ctrls.Order.LoyaltyQuote)
	api.GET("/orders/:id", middlewares.OptionalAuth(), ctrls.Order.GetByID)
	api.GET("/orders/:id/tracking", middlewares.OptionalAuth(), ctrls.Order.Tracking)
	api.POST("/orders/:id/cancel", middlewares.OptionalAuth(), ctrls.Order.Cancel)

	// Checkout via the external payment processor
	api.POST("/checkout/create-session", middlewares.OptionalAuth(), ctrls.Checkout.CreateSession)
	api.GET("/checkout/status", ctrls.Checkout.Status)
	api.POST("/checkout/webhook", middlewares.RateLimit(20, 40), ctrls.Checkout.Webhook)

	// Admin
	admin := api.Group("/admin", middlewares.AuthMiddleware(entity.RoleAdmin))
	{
		admin.GET("/orders", ctrls.Order.ListAll)
		admin.GET("/orders/paginated", ctrls.Order.ListPaginated)
		admin.GET("/orders/stats", ctrls.Order.Stats)
		admin.PUT("/orders/:id/status", ctrls.Order.SetStatus)
		admin.DELETE("/orders/:id", ctrls.Order.Delete)
	}

	// Live order tracking stream
	r.GET("/ws/orders/:id/track", middlewares.OptionalAuth(), ctrls.Tracking.HandleWebSocket)
}

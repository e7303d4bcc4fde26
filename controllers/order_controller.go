package controllers

import (
	"strconv"

	"github.com/humamchoudhary/burgnice-backend/middlewares"
	"github.com/humamchoudhary/burgnice-backend/pkg/resp"
	"github.com/humamchoudhary/burgnice-backend/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

func orderIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "Invalid order ID")
		return 0, false
	}
	return uint(id), true
}

// optionalUserID returns nil for guests so the service can tell the
// two apart.
func optionalUserID(c *gin.Context) *uint {
	if id := middlewares.CurrentUserID(c); id != 0 {
		return &id
	}
	return nil
}

// POST /api/orders (optional auth: guests order too)
func (oc *OrderController) Create(c *gin.Context) {
	var req services.CreateOrderIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	out, err := oc.Orders.Create(optionalUserID(c), &req)
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.Created(c, out)
}

// GET /api/orders/:id
func (oc *OrderController) GetByID(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	order, err := oc.Orders.GetForActor(id, middlewares.CurrentUserID(c), middlewares.IsAdmin(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, order)
}

// GET /api/orders/:id/tracking
func (oc *OrderController) Tracking(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	out, err := oc.Orders.Tracking(id, middlewares.CurrentUserID(c), middlewares.IsAdmin(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, out)
}

// POST /api/orders/:id/cancel
func (oc *OrderController) Cancel(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	order, err := oc.Orders.Cancel(id, middlewares.CurrentUserID(c), middlewares.IsAdmin(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "Order cancelled", "order": order})
}

// GET /api/orders/history
func (oc *OrderController) History(c *gin.Context) {
	out, err := oc.Orders.History(middlewares.CurrentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /api/orders/loyalty/summary
func (oc *OrderController) LoyaltySummary(c *gin.Context) {
	out, err := oc.Orders.LoyaltySummary(middlewares.CurrentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, out)
}

type quoteRequest struct {
	OrderTotal float64 `json:"orderTotal" binding:"required,gt=0"`
}

// POST /api/orders/loyalty/discount
// Prices a redemption of the caller's full balance against a total.
func (oc *OrderController) LoyaltyQuote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := oc.Orders.Quote(middlewares.CurrentUserID(c), req.OrderTotal)
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, out)
}

// ----- admin -----

// GET /api/admin/orders
func (oc *OrderController) ListAll(c *gin.Context) {
	orders, err := oc.Orders.ListAll()
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, orders)
}

// GET /api/admin/orders/paginated?page=1&limit=10
func (oc *OrderController) ListPaginated(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	out, err := oc.Orders.ListPaginated(page, limit)
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /api/admin/orders/stats
func (oc *OrderController) Stats(c *gin.Context) {
	out, err := oc.Orders.Stats()
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, out)
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PUT /api/admin/orders/:id/status
func (oc *OrderController) SetStatus(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	order, err := oc.Orders.SetStatus(id, req.Status)
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, order)
}

// DELETE /api/admin/orders/:id
func (oc *OrderController) Delete(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	if err := oc.Orders.Delete(id); err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "Order deleted"})
}

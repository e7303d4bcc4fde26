package controllers

import (
	"strconv"

	"github.com/humamchoudhary/burgnice-backend/payment"
	"github.com/humamchoudhary/burgnice-backend/pkg/resp"
	"github.com/humamchoudhary/burgnice-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type CheckoutController struct {
	Checkout      *services.CheckoutService
	WebhookSecret string
	logger        zerolog.Logger
}

func NewCheckoutController(checkout *services.CheckoutService, webhookSecret string, logger zerolog.Logger) *CheckoutController {
	return &CheckoutController{
		Checkout:      checkout,
		WebhookSecret: webhookSecret,
		logger:        logger.With().Str("controller", "checkout").Logger(),
	}
}

// POST /api/checkout/create-session (optional auth)
func (cc *CheckoutController) CreateSession(c *gin.Context) {
	var req services.CreateSessionIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	out, err := cc.Checkout.CreateSession(c.Request.Context(), optionalUserID(c), &req)
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /api/checkout/status?orderid=123
// The client polls this after returning from the processor page.
func (cc *CheckoutController) Status(c *gin.Context) {
	raw := c.Query("orderid")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		resp.BadRequest(c, "Invalid order ID")
		return
	}

	paid, err := cc.Checkout.Status(c.Request.Context(), uint(id))
	if err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, gin.H{"paid": paid})
}

// POST /api/checkout/webhook
// Raw body is verified against the signature header before parsing.
func (cc *CheckoutController) Webhook(c *gin.Context) {
	if cc.WebhookSecret == "" {
		cc.logger.Error().Msg("webhook secret not configured")
		resp.ServerError(c, payment.ErrMissingSignature)
		return
	}

	payloadBytes, err := c.GetRawData()
	if err != nil {
		resp.BadRequest(c, "Unable to read webhook payload")
		return
	}

	event, err := payment.ConstructEvent(payloadBytes, c.GetHeader(payment.SignatureHeader), cc.WebhookSecret)
	if err != nil {
		cc.logger.Warn().Err(err).Msg("webhook signature rejected")
		resp.BadRequest(c, "Webhook signature verification failed")
		return
	}

	if err := cc.Checkout.HandleEvent(event); err != nil {
		serviceError(c, err)
		return
	}
	resp.OK(c, gin.H{"received": true})
}

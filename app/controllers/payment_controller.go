package controllers

import (
	"net/http"

	"github.com/hostelease/hostelease/app/services"
	"github.com/hostelease/hostelease/config"
	"github.com/hostelease/hostelease/pkg/ctx"
	"github.com/hostelease/hostelease/pkg/logger"
	"github.com/hostelease/hostelease/pkg/payments"
)

// PaymentController exposes intent creation, verification and the signed
// provider webhook.
type PaymentController struct {
	payments *services.PaymentService
}

func NewPaymentController(svc *services.PaymentService) *PaymentController {
	return &PaymentController{payments: svc}
}

type createIntentInput struct {
	Amount  float64 `json:"amount" validate:"required"`
	OrderID uint    `json:"orderId"`
}

// CreateIntent handles POST /api/payments/create-payment-intent.
func (pc *PaymentController) CreateIntent(c *ctx.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var input createIntentInput
	if !c.BindJSON(&input) {
		return
	}

	intent, err := pc.payments.CreateIntent(c.Context(), id.UserID, input.Amount, input.OrderID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Success(map[string]interface{}{
		"clientSecret":    intent.ClientSecret,
		"paymentIntentId": intent.ID,
	})
}

type verifyInput struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
}

// Verify handles POST /api/payments/verify.
func (pc *PaymentController) Verify(c *ctx.Context) {
	var input verifyInput
	if !c.BindJSON(&input) {
		return
	}

	result, err := pc.payments.Verify(c.Context(), input.PaymentIntentID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Success(result)
}

// Webhook handles POST /api/payments/webhook. The body is raw bytes; the
// signature is checked before anything is parsed, and a verified event is
// always acknowledged so the provider stops retrying.
func (pc *PaymentController) Webhook(c *ctx.Context) {
	secret := config.StripeWebhookSecret()
	if secret == "" {
		// Verifying against an empty key would accept trivially forged
		// signatures; refuse until the secret is deployed.
		logger.WithCtx(c.Context()).Error("payments: STRIPE_WEBHOOK_SECRET is not set, rejecting webhook")
		c.Error(http.StatusServiceUnavailable, "webhook not configured")
		return
	}

	body, err := c.Body()
	if err != nil {
		c.Error(http.StatusBadRequest, "could not read body")
		return
	}

	ev, err := payments.ConstructEvent(
		body,
		c.Header("Stripe-Signature"),
		secret,
		payments.DefaultTolerance,
	)
	if err != nil {
		logger.WithCtx(c.Context()).Warn("payments: webhook signature rejected", "error", err)
		c.Error(http.StatusBadRequest, "invalid signature")
		return
	}

	if err := pc.payments.HandleEvent(ev); err != nil {
		handleError(c, err)
		return
	}
	c.Message("received", nil)
}

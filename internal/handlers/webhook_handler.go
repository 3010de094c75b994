package handlers

import (
	"log"

	"grocer/internal/payments"
	"grocer/internal/services"

	"github.com/gofiber/fiber/v2"
)

// WebhookHandler receives signed payment processor callbacks. No session
// auth: these are server-to-server requests authenticated by signature.
type WebhookHandler struct {
	paymentService *services.PaymentService
	gateway        payments.Gateway
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(paymentService *services.PaymentService, gateway payments.Gateway) *WebhookHandler {
	return &WebhookHandler{
		paymentService: paymentService,
		gateway:        gateway,
	}
}

// RegisterRoutes registers the webhook routes.
func (h *WebhookHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/webhook/stripe", h.HandleStripeWebhook)
}

// HandleStripeWebhook verifies the event signature over the raw body and
// dispatches payment outcomes. Reconciliation errors are logged, never
// surfaced: a non-200 would make the processor retry indefinitely.
func (h *WebhookHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	sig := c.Get("Stripe-Signature")
	if sig == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing webhook signature",
		})
	}

	event, err := h.gateway.ConstructEvent(c.Body(), sig)
	if err != nil {
		log.Printf("Webhook verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid signature",
		})
	}

	switch event.Type {
	case payments.EventPaymentSucceeded:
		if err := h.paymentService.ApplySuccess(event.Intent); err != nil {
			log.Printf("Failed to apply payment success for intent %s: %v", event.Intent.ID, err)
		}
	case payments.EventPaymentFailed:
		if err := h.paymentService.ApplyFailure(event.Intent); err != nil {
			log.Printf("Failed to apply payment failure for intent %s: %v", event.Intent.ID, err)
		}
	}

	return c.JSON(fiber.Map{"received": true})
}

package handlers

import (
	"errors"
	"log"

	"grocer/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles the checkout endpoint.
type PaymentHandler struct {
	paymentService *services.PaymentService
	validate       *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the payment routes. All require authentication.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/payment/create-intent", h.HandleCreateIntent)
}

// CreateIntentRequest is the checkout request body.
type CreateIntentRequest struct {
	Shipping services.ShippingInput `json:"shipping" validate:"required"`
}

// HandleCreateIntent converts the user's cart into an order and returns the
// client secret needed to complete the payment.
func (h *PaymentHandler) HandleCreateIntent(c *fiber.Ctx) error {
	var req CreateIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req.Shipping); err != nil {
		return validationErrorResponse(c, err)
	}

	result, err := h.paymentService.CreateOrderAndIntent(currentUserID(c), req.Shipping)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentsNotConfigured):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Payments are not configured",
			})
		case errors.Is(err, services.ErrCartEmpty):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Cart is empty",
			})
		case errors.Is(err, services.ErrClientSecretMissing):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Payment client secret missing",
			})
		}
		log.Printf("Checkout failed for user %d: %v", currentUserID(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create order",
		})
	}

	return c.JSON(result)
}

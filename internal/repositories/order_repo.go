package repositories

import (
	"time"

	"grocer/internal/models"
)

// PaymentResult carries the settlement details captured from a successful
// charge, applied to an order by MarkSucceeded.
type PaymentResult struct {
	ChargeID   string
	ReceiptURL string
	CardBrand  string
	CardLast4  string
	PaidAt     time.Time
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAllByUser(userID uint) ([]models.Order, error)
	GetByID(id uint) (*models.Order, error)
	// CreateFromCart atomically inserts the order with its items and clears
	// the cart's items in a single transaction. Either everything is
	// persisted or nothing is.
	CreateFromCart(order *models.Order, cartID uint) error
	// MarkSucceeded sets paymentStatus=SUCCEEDED and persists the charge
	// details. Re-applying to an already succeeded order is harmless.
	MarkSucceeded(orderID uint, result PaymentResult) error
	// MarkFailed sets paymentStatus=FAILED.
	MarkFailed(orderID uint) error
}

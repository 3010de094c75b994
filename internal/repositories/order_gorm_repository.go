package repositories

import (
	"errors"
	"fmt"

	"grocer/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// GetAllByUser retrieves all orders of a user, newest first, with items.
func (r *GORMOrderRepository) GetAllByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Order("created_at DESC").Find(&orders, "user_id = ?", userID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for user %d: %w", userID, err)
	}
	return orders, nil
}

// GetByID retrieves a single order with its items.
func (r *GORMOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	return &order, nil
}

// CreateFromCart inserts the order (items cascade via the association) and
// clears the source cart's items inside one transaction.
func (r *GORMOrderRepository) CreateFromCart(order *models.Order, cartID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if err := tx.Delete(&models.CartItem{}, "cart_id = ?", cartID).Error; err != nil {
			return fmt.Errorf("failed to clear cart %d: %w", cartID, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("order creation transaction failed: %w", err)
	}
	return nil
}

// MarkSucceeded applies a successful settlement to the order.
func (r *GORMOrderRepository) MarkSucceeded(orderID uint, result PaymentResult) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"payment_status":     models.PaymentSucceeded,
		"paid_at":            result.PaidAt,
		"stripe_charge_id":   result.ChargeID,
		"stripe_receipt_url": result.ReceiptURL,
		"card_brand":         result.CardBrand,
		"card_last4":         result.CardLast4,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to mark order %d succeeded: %w", orderID, res.Error)
	}
	return nil
}

// MarkFailed applies a failed settlement to the order.
func (r *GORMOrderRepository) MarkFailed(orderID uint) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("payment_status", models.PaymentFailed)
	if res.Error != nil {
		return fmt.Errorf("failed to mark order %d failed: %w", orderID, res.Error)
	}
	return nil
}

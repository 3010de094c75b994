package repositories

import (
	"errors"
	"fmt"

	"grocer/internal/models"

	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// GetByUserID retrieves a user's cart with items and products preloaded.
func (r *GORMCartRepository) GetByUserID(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items.Product").First(&cart, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart for user %d not found", userID)
		}
		return nil, fmt.Errorf("failed to get cart for user %d: %w", userID, err)
	}
	return &cart, nil
}

// GetByID retrieves a cart by its ID with items and products preloaded.
func (r *GORMCartRepository) GetByID(id uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items.Product").First(&cart, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get cart %d: %w", id, err)
	}
	return &cart, nil
}

// Create creates a new cart.
func (r *GORMCartRepository) Create(cart *models.Cart) error {
	if err := r.db.Create(cart).Error; err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// UpdateTotal persists a recomputed total onto the cart.
func (r *GORMCartRepository) UpdateTotal(cartID uint, total float64) error {
	res := r.db.Model(&models.Cart{}).Where("id = ?", cartID).Update("total_price", total)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart %d total: %w", cartID, res.Error)
	}
	return nil
}

// GetItem retrieves a single cart item by its ID.
func (r *GORMCartRepository) GetItem(id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get cart item %d: %w", id, err)
	}
	return &item, nil
}

// CreateItem adds a new item to a cart.
func (r *GORMCartRepository) CreateItem(item *models.CartItem) error {
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

// UpdateItemQuantity updates the quantity of an existing cart item.
func (r *GORMCartRepository) UpdateItemQuantity(id uint, quantity int) error {
	res := r.db.Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %d not found for update", id)
	}
	return nil
}

// DeleteItem removes a cart item by its ID.
func (r *GORMCartRepository) DeleteItem(id uint) error {
	res := r.db.Delete(&models.CartItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %d not found for deletion", id)
	}
	return nil
}

// ClearItems removes all items of a cart. Deleting zero rows is not an error.
func (r *GORMCartRepository) ClearItems(cartID uint) error {
	if err := r.db.Delete(&models.CartItem{}, "cart_id = ?", cartID).Error; err != nil {
		return fmt.Errorf("failed to clear items of cart %d: %w", cartID, err)
	}
	return nil
}

// ClearItemsByUserID removes all items of the cart owned by the given user.
func (r *GORMCartRepository) ClearItemsByUserID(userID uint) error {
	var cart models.Cart
	err := r.db.Select("id").First(&cart, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // no cart, nothing to clear
		}
		return fmt.Errorf("failed to look up cart for user %d: %w", userID, err)
	}
	return r.ClearItems(cart.ID)
}

package repositories

import "grocer/internal/models"

// CartRepository defines the interface for cart and cart item data access.
type CartRepository interface {
	// GetByUserID returns the user's cart with its items and each item's
	// product preloaded, or an error if no cart exists.
	GetByUserID(userID uint) (*models.Cart, error)
	// GetByID returns the cart with items and products preloaded.
	GetByID(id uint) (*models.Cart, error)
	Create(cart *models.Cart) error
	UpdateTotal(cartID uint, total float64) error

	GetItem(id uint) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItemQuantity(id uint, quantity int) error
	DeleteItem(id uint) error

	// ClearItems removes all items of a cart. Idempotent.
	ClearItems(cartID uint) error
	// ClearItemsByUserID removes all items of the cart belonging to the given
	// user, if any. Idempotent; used by webhook reconciliation.
	ClearItemsByUserID(userID uint) error
}

package repositories

import "grocer/internal/models"

// AddressRepository defines the interface for address data access.
type AddressRepository interface {
	ListByUser(userID uint) ([]models.Address, error)
	GetByIDAndUser(id, userID uint) (*models.Address, error)
	// Create inserts the address. If IsDefault is set, other defaults of the
	// same (user, type) are cleared in the same transaction.
	Create(address *models.Address) error
	// Update saves the address. If IsDefault is set, other defaults of the
	// same (user, type) are cleared in the same transaction.
	Update(address *models.Address) error
	Delete(id uint) error
	GetDefault(userID uint, addrType models.AddressType) (*models.Address, error)
	// SetDefault marks the address as default and clears other defaults of
	// its type in the same transaction.
	SetDefault(id, userID uint) (*models.Address, error)
}

package repositories

import (
	"errors"
	"fmt"

	"grocer/internal/models"

	"gorm.io/gorm"
)

// GORMAddressRepository is a GORM implementation of AddressRepository.
type GORMAddressRepository struct {
	db *gorm.DB
}

// NewGORMAddressRepository creates a new instance of GORMAddressRepository.
func NewGORMAddressRepository(db *gorm.DB) *GORMAddressRepository {
	return &GORMAddressRepository{db: db}
}

// ListByUser retrieves all addresses of a user, defaults first.
func (r *GORMAddressRepository) ListByUser(userID uint) ([]models.Address, error) {
	var list []models.Address
	err := r.db.Order("is_default DESC, created_at DESC").Find(&list, "user_id = ?", userID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses for user %d: %w", userID, err)
	}
	return list, nil
}

// GetByIDAndUser retrieves an address owned by the given user.
func (r *GORMAddressRepository) GetByIDAndUser(id, userID uint) (*models.Address, error) {
	var addr models.Address
	err := r.db.First(&addr, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("address with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get address %d: %w", id, err)
	}
	return &addr, nil
}

// clearDefaults unsets IsDefault on all addresses of the given user and type.
func clearDefaults(tx *gorm.DB, userID uint, addrType models.AddressType) error {
	return tx.Model(&models.Address{}).
		Where("user_id = ? AND type = ?", userID, addrType).
		Update("is_default", false).Error
}

// Create inserts the address, clearing competing defaults transactionally.
func (r *GORMAddressRepository) Create(address *models.Address) error {
	if !address.IsDefault {
		if err := r.db.Create(address).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		return nil
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := clearDefaults(tx, address.UserID, address.Type); err != nil {
			return err
		}
		return tx.Create(address).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create default address: %w", err)
	}
	return nil
}

// Update saves the address, clearing competing defaults transactionally when
// it is being made the default.
func (r *GORMAddressRepository) Update(address *models.Address) error {
	if !address.IsDefault {
		if err := r.db.Save(address).Error; err != nil {
			return fmt.Errorf("failed to update address: %w", err)
		}
		return nil
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := clearDefaults(tx, address.UserID, address.Type); err != nil {
			return err
		}
		return tx.Save(address).Error
	})
	if err != nil {
		return fmt.Errorf("failed to update default address: %w", err)
	}
	return nil
}

// Delete removes an address by its ID.
func (r *GORMAddressRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Address{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete address %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("address with ID %d not found for deletion", id)
	}
	return nil
}

// GetDefault retrieves the default address of a user for the given type.
func (r *GORMAddressRepository) GetDefault(userID uint, addrType models.AddressType) (*models.Address, error) {
	var addr models.Address
	err := r.db.Order("created_at DESC").
		First(&addr, "user_id = ? AND type = ? AND is_default = ?", userID, addrType, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no default %s address for user %d", addrType, userID)
		}
		return nil, fmt.Errorf("failed to get default address: %w", err)
	}
	return &addr, nil
}

// SetDefault marks an address as the default of its type.
func (r *GORMAddressRepository) SetDefault(id, userID uint) (*models.Address, error) {
	addr, err := r.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := clearDefaults(tx, userID, addr.Type); err != nil {
			return err
		}
		return tx.Model(&models.Address{}).Where("id = ?", id).Update("is_default", true).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set default address %d: %w", id, err)
	}
	addr.IsDefault = true
	return addr, nil
}

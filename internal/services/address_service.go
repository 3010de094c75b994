package services

import (
	"grocer/internal/models"
	"grocer/internal/repositories"
)

// AddressService handles business logic for user addresses.
type AddressService struct {
	addressRepo repositories.AddressRepository
}

// NewAddressService creates a new AddressService.
func NewAddressService(addressRepo repositories.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// List retrieves all addresses of a user, defaults first.
func (s *AddressService) List(userID uint) ([]models.Address, error) {
	return s.addressRepo.ListByUser(userID)
}

// Create adds a new address for the user. The repository enforces the
// one-default-per-type invariant transactionally.
func (s *AddressService) Create(userID uint, address *models.Address) error {
	address.ID = 0
	address.UserID = userID
	return s.addressRepo.Create(address)
}

// AddressUpdate carries optional address changes. Nil fields are untouched.
type AddressUpdate struct {
	Type       *models.AddressType `json:"type" validate:"omitempty,oneof=SHIPPING BILLING"`
	IsDefault  *bool               `json:"isDefault"`
	Name       *string             `json:"name"`
	Street     *string             `json:"street"`
	Street2    *string             `json:"street2"`
	PostalCode *string             `json:"postalCode"`
	City       *string             `json:"city"`
	Country    *string             `json:"country"`
	Phone      *string             `json:"phone"`
}

// Update applies a partial update to an address owned by the user.
func (s *AddressService) Update(id, userID uint, upd AddressUpdate) (*models.Address, error) {
	address, err := s.addressRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}

	if upd.Type != nil {
		address.Type = *upd.Type
	}
	if upd.IsDefault != nil {
		address.IsDefault = *upd.IsDefault
	}
	if upd.Name != nil {
		address.Name = *upd.Name
	}
	if upd.Street != nil {
		address.Street = *upd.Street
	}
	if upd.Street2 != nil {
		address.Street2 = *upd.Street2
	}
	if upd.PostalCode != nil {
		address.PostalCode = *upd.PostalCode
	}
	if upd.City != nil {
		address.City = *upd.City
	}
	if upd.Country != nil {
		address.Country = *upd.Country
	}
	if upd.Phone != nil {
		address.Phone = *upd.Phone
	}

	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}
	return address, nil
}

// Delete removes an address owned by the user.
func (s *AddressService) Delete(id, userID uint) error {
	if _, err := s.addressRepo.GetByIDAndUser(id, userID); err != nil {
		return err
	}
	return s.addressRepo.Delete(id)
}

// GetDefault retrieves the user's default address of the given type.
func (s *AddressService) GetDefault(userID uint, addrType models.AddressType) (*models.Address, error) {
	return s.addressRepo.GetDefault(userID, addrType)
}

// SetDefault marks an address as the default of its type.
func (s *AddressService) SetDefault(id, userID uint) (*models.Address, error) {
	return s.addressRepo.SetDefault(id, userID)
}

package models

import "time"

// AddressType distinguishes shipping from billing addresses.
type AddressType string

const (
	AddressShipping AddressType = "SHIPPING"
	AddressBilling  AddressType = "BILLING"
)

// Address belongs to a user. At most one address per (user, type) pair may be
// the default; setting a new default clears the old one in the same
// transaction.
type Address struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	UserID     uint        `json:"userId" gorm:"index"`
	Type       AddressType `json:"type" gorm:"type:varchar(16)" validate:"required,oneof=SHIPPING BILLING"`
	IsDefault  bool        `json:"isDefault"`
	Name       string      `json:"name,omitempty"`
	Street     string      `json:"street" validate:"required"`
	Street2    string      `json:"street2,omitempty"`
	PostalCode string      `json:"postalCode" validate:"required"`
	City       string      `json:"city" validate:"required"`
	Country    string      `json:"country" validate:"required"`
	Phone      string      `json:"phone,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"-"`
}

package models

import "time"

// User represents a registered customer of the store.
type User struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Email            string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password         string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	FirstName        string    `json:"firstName" gorm:"type:varchar(100)"`
	LastName         string    `json:"lastName" gorm:"type:varchar(100)"`
	Phone            string    `json:"phone" gorm:"type:varchar(32)"`
	Role             string    `json:"role" gorm:"type:varchar(16);default:user" validate:"omitempty,oneof=user admin"`
	StripeCustomerID string    `json:"-" gorm:"type:varchar(64)"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"-"`
}

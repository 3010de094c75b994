package models

import "time"

// Cart is a user's single pending collection of product selections.
// TotalPrice is denormalized and recomputed after every item mutation.
type Cart struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	UserID     uint       `json:"userId" gorm:"uniqueIndex"`
	TotalPrice float64    `json:"totalPrice"`
	Items      []CartItem `json:"items,omitempty" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"-"`
}

// CartItem is a line in a cart. It carries no price of its own; the price is
// always looked up live from the referenced product.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CartID    uint      `json:"cartId" gorm:"index"`
	ProductID string    `json:"productId" gorm:"type:varchar(64);index" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID;references:ProductID"`
	CreatedAt time.Time `json:"createdAt"`
}

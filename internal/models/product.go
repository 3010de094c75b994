package models

import "time"

// Product represents a catalog entry. ProductID is the external-facing key
// (e.g. a barcode); ID is the internal primary key.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ProductID   string    `json:"productId" gorm:"uniqueIndex;type:varchar(64)" validate:"required"`
	Name        string    `json:"name" validate:"required,min=1,max=200"`
	Brand       string    `json:"brand,omitempty"`
	Category    string    `json:"category,omitempty"`
	Quantity    string    `json:"quantity,omitempty"` // package size, e.g. "500 g"
	Packaging   string    `json:"packaging,omitempty"`
	Country     string    `json:"country,omitempty"`
	Ingredients string    `json:"ingredients,omitempty"`
	Calories    string    `json:"calories,omitempty"`
	Price       float64   `json:"price" validate:"gte=0"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"-"`
}

package models

import "time"

// PaymentStatus is the settlement state of an order. It starts at PROCESSING
// and moves to SUCCEEDED or FAILED exactly once, driven by webhook events.
type PaymentStatus string

const (
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentSucceeded  PaymentStatus = "SUCCEEDED"
	PaymentFailed     PaymentStatus = "FAILED"
)

// Order is a purchase record created from a cart snapshot. Line-item prices
// are frozen at creation time; later product price changes do not affect it.
type Order struct {
	ID                    uint          `json:"id" gorm:"primaryKey"`
	Reference             string        `json:"reference" gorm:"uniqueIndex;type:varchar(36)"`
	UserID                uint          `json:"userId" gorm:"index"`
	TotalPrice            float64       `json:"totalPrice"`
	ShippingName          string        `json:"shippingName"`
	ShippingStreet        string        `json:"shippingStreet"`
	ShippingStreet2       string        `json:"shippingStreet2,omitempty"`
	ShippingPostalCode    string        `json:"shippingPostalCode"`
	ShippingCity          string        `json:"shippingCity"`
	ShippingCountry       string        `json:"shippingCountry"`
	ShippingPhone         string        `json:"shippingPhone,omitempty"`
	PaymentProvider       string        `json:"paymentProvider" gorm:"type:varchar(32)"`
	PaymentStatus         PaymentStatus `json:"paymentStatus" gorm:"type:varchar(16);index"`
	StripePaymentIntentID string        `json:"-" gorm:"type:varchar(64);index"`
	StripeChargeID        string        `json:"-" gorm:"type:varchar(64)"`
	StripeReceiptURL      string        `json:"receiptUrl,omitempty"`
	CardBrand             string        `json:"cardBrand,omitempty" gorm:"type:varchar(16)"`
	CardLast4             string        `json:"cardLast4,omitempty" gorm:"type:varchar(4)"`
	PaidAt                *time.Time    `json:"paidAt,omitempty"`
	Items                 []OrderItem   `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time     `json:"createdAt"`
	UpdatedAt             time.Time     `json:"-"`
}

// OrderItem is a line in an order. Unlike CartItem its Price is stored,
// snapshotted from the product at order-creation time.
type OrderItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"orderId" gorm:"index"`
	ProductID string    `json:"productId" gorm:"type:varchar(64);index"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

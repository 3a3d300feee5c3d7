package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order lifecycle. A verified online payment moves the order to
// "paid"; accepting a cash-on-delivery order moves it to "cod-pending"
// so that deferred payment is never presented as verified payment.
const (
	OrderStatusCreated    = "created"
	OrderStatusPaid       = "paid"
	OrderStatusCODPending = "cod-pending"
	OrderStatusDelivered  = "delivered"
)

// Payment methods accepted at checkout
const (
	PaymentMethodOnline = "online"
	PaymentMethodCOD    = "cod"
)

// OrderItem is one product line with the quantity and unit price
// captured at order time.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	UnitPrice float64            `bson:"unit_price" json:"unit_price"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
}

// ShippingAddress is where an order is delivered. All fields are
// required once the order is placed.
type ShippingAddress struct {
	FullName   string `bson:"full_name" json:"full_name" validate:"required"`
	Address    string `bson:"address" json:"address" validate:"required"`
	City       string `bson:"city" json:"city" validate:"required"`
	PostalCode string `bson:"postal_code" json:"postal_code" validate:"required"`
	Country    string `bson:"country" json:"country" validate:"required"`
	Phone      string `bson:"phone" json:"phone" validate:"required"`
}

// Order represents a user's order. Invariant: TotalPrice ==
// ItemsPrice + ShippingPrice + TaxPrice, and IsDelivered implies
// IsPaid.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items           []OrderItem        `bson:"items" json:"items"`
	ShippingAddress ShippingAddress    `bson:"shipping_address" json:"shipping_address"`
	PaymentMethod   string             `bson:"payment_method" json:"payment_method"`
	ItemsPrice      float64            `bson:"items_price" json:"items_price"`
	ShippingPrice   float64            `bson:"shipping_price" json:"shipping_price"`
	TaxPrice        float64            `bson:"tax_price" json:"tax_price"`
	TotalPrice      float64            `bson:"total_price" json:"total_price"`
	Status          string             `bson:"status" json:"status"`
	IsPaid          bool               `bson:"is_paid" json:"is_paid"`
	PaidAt          *time.Time         `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	PaymentResult   *PaymentResult     `bson:"payment_result,omitempty" json:"payment_result,omitempty"`
	IsDelivered     bool               `bson:"is_delivered" json:"is_delivered"`
	DeliveredAt     *time.Time         `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

package orders

import "errors"

// Business errors exported for callers to branch on.
var (
	ErrNotFound             = errors.New("order not found")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidCartItem      = errors.New("cart contains an invalid item")
	ErrNotPaid              = errors.New("order has not been paid")
	ErrNotCOD               = errors.New("order is not cash on delivery")
	ErrNotOnline            = errors.New("order is not an online payment")
)

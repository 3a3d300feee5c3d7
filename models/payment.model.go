package models

// PaymentResult stores the gateway transaction reference on an order
// after a successful payment verification.
type PaymentResult struct {
	TransactionID  string `bson:"transaction_id" json:"transaction_id"`
	GatewayOrderID string `bson:"gateway_order_id" json:"gateway_order_id"`
	Status         string `bson:"status" json:"status"`
}

package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"zuka-backend/events"
	"zuka-backend/models"
	"zuka-backend/orders"
	"zuka-backend/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentController handles payment gateway requests
type PaymentController struct {
	Gateway *payment.Client
	Service *orders.Service
	Events  *events.Publisher
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(gateway *payment.Client, svc *orders.Service, publisher *events.Publisher) *PaymentController {
	return &PaymentController{
		Gateway: gateway,
		Service: svc,
		Events:  publisher,
	}
}

// CreateGatewayOrder opens a payment order with the gateway for the
// given amount
func (pc *PaymentController) CreateGatewayOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Amount <= 0 {
		http.Error(w, "Amount must be positive", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	gatewayOrder, err := pc.Gateway.CreateOrder(ctx, req.Amount)
	if err != nil {
		http.Error(w, "Failed to create payment order", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(gatewayOrder)
}

// VerifyPayment checks the gateway signature for a completed checkout
// and marks the order paid. A bad signature leaves the order untouched.
func (pc *PaymentController) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id"`
		RazorpayPaymentID string `json:"razorpay_payment_id"`
		RazorpaySignature string `json:"razorpay_signature"`
		OrderID           string `json:"order_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	if !pc.Gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Payment verification failed",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := pc.Service.MarkPaid(ctx, orderID, models.PaymentResult{
		TransactionID:  req.RazorpayPaymentID,
		GatewayOrderID: req.RazorpayOrderID,
		Status:         "success",
	})
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrNotFound):
			http.Error(w, "Order not found", http.StatusNotFound)
		case errors.Is(err, orders.ErrNotOnline):
			http.Error(w, "Order is not an online payment", http.StatusBadRequest)
		default:
			http.Error(w, "Failed to update order", http.StatusInternalServerError)
		}
		return
	}

	pc.Events.Publish(ctx, events.OrderPaid, order)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"order":   order,
	})
}

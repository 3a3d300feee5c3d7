package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"
	"zuka-backend/events"
	"zuka-backend/invoice"
	"zuka-backend/models"
	"zuka-backend/orders"
	"zuka-backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var validate = validator.New()

// OrderController handles order-related requests
type OrderController struct {
	Service        *orders.Service
	UserCollection *mongo.Collection
	EmailService   *utils.EmailService
	Events         *events.Publisher
}

// NewOrderController creates a new OrderController
func NewOrderController(svc *orders.Service, db *mongo.Database, emailService *utils.EmailService, publisher *events.Publisher) *OrderController {
	return &OrderController{
		Service:        svc,
		UserCollection: db.Collection("users"),
		EmailService:   emailService,
		Events:         publisher,
	}
}

// CreateOrder places a new order from the user's cart
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ShippingAddress models.ShippingAddress `json:"shipping_address" validate:"required"`
		PaymentMethod   string                 `json:"payment_method" validate:"required,oneof=online cod"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "Invalid order data: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Service.Create(ctx, userID, req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrEmptyCart):
			http.Error(w, "Cart is empty", http.StatusBadRequest)
		case errors.Is(err, orders.ErrInvalidPaymentMethod), errors.Is(err, orders.ErrInvalidCartItem):
			http.Error(w, "Invalid order data", http.StatusBadRequest)
		default:
			http.Error(w, "Failed to create order", http.StatusInternalServerError)
		}
		return
	}

	oc.Events.Publish(ctx, events.OrderPlaced, order)
	oc.sendConfirmationEmail(order)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

// GetOrders retrieves all orders for the authenticated user
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, err := oc.Service.ListByUser(ctx, userID)
	if err != nil {
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// GetAllOrders retrieves every order (Admin only)
func (oc *OrderController) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	list, err := oc.Service.ListAll(ctx)
	if err != nil {
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// GetOrder retrieves a single order. Users can only read their own
// orders; admins can read any.
func (oc *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := oc.Service.GetByID(ctx, orderID)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if order.UserID != userID && !isAdmin(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

// MarkDelivered records delivery of an order (Admin only)
func (oc *OrderController) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Service.MarkDelivered(ctx, orderID)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrNotFound):
			http.Error(w, "Order not found", http.StatusNotFound)
		case errors.Is(err, orders.ErrNotPaid):
			http.Error(w, "Order has not been paid", http.StatusBadRequest)
		default:
			http.Error(w, "Failed to update order", http.StatusInternalServerError)
		}
		return
	}

	oc.Events.Publish(ctx, events.OrderDelivered, order)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

// AcceptCOD accepts a cash-on-delivery order (Admin only)
func (oc *OrderController) AcceptCOD(w http.ResponseWriter, r *http.Request) {
	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Service.AcceptCOD(ctx, orderID)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrNotFound):
			http.Error(w, "Order not found", http.StatusNotFound)
		case errors.Is(err, orders.ErrNotCOD):
			http.Error(w, "Order is not cash on delivery", http.StatusBadRequest)
		default:
			http.Error(w, "Failed to update order", http.StatusInternalServerError)
		}
		return
	}

	oc.Events.Publish(ctx, events.OrderPaid, order)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

// DownloadInvoice renders the shipping-label PDF for one line item of
// an order (Admin only). The line item index defaults to 0.
func (oc *OrderController) DownloadInvoice(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	orderID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	index := 0
	if raw, ok := vars["index"]; ok {
		index, err = strconv.Atoi(raw)
		if err != nil || index < 0 {
			http.Error(w, "Invalid line item index", http.StatusBadRequest)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Service.GetByID(ctx, orderID)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	oc.writeInvoicePDF(w, order, index, "attachment")
}

// ScanInvoice renders the shipping-label PDF from a scanned barcode
// payload.
func (oc *OrderController) ScanInvoice(w http.ResponseWriter, r *http.Request) {
	orderHex, index, err := invoice.DecodeScanCode(mux.Vars(r)["code"])
	if err != nil {
		http.Error(w, "Invalid scan code", http.StatusBadRequest)
		return
	}

	orderID, err := primitive.ObjectIDFromHex(orderHex)
	if err != nil {
		http.Error(w, "Invalid scan code", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Service.GetByID(ctx, orderID)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	oc.writeInvoicePDF(w, order, index, "inline")
}

func (oc *OrderController) writeInvoicePDF(w http.ResponseWriter, order *models.Order, index int, disposition string) {
	pdf, err := invoice.Render(order, index)
	if err != nil {
		if errors.Is(err, invoice.ErrInvalidLineItem) {
			http.Error(w, "Invalid line item index", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to render invoice", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("%s.pdf", invoice.EncodeScanCode(order.ID.Hex(), index))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, filename))
	w.Write(pdf)
}

// sendConfirmationEmail notifies the buyer off the request path
func (oc *OrderController) sendConfirmationEmail(order *models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := oc.UserCollection.FindOne(ctx, bson.M{"_id": order.UserID}).Decode(&user); err != nil {
		log.Printf("Failed to load user %s for order confirmation: %v", order.UserID.Hex(), err)
		return
	}

	go func(email string, order models.Order) {
		if err := oc.EmailService.SendOrderConfirmationEmail(email, &order); err != nil {
			log.Printf("Failed to send order confirmation to %s: %v", email, err)
		}
	}(user.Email, *order)
}

package routes

import (
	"encoding/json"
	"net/http"
	"zuka-backend/controllers"
	"zuka-backend/middleware"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(
	router *mux.Router,
	userController *controllers.UserController,
	productController *controllers.ProductController,
	cartController *controllers.CartController,
	wishlistController *controllers.WishlistController,
	orderController *controllers.OrderController,
	paymentController *controllers.PaymentController,
) {
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "ZUKA API is running"})
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()

	// Auth routes
	api.HandleFunc("/auth/register", userController.Register).Methods("POST")
	api.HandleFunc("/auth/login", userController.Login).Methods("POST")
	api.HandleFunc("/auth/otp/send", userController.SendOTP).Methods("POST")
	api.HandleFunc("/auth/otp/login", userController.VerifyOTPLogin).Methods("POST")
	api.HandleFunc("/auth/otp/register", userController.VerifyOTPRegister).Methods("POST")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/profile", userController.GetProfile).Methods("GET")

	// Product routes
	api.HandleFunc("/products", productController.GetProducts).Methods("GET")
	api.HandleFunc("/products/categories", productController.GetCategories).Methods("GET")
	api.HandleFunc("/products/{id}", productController.GetProductByID).Methods("GET")

	adminProducts := api.PathPrefix("/products").Subrouter()
	adminProducts.Use(middleware.AuthMiddleware)
	adminProducts.Use(middleware.AdminMiddleware)
	adminProducts.HandleFunc("", productController.CreateProduct).Methods("POST")
	adminProducts.HandleFunc("/{id}", productController.UpdateProduct).Methods("PUT")
	adminProducts.HandleFunc("/{id}", productController.DeleteProduct).Methods("DELETE")

	// Cart routes
	protected.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	protected.HandleFunc("/cart", cartController.AddToCart).Methods("POST")
	protected.HandleFunc("/cart", cartController.ClearCart).Methods("DELETE")
	protected.HandleFunc("/cart/{product_id}", cartController.UpdateCartItem).Methods("PUT")
	protected.HandleFunc("/cart/{product_id}", cartController.RemoveFromCart).Methods("DELETE")

	// Wishlist routes
	protected.HandleFunc("/wishlist", wishlistController.GetWishlist).Methods("GET")
	protected.HandleFunc("/wishlist/{product_id}", wishlistController.AddToWishlist).Methods("POST")
	protected.HandleFunc("/wishlist/{product_id}", wishlistController.RemoveFromWishlist).Methods("DELETE")

	// Order routes. The protected subrouter sits before the admin one
	// on the parent router, so the {id} segment is constrained to
	// object ids; without that, /orders/all would be captured here as
	// id="all" and never reach GetAllOrders.
	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)

	admin.HandleFunc("/orders/all", orderController.GetAllOrders).Methods("GET")
	protected.HandleFunc("/orders", orderController.CreateOrder).Methods("POST")
	protected.HandleFunc("/orders", orderController.GetOrders).Methods("GET")
	protected.HandleFunc("/orders/{id:[0-9a-fA-F]{24}}", orderController.GetOrder).Methods("GET")
	admin.HandleFunc("/orders/{id}/deliver", orderController.MarkDelivered).Methods("PUT")
	admin.HandleFunc("/orders/{id}/accept-cod", orderController.AcceptCOD).Methods("PUT")
	admin.HandleFunc("/orders/{id}/invoice", orderController.DownloadInvoice).Methods("GET")
	admin.HandleFunc("/orders/{id}/invoice/{index}", orderController.DownloadInvoice).Methods("GET")

	// Payment routes
	protected.HandleFunc("/payment/create-order", paymentController.CreateGatewayOrder).Methods("POST")
	protected.HandleFunc("/payment/verify", paymentController.VerifyPayment).Methods("POST")

	// Public barcode scan endpoint used by warehouse scanners
	api.HandleFunc("/invoice/scan/{code}", orderController.ScanInvoice).Methods("GET")
}

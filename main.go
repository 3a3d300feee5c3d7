package main

import (
	"context"
	"log"
	"net/http"
	"zuka-backend/config"
	"zuka-backend/controllers"
	"zuka-backend/events"
	"zuka-backend/orders"
	"zuka-backend/otp"
	"zuka-backend/payment"
	"zuka-backend/routes"
	"zuka-backend/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	cfg := config.Load()

	// Set the JWT secret key
	utils.JwtKey = []byte(cfg.JWTSecret)

	// Connect to MongoDB
	client := utils.ConnectDB(cfg.MongoURI)
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()
	db := client.Database(cfg.MongoDBName)

	// Payment gateway
	gateway, err := payment.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	if err != nil {
		log.Fatalf("Payment gateway setup failed: %v", err)
	}

	// Email and OTP
	emailService := utils.NewEmailService(cfg.SendgridAPIKey, cfg.EmailSender)
	otpStore := otp.NewStore()

	// Order pipeline
	orderRepo := orders.NewMongoRepository(db)
	cartRepo := orders.NewMongoCartRepository(db)
	orderService := orders.NewService(orderRepo, cartRepo)

	// Event publisher is optional; without RABBIT_URL the service runs
	// standalone and publishes nothing.
	var publisher *events.Publisher
	if cfg.RabbitURL != "" {
		conn, err := amqp.Dial(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("RabbitMQ connection failed: %v", err)
		}
		defer conn.Close()

		publisher, err = events.NewPublisher(conn)
		if err != nil {
			log.Fatalf("RabbitMQ exchange setup failed: %v", err)
		}
	} else {
		log.Println("RABBIT_URL not set. Order events disabled.")
	}

	// Initialize controllers
	userController := controllers.NewUserController(db, emailService, otpStore)
	productController := controllers.NewProductController(db)
	cartController := controllers.NewCartController(db)
	wishlistController := controllers.NewWishlistController(db)
	orderController := controllers.NewOrderController(orderService, db, emailService, publisher)
	paymentController := controllers.NewPaymentController(gateway, orderService, publisher)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, userController, productController, cartController, wishlistController, orderController, paymentController)

	log.Printf("Server is running on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}

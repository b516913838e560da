package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"cardpay_api/internal/handlers"
	appMiddleware "cardpay_api/internal/middleware"
	"cardpay_api/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeKey == "" {
		log.Fatal("STRIPE_SECRET_KEY not set")
	}

	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if webhookSecret == "" {
		log.Println("Warning: STRIPE_WEBHOOK_SECRET not set, webhook deliveries will be rejected")
	}

	ctx := context.Background()

	// Initialize Firestore
	fsClient, err := services.InitFirestore(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firestore: %v", err)
	}
	defer fsClient.Close()

	store := services.NewFirestoreStore(fsClient)
	gateway := services.NewStripeService(stripeKey, webhookSecret)

	// Initialize audit database
	var db *gorm.DB
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL != "" {
		db, err = services.InitDB(databaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to audit database: %v", err)
		}

		// Run auto-migration
		if err := services.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run audit database migrations: %v", err)
		}
	} else {
		log.Println("Warning: DATABASE_URL not set, webhook audit log disabled")
	}

	// Initialize cache
	var cache *services.RedisCache
	redisURL := os.Getenv("REDIS_URL")
	if redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Redis initialization failed: %v", err)
			cache = nil
		}
	} else {
		log.Println("Warning: REDIS_URL not set, customer cache disabled")
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = appMiddleware.JSONErrorHandler

	// Initialize handlers
	customerHandler := handlers.NewCustomerHandler(gateway, store, cache)
	intentHandler := handlers.NewIntentHandler(gateway)
	cardHandler := handlers.NewCardHandler(gateway)
	webhookHandler := handlers.NewWebhookHandler(gateway, store, db)

	// Customer routes
	e.POST("/api/create-customer", customerHandler.CreateCustomer)
	e.POST("/api/get-or-create-customer", customerHandler.GetOrCreateCustomer)
	e.POST("/api/create-ephemeral-key", customerHandler.CreateEphemeralKey)

	// Intent routes
	e.POST("/api/create-payment-intent", intentHandler.CreatePaymentIntent)
	e.POST("/api/create-card-payment-intent", intentHandler.CreateCardPaymentIntent)
	e.POST("/api/create-setup-intent", intentHandler.CreateSetupIntent)

	// Saved-card routes
	e.POST("/api/list-saved-cards", cardHandler.ListSavedCards)
	e.POST("/api/attach-card", cardHandler.AttachCard)
	e.POST("/api/detach-card", cardHandler.DetachCard)
	e.POST("/api/set-default-card", cardHandler.SetDefaultCard)

	// Webhook route; the handler reads the raw body itself
	e.POST("/api/webhook", webhookHandler.HandleWebhook)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}

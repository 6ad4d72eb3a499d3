package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"event-marketplace/internal/cache"
	"event-marketplace/internal/config"
	"event-marketplace/internal/database"
	"event-marketplace/internal/handlers"
	"event-marketplace/internal/middleware"
	"event-marketplace/internal/queue"
	"event-marketplace/internal/repositories"
	"event-marketplace/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database connection
	dbConfig := database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}

	db, err := database.NewConnection(dbConfig)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()
	log.Println("Database connection established successfully")

	// Availability cache is advisory; the server runs without Redis.
	var availability services.AvailabilityCache
	redisCache := cache.NewAvailabilityCache(cfg.Redis)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisCache.Ping(pingCtx); err != nil {
		log.Printf("Warning: Redis unavailable, availability cache disabled: %v", err)
	} else {
		availability = redisCache
		defer redisCache.Close()
	}
	cancelPing()

	// Order confirmations go through Kafka; publish failures after checkout
	// are logged, never surfaced to the buyer.
	producer := queue.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic)
	defer producer.Close()
	connCtx, cancelConn := context.WithTimeout(context.Background(), 5*time.Second)
	if err := producer.CheckConnection(connCtx); err != nil {
		log.Printf("Warning: Kafka unreachable, order notifications will be dropped: %v", err)
	}
	cancelConn()

	// Initialize repositories
	cartRepo := repositories.NewCartRepository(db.DB)
	orderRepo := repositories.NewOrderRepository(db.DB)
	ticketRepo := repositories.NewTicketRepository(db.DB)
	eventRepo := repositories.NewEventRepository(db.DB)
	discountRepo := repositories.NewDiscountRepository(db.DB)
	userRepo := repositories.NewUserRepository(db.DB)

	// Initialize services
	pricingService := services.NewPricingService(ticketRepo, discountRepo)
	cartService := services.NewCartService(cartRepo, ticketRepo, pricingService)
	checkoutService := services.NewCheckoutService(cartRepo, orderRepo, userRepo, producer, availability)
	orderService := services.NewOrderService(orderRepo, availability)
	catalogueService := services.NewCatalogueService(eventRepo, ticketRepo, availability)

	// Initialize handlers
	cartHandler := handlers.NewCartHandler(cartService, checkoutService)
	orderHandler := handlers.NewOrderHandler(orderService)
	eventHandler := handlers.NewEventHandler(catalogueService)

	// Initialize middleware
	sessionMiddleware := middleware.NewSessionMiddleware(cfg.Session.Secret, cfg.Server.Env == "production")
	checkoutLimiter := middleware.NewCheckoutRateLimiter(10, time.Minute)

	r := chi.NewRouter()

	// Basic middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig()))

	// Public catalogue
	r.Get("/events", eventHandler.ListEvents)
	r.Get("/events/{eventID}", eventHandler.GetEvent)
	r.Get("/events/{eventID}/tickets", eventHandler.GetEventTickets)

	// Cart and checkout
	r.Route("/cart", func(r chi.Router) {
		r.Use(sessionMiddleware.WithCartKey)
		r.Get("/", cartHandler.GetCart)
		r.Get("/summary", cartHandler.GetCart)
		r.Post("/items", cartHandler.AddItem)
		r.Put("/items/{itemID}", cartHandler.UpdateItem)
		r.Delete("/items/{itemID}", cartHandler.RemoveItem)
		r.With(middleware.CheckoutRateLimit(checkoutLimiter)).Post("/checkout", cartHandler.Checkout)
	})

	// Orders
	r.Route("/orders", func(r chi.Router) {
		r.Get("/{bookingCode}", orderHandler.GetOrder)
		r.Post("/{bookingCode}/items/{itemID}/checkin", orderHandler.CheckIn)
		r.Post("/{bookingCode}/cancel", orderHandler.Cancel)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"event-marketplace"}`))
	})

	serverAddr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s (Environment: %s)", serverAddr, cfg.Server.Env)
	log.Fatal(http.ListenAndServe(serverAddr, r))
}

package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"event-marketplace/internal/config"
	"event-marketplace/internal/database"
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

	// Initialize repositories
	orderRepo := repositories.NewOrderRepository(db.DB)
	eventRepo := repositories.NewEventRepository(db.DB)
	ticketRepo := repositories.NewTicketRepository(db.DB)

	// Receipt storage is optional; without credentials receipts are only
	// attached to the email, not archived.
	var storage services.StorageService
	if cfg.Storage.AccessKeyID != "" {
		receiptStorage, err := services.NewReceiptStorage(cfg.Storage)
		if err != nil {
			log.Printf("Warning: receipt storage disabled: %v", err)
		} else {
			storage = receiptStorage
		}
	}

	artifactService := services.NewArtifactService(eventRepo, ticketRepo, cfg.QR.RenderURL, cfg.QR.Size)
	emailService := services.NewResendEmailService(services.ResendConfig{
		APIKey:    cfg.Resend.APIKey,
		FromEmail: cfg.Resend.FromEmail,
		FromName:  cfg.Resend.FromName,
	})
	notificationService := services.NewNotificationService(orderRepo, artifactService, storage, emailService)

	consumer := queue.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.OrdersTopic)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Shut down cleanly on SIGINT/SIGTERM
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Printf("Received %s, shutting down", sig)
		cancel()
	}()

	log.Printf("Notification worker consuming %s (group %s)", cfg.Kafka.OrdersTopic, cfg.Kafka.GroupID)
	if err := consumer.Consume(ctx, notificationService.HandleOrderConfirmed); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Consumer stopped: %v", err)
	}
	log.Println("Notification worker stopped")
}

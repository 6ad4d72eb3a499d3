package services

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"event-marketplace/internal/models"
)

// ArtifactBuilder renders QR codes and receipts for an order
type ArtifactBuilder interface {
	BuildTicketArtifacts(ctx context.Context, order *models.Order, items []*models.OrderItem) (*TicketArtifacts, error)
}

// NotificationService consumes confirmed orders from the queue and sends
// the confirmation email with its attachments. The order is already
// committed when this runs; a failure here is retried by the consumer and
// never touches the order itself.
type NotificationService struct {
	orderRepo OrderRepository
	artifacts ArtifactBuilder
	storage   StorageService
	email     EmailService
}

// NewNotificationService creates a new notification service. storage may be
// nil; receipts are then only attached, not archived.
func NewNotificationService(orderRepo OrderRepository, artifacts ArtifactBuilder, storage StorageService, email EmailService) *NotificationService {
	return &NotificationService{
		orderRepo: orderRepo,
		artifacts: artifacts,
		storage:   storage,
		email:     email,
	}
}

// HandleOrderConfirmed processes one confirmation message end to end.
// The order state is reloaded from the database rather than trusted from
// the message, so redelivery of the same message is harmless.
func (s *NotificationService) HandleOrderConfirmed(ctx context.Context, msg *OrderConfirmedMessage) error {
	order, err := s.orderRepo.GetByID(msg.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load order %d: %w", msg.OrderID, err)
	}
	if !order.IsConfirmed() {
		// Cancelled between confirmation and delivery; nothing to send
		log.Printf("notifier: skipping order %d in status %s", order.ID, order.Status)
		return nil
	}

	items, err := s.orderRepo.GetItems(order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items for %d: %w", order.ID, err)
	}

	artifacts, err := s.artifacts.BuildTicketArtifacts(ctx, order, items)
	if err != nil {
		return fmt.Errorf("failed to build artifacts for order %d: %w", order.ID, err)
	}

	email := &OrderConfirmationEmail{
		To:          order.ContactEmail,
		Name:        order.ContactName,
		BookingCode: order.BookingCode,
		Total:       order.Total,
		Lines:       artifacts.Lines,
	}

	if artifacts.PDF != nil {
		email.Attachments = append(email.Attachments, EmailAttachment{
			Filename: fmt.Sprintf("tickets-%s.pdf", order.BookingCode),
			Content:  artifacts.PDF,
		})
		s.archiveReceipt(ctx, order, artifacts.PDF)
	} else {
		email.Attachments = append(email.Attachments, EmailAttachment{
			Filename: fmt.Sprintf("tickets-%s.txt", order.BookingCode),
			Content:  artifacts.TextReceipt,
		})
	}

	if err := s.email.SendOrderConfirmation(email); err != nil {
		return fmt.Errorf("failed to send confirmation for order %d: %w", order.ID, err)
	}

	if msg.AccountCreated {
		if err := s.email.SendAccountCreated(order.ContactEmail, order.ContactName); err != nil {
			// The confirmation already went out, do not retry the whole
			// message for this
			log.Printf("notifier: account created email failed for order %d: %v", order.ID, err)
		}
	}

	return nil
}

// archiveReceipt stores the PDF receipt for later retrieval. Best effort.
func (s *NotificationService) archiveReceipt(ctx context.Context, order *models.Order, pdf []byte) {
	if s.storage == nil {
		return
	}

	key := fmt.Sprintf("receipts/%s.pdf", order.BookingCode)
	url, err := s.storage.Upload(ctx, key, bytes.NewReader(pdf), "application/pdf", int64(len(pdf)))
	if err != nil {
		log.Printf("notifier: receipt archive failed for order %d: %v", order.ID, err)
		return
	}
	log.Printf("notifier: archived receipt for order %d at %s", order.ID, url)
}

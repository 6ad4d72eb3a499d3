package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"event-marketplace/internal/models"
)

// QRArtifact is the rendered QR code for one order item. PNG is nil when
// rendering failed; FallbackURL then points at the render endpoint so the
// email can link instead of embed.
type QRArtifact struct {
	ItemID      int
	Payload     string
	PNG         []byte
	FallbackURL string
}

// TicketArtifacts bundles everything attached to a confirmation email.
// PDF is nil when rendering failed; TextReceipt is always set.
type TicketArtifacts struct {
	QRByItem    map[int]*QRArtifact
	Lines       []ConfirmationLine
	PDF         []byte
	TextReceipt []byte
}

// ArtifactService builds QR codes and receipts for confirmed orders. It is
// read-only over the catalogue; building artifacts twice for the same order
// state yields the same output.
type ArtifactService struct {
	eventRepo  EventRepository
	ticketRepo TicketRepository
	renderURL  string
	qrSize     string
	client     *http.Client
}

// NewArtifactService creates a new artifact service
func NewArtifactService(eventRepo EventRepository, ticketRepo TicketRepository, renderURL, qrSize string) *ArtifactService {
	return &ArtifactService{
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
		renderURL:  renderURL,
		qrSize:     qrSize,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// BuildTicketArtifacts renders one QR per order item plus a PDF receipt.
// Individual render failures degrade the output instead of failing it; the
// caller always gets at least a plain-text receipt.
func (s *ArtifactService) BuildTicketArtifacts(ctx context.Context, order *models.Order, items []*models.OrderItem) (*TicketArtifacts, error) {
	artifacts := &TicketArtifacts{
		QRByItem: make(map[int]*QRArtifact, len(items)),
	}

	contexts := make([]receiptLine, 0, len(items))
	for _, item := range items {
		event, err := s.eventRepo.GetByID(item.EventID)
		if err != nil {
			return nil, fmt.Errorf("failed to load event %d: %w", item.EventID, err)
		}
		ticket, err := s.ticketRepo.GetByID(item.TicketID)
		if err != nil {
			return nil, fmt.Errorf("failed to load ticket %d: %w", item.TicketID, err)
		}
		contexts = append(contexts, receiptLine{item: item, event: event, ticket: ticket})
	}

	for _, ic := range contexts {
		payload := s.qrPayload(order, ic.item, ic.event, ic.ticket)
		qr := &QRArtifact{
			ItemID:      ic.item.ID,
			Payload:     payload,
			FallbackURL: s.renderEndpoint(payload),
		}
		png, err := s.renderQR(ctx, payload)
		if err != nil {
			log.Printf("artifacts: QR render failed for order item %d: %v", ic.item.ID, err)
		} else {
			qr.PNG = png
		}
		artifacts.QRByItem[ic.item.ID] = qr

		line := ConfirmationLine{
			EventTitle: ic.event.Title,
			TicketName: ic.ticket.Name,
			Quantity:   ic.item.Quantity,
			Price:      ic.item.Price,
		}
		if qr.PNG == nil {
			line.QRFallback = qr.FallbackURL
		}
		artifacts.Lines = append(artifacts.Lines, line)
	}

	pdf, err := s.buildReceiptPDF(order, contexts, artifacts.QRByItem)
	if err != nil {
		log.Printf("artifacts: PDF receipt failed for order %d, using text fallback: %v", order.ID, err)
	} else {
		artifacts.PDF = pdf
	}

	var text bytes.Buffer
	text.WriteString("ORDER CONFIRMATION\n\n")
	fmt.Fprintf(&text, "Booking code: %s\n", order.BookingCode)
	fmt.Fprintf(&text, "Name: %s\n", order.ContactName)
	fmt.Fprintf(&text, "Email: %s\n\n", order.ContactEmail)
	for _, ic := range contexts {
		fmt.Fprintf(&text, "%dx %s - %s (%s) EUR %.2f each\n",
			ic.item.Quantity, ic.event.Title, ic.ticket.Name,
			ic.event.StartDate.Format("2 Jan 2006 15:04"),
			float64(ic.item.Price)/100.0)
	}
	fmt.Fprintf(&text, "\nTotal: %s\n", order.DisplayTotal())
	artifacts.TextReceipt = text.Bytes()

	return artifacts, nil
}

// qrPayload serializes the data scanned at the door. It carries enough to
// identify the booking without a database round-trip.
func (s *ArtifactService) qrPayload(order *models.Order, item *models.OrderItem, event *models.Event, ticket *models.Ticket) string {
	fields := []string{
		"booking=" + order.BookingCode,
		fmt.Sprintf("order=%d", order.ID),
		fmt.Sprintf("item=%d", item.ID),
		"name=" + order.ContactName,
		"email=" + order.ContactEmail,
		"event=" + event.Title,
		"start=" + event.StartDate.Format(time.RFC3339),
		"ticket=" + ticket.Name,
	}
	return strings.Join(fields, "|")
}

func (s *ArtifactService) renderEndpoint(payload string) string {
	q := url.Values{}
	q.Set("data", payload)
	q.Set("size", s.qrSize)
	return s.renderURL + "?" + q.Encode()
}

// renderQR fetches a PNG from the remote QR endpoint
func (s *ArtifactService) renderQR(ctx context.Context, payload string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.renderEndpoint(payload), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("QR render request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("QR render returned status %d", resp.StatusCode)
	}

	// 1 MB is far beyond any sane QR PNG
	png, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read QR response: %w", err)
	}
	if len(png) == 0 {
		return nil, fmt.Errorf("QR render returned empty body")
	}
	return png, nil
}

// receiptLine joins an order item with its event and ticket for rendering
type receiptLine struct {
	item   *models.OrderItem
	event  *models.Event
	ticket *models.Ticket
}

func (s *ArtifactService) buildReceiptPDF(order *models.Order, contexts []receiptLine, qrs map[int]*QRArtifact) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Order "+order.BookingCode, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "ORDER CONFIRMATION")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Booking code : "+order.BookingCode)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Name         : "+order.ContactName)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Email        : "+order.ContactEmail)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Ordered      : "+order.CreatedAt.Format("2 Jan 2006 15:04"))
	pdf.Ln(12)

	for _, ic := range contexts {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, fmt.Sprintf("%dx %s", ic.item.Quantity, ic.event.Title))
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 6, fmt.Sprintf("%s, %s", ic.ticket.Name, ic.event.StartDate.Format("Monday, 2 January 2006 at 15:04")))
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("EUR %.2f per ticket", float64(ic.item.Price)/100.0))
		pdf.Ln(6)

		for i, guest := range ic.item.GuestDetails {
			pdf.Cell(0, 6, fmt.Sprintf("Seat %d: %s", i+1, guest.Name))
			pdf.Ln(6)
		}

		if qr := qrs[ic.item.ID]; qr != nil && qr.PNG != nil {
			name := fmt.Sprintf("qr-%d", ic.item.ID)
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(qr.PNG))
			pdf.ImageOptions(name, pdf.GetX(), pdf.GetY()+2, 40, 40, false, opts, 0, "")
			pdf.Ln(46)
		} else if qr := qrs[ic.item.ID]; qr != nil {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.MultiCell(0, 5, "QR: "+qr.FallbackURL, "", "", false)
			pdf.SetFont("Helvetica", "", 11)
			pdf.Ln(2)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Total: "+order.DisplayTotal())
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Present the QR code of each seat at the entrance.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	intconfig "fieldbooking/internal/config"
	"fieldbooking/internal/domain"
	"fieldbooking/internal/domain/models"
	"fieldbooking/internal/repositories"
	"fieldbooking/internal/utils"
)

// DocsService renders the payment-slip PDF for a booking.
type DocsService struct {
	BookingRepo repositories.BookingRepository
	FieldRepo   repositories.FieldRepository
	DB          *sql.DB
	RequestID   string
}

func (s DocsService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s DocsService) bookings() repositories.BookingRepository {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepository{DB: s.db()}
}

func (s DocsService) fields() repositories.FieldRepository {
	if s.FieldRepo.DB != nil {
		return s.FieldRepo
	}
	return repositories.FieldRepository{DB: s.db()}
}

// GenerateReceipt returns PDF bytes and a download filename. Only the
// booking owner or an admin may fetch it.
func (s DocsService) GenerateReceipt(ctx context.Context, callerID, callerRole, bookingID string) ([]byte, string, error) {
	booking, err := s.bookings().GetByID(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	if callerRole != models.RoleAdmin && booking.UserID != callerID {
		return nil, "", domain.ForbiddenError{Msg: "receipt belongs to another user"}
	}

	fieldName := booking.FieldID
	if field, err := s.fields().GetByID(ctx, booking.FieldID); err == nil {
		fieldName = field.Name
		if field.Branch != nil {
			fieldName += " @ " + field.Branch.Name
		}
	}

	utils.LogEvent(s.RequestID, "docs", "generate_receipt", fmt.Sprintf("booking_id=%s", bookingID))

	pdfBytes, err := buildReceiptPDF(booking, fieldName)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "render receipt", Err: err}
	}
	return pdfBytes, fmt.Sprintf("receipt-%s.pdf", booking.ID), nil
}

func buildReceiptPDF(b models.Booking, fieldName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Booking Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	row("Booking ID", b.ID)
	row("Field", fieldName)
	row("Amount", fmt.Sprintf("%.2f THB", b.Amount))
	row("Status", string(b.Status))
	row("Created", utils.FormatDateTime(b.CreatedAt))
	for _, slot := range b.Slots {
		row("Slot", fmt.Sprintf("%s - %s", utils.FormatDateTime(slot.StartTime), utils.FormatDateTime(slot.EndTime)))
	}

	if b.QRPayload != "" {
		png, err := qrcode.Encode(b.QRPayload, qrcode.Medium, 512)
		if err != nil {
			return nil, err
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("payment-qr", opts, bytes.NewReader(png))
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 8, "Scan to pay (PromptPay)", "", 1, "L", false, 0, "")
		pdf.ImageOptions("payment-qr", pdf.GetX(), pdf.GetY(), 60, 60, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

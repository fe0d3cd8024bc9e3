package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	intconfig "fieldbooking/internal/config"
	"fieldbooking/internal/domain"
	"fieldbooking/internal/domain/models"
	"fieldbooking/internal/payments"
	"fieldbooking/internal/repositories"
	"fieldbooking/internal/utils"
)

// Notifier is the outbound push sink. Implementations must be safe to call
// concurrently; callers never act on a failure.
type Notifier interface {
	PushMessage(ctx context.Context, recipients []string, text string)
}

// EventPublisher hands lifecycle events to a broker, fire-and-forget.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// QRBuilder produces the payment artifact attached to a new booking.
type QRBuilder interface {
	BuildPaymentQR(amount float64) (payments.QR, error)
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
	defaultStale    = 15 * time.Minute
)

// BookingService owns the booking state machine. Every status mutation in
// the system goes through one of its operations; the reaper reuses the same
// repository transition primitives, so the guards live in one place.
type BookingService struct {
	BookingRepo repositories.BookingRepository
	FieldRepo   repositories.FieldRepository
	DB          *sql.DB

	QR         QRBuilder
	Notifier   Notifier
	Events     EventPublisher
	Recipients []string

	StaleAfter time.Duration
	Now        func() time.Time
	RequestID  string
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) bookings() repositories.BookingRepository {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepository{DB: s.db()}
}

func (s BookingService) fields() repositories.FieldRepository {
	if s.FieldRepo.DB != nil {
		return s.FieldRepo
	}
	return repositories.FieldRepository{DB: s.db()}
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s BookingService) staleAfter() time.Duration {
	if s.StaleAfter > 0 {
		return s.StaleAfter
	}
	return defaultStale
}

type CreateBookingInput struct {
	UserID    string
	FieldID   string
	Amount    float64
	StartTime time.Time
	EndTime   time.Time
}

// Create validates the requested slot, generates the payment QR, and writes
// booking + slot atomically. The overlap check runs inside the same
// transaction as the insert, so concurrent conflicting requests cannot both
// succeed. Notification dispatch happens after commit and can never fail
// the booking.
func (s BookingService) Create(ctx context.Context, in CreateBookingInput) (models.Booking, error) {
	if strings.TrimSpace(in.FieldID) == "" {
		return models.Booking{}, domain.ValidationError{Field: "fieldId", Msg: "must not be empty"}
	}
	if in.Amount <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "amount", Msg: "must be greater than 0"}
	}
	if !in.StartTime.Before(in.EndTime) {
		return models.Booking{}, domain.ValidationError{Field: "startTime", Msg: "must be before endTime"}
	}
	now := s.now()
	if !in.StartTime.After(now) {
		return models.Booking{}, domain.ValidationError{Field: "startTime", Msg: "must be in the future"}
	}

	var qr payments.QR
	if s.QR != nil {
		var err error
		qr, err = s.QR.BuildPaymentQR(in.Amount)
		if err != nil {
			return models.Booking{}, domain.InternalError{Msg: "build payment qr", Err: err}
		}
	}

	booking := models.Booking{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		FieldID:   in.FieldID,
		Amount:    in.Amount,
		Status:    models.BookingStatusPending,
		QRPayload: qr.Payload,
		QRDataURL: qr.DataURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	slot := models.Slot{
		ID:        uuid.NewString(),
		BookingID: booking.ID,
		StartTime: in.StartTime.UTC(),
		EndTime:   in.EndTime.UTC(),
	}

	if err := s.bookings().Create(ctx, &booking, &slot); err != nil {
		return models.Booking{}, err
	}
	booking.Slots = []models.Slot{slot}

	go s.dispatch(context.WithoutCancel(ctx), "booking.created", s.createdText(booking, slot), booking)

	return booking, nil
}

// CancelByOwner transitions a pending booking to cancelled. A booking owned
// by someone else is reported as not found rather than forbidden, so ids
// cannot be probed.
func (s BookingService) CancelByOwner(ctx context.Context, userID, bookingID string) (models.Booking, error) {
	booking, err := s.bookings().GetByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if booking.UserID != userID {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	if booking.Status != models.BookingStatusPending {
		return models.Booking{}, domain.InvalidStateError{Resource: "booking", Msg: "only pending booking can be cancelled"}
	}

	ok, err := s.bookings().UpdateStatusIfPending(ctx, bookingID, models.BookingStatusCancelled)
	if err != nil {
		return models.Booking{}, err
	}
	if !ok {
		// Lost the race against the reaper or an admin; the guard held.
		return models.Booking{}, domain.InvalidStateError{Resource: "booking", Msg: "only pending booking can be cancelled"}
	}

	booking.Status = models.BookingStatusCancelled
	go s.dispatch(context.WithoutCancel(ctx), "booking.cancelled",
		fmt.Sprintf("Booking cancelled by owner\n- Booking: %s", booking.ID), booking)

	return booking, nil
}

// SetStatusByAdmin applies the new status unconditionally: admins may
// correct mistakes, including re-cancelling an already-cancelled booking.
// Only confirmed and cancelled are assignable; nothing reopens to pending.
func (s BookingService) SetStatusByAdmin(ctx context.Context, bookingID string, status models.BookingStatus, reason string) (models.Booking, error) {
	if !status.AdminAssignable() {
		return models.Booking{}, domain.ValidationError{Field: "status", Msg: "must be confirmed or cancelled"}
	}

	booking, err := s.bookings().GetByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}

	if err := s.bookings().UpdateStatus(ctx, bookingID, status); err != nil {
		return models.Booking{}, err
	}
	booking.Status = status

	text := fmt.Sprintf("Admin changed booking status\n- Booking: %s\n- New status: %s", booking.ID, status)
	if strings.TrimSpace(reason) != "" {
		text += "\n- Reason: " + reason
	}
	go s.dispatch(context.WithoutCancel(ctx), "booking.status_changed", text, booking)

	return booking, nil
}

// ListMine pages through the caller's bookings, newest first.
func (s BookingService) ListMine(ctx context.Context, userID, statusFilter string, page, pageSize int) (models.BookingPage, error) {
	var status models.BookingStatus
	if statusFilter != "" {
		status = models.BookingStatus(statusFilter)
		if !status.Valid() {
			return models.BookingPage{}, domain.ValidationError{Field: "status", Msg: "unknown status"}
		}
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	items, total, err := s.bookings().ListByUser(ctx, userID, status, pageSize, (page-1)*pageSize)
	if err != nil {
		return models.BookingPage{}, err
	}

	return models.BookingPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// Availability returns the occupied windows of a field for one calendar day.
func (s BookingService) Availability(ctx context.Context, fieldID, date string) ([]models.TimeRange, error) {
	if strings.TrimSpace(fieldID) == "" {
		return nil, domain.ValidationError{Field: "fieldId", Msg: "must not be empty"}
	}
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, domain.ValidationError{Field: "date", Msg: "must be YYYY-MM-DD", Err: err}
	}
	if _, err := s.fields().GetByID(ctx, fieldID); err != nil {
		return nil, err
	}

	from, to := utils.DayBounds(day)
	return s.bookings().ActiveRanges(ctx, fieldID, from, to)
}

// CancelStale force-cancels pending bookings older than the stale
// threshold. The sweep is one batched update; zero matches means zero
// writes and zero notifications. Intended to be driven by the reaper tick.
func (s BookingService) CancelStale(ctx context.Context) ([]string, error) {
	deadline := s.now().Add(-s.staleAfter())
	ids, err := s.bookings().CancelStalePending(ctx, deadline)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	utils.LogEvent(s.RequestID, "booking", "reap", fmt.Sprintf("auto-cancelled %d stale booking(s)", len(ids)))
	text := fmt.Sprintf("Auto-cancelled %d stale pending booking(s)\n- %s", len(ids), strings.Join(ids, ", "))
	go s.dispatch(context.WithoutCancel(ctx), "booking.reaped", text, map[string]any{"bookingIds": ids})

	return ids, nil
}

// dispatch hands the event to the broker and the push sink. Both legs are
// best-effort; errors end up in the log and nowhere else.
func (s BookingService) dispatch(ctx context.Context, key, text string, payload any) {
	if s.Events != nil {
		if err := s.Events.PublishJSON(ctx, key, payload); err != nil {
			utils.LogEvent(s.RequestID, "booking", "publish_event", fmt.Sprintf("%s failed: %v", key, err))
		}
	}
	if s.Notifier != nil {
		s.Notifier.PushMessage(ctx, s.Recipients, text)
	}
}

func (s BookingService) createdText(b models.Booking, slot models.Slot) string {
	fieldName := b.FieldID
	if field, err := s.fields().GetByID(context.Background(), b.FieldID); err == nil {
		fieldName = field.Name
		if field.Branch != nil {
			fieldName += " @ " + field.Branch.Name
		}
	}
	return fmt.Sprintf("New booking\n- Booking: %s\n- Field: %s\n- Amount: %.2f\n- Status: %s\n- Time: %s - %s",
		b.ID, fieldName, b.Amount, b.Status,
		utils.FormatDateTime(slot.StartTime), utils.FormatDateTime(slot.EndTime))
}

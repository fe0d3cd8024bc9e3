package models

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// Active statuses are the ones whose slots block the field's calendar.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// AdminAssignable restricts what an admin override may set: confirmed or
// cancelled, never back to pending.
func (s BookingStatus) AdminAssignable() bool {
	return s == BookingStatusConfirmed || s == BookingStatusCancelled
}

// Booking owns one or more slots. Cancellation is a status change, never a
// delete; cancelled bookings and their slots are kept for audit.
type Booking struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	FieldID   string        `json:"fieldId"`
	Amount    float64       `json:"amount"`
	Status    BookingStatus `json:"status"`
	QRPayload string        `json:"qrPayload,omitempty"`
	QRDataURL string        `json:"promptPayQrUrl,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Slots     []Slot        `json:"slots,omitempty"`
}

// Slot is a concrete [start, end) time range attached to one booking.
type Slot struct {
	ID        string    `json:"id"`
	BookingID string    `json:"bookingId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Overlaps uses half-open semantics: back-to-back ranges (end == start) do
// not overlap.
func (s Slot) Overlaps(start, end time.Time) bool {
	return s.StartTime.Before(end) && start.Before(s.EndTime)
}

// TimeRange is an occupied window reported by the availability endpoint.
type TimeRange struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// BookingPage is the offset-paginated result of a booking listing.
type BookingPage struct {
	Items      []Booking `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
}

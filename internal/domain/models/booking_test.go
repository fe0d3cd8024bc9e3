package models

import (
	"testing"
	"time"
)

func TestBookingStatusGuards(t *testing.T) {
	if BookingStatus("paid").Valid() {
		t.Fatalf("unknown status must not be valid")
	}
	if !BookingStatusPending.Active() || !BookingStatusConfirmed.Active() {
		t.Fatalf("pending and confirmed must block the calendar")
	}
	if BookingStatusCancelled.Active() {
		t.Fatalf("cancelled must release the calendar")
	}
	if BookingStatusPending.AdminAssignable() {
		t.Fatalf("admin override must not reopen to pending")
	}
	if !BookingStatusConfirmed.AdminAssignable() || !BookingStatusCancelled.AdminAssignable() {
		t.Fatalf("admin override must allow confirmed and cancelled")
	}
}

func TestSlotOverlapsHalfOpen(t *testing.T) {
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	slot := Slot{StartTime: base, EndTime: base.Add(time.Hour)}

	if !slot.Overlaps(base.Add(30*time.Minute), base.Add(90*time.Minute)) {
		t.Fatalf("partial overlap must be detected")
	}
	if !slot.Overlaps(base.Add(-time.Hour), base.Add(2*time.Hour)) {
		t.Fatalf("containing range must be detected")
	}
	if slot.Overlaps(base.Add(time.Hour), base.Add(2*time.Hour)) {
		t.Fatalf("back-to-back after must not overlap")
	}
	if slot.Overlaps(base.Add(-time.Hour), base) {
		t.Fatalf("back-to-back before must not overlap")
	}
}

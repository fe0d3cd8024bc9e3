package repositories

import (
	"context"
	"database/sql"
	"strings"
	"time"

	intconfig "fieldbooking/internal/config"
	"fieldbooking/internal/domain"
	"fieldbooking/internal/domain/models"
)

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Create inserts the booking and its slot as one atomic unit. The overlap
// check runs inside the same serializable transaction as the inserts, so two
// concurrent requests for conflicting ranges on one field cannot both pass
// it: the locking read blocks the second transaction until the first commits.
func (r BookingRepository) Create(ctx context.Context, b *models.Booking, slot *models.Slot) error {
	tx, err := r.db().BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return domain.InternalError{Msg: "begin booking tx", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	var fieldID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM fields WHERE id = ?`, b.FieldID).Scan(&fieldID)
	if err == sql.ErrNoRows {
		return domain.NotFoundError{Resource: "field"}
	}
	if err != nil {
		return domain.InternalError{Msg: "check field", Err: err}
	}

	conflict, err := hasOverlap(ctx, tx, b.FieldID, slot.StartTime, slot.EndTime)
	if err != nil {
		return domain.InternalError{Msg: "overlap check", Err: err}
	}
	if conflict {
		return domain.ConflictError{Resource: "slot", Msg: "time range overlaps an existing booking"}
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO bookings (id, user_id, field_id, amount, status, qr_payload, qr_data_url, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, b.ID, b.UserID, b.FieldID, b.Amount, b.Status, b.QRPayload, b.QRDataURL, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return domain.InternalError{Msg: "insert booking", Err: err}
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO booking_slots (id, booking_id, start_time, end_time)
        VALUES (?, ?, ?, ?)
    `, slot.ID, slot.BookingID, slot.StartTime, slot.EndTime)
	if err != nil {
		return domain.InternalError{Msg: "insert slot", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return domain.InternalError{Msg: "commit booking tx", Err: err}
	}
	return nil
}

/// hasOverlap is the half-open interval test over slots of active bookings:
// existing.start < newEnd AND newStart < existing.end. Back-to-back slots do
// not conflict. FOR UPDATE keeps the matched rows locked until commit.
func hasOverlap(ctx context.Context, tx *sql.Tx, fieldID string, start, end time.Time) (bool, error) {
	var slotID string
	err := tx.QueryRowContext(ctx, `
        SELECT s.id
        FROM booking_slots s
        JOIN bookings b ON b.id = s.booking_id
        WHERE b.field_id = ?
          AND b.status IN ('pending', 'confirmed')
          AND s.start_time < ?
          AND ? < s.end_time
        LIMIT 1
        FOR UPDATE
    `, fieldID, end, start).Scan(&slotID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r BookingRepository) GetByID(ctx context.Context, id string) (models.Booking, error) {
	var b models.Booking
	err := r.db().QueryRowContext(ctx, `
        SELECT id, user_id, field_id, amount, status, qr_payload, qr_data_url, created_at, updated_at
        FROM bookings
        WHERE id = ?
    `, id).Scan(&b.ID, &b.UserID, &b.FieldID, &b.Amount, &b.Status, &b.QRPayload, &b.QRDataURL, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	if err != nil {
		return models.Booking{}, domain.InternalError{Msg: "get booking", Err: err}
	}

	slots, err := r.slotsByBooking(ctx, b.ID)
	if err != nil {
		return models.Booking{}, err
	}
	b.Slots = slots
	return b, nil
}

// UpdateStatusIfPending applies status only when the booking is still
// pending. The reaper and an owner cancellation may race on one id; the
// guard in the WHERE clause makes the loser a no-op.
func (r BookingRepository) UpdateStatusIfPending(ctx context.Context, id string, status models.BookingStatus) (bool, error) {
	res, err := r.db().ExecContext(ctx, `
        UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = 'pending'
    `, status, time.Now().UTC(), id)
	if err != nil {
		return false, domain.InternalError{Msg: "update booking status", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.InternalError{Msg: "update booking status", Err: err}
	}
	return n > 0, nil
}

// UpdateStatus applies status unconditionally (admin override path). Zero
// affected rows is fine: it means the status already matched, and the row's
// existence was checked upstream.
func (r BookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	_, err := r.db().ExecContext(ctx, `
        UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?
    `, status, time.Now().UTC(), id)
	if err != nil {
		return domain.InternalError{Msg: "update booking status", Err: err}
	}
	return nil
}

// ListByUser returns the user's bookings newest first, with the total count
// for pagination.
func (r BookingRepository) ListByUser(ctx context.Context, userID string, status models.BookingStatus, limit, offset int) ([]models.Booking, int, error) {
	where := `WHERE user_id = ?`
	args := []any{userID}
	if status != "" {
		where += ` AND status = ?`
		args = append(args, status)
	}

	var total int
	if err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings `+where, args...).Scan(&total); err != nil {
		return nil, 0, domain.InternalError{Msg: "count bookings", Err: err}
	}

	rows, err := r.db().QueryContext(ctx, `
        SELECT id, user_id, field_id, amount, status, qr_payload, qr_data_url, created_at, updated_at
        FROM bookings `+where+`
        ORDER BY created_at DESC
        LIMIT ? OFFSET ?
    `, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, domain.InternalError{Msg: "list bookings", Err: err}
	}
	defer rows.Close()

	items := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.FieldID, &b.Amount, &b.Status, &b.QRPayload, &b.QRDataURL, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, domain.InternalError{Msg: "scan booking", Err: err}
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.InternalError{Msg: "list bookings", Err: err}
	}

	for i := range items {
		slots, err := r.slotsByBooking(ctx, items[i].ID)
		if err != nil {
			return nil, 0, err
		}
		items[i].Slots = slots
	}
	return items, total, nil
}

// CancelStalePending force-cancels pending bookings created before the
// deadline as one batched update and returns the affected ids. Re-running
// over an already-swept set is a no-op because the predicate excludes
// non-pending rows.
func (r BookingRepository) CancelStalePending(ctx context.Context, deadline time.Time) ([]string, error) {
	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.InternalError{Msg: "begin sweep tx", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
        SELECT id FROM bookings
        WHERE status = 'pending' AND created_at < ?
        FOR UPDATE
    `, deadline)
	if err != nil {
		return nil, domain.InternalError{Msg: "select stale bookings", Err: err}
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, domain.InternalError{Msg: "scan stale booking", Err: err}
		}
		ids = append(ids, id)
	}
	closeErr := rows.Err()
	rows.Close()
	if closeErr != nil {
		return nil, domain.InternalError{Msg: "select stale bookings", Err: closeErr}
	}

	if len(ids) == 0 {
		// Nothing stale: no writes at all.
		if err := tx.Commit(); err != nil {
			return nil, domain.InternalError{Msg: "commit sweep tx", Err: err}
		}
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, time.Now().UTC())
	for _, id := range ids {
		args = append(args, id)
	}
	_, err = tx.ExecContext(ctx, `
        UPDATE bookings SET status = 'cancelled', updated_at = ?
        WHERE id IN (`+placeholders+`) AND status = 'pending'
    `, args...)
	if err != nil {
		return nil, domain.InternalError{Msg: "cancel stale bookings", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.InternalError{Msg: "commit sweep tx", Err: err}
	}
	return ids, nil
}

// ActiveRanges lists occupied [start, end) windows of pending/confirmed
// bookings on the field that intersect the given window.
func (r BookingRepository) ActiveRanges(ctx context.Context, fieldID string, from, to time.Time) ([]models.TimeRange, error) {
	rows, err := r.db().QueryContext(ctx, `
        SELECT s.start_time, s.end_time
        FROM booking_slots s
        JOIN bookings b ON b.id = s.booking_id
        WHERE b.field_id = ?
          AND b.status IN ('pending', 'confirmed')
          AND s.start_time < ?
          AND ? < s.end_time
        ORDER BY s.start_time ASC
    `, fieldID, to, from)
	if err != nil {
		return nil, domain.InternalError{Msg: "list active ranges", Err: err}
	}
	defer rows.Close()

	var ranges []models.TimeRange
	for rows.Next() {
		var tr models.TimeRange
		if err := rows.Scan(&tr.StartTime, &tr.EndTime); err != nil {
			return nil, domain.InternalError{Msg: "scan range", Err: err}
		}
		ranges = append(ranges, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Msg: "list active ranges", Err: err}
	}
	return ranges, nil
}

func (r BookingRepository) slotsByBooking(ctx context.Context, bookingID string) ([]models.Slot, error) {
	rows, err := r.db().QueryContext(ctx, `
        SELECT id, booking_id, start_time, end_time
        FROM booking_slots
        WHERE booking_id = ?
        ORDER BY start_time ASC
    `, bookingID)
	if err != nil {
		return nil, domain.InternalError{Msg: "list slots", Err: err}
	}
	defer rows.Close()

	var slots []models.Slot
	for rows.Next() {
		var s models.Slot
		if err := rows.Scan(&s.ID, &s.BookingID, &s.StartTime, &s.EndTime); err != nil {
			return nil, domain.InternalError{Msg: "scan slot", Err: err}
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Msg: "list slots", Err: err}
	}
	return slots, nil
}

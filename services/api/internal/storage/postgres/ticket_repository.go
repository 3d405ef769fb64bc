package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TicketRepository backs the door-side verify and check-in paths, addressed
// purely by ticket key.
type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

func (r *TicketRepository) GetTicket(ctx context.Context, ticketKey string) (*domain.Ticket, error) {
	const query = `
SELECT b.id, b.ticket_key, b.course_id, b.session_id, b.attendee_email, b.status,
       b.payment_session_id, b.created_at, b.checked_in_at,
       c.title, COALESCE(c.location, '')
FROM bookings b
JOIN courses c ON c.id = b.course_id
WHERE b.ticket_key = $1`

	var t domain.Ticket
	var sessionID, paymentSessionID *string
	err := r.pool.QueryRow(ctx, query, ticketKey).Scan(
		&t.ID,
		&t.TicketKey,
		&t.CourseID,
		&sessionID,
		&t.AttendeeEmail,
		&t.Status,
		&paymentSessionID,
		&t.CreatedAt,
		&t.CheckedInAt,
		&t.CourseTitle,
		&t.CourseLocation,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if sessionID != nil {
		t.SessionID = *sessionID
	}
	if paymentSessionID != nil {
		t.PaymentSessionID = *paymentSessionID
	}
	return &t, nil
}

// CheckIn stamps the booking only while it is still paid, so of two
// concurrent scans exactly one writes the timestamp.
func (r *TicketRepository) CheckIn(ctx context.Context, bookingID string, at time.Time) (bool, error) {
	const stmt = `
UPDATE bookings
SET status = $2, checked_in_at = $3
WHERE id = $1 AND status = $4`

	tag, err := r.pool.Exec(ctx, stmt, bookingID, domain.BookingStatusCheckedIn, at, domain.BookingStatusPaid)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("check in: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

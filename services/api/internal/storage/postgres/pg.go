package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func isInvalidUUID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

const bookingColumns = `id, ticket_key, course_id, session_id, attendee_email, status, payment_session_id, created_at, checked_in_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var sessionID, paymentSessionID *string
	err := row.Scan(
		&b.ID,
		&b.TicketKey,
		&b.CourseID,
		&sessionID,
		&b.AttendeeEmail,
		&b.Status,
		&paymentSessionID,
		&b.CreatedAt,
		&b.CheckedInAt,
	)
	if err != nil {
		return nil, err
	}
	if sessionID != nil {
		b.SessionID = *sessionID
	}
	if paymentSessionID != nil {
		b.PaymentSessionID = *paymentSessionID
	}
	return &b, nil
}

// findActiveBooking resolves the dedup invariant's lookup: the attendee's
// live booking for a unit, where the unit is a session for trial
// reservations and a course for workshop purchases.
func findActiveBooking(ctx context.Context, pool *pgxpool.Pool, email, unitID string) (*domain.Booking, error) {
	query := `
SELECT ` + bookingColumns + `
FROM bookings
WHERE attendee_email = $1
  AND (session_id = $2 OR (session_id IS NULL AND course_id = $2))
LIMIT 1`

	b, err := scanBooking(pool.QueryRow(ctx, query, email, unitID))
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find active booking: %w", err)
	}
	return b, nil
}

func insertBooking(ctx context.Context, pool *pgxpool.Pool, b domain.Booking) error {
	const stmt = `
INSERT INTO bookings (id, ticket_key, course_id, session_id, attendee_email, status, payment_session_id, created_at, checked_in_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var sessionID, paymentSessionID *string
	if b.SessionID != "" {
		sessionID = &b.SessionID
	}
	if b.PaymentSessionID != "" {
		paymentSessionID = &b.PaymentSessionID
	}

	_, err := pool.Exec(ctx, stmt,
		b.ID,
		b.TicketKey,
		b.CourseID,
		sessionID,
		b.AttendeeEmail,
		b.Status,
		paymentSessionID,
		b.CreatedAt,
		b.CheckedInAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyReserved
		}
		if isForeignKeyViolation(err) {
			return domain.ErrCourseNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func getCourse(ctx context.Context, pool *pgxpool.Pool, courseID string) (domain.Course, error) {
	const query = `
SELECT id, kind, title, COALESCE(location, ''), price_type, price_cents, currency, is_published, created_at
FROM courses
WHERE id = $1`

	var c domain.Course
	err := pool.QueryRow(ctx, query, courseID).Scan(
		&c.ID,
		&c.Kind,
		&c.Title,
		&c.Location,
		&c.PriceType,
		&c.PriceCents,
		&c.Currency,
		&c.Published,
		&c.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Course{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Course{}, domain.ErrCourseNotFound
		}
		return domain.Course{}, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

func getSession(ctx context.Context, pool *pgxpool.Pool, sessionID string) (domain.Session, error) {
	const query = `
SELECT id, course_id, starts_at, ends_at, capacity, taken_count
FROM sessions
WHERE id = $1`

	var s domain.Session
	err := pool.QueryRow(ctx, query, sessionID).Scan(
		&s.ID,
		&s.CourseID,
		&s.StartsAt,
		&s.EndsAt,
		&s.Capacity,
		&s.TakenCount,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Session{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// readCounter is used to classify a failed conditional seat write.
func readCounter(ctx context.Context, pool *pgxpool.Pool, sessionID string) (taken, capacity int, err error) {
	err = pool.QueryRow(ctx,
		`SELECT taken_count, capacity FROM sessions WHERE id = $1`, sessionID,
	).Scan(&taken, &capacity)
	if err != nil {
		if isInvalidUUID(err) {
			return 0, 0, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return 0, 0, domain.ErrSessionNotFound
		}
		return 0, 0, fmt.Errorf("read seat counter: %w", err)
	}
	return taken, capacity, nil
}

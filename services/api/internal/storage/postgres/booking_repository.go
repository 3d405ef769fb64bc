package postgres

import (
	"context"
	"fmt"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository backs the reservation coordinator. It owns the only
// code paths that mutate a session's taken_count: ClaimSeat and
// ReleaseSeat, both optimistic compare-and-swap writes.
type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) GetSession(ctx context.Context, sessionID string) (domain.Session, error) {
	return getSession(ctx, r.pool, sessionID)
}

func (r *BookingRepository) GetCourse(ctx context.Context, courseID string) (domain.Course, error) {
	return getCourse(ctx, r.pool, courseID)
}

func (r *BookingRepository) FindActiveBooking(ctx context.Context, email, unitID string) (*domain.Booking, error) {
	return findActiveBooking(ctx, r.pool, email, unitID)
}

func (r *BookingRepository) CreateBooking(ctx context.Context, booking domain.Booking) error {
	return insertBooking(ctx, r.pool, booking)
}

func (r *BookingRepository) DeleteBooking(ctx context.Context, bookingID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, bookingID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// ClaimSeat increments taken_count only if it still equals expectedTaken
// and stays below capacity. A zero-row outcome is re-read and classified:
// missing session, sold out, or a concurrent writer (ErrSeatConflict, the
// caller's signal to retry once or give up).
func (r *BookingRepository) ClaimSeat(ctx context.Context, sessionID string, expectedTaken int) (int, error) {
	const stmt = `
UPDATE sessions
SET taken_count = taken_count + 1
WHERE id = $1 AND taken_count = $2 AND taken_count < capacity
RETURNING taken_count`

	var newTaken int
	err := r.pool.QueryRow(ctx, stmt, sessionID, expectedTaken).Scan(&newTaken)
	if err == nil {
		return newTaken, nil
	}
	if isInvalidUUID(err) {
		return 0, domain.ErrInvalidID
	}
	if err != pgx.ErrNoRows {
		return 0, fmt.Errorf("claim seat: %w", err)
	}

	taken, capacity, err := readCounter(ctx, r.pool, sessionID)
	if err != nil {
		return 0, err
	}
	if taken >= capacity {
		return 0, domain.ErrSoldOut
	}
	return 0, domain.ErrSeatConflict
}

// ReleaseSeat decrements taken_count with the same conditional discipline,
// floor-clamped so the counter can never go negative.
func (r *BookingRepository) ReleaseSeat(ctx context.Context, sessionID string, expectedTaken int) (int, error) {
	const stmt = `
UPDATE sessions
SET taken_count = GREATEST(taken_count - 1, 0)
WHERE id = $1 AND taken_count = $2
RETURNING taken_count`

	var newTaken int
	err := r.pool.QueryRow(ctx, stmt, sessionID, expectedTaken).Scan(&newTaken)
	if err == nil {
		return newTaken, nil
	}
	if isInvalidUUID(err) {
		return 0, domain.ErrInvalidID
	}
	if err != pgx.ErrNoRows {
		return 0, fmt.Errorf("release seat: %w", err)
	}

	if _, _, err := readCounter(ctx, r.pool, sessionID); err != nil {
		return 0, err
	}
	return 0, domain.ErrSeatConflict
}

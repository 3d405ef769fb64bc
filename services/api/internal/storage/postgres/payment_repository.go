package postgres

import (
	"context"
	"fmt"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentRepository backs the payment service: pending bookings, the
// checkout-session correlation, and the idempotent paid transition.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) GetCourse(ctx context.Context, courseID string) (domain.Course, error) {
	return getCourse(ctx, r.pool, courseID)
}

func (r *PaymentRepository) FindActiveBooking(ctx context.Context, email, unitID string) (*domain.Booking, error) {
	return findActiveBooking(ctx, r.pool, email, unitID)
}

func (r *PaymentRepository) CreateBooking(ctx context.Context, booking domain.Booking) error {
	return insertBooking(ctx, r.pool, booking)
}

func (r *PaymentRepository) GetBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.pool.QueryRow(ctx, query, bookingID))
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (r *PaymentRepository) GetBookingByPaymentSession(ctx context.Context, paymentSessionID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE payment_session_id = $1`

	b, err := scanBooking(r.pool.QueryRow(ctx, query, paymentSessionID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by payment session: %w", err)
	}
	return b, nil
}

func (r *PaymentRepository) SetPaymentSession(ctx context.Context, bookingID, paymentSessionID string) error {
	const stmt = `UPDATE bookings SET payment_session_id = $2 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt, bookingID, paymentSessionID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("set payment session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// MarkPaid is the idempotency boundary for webhook redelivery: the status
// guard makes the pending_payment -> paid transition happen at most once,
// and never moves a booking backwards out of checked_in.
func (r *PaymentRepository) MarkPaid(ctx context.Context, bookingID string) (bool, error) {
	const stmt = `
UPDATE bookings
SET status = $2
WHERE id = $1 AND status = $3`

	tag, err := r.pool.Exec(ctx, stmt, bookingID, domain.BookingStatusPaid, domain.BookingStatusPendingPayment)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("mark paid: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

package app

import (
	"context"
	"log"
	"time"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/clock"
	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/domain"
)

type ReservationRepository interface {
	GetSession(ctx context.Context, sessionID string) (domain.Session, error)
	GetCourse(ctx context.Context, courseID string) (domain.Course, error)
	FindActiveBooking(ctx context.Context, email, unitID string) (*domain.Booking, error)
	CreateBooking(ctx context.Context, booking domain.Booking) error
	DeleteBooking(ctx context.Context, bookingID string) error
	// ClaimSeat increments the session seat counter conditioned on it still
	// being expectedTaken and below capacity. Returns the new counter value.
	ClaimSeat(ctx context.Context, sessionID string, expectedTaken int) (int, error)
	// ReleaseSeat is the floor-clamped counterpart, same conditional write.
	ReleaseSeat(ctx context.Context, sessionID string, expectedTaken int) (int, error)
}

// TicketMessage is what the notification boundary needs to render a ticket
// email. Delivery itself is out of scope; see the notify package.
type TicketMessage struct {
	CourseTitle string
	Location    string
	StartsAt    *time.Time
	TicketURL   string
}

type TicketNotifier interface {
	SendTicket(ctx context.Context, email string, msg TicketMessage) error
}

// ReservationService coordinates free trial reservations and cancellations
// against the seat ledger and the booking store.
type ReservationService struct {
	repo     ReservationRepository
	clock    clock.Clock
	notifier TicketNotifier
	siteURL  string
	logger   *log.Logger
}

func NewReservationService(repo ReservationRepository, clk clock.Clock, opts ...ReservationServiceOption) *ReservationService {
	svc := &ReservationService{
		repo:   repo,
		clock:  clk,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ReservationServiceOption func(*ReservationService)

// WithNotifier enables best-effort ticket notifications after a reservation.
func WithNotifier(n TicketNotifier) ReservationServiceOption {
	return func(s *ReservationService) {
		s.notifier = n
	}
}

// WithReservationSiteURL sets the public base URL used to build ticket links.
func WithReservationSiteURL(url string) ReservationServiceOption {
	return func(s *ReservationService) {
		s.siteURL = url
	}
}

// WithReservationLogger overrides the logger used for best-effort failures.
func WithReservationLogger(logger *log.Logger) ReservationServiceOption {
	return func(s *ReservationService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type ReserveInput struct {
	Email     string
	SessionID string
}

// Reserve claims one free trial seat. The capacity claim happens before the
// booking insert; if the insert fails the claim is compensated by a release,
// so a failed reservation never leaks a seat.
func (s *ReservationService) Reserve(ctx context.Context, in ReserveInput) (domain.Booking, error) {
	if in.Email == "" {
		return domain.Booking{}, domain.ErrEmailRequired
	}
	if in.SessionID == "" {
		return domain.Booking{}, domain.ErrInvalidID
	}

	session, err := s.repo.GetSession(ctx, in.SessionID)
	if err != nil {
		return domain.Booking{}, err
	}
	course, err := s.repo.GetCourse(ctx, session.CourseID)
	if err != nil {
		return domain.Booking{}, err
	}
	if !course.Published {
		return domain.Booking{}, domain.ErrNotPublished
	}
	if course.Kind != domain.KindCourse {
		return domain.Booking{}, domain.ErrNotReservable
	}

	existing, err := s.repo.FindActiveBooking(ctx, in.Email, session.ID)
	if err != nil {
		return domain.Booking{}, err
	}
	if existing != nil {
		return domain.Booking{}, domain.ErrAlreadyReserved
	}

	newTaken, err := s.claimSeat(ctx, session)
	if err != nil {
		return domain.Booking{}, err
	}

	booking := domain.Booking{
		ID:            newID(),
		TicketKey:     newTicketKey(),
		CourseID:      course.ID,
		SessionID:     session.ID,
		AttendeeEmail: in.Email,
		Status:        domain.BookingStatusReservedFree,
		CreatedAt:     s.clock.Now(),
	}

	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		s.releaseSeat(ctx, session.ID, newTaken)
		return domain.Booking{}, err
	}

	s.sendTicket(ctx, booking, course, session)
	return booking, nil
}

// Cancel removes the attendee's live booking for a unit and, for free trial
// reservations, releases the claimed seat. Paid and checked-in bookings
// cannot be canceled here (no refund flow).
func (s *ReservationService) Cancel(ctx context.Context, email, unitID string) error {
	if email == "" {
		return domain.ErrEmailRequired
	}
	if unitID == "" {
		return domain.ErrInvalidID
	}

	booking, err := s.repo.FindActiveBooking(ctx, email, unitID)
	if err != nil {
		return err
	}
	if booking == nil {
		return domain.ErrBookingNotFound
	}
	if booking.Status == domain.BookingStatusPaid || booking.Status == domain.BookingStatusCheckedIn {
		return domain.ErrNotCancelable
	}

	if err := s.repo.DeleteBooking(ctx, booking.ID); err != nil {
		return err
	}

	if booking.Status == domain.BookingStatusReservedFree && booking.SessionID != "" {
		session, err := s.repo.GetSession(ctx, booking.SessionID)
		if err != nil {
			s.logger.Printf("WARN: release seat session=%s: %v", booking.SessionID, err)
			return nil
		}
		s.releaseSeat(ctx, session.ID, session.TakenCount)
	}
	return nil
}

// claimSeat applies the conditional increment, retrying once after a
// re-read when another reservation won the first write.
func (s *ReservationService) claimSeat(ctx context.Context, session domain.Session) (int, error) {
	newTaken, err := s.repo.ClaimSeat(ctx, session.ID, session.TakenCount)
	if err != domain.ErrSeatConflict {
		return newTaken, err
	}

	fresh, err := s.repo.GetSession(ctx, session.ID)
	if err != nil {
		return 0, err
	}
	return s.repo.ClaimSeat(ctx, fresh.ID, fresh.TakenCount)
}

// releaseSeat is best-effort: one retry after a re-read, then log. A seat
// stuck at taken is repairable; a negative counter is not, which is why the
// release itself is floor-clamped in storage.
func (s *ReservationService) releaseSeat(ctx context.Context, sessionID string, expectedTaken int) {
	if _, err := s.repo.ReleaseSeat(ctx, sessionID, expectedTaken); err == nil || err != domain.ErrSeatConflict {
		if err != nil {
			s.logger.Printf("WARN: release seat session=%s: %v", sessionID, err)
		}
		return
	}

	fresh, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		s.logger.Printf("WARN: release seat session=%s: %v", sessionID, err)
		return
	}
	if _, err := s.repo.ReleaseSeat(ctx, fresh.ID, fresh.TakenCount); err != nil {
		s.logger.Printf("WARN: release seat session=%s: %v", sessionID, err)
	}
}

func (s *ReservationService) sendTicket(ctx context.Context, booking domain.Booking, course domain.Course, session domain.Session) {
	if s.notifier == nil {
		return
	}
	startsAt := session.StartsAt
	msg := TicketMessage{
		CourseTitle: course.Title,
		Location:    course.Location,
		StartsAt:    &startsAt,
		TicketURL:   TicketURL(s.siteURL, booking.TicketKey),
	}
	if err := s.notifier.SendTicket(ctx, booking.AttendeeEmail, msg); err != nil {
		s.logger.Printf("WARN: ticket notification to=%s: %v", booking.AttendeeEmail, err)
	}
}

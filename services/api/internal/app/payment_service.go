package app

import (
	"context"
	"strings"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/clock"
	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/domain"
)

type PaymentRepository interface {
	GetCourse(ctx context.Context, courseID string) (domain.Course, error)
	FindActiveBooking(ctx context.Context, email, unitID string) (*domain.Booking, error)
	CreateBooking(ctx context.Context, booking domain.Booking) error
	GetBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error)
	GetBookingByPaymentSession(ctx context.Context, paymentSessionID string) (*domain.Booking, error)
	SetPaymentSession(ctx context.Context, bookingID, paymentSessionID string) error
	// MarkPaid performs the one-way pending_payment -> paid transition as a
	// conditional write. Returns false when no row matched, which callers
	// must treat as "already applied or unknown", never as failure.
	MarkPaid(ctx context.Context, bookingID string) (bool, error)
}

// CheckoutSessionInput carries everything the provider needs to build a
// one-time-payment session correlated to a booking. BookingID and TicketKey
// travel as provider-opaque metadata so the confirmation event can be
// matched without a side lookup table.
type CheckoutSessionInput struct {
	BookingID     string
	TicketKey     string
	Title         string
	AmountCents   int
	Currency      string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

type CheckoutSession struct {
	ID          string
	RedirectURL string
}

// CheckoutProvider is the external payment provider's session API.
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (CheckoutSession, error)
}

// ConfirmationEvent is a verified provider event, reduced to the fields the
// confirmation handler acts on.
type ConfirmationEvent struct {
	Type             string
	PaymentStatus    string
	BookingID        string
	ReferenceID      string
	PaymentSessionID string
}

const (
	// EventCheckoutCompleted is the only event type the confirmation
	// handler acts on; everything else is acknowledged and ignored.
	EventCheckoutCompleted = "checkout.session.completed"
	// PaymentStatusPaid is the provider's payment status that triggers the
	// paid transition.
	PaymentStatusPaid = "paid"
)

// PaymentService owns the paid-workshop booking flow: creating the pending
// booking, bridging to the provider's checkout session, and applying the
// asynchronous confirmation exactly once.
type PaymentService struct {
	repo     PaymentRepository
	provider CheckoutProvider
	clock    clock.Clock
	siteURL  string
}

func NewPaymentService(repo PaymentRepository, provider CheckoutProvider, clk clock.Clock, opts ...PaymentServiceOption) *PaymentService {
	svc := &PaymentService{
		repo:     repo,
		provider: provider,
		clock:    clk,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type PaymentServiceOption func(*PaymentService)

// WithPaymentSiteURL sets the public base URL used for redirect targets.
func WithPaymentSiteURL(url string) PaymentServiceOption {
	return func(s *PaymentService) {
		s.siteURL = strings.TrimRight(url, "/")
	}
}

type StartCheckoutInput struct {
	Email    string
	CourseID string
}

type StartCheckoutResult struct {
	Booking     domain.Booking
	RedirectURL string
}

// StartCheckout creates (or reuses) a pending booking for a paid workshop
// and opens a provider checkout session for it. No seat is claimed here:
// capacity for paid offerings is bounded by the one-live-booking-per-
// attendee rule, not by a shared counter, since payment may never complete.
func (s *PaymentService) StartCheckout(ctx context.Context, in StartCheckoutInput) (StartCheckoutResult, error) {
	if in.Email == "" {
		return StartCheckoutResult{}, domain.ErrEmailRequired
	}
	if in.CourseID == "" {
		return StartCheckoutResult{}, domain.ErrInvalidID
	}

	course, err := s.repo.GetCourse(ctx, in.CourseID)
	if err != nil {
		return StartCheckoutResult{}, err
	}
	if !course.Published {
		return StartCheckoutResult{}, domain.ErrNotPublished
	}
	if course.Kind != domain.KindWorkshop {
		return StartCheckoutResult{}, domain.ErrNotPurchasable
	}
	if course.PriceType != domain.PricePaid || course.PriceCents <= 0 {
		return StartCheckoutResult{}, domain.ErrNotPurchasable
	}

	booking, err := s.pendingBooking(ctx, in.Email, course)
	if err != nil {
		return StartCheckoutResult{}, err
	}

	session, err := s.provider.CreateCheckoutSession(ctx, CheckoutSessionInput{
		BookingID:     booking.ID,
		TicketKey:     booking.TicketKey,
		Title:         course.Title,
		AmountCents:   course.PriceCents,
		Currency:      course.Currency,
		CustomerEmail: in.Email,
		SuccessURL:    s.siteURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.siteURL + "/checkout/cancel?courseId=" + course.ID,
	})
	if err != nil {
		return StartCheckoutResult{}, err
	}

	if err := s.repo.SetPaymentSession(ctx, booking.ID, session.ID); err != nil {
		return StartCheckoutResult{}, err
	}
	booking.PaymentSessionID = session.ID

	return StartCheckoutResult{Booking: booking, RedirectURL: session.RedirectURL}, nil
}

// pendingBooking returns the attendee's existing pending booking for the
// course, or inserts a fresh one. Reusing the pending booking lets an
// abandoned checkout be retried without minting a second ticket key, and
// keeps at most one live booking per (attendee, course).
func (s *PaymentService) pendingBooking(ctx context.Context, email string, course domain.Course) (domain.Booking, error) {
	existing, err := s.repo.FindActiveBooking(ctx, email, course.ID)
	if err != nil {
		return domain.Booking{}, err
	}
	if existing != nil {
		if existing.Status != domain.BookingStatusPendingPayment {
			return domain.Booking{}, domain.ErrAlreadyReserved
		}
		return *existing, nil
	}

	booking := domain.Booking{
		ID:            newID(),
		TicketKey:     newTicketKey(),
		CourseID:      course.ID,
		AttendeeEmail: email,
		Status:        domain.BookingStatusPendingPayment,
		CreatedAt:     s.clock.Now(),
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return domain.Booking{}, err
	}
	return booking, nil
}

// Confirm applies a verified provider event. It is safe under at-least-once
// delivery: the paid transition is a conditional write, and a redelivered
// event for an already-paid (or since checked-in) booking is a silent no-op.
func (s *PaymentService) Confirm(ctx context.Context, ev ConfirmationEvent) error {
	if ev.Type != EventCheckoutCompleted {
		return nil
	}
	if ev.PaymentStatus != PaymentStatusPaid {
		return nil
	}

	bookingID := ev.BookingID
	if bookingID == "" {
		bookingID = ev.ReferenceID
	}
	if bookingID == "" {
		return domain.ErrUncorrelatedEvent
	}

	updated, err := s.repo.MarkPaid(ctx, bookingID)
	if err != nil {
		if err == domain.ErrInvalidID {
			return domain.ErrUncorrelatedEvent
		}
		return err
	}
	if updated {
		return nil
	}

	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		if err == domain.ErrInvalidID {
			return domain.ErrUncorrelatedEvent
		}
		return err
	}
	if booking == nil {
		return domain.ErrUncorrelatedEvent
	}
	// Already paid or checked in: duplicate delivery, nothing to do.
	return nil
}

// LookupBySession is the synchronous poll path for the checkout success
// page. Pure read; a still-pending status simply means the webhook has not
// landed yet.
func (s *PaymentService) LookupBySession(ctx context.Context, paymentSessionID string) (domain.Booking, error) {
	if paymentSessionID == "" {
		return domain.Booking{}, domain.ErrInvalidID
	}
	booking, err := s.repo.GetBookingByPaymentSession(ctx, paymentSessionID)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking == nil {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return *booking, nil
}

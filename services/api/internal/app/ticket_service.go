package app

import (
	"context"
	"time"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/clock"
	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/domain"
)

type TicketRepository interface {
	GetTicket(ctx context.Context, ticketKey string) (*domain.Ticket, error)
	// CheckIn performs the one-way paid -> checked_in transition as a
	// conditional write. False means the booking was no longer paid at
	// write time (a concurrent scan won).
	CheckIn(ctx context.Context, bookingID string, at time.Time) (bool, error)
}

// TicketService is the door-side surface: verifying a scanned ticket and
// checking it in. Only paid tickets are admitted.
type TicketService struct {
	repo  TicketRepository
	clock clock.Clock
}

func NewTicketService(repo TicketRepository, clk clock.Clock) *TicketService {
	return &TicketService{
		repo:  repo,
		clock: clk,
	}
}

type VerifyResult struct {
	Found       bool
	Status      domain.BookingStatus
	CheckedInAt *time.Time
	Title       string
	Location    string
}

// Verify is the pure read behind the attendee status page and the scan
// pre-check. It never mutates.
func (s *TicketService) Verify(ctx context.Context, ticketKey string) (VerifyResult, error) {
	if ticketKey == "" {
		return VerifyResult{}, domain.ErrInvalidID
	}
	ticket, err := s.repo.GetTicket(ctx, ticketKey)
	if err != nil {
		return VerifyResult{}, err
	}
	if ticket == nil {
		return VerifyResult{}, nil
	}
	return VerifyResult{
		Found:       true,
		Status:      ticket.Status,
		CheckedInAt: ticket.CheckedInAt,
		Title:       ticket.CourseTitle,
		Location:    ticket.CourseLocation,
	}, nil
}

type CheckInResult struct {
	Found            bool
	OK               bool
	AlreadyCheckedIn bool
	Status           domain.BookingStatus
	CheckedInAt      *time.Time
	Title            string
	Location         string
}

// CheckIn admits a paid ticket exactly once. Re-scans return the original
// timestamp; a concurrent duplicate scan loses the conditional write and
// lands in the same already-checked-in branch instead of double-stamping.
func (s *TicketService) CheckIn(ctx context.Context, ticketKey string) (CheckInResult, error) {
	if ticketKey == "" {
		return CheckInResult{}, domain.ErrInvalidID
	}

	ticket, err := s.repo.GetTicket(ctx, ticketKey)
	if err != nil {
		return CheckInResult{}, err
	}
	if ticket == nil {
		return CheckInResult{}, nil
	}

	result := CheckInResult{
		Found:    true,
		Status:   ticket.Status,
		Title:    ticket.CourseTitle,
		Location: ticket.CourseLocation,
	}

	if ticket.Status == domain.BookingStatusCheckedIn {
		result.OK = true
		result.AlreadyCheckedIn = true
		result.CheckedInAt = ticket.CheckedInAt
		return result, nil
	}
	if ticket.Status != domain.BookingStatusPaid {
		// Reserved-but-unpaid, pending, etc. must never be admitted.
		return result, nil
	}

	now := s.clock.Now()
	ok, err := s.repo.CheckIn(ctx, ticket.ID, now)
	if err != nil {
		return CheckInResult{}, err
	}
	if !ok {
		fresh, err := s.repo.GetTicket(ctx, ticketKey)
		if err != nil {
			return CheckInResult{}, err
		}
		if fresh == nil || fresh.Status != domain.BookingStatusCheckedIn {
			return result, nil
		}
		result.Status = fresh.Status
		result.OK = true
		result.AlreadyCheckedIn = true
		result.CheckedInAt = fresh.CheckedInAt
		return result, nil
	}

	result.Status = domain.BookingStatusCheckedIn
	result.OK = true
	result.CheckedInAt = &now
	return result, nil
}

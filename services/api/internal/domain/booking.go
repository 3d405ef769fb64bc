package domain

import "time"

type BookingStatus string

const (
	BookingStatusReservedFree   BookingStatus = "reserved_free"
	BookingStatusPendingPayment BookingStatus = "pending_payment"
	BookingStatusPaid           BookingStatus = "paid"
	BookingStatusCheckedIn      BookingStatus = "checked_in"
	// BookingStatusCanceled never appears in storage: cancellation deletes
	// the row. It exists for reporting outcomes.
	BookingStatusCanceled BookingStatus = "canceled"
)

// Booking ties one attendee to one bookable unit: a session for free trial
// reservations, or a whole workshop for purchases (SessionID empty).
type Booking struct {
	ID               string
	TicketKey        string
	CourseID         string
	SessionID        string
	AttendeeEmail    string
	Status           BookingStatus
	PaymentSessionID string
	CreatedAt        time.Time
	CheckedInAt      *time.Time
}

// UnitID is the bookable unit the booking counts against for dedup:
// the session for trials, the course for workshop purchases.
func (b Booking) UnitID() string {
	if b.SessionID != "" {
		return b.SessionID
	}
	return b.CourseID
}

// Live reports whether the booking blocks another reservation of the same
// unit by the same attendee. Rows are deleted on cancel, so every stored
// booking is live.
func (b Booking) Live() bool {
	return b.Status != BookingStatusCanceled
}

// Ticket is a booking joined with the course fields shown at the door.
type Ticket struct {
	Booking
	CourseTitle    string
	CourseLocation string
}

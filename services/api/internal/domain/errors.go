package domain

import "errors"

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrTicketNotFound  = errors.New("ticket not found")

	ErrAlreadyReserved = errors.New("already reserved")
	ErrSoldOut         = errors.New("no seats left")
	ErrSeatConflict    = errors.New("seat counter changed concurrently")
	ErrNotCancelable   = errors.New("booking can no longer be canceled")

	ErrNotPublished   = errors.New("course is not published")
	ErrNotReservable  = errors.New("trial reservations are only available for courses")
	ErrNotPurchasable = errors.New("course is not configured for purchase")

	ErrEmailRequired       = errors.New("email required")
	ErrCourseTitleRequired = errors.New("course title required")
	ErrInvalidKind         = errors.New("invalid course kind")
	ErrInvalidPrice        = errors.New("invalid price")
	ErrInvalidCapacity     = errors.New("invalid capacity")
	ErrStartsAtRequired    = errors.New("starts_at required")
	ErrInvalidID           = errors.New("invalid id")

	ErrUncorrelatedEvent = errors.New("payment event has no resolvable booking")
	ErrEventSignature    = errors.New("payment event signature verification failed")
)

package domain

import "time"

// Session is a capacity-gated occurrence of a course. TakenCount is owned
// by the seat ledger; it moves only through conditional claim/release
// writes and stays within [0, Capacity].
type Session struct {
	ID         string
	CourseID   string
	StartsAt   time.Time
	EndsAt     *time.Time
	Capacity   int
	TakenCount int
}

// SeatsLeft reports remaining capacity as of the last read.
func (s Session) SeatsLeft() int {
	left := s.Capacity - s.TakenCount
	if left < 0 {
		return 0
	}
	return left
}

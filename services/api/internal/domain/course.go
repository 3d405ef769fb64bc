package domain

import "time"

type CourseKind string

const (
	// KindCourse is a recurring course; attendees can reserve a free trial
	// seat in one of its sessions.
	KindCourse CourseKind = "course"
	// KindWorkshop is a one-off paid offering bought through checkout.
	KindWorkshop CourseKind = "workshop"
)

type PriceType string

const (
	PriceFree PriceType = "free"
	PricePaid PriceType = "paid"
)

// Course is a catalog entry. Only published courses are bookable.
type Course struct {
	ID         string
	Kind       CourseKind
	Title      string
	Location   string
	PriceType  PriceType
	PriceCents int
	Currency   string
	Published  bool
	CreatedAt  time.Time
}

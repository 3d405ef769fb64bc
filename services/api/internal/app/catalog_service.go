package app

import (
	"context"
	"time"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/clock"
	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/domain"
)

type CatalogRepository interface {
	CreateCourse(ctx context.Context, course domain.Course) error
	ListCourses(ctx context.Context, publishedOnly bool) ([]domain.Course, error)
	GetCourse(ctx context.Context, courseID string) (domain.Course, error)
	SetPublished(ctx context.Context, courseID string, published bool) error
	CreateSession(ctx context.Context, session domain.Session) error
	ListSessionsByCourse(ctx context.Context, courseID string) ([]domain.Session, error)
}

const defaultCurrency = "EUR"

// CatalogService manages courses and their sessions (the admin surface).
type CatalogService struct {
	repo  CatalogRepository
	clock clock.Clock
}

func NewCatalogService(repo CatalogRepository, clk clock.Clock) *CatalogService {
	return &CatalogService{
		repo:  repo,
		clock: clk,
	}
}

type CreateCourseInput struct {
	Kind       string
	Title      string
	Location   string
	PriceCents int
	Currency   string
}

func (s *CatalogService) CreateCourse(ctx context.Context, in CreateCourseInput) (domain.Course, error) {
	if in.Title == "" {
		return domain.Course{}, domain.ErrCourseTitleRequired
	}
	kind := domain.CourseKind(in.Kind)
	if kind != domain.KindCourse && kind != domain.KindWorkshop {
		return domain.Course{}, domain.ErrInvalidKind
	}
	if in.PriceCents < 0 {
		return domain.Course{}, domain.ErrInvalidPrice
	}

	priceType := domain.PriceFree
	if in.PriceCents > 0 {
		priceType = domain.PricePaid
	}
	currency := in.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	course := domain.Course{
		ID:         newID(),
		Kind:       kind,
		Title:      in.Title,
		Location:   in.Location,
		PriceType:  priceType,
		PriceCents: in.PriceCents,
		Currency:   currency,
		CreatedAt:  s.clock.Now(),
	}

	if err := s.repo.CreateCourse(ctx, course); err != nil {
		return domain.Course{}, err
	}
	return course, nil
}

func (s *CatalogService) ListCourses(ctx context.Context, publishedOnly bool) ([]domain.Course, error) {
	return s.repo.ListCourses(ctx, publishedOnly)
}

func (s *CatalogService) GetCourse(ctx context.Context, courseID string) (domain.Course, error) {
	if courseID == "" {
		return domain.Course{}, domain.ErrInvalidID
	}
	return s.repo.GetCourse(ctx, courseID)
}

// SetPublished toggles visibility. Unpublished courses reject reservations
// and checkout but keep their existing bookings intact.
func (s *CatalogService) SetPublished(ctx context.Context, courseID string, published bool) error {
	if courseID == "" {
		return domain.ErrInvalidID
	}
	return s.repo.SetPublished(ctx, courseID, published)
}

type CreateSessionInput struct {
	CourseID string
	StartsAt *time.Time
	EndsAt   *time.Time
	Capacity int
}

func (s *CatalogService) CreateSession(ctx context.Context, in CreateSessionInput) (domain.Session, error) {
	if in.CourseID == "" {
		return domain.Session{}, domain.ErrInvalidID
	}
	if in.StartsAt == nil {
		return domain.Session{}, domain.ErrStartsAtRequired
	}
	if in.Capacity <= 0 {
		return domain.Session{}, domain.ErrInvalidCapacity
	}

	session := domain.Session{
		ID:       newID(),
		CourseID: in.CourseID,
		StartsAt: *in.StartsAt,
		EndsAt:   in.EndsAt,
		Capacity: in.Capacity,
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

func (s *CatalogService) ListSessions(ctx context.Context, courseID string) ([]domain.Session, error) {
	if courseID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListSessionsByCourse(ctx, courseID)
}

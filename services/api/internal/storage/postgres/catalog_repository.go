package postgres

import (
	"context"
	"fmt"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepository backs the admin surface for courses and sessions.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) CreateCourse(ctx context.Context, course domain.Course) error {
	const stmt = `
INSERT INTO courses (id, kind, title, location, price_type, price_cents, currency, is_published, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var location *string
	if course.Location != "" {
		location = &course.Location
	}

	_, err := r.pool.Exec(ctx, stmt,
		course.ID,
		course.Kind,
		course.Title,
		location,
		course.PriceType,
		course.PriceCents,
		course.Currency,
		course.Published,
		course.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

func (r *CatalogRepository) ListCourses(ctx context.Context, publishedOnly bool) ([]domain.Course, error) {
	query := `
SELECT id, kind, title, COALESCE(location, ''), price_type, price_cents, currency, is_published, created_at
FROM courses`
	if publishedOnly {
		query += `
WHERE is_published`
	}
	query += `
ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(&c.ID, &c.Kind, &c.Title, &c.Location, &c.PriceType, &c.PriceCents, &c.Currency, &c.Published, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate courses: %w", rows.Err())
	}
	return courses, nil
}

func (r *CatalogRepository) GetCourse(ctx context.Context, courseID string) (domain.Course, error) {
	return getCourse(ctx, r.pool, courseID)
}

func (r *CatalogRepository) SetPublished(ctx context.Context, courseID string, published bool) error {
	const stmt = `UPDATE courses SET is_published = $2 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt, courseID, published)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("set published: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

func (r *CatalogRepository) CreateSession(ctx context.Context, session domain.Session) error {
	const stmt = `
INSERT INTO sessions (id, course_id, starts_at, ends_at, capacity, taken_count)
VALUES ($1, $2, $3, $4, $5, 0)`

	_, err := r.pool.Exec(ctx, stmt,
		session.ID,
		session.CourseID,
		session.StartsAt,
		session.EndsAt,
		session.Capacity,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrCourseNotFound
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *CatalogRepository) ListSessionsByCourse(ctx context.Context, courseID string) ([]domain.Session, error) {
	const existsQuery = `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, existsQuery, courseID).Scan(&exists); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("check course: %w", err)
	}
	if !exists {
		return nil, domain.ErrCourseNotFound
	}

	const query = `
SELECT id, course_id, starts_at, ends_at, capacity, taken_count
FROM sessions
WHERE course_id = $1
ORDER BY starts_at ASC`

	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var s domain.Session
		if err := rows.Scan(&s.ID, &s.CourseID, &s.StartsAt, &s.EndsAt, &s.Capacity, &s.TakenCount); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate sessions: %w", rows.Err())
	}
	return sessions, nil
}

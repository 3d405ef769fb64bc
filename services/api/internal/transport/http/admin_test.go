package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/app"
	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/domain"
)

func TestHandleAdminCourses(t *testing.T) {
	t.Parallel()

	course := domain.Course{
		ID:        "course-1",
		Kind:      domain.KindWorkshop,
		Title:     "Breaking Weekend",
		PriceType: domain.PricePaid,
		CreatedAt: time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name           string
		method         string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "create course",
			method:         http.MethodPost,
			body:           `{"kind":"workshop","title":"Breaking Weekend","price_cents":4500}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"id":"course-1"`,
		},
		{
			name:           "invalid json",
			method:         http.MethodPost,
			body:           `{"kind":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing title",
			method:         http.MethodPost,
			body:           `{"kind":"workshop"}`,
			serviceErr:     domain.ErrCourseTitleRequired,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad kind",
			method:         http.MethodPost,
			body:           `{"kind":"retreat","title":"X"}`,
			serviceErr:     domain.ErrInvalidKind,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "list courses",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"title":"Breaking Weekend"`,
		},
		{
			name:           "method not allowed",
			method:         http.MethodDelete,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubCatalogService{course: course, err: tt.serviceErr}
			req := httptest.NewRequest(tt.method, "/admin/courses", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			HandleAdminCourses(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected body to contain %q, got %s", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleAdminCourse(t *testing.T) {
	t.Parallel()

	course := domain.Course{ID: "course-1", Kind: domain.KindCourse, Title: "Ballet"}
	session := domain.Session{
		ID:         "sess-1",
		CourseID:   "course-1",
		StartsAt:   time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC),
		Capacity:   12,
		TakenCount: 4,
	}

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "get course",
			method:         http.MethodGet,
			path:           "/admin/courses/course-1",
			expectedStatus: http.StatusOK,
			expectedSubstr: `"title":"Ballet"`,
		},
		{
			name:           "course not found",
			method:         http.MethodGet,
			path:           "/admin/courses/missing",
			serviceErr:     domain.ErrCourseNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "list sessions exposes seats left",
			method:         http.MethodGet,
			path:           "/admin/courses/course-1/sessions",
			expectedStatus: http.StatusOK,
			expectedSubstr: `"seats_left":8`,
		},
		{
			name:           "create session",
			method:         http.MethodPost,
			path:           "/admin/courses/course-1/sessions",
			body:           `{"starts_at":"2025-03-10T18:00:00Z","capacity":12}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"id":"sess-1"`,
		},
		{
			name:           "create session rejects bad timestamp",
			method:         http.MethodPost,
			path:           "/admin/courses/course-1/sessions",
			body:           `{"starts_at":"next tuesday","capacity":12}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "create session rejects zero capacity",
			method:         http.MethodPost,
			path:           "/admin/courses/course-1/sessions",
			body:           `{"starts_at":"2025-03-10T18:00:00Z","capacity":0}`,
			serviceErr:     domain.ErrInvalidCapacity,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "publish",
			method:         http.MethodPost,
			path:           "/admin/courses/course-1/publish",
			body:           `{"published":true}`,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"published":true`,
		},
		{
			name:           "unknown action",
			method:         http.MethodPost,
			path:           "/admin/courses/course-1/archive",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "wrong method on publish",
			method:         http.MethodGet,
			path:           "/admin/courses/course-1/publish",
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubCatalogService{course: course, session: session, err: tt.serviceErr}
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			HandleAdminCourse(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected body to contain %q, got %s", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

type stubCatalogService struct {
	course  domain.Course
	session domain.Session
	err     error
}

func (s *stubCatalogService) CreateCourse(_ context.Context, _ app.CreateCourseInput) (domain.Course, error) {
	if s.err != nil {
		return domain.Course{}, s.err
	}
	return s.course, nil
}

func (s *stubCatalogService) ListCourses(_ context.Context, _ bool) ([]domain.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Course{s.course}, nil
}

func (s *stubCatalogService) GetCourse(_ context.Context, _ string) (domain.Course, error) {
	if s.err != nil {
		return domain.Course{}, s.err
	}
	return s.course, nil
}

func (s *stubCatalogService) SetPublished(_ context.Context, _ string, _ bool) error {
	return s.err
}

func (s *stubCatalogService) CreateSession(_ context.Context, _ app.CreateSessionInput) (domain.Session, error) {
	if s.err != nil {
		return domain.Session{}, s.err
	}
	return s.session, nil
}

func (s *stubCatalogService) ListSessions(_ context.Context, _ string) ([]domain.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Session{s.session}, nil
}

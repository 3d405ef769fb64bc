package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/app"
	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/domain"
)

// CatalogService is the minimal interface needed by the admin endpoints.
type CatalogService interface {
	CreateCourse(ctx context.Context, in app.CreateCourseInput) (domain.Course, error)
	ListCourses(ctx context.Context, publishedOnly bool) ([]domain.Course, error)
	GetCourse(ctx context.Context, courseID string) (domain.Course, error)
	SetPublished(ctx context.Context, courseID string, published bool) error
	CreateSession(ctx context.Context, in app.CreateSessionInput) (domain.Session, error)
	ListSessions(ctx context.Context, courseID string) ([]domain.Session, error)
}

// HandleAdminCourses serves POST (create) and GET (list) on /admin/courses.
func HandleAdminCourses(svc CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			courses, err := svc.ListCourses(r.Context(), r.URL.Query().Get("published") == "true")
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp := make([]courseResponse, 0, len(courses))
			for _, c := range courses {
				resp = append(resp, newCourseResponse(c))
			}
			writeJSON(w, http.StatusOK, resp)
		case http.MethodPost:
			var req createCourseRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			course, err := svc.CreateCourse(r.Context(), app.CreateCourseInput{
				Kind:       req.Kind,
				Title:      req.Title,
				Location:   req.Location,
				PriceCents: req.PriceCents,
				Currency:   req.Currency,
			})
			if err != nil {
				writeCatalogError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, newCourseResponse(course))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleAdminCourse serves the per-course subtree:
// GET /admin/courses/{id}, POST /admin/courses/{id}/sessions,
// GET /admin/courses/{id}/sessions, POST /admin/courses/{id}/publish.
func HandleAdminCourse(svc CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID, action, ok := parseAdminCoursePath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch {
		case action == "" && r.Method == http.MethodGet:
			handleGetCourse(w, r, svc, courseID)
		case action == "sessions" && r.Method == http.MethodGet:
			handleListSessions(w, r, svc, courseID)
		case action == "sessions" && r.Method == http.MethodPost:
			handleCreateSession(w, r, svc, courseID)
		case action == "publish" && r.Method == http.MethodPost:
			handlePublish(w, r, svc, courseID)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func parseAdminCoursePath(path string) (courseID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 3 || len(parts) > 4 || parts[0] != "admin" || parts[1] != "courses" || parts[2] == "" {
		return "", "", false
	}
	if len(parts) == 3 {
		return parts[2], "", true
	}
	if parts[3] != "sessions" && parts[3] != "publish" {
		return "", "", false
	}
	return parts[2], parts[3], true
}

func handleGetCourse(w http.ResponseWriter, r *http.Request, svc CatalogService, courseID string) {
	course, err := svc.GetCourse(r.Context(), courseID)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCourseResponse(course))
}

func handleListSessions(w http.ResponseWriter, r *http.Request, svc CatalogService, courseID string) {
	sessions, err := svc.ListSessions(r.Context(), courseID)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	resp := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		resp = append(resp, newSessionResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleCreateSession(w http.ResponseWriter, r *http.Request, svc CatalogService, courseID string) {
	var req createSessionRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	startsAt, endsAt, err := req.parseTimes()
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidStartsAt, err.Error())
		return
	}

	session, err := svc.CreateSession(r.Context(), app.CreateSessionInput{
		CourseID: courseID,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		Capacity: req.Capacity,
	})
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSessionResponse(session))
}

type publishRequest struct {
	Published bool `json:"published"`
}

func handlePublish(w http.ResponseWriter, r *http.Request, svc CatalogService, courseID string) {
	var req publishRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	if err := svc.SetPublished(r.Context(), courseID, req.Published); err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"published": req.Published})
}

func writeCatalogError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrCourseTitleRequired:
		writeError(w, http.StatusBadRequest, codeTitleRequired, err.Error())
	case domain.ErrInvalidKind:
		writeError(w, http.StatusBadRequest, codeInvalidKind, err.Error())
	case domain.ErrInvalidPrice:
		writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
	case domain.ErrInvalidCapacity:
		writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
	case domain.ErrStartsAtRequired:
		writeError(w, http.StatusBadRequest, codeStartsAtRequired, err.Error())
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrCourseNotFound:
		writeError(w, http.StatusNotFound, codeCourseNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

type createCourseRequest struct {
	Kind       string `json:"kind"`
	Title      string `json:"title"`
	Location   string `json:"location"`
	PriceCents int    `json:"price_cents"`
	Currency   string `json:"currency"`
}

type courseResponse struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Title      string    `json:"title"`
	Location   string    `json:"location,omitempty"`
	PriceType  string    `json:"price_type"`
	PriceCents int       `json:"price_cents"`
	Currency   string    `json:"currency"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"created_at"`
}

func newCourseResponse(c domain.Course) courseResponse {
	return courseResponse{
		ID:         c.ID,
		Kind:       string(c.Kind),
		Title:      c.Title,
		Location:   c.Location,
		PriceType:  string(c.PriceType),
		PriceCents: c.PriceCents,
		Currency:   c.Currency,
		Published:  c.Published,
		CreatedAt:  c.CreatedAt,
	}
}

type createSessionRequest struct {
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
	Capacity int    `json:"capacity"`
}

func (r createSessionRequest) parseTimes() (startsAt, endsAt *time.Time, err error) {
	if r.StartsAt != "" {
		parsed, err := time.Parse(time.RFC3339, r.StartsAt)
		if err != nil {
			return nil, nil, err
		}
		startsAt = &parsed
	}
	if r.EndsAt != "" {
		parsed, err := time.Parse(time.RFC3339, r.EndsAt)
		if err != nil {
			return nil, nil, err
		}
		endsAt = &parsed
	}
	return startsAt, endsAt, nil
}

type sessionResponse struct {
	ID         string     `json:"id"`
	CourseID   string     `json:"course_id"`
	StartsAt   time.Time  `json:"starts_at"`
	EndsAt     *time.Time `json:"ends_at,omitempty"`
	Capacity   int        `json:"capacity"`
	TakenCount int        `json:"taken_count"`
	SeatsLeft  int        `json:"seats_left"`
}

func newSessionResponse(s domain.Session) sessionResponse {
	return sessionResponse{
		ID:         s.ID,
		CourseID:   s.CourseID,
		StartsAt:   s.StartsAt,
		EndsAt:     s.EndsAt,
		Capacity:   s.Capacity,
		TakenCount: s.TakenCount,
		SeatsLeft:  s.SeatsLeft(),
	}
}

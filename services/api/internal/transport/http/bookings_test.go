package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/domain"
)

func TestHandleBookingBySession(t *testing.T) {
	t.Parallel()

	paidBooking := domain.Booking{
		ID:        "bk-123",
		TicketKey: "abcdef",
		CourseID:  "course-1",
		Status:    domain.BookingStatusPaid,
	}

	tests := []struct {
		name           string
		target         string
		method         string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "resolves a paid booking",
			target:         "/bookings/by-session?session_id=cs_123",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"status":"paid"`,
		},
		{
			name:           "missing session_id",
			target:         "/bookings/by-session",
			method:         http.MethodGet,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown session",
			target:         "/bookings/by-session?session_id=cs_missing",
			method:         http.MethodGet,
			serviceErr:     domain.ErrBookingNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "storage failure",
			target:         "/bookings/by-session?session_id=cs_123",
			method:         http.MethodGet,
			serviceErr:     errors.New("db down"),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "method not allowed",
			target:         "/bookings/by-session?session_id=cs_123",
			method:         http.MethodPost,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubBookingLookup{booking: paidBooking, err: tt.serviceErr}
			req := httptest.NewRequest(tt.method, tt.target, nil)
			rec := httptest.NewRecorder()

			HandleBookingBySession(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected body to contain %q, got %s", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

type stubBookingLookup struct {
	booking domain.Booking
	err     error
}

func (s *stubBookingLookup) LookupBySession(_ context.Context, _ string) (domain.Booking, error) {
	if s.err != nil {
		return domain.Booking{}, s.err
	}
	return s.booking, nil
}

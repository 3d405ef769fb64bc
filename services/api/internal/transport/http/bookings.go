package http

import (
	"context"
	"net/http"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/domain"
)

// BookingLookup is the read path behind the checkout success page poll.
type BookingLookup interface {
	LookupBySession(ctx context.Context, paymentSessionID string) (domain.Booking, error)
}

type bookingBySessionResponse struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
	TicketKey string `json:"ticket_key"`
	CourseID  string `json:"course_id"`
}

// HandleBookingBySession resolves a provider checkout-session id back to
// its booking. Callers poll this while the webhook is still in flight, so
// a pending_payment status is a normal answer, not an error.
func HandleBookingBySession(svc BookingLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidID, "missing session_id")
			return
		}

		booking, err := svc.LookupBySession(r.Context(), sessionID)
		if err != nil {
			switch err {
			case domain.ErrBookingNotFound:
				writeError(w, http.StatusNotFound, codeBookingNotFound, err.Error())
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, bookingBySessionResponse{
			BookingID: booking.ID,
			Status:    string(booking.Status),
			TicketKey: booking.TicketKey,
			CourseID:  booking.CourseID,
		})
	}
}

package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/app"
	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/domain"
)

// CheckoutStarter is the minimal interface needed by the checkout endpoint.
type CheckoutStarter interface {
	StartCheckout(ctx context.Context, in app.StartCheckoutInput) (app.StartCheckoutResult, error)
}

type checkoutRequest struct {
	Email    string `json:"email"`
	CourseID string `json:"course_id"`
}

type checkoutResponse struct {
	BookingID        string `json:"booking_id"`
	PaymentSessionID string `json:"payment_session_id"`
	RedirectURL      string `json:"redirect_url"`
}

// HandleCheckout creates a pending booking for a paid workshop and returns
// the provider redirect URL.
func HandleCheckout(svc CheckoutStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req checkoutRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		res, err := svc.StartCheckout(r.Context(), app.StartCheckoutInput{
			Email:    req.Email,
			CourseID: req.CourseID,
		})
		if err != nil {
			switch err {
			case domain.ErrEmailRequired:
				writeError(w, http.StatusBadRequest, codeEmailRequired, err.Error())
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrCourseNotFound:
				writeError(w, http.StatusNotFound, codeCourseNotFound, err.Error())
			case domain.ErrAlreadyReserved:
				writeError(w, http.StatusConflict, codeAlreadyReserved, err.Error())
			case domain.ErrNotPublished:
				writeError(w, http.StatusUnprocessableEntity, codeNotPublished, err.Error())
			case domain.ErrNotPurchasable:
				writeError(w, http.StatusUnprocessableEntity, codeNotPurchasable, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, checkoutResponse{
			BookingID:        res.Booking.ID,
			PaymentSessionID: res.Booking.PaymentSessionID,
			RedirectURL:      res.RedirectURL,
		})
	}
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/app"
	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/domain"
)

// ReservationService is the minimal interface needed by the reservation
// endpoints.
type ReservationService interface {
	Reserve(ctx context.Context, in app.ReserveInput) (domain.Booking, error)
	Cancel(ctx context.Context, email, unitID string) error
}

// HandleReservations serves POST (reserve a free trial seat) and DELETE
// (cancel a live booking) on /reservations.
func HandleReservations(svc ReservationService, siteURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handleReserve(w, r, svc, siteURL)
		case http.MethodDelete:
			handleCancel(w, r, svc)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type reserveRequest struct {
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
}

type reserveResponse struct {
	BookingID string    `json:"booking_id"`
	TicketKey string    `json:"ticket_key"`
	TicketURL string    `json:"ticket_url"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func handleReserve(w http.ResponseWriter, r *http.Request, svc ReservationService, siteURL string) {
	var req reserveRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	booking, err := svc.Reserve(r.Context(), app.ReserveInput{
		Email:     req.Email,
		SessionID: req.SessionID,
	})
	if err != nil {
		writeReservationError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reserveResponse{
		BookingID: booking.ID,
		TicketKey: booking.TicketKey,
		TicketURL: app.TicketURL(siteURL, booking.TicketKey),
		Status:    string(booking.Status),
		CreatedAt: booking.CreatedAt,
	})
}

type cancelRequest struct {
	Email  string `json:"email"`
	UnitID string `json:"unit_id"`
}

func handleCancel(w http.ResponseWriter, r *http.Request, svc ReservationService) {
	var req cancelRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	if err := svc.Cancel(r.Context(), req.Email, req.UnitID); err != nil {
		writeReservationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"canceled": true})
}

func writeReservationError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrEmailRequired:
		writeError(w, http.StatusBadRequest, codeEmailRequired, err.Error())
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrSessionNotFound:
		writeError(w, http.StatusNotFound, codeSessionNotFound, err.Error())
	case domain.ErrCourseNotFound:
		writeError(w, http.StatusNotFound, codeCourseNotFound, err.Error())
	case domain.ErrBookingNotFound:
		writeError(w, http.StatusNotFound, codeBookingNotFound, err.Error())
	case domain.ErrAlreadyReserved:
		writeError(w, http.StatusConflict, codeAlreadyReserved, err.Error())
	case domain.ErrSoldOut:
		writeError(w, http.StatusConflict, codeSoldOut, "no seats left for this session")
	case domain.ErrSeatConflict:
		writeError(w, http.StatusConflict, codeSeatConflict, "seat no longer available, please retry")
	case domain.ErrNotCancelable:
		writeError(w, http.StatusConflict, codeNotCancelable, err.Error())
	case domain.ErrNotPublished:
		writeError(w, http.StatusUnprocessableEntity, codeNotPublished, err.Error())
	case domain.ErrNotReservable:
		writeError(w, http.StatusUnprocessableEntity, codeNotReservable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

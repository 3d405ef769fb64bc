package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeEmailRequired      = "email_required"
	codeInvalidID          = "invalid_id"
	codeCourseNotFound     = "course_not_found"
	codeSessionNotFound    = "session_not_found"
	codeBookingNotFound    = "booking_not_found"
	codeAlreadyReserved    = "already_reserved"
	codeSoldOut            = "sold_out"
	codeSeatConflict       = "seat_conflict"
	codeNotCancelable      = "not_cancelable"
	codeNotPublished       = "not_published"
	codeNotReservable      = "not_reservable"
	codeNotPurchasable     = "not_purchasable"
	codeTitleRequired      = "course_title_required"
	codeInvalidKind        = "invalid_kind"
	codeInvalidPrice       = "invalid_price"
	codeInvalidCapacity    = "invalid_capacity"
	codeStartsAtRequired   = "starts_at_required"
	codeInvalidStartsAt    = "invalid_starts_at"
	codeBadSignature       = "bad_signature"
	codeForbidden          = "forbidden"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

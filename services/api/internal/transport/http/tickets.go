package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/app"
)

// TicketService is the minimal interface needed by the ticket endpoints.
type TicketService interface {
	Verify(ctx context.Context, ticketKey string) (app.VerifyResult, error)
	CheckIn(ctx context.Context, ticketKey string) (app.CheckInResult, error)
}

const qrSize = 256

// HandleTickets routes /tickets/{key} (verify), /tickets/{key}/checkin and
// /tickets/{key}/qr. The ticket key in the path is the only credential.
func HandleTickets(svc TicketService, siteURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, action, ok := parseTicketPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch {
		case action == "" && r.Method == http.MethodGet:
			handleVerify(w, r, svc, key)
		case action == "checkin" && r.Method == http.MethodPost:
			handleCheckIn(w, r, svc, key)
		case action == "qr" && r.Method == http.MethodGet:
			handleTicketQR(w, r, svc, key, siteURL)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func parseTicketPath(path string) (key, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "tickets" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 2 {
		return parts[1], "", true
	}
	if parts[2] != "checkin" && parts[2] != "qr" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

type verifyResponse struct {
	Found       bool       `json:"found"`
	Status      string     `json:"status,omitempty"`
	CheckedInAt *time.Time `json:"checked_in_at"`
	Title       string     `json:"title,omitempty"`
	Location    string     `json:"location,omitempty"`
}

func handleVerify(w http.ResponseWriter, r *http.Request, svc TicketService, key string) {
	res, err := svc.Verify(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{
		Found:       res.Found,
		Status:      string(res.Status),
		CheckedInAt: res.CheckedInAt,
		Title:       res.Title,
		Location:    res.Location,
	})
}

type checkInResponse struct {
	Found            bool       `json:"found"`
	OK               bool       `json:"ok"`
	AlreadyCheckedIn bool       `json:"already_checked_in"`
	Reason           string     `json:"reason,omitempty"`
	Status           string     `json:"status,omitempty"`
	CheckedInAt      *time.Time `json:"checked_in_at"`
	Title            string     `json:"title,omitempty"`
	Location         string     `json:"location,omitempty"`
}

func handleCheckIn(w http.ResponseWriter, r *http.Request, svc TicketService, key string) {
	res, err := svc.CheckIn(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}
	if !res.Found {
		writeJSON(w, http.StatusNotFound, checkInResponse{Found: false})
		return
	}

	resp := checkInResponse{
		Found:            true,
		OK:               res.OK,
		AlreadyCheckedIn: res.AlreadyCheckedIn,
		Status:           string(res.Status),
		CheckedInAt:      res.CheckedInAt,
		Title:            res.Title,
		Location:         res.Location,
	}
	if !res.OK {
		resp.Reason = "not_paid"
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleTicketQR renders the ticket link as a scannable code. The payload
// is the public ticket URL, so any camera app lands on the status page and
// the door scanner can extract the key from the path.
func handleTicketQR(w http.ResponseWriter, r *http.Request, svc TicketService, key, siteURL string) {
	res, err := svc.Verify(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}
	if !res.Found {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
		return
	}

	png, err := qrcode.Encode(app.TicketURL(siteURL, key), qrcode.Medium, qrSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

package http

import (
	"context"
	"io"
	"log"
	"net/http"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/app"
	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/domain"
)

const signatureHeader = "Stripe-Signature"

// Stripe sends webhook bodies well under this; anything larger is not ours.
const maxWebhookBody = 1 << 16

// EventVerifier authenticates a raw webhook payload and reduces it to a
// confirmation event. Verification must happen before any parsing of the
// body is trusted.
type EventVerifier interface {
	VerifyEvent(payload []byte, signature string) (app.ConfirmationEvent, error)
}

// PaymentConfirmer applies a verified confirmation event.
type PaymentConfirmer interface {
	Confirm(ctx context.Context, ev app.ConfirmationEvent) error
}

// HandlePaymentWebhook consumes provider payment events. Response codes
// drive the provider's redelivery: 2xx acknowledges (including events we
// intentionally ignore or drop), 4xx rejects unverifiable payloads for
// good, 5xx asks for redelivery — which is safe because the paid
// transition is idempotent.
func HandlePaymentWebhook(verifier EventVerifier, svc PaymentConfirmer, logger *log.Logger) http.HandlerFunc {
	if logger == nil {
		logger = log.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "unreadable body")
			return
		}

		signature := r.Header.Get(signatureHeader)
		if signature == "" {
			writeError(w, http.StatusBadRequest, codeBadSignature, "missing signature header")
			return
		}

		ev, err := verifier.VerifyEvent(payload, signature)
		if err != nil {
			if err == domain.ErrEventSignature {
				writeError(w, http.StatusBadRequest, codeBadSignature, err.Error())
				return
			}
			// Verified but unparsable: redelivery will not help.
			logger.Printf("WARN: webhook parse failed: %v", err)
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "unparsable event")
			return
		}

		if err := svc.Confirm(r.Context(), ev); err != nil {
			if err == domain.ErrUncorrelatedEvent {
				// Fatal to this event, not to the endpoint: acknowledge so
				// the provider stops redelivering something we can never
				// correlate.
				logger.Printf("WARN: dropping uncorrelated payment event type=%s session=%s", ev.Type, ev.PaymentSessionID)
				writeJSON(w, http.StatusOK, map[string]bool{"received": true})
				return
			}
			logger.Printf("ERROR: payment confirmation failed: %v", err)
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
	}
}

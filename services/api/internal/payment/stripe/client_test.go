package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/app"
	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/domain"
)

const testSecret = "whsec_test"

// signPayload builds a Stripe-Signature header the way Stripe does: an HMAC
// of "<timestamp>.<payload>" with the webhook secret.
func signPayload(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestClient_VerifyEvent(t *testing.T) {
	t.Parallel()

	c := New("sk_test", testSecret)

	completedPayload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_123",
				"payment_status": "paid",
				"client_reference_id": "bk-123",
				"metadata": {"bookingId": "bk-123", "ticketKey": "abcdef"}
			}
		}
	}`)

	t.Run("accepts a correctly signed completed event", func(t *testing.T) {
		sig := signPayload(completedPayload, testSecret, time.Now())

		ev, err := c.VerifyEvent(completedPayload, sig)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ev.Type != app.EventCheckoutCompleted {
			t.Fatalf("expected completed type, got %s", ev.Type)
		}
		if ev.PaymentStatus != app.PaymentStatusPaid {
			t.Fatalf("expected paid, got %s", ev.PaymentStatus)
		}
		if ev.BookingID != "bk-123" || ev.ReferenceID != "bk-123" {
			t.Fatalf("expected booking correlation, got %+v", ev)
		}
		if ev.PaymentSessionID != "cs_123" {
			t.Fatalf("expected cs_123, got %s", ev.PaymentSessionID)
		}
	})

	t.Run("rejects a tampered payload", func(t *testing.T) {
		sig := signPayload(completedPayload, testSecret, time.Now())
		tampered := append([]byte{}, completedPayload...)
		tampered[len(tampered)-2] = ' '

		if _, err := c.VerifyEvent(tampered, sig); err != domain.ErrEventSignature {
			t.Fatalf("expected ErrEventSignature, got %v", err)
		}
	})

	t.Run("rejects a signature from the wrong secret", func(t *testing.T) {
		sig := signPayload(completedPayload, "whsec_other", time.Now())

		if _, err := c.VerifyEvent(completedPayload, sig); err != domain.ErrEventSignature {
			t.Fatalf("expected ErrEventSignature, got %v", err)
		}
	})

	t.Run("rejects a stale timestamp", func(t *testing.T) {
		sig := signPayload(completedPayload, testSecret, time.Now().Add(-time.Hour))

		if _, err := c.VerifyEvent(completedPayload, sig); err != domain.ErrEventSignature {
			t.Fatalf("expected ErrEventSignature, got %v", err)
		}
	})

	t.Run("passes through other event types without parsing", func(t *testing.T) {
		payload := []byte(`{"id": "evt_2", "type": "charge.refunded", "data": {"object": {}}}`)
		sig := signPayload(payload, testSecret, time.Now())

		ev, err := c.VerifyEvent(payload, sig)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ev.Type != "charge.refunded" {
			t.Fatalf("expected charge.refunded, got %s", ev.Type)
		}
		if ev.PaymentStatus != "" || ev.BookingID != "" {
			t.Fatalf("expected no confirmation fields, got %+v", ev)
		}
	})
}

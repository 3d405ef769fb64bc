// Package stripe adapts Stripe Checkout to the payment service's provider
// interfaces: creating one-time-payment sessions correlated to bookings,
// and turning signed webhook payloads into confirmation events.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/app"
	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/domain"
)

const (
	metadataBookingID = "bookingId"
	metadataTicketKey = "ticketKey"
)

type Client struct {
	api           *client.API
	webhookSecret string
}

func New(secretKey, webhookSecret string) *Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Client{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

// CreateCheckoutSession opens a Stripe Checkout session for one booking.
// The booking id travels both as metadata and as the client reference id,
// so the completed event stays correlatable even if one of them is lost.
func (c *Client) CreateCheckoutSession(ctx context.Context, in app.CheckoutSessionInput) (app.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
		Mode:   stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(in.Currency)),
					UnitAmount: stripe.Int64(int64(in.AmountCents)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(in.Title),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(in.SuccessURL),
		CancelURL:         stripe.String(in.CancelURL),
		ClientReferenceID: stripe.String(in.BookingID),
	}
	if in.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(in.CustomerEmail)
	}
	params.AddMetadata(metadataBookingID, in.BookingID)
	params.AddMetadata(metadataTicketKey, in.TicketKey)

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return app.CheckoutSession{}, fmt.Errorf("create checkout session: %w", err)
	}
	return app.CheckoutSession{
		ID:          sess.ID,
		RedirectURL: sess.URL,
	}, nil
}

// VerifyEvent checks the webhook signature against the shared secret
// before any parsing, then reduces the event to the fields the
// confirmation handler acts on. Verification failures must reject the
// whole event with no state touched.
func (c *Client) VerifyEvent(payload []byte, signature string) (app.ConfirmationEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return app.ConfirmationEvent{}, domain.ErrEventSignature
	}

	ev := app.ConfirmationEvent{Type: string(event.Type)}
	if ev.Type != app.EventCheckoutCompleted {
		return ev, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return app.ConfirmationEvent{}, fmt.Errorf("parse checkout session: %w", err)
	}

	ev.PaymentStatus = string(sess.PaymentStatus)
	ev.BookingID = sess.Metadata[metadataBookingID]
	ev.ReferenceID = sess.ClientReferenceID
	ev.PaymentSessionID = sess.ID
	return ev, nil
}

// Package billing defines the interface for Stripe webhook verification and
// the helpers the api package uses to turn payment events into domain
// triggers. Outbound Stripe calls (checkout, refunds) belong to the
// surrounding application, not to the dispatch engine.
package billing

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Event is a parsed Stripe webhook event. DataRaw contains the raw JSON of the
// event's data.object so handlers can unmarshal only what they need.
type Event struct {
	ID      string
	Type    string
	DataRaw json.RawMessage
}

// Verifier validates the Stripe-Signature header and returns the parsed
// event. The concrete implementation wraps the official stripe-go SDK.
// Tests inject a stub.
type Verifier interface {
	VerifyWebhook(payload []byte, sigHeader string, secret string) (Event, error)
}

type stripeVerifier struct{}

// NewVerifier returns a Verifier backed by the Stripe SDK.
func NewVerifier() Verifier {
	return stripeVerifier{}
}

// VerifyWebhook validates the Stripe-Signature header and returns the parsed
// event. Returns an error if the signature is invalid or the tolerance window
// (300 seconds by default in the Stripe SDK) has expired.
func (stripeVerifier) VerifyWebhook(payload []byte, sigHeader string, secret string) (Event, error) {
	stripeEvent, err := webhook.ConstructEvent(payload, sigHeader, secret)
	if err != nil {
		return Event{}, fmt.Errorf("billing: webhook verification failed: %w", err)
	}

	return Event{
		ID:      stripeEvent.ID,
		Type:    string(stripeEvent.Type),
		DataRaw: stripeEvent.Data.Raw,
	}, nil
}

// ExtractUserID pulls the user_id metadata entry from the event's
// data.object. The surrounding application sets it when creating the
// PaymentIntent, which is what lets a payment event reach the right user
// here without any Stripe customer lookup.
func ExtractUserID(event Event) (uuid.UUID, error) {
	var obj struct {
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(event.DataRaw, &obj); err != nil {
		return uuid.Nil, fmt.Errorf("billing: unmarshal event object: %w", err)
	}

	raw, ok := obj.Metadata["user_id"]
	if !ok || raw == "" {
		return uuid.Nil, fmt.Errorf("billing: no user_id metadata on event %s", event.ID)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("billing: invalid user_id metadata %q: %w", raw, err)
	}
	return id, nil
}

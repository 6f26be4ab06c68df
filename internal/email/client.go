// Package email defines the mail transport interface consumed by the
// dispatcher and provides a Resend-backed implementation.
package email

import "context"

// SendParams is one fully rendered message. CTALabel/CTAURL are optional;
// when set they are rendered as a button below the body.
type SendParams struct {
	To       string
	Subject  string
	Body     string // plain HTML fragment; wrapped in the shared shell before sending
	CTALabel string
	CTAURL   string
}

// Sender makes a single best-effort delivery attempt. Any error is terminal
// for that attempt — the dispatcher records it as failed and does not retry
// within the same invocation. Tests inject a stub that records calls without
// hitting the network.
type Sender interface {
	Send(ctx context.Context, p SendParams) error
}

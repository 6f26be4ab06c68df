package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/nyashahama/campaign-dispatch-engine/internal/billing"
)

// ─── POST /api/webhooks/stripe ────────────────────────────────────────────────

// handleStripeWebhook is the entry point for all Stripe webhook deliveries.
//
// Stripe delivers events at-least-once and may retry on non-2xx responses.
// The handler must be idempotent: marking a user paid is an absolute-state
// update, so replays are safe without an event ledger.
//
// The only event we act on is payment_intent.succeeded → mark the user paid.
// The dispatcher picks the flag up at the next due evaluation, so paid users
// fall out of trial campaigns without any direct coupling here.
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	// Stripe recommends reading the raw body before any other processing so
	// the signature check runs against the exact bytes Stripe signed.
	r.Body = http.MaxBytesReader(w, r.Body, 65536) // 64 KB — generous for any Stripe event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondErr(w, http.StatusBadRequest, "could not read request body")
		return
	}

	sig := r.Header.Get("Stripe-Signature")
	event, err := s.stripe.VerifyWebhook(payload, sig, s.cfg.StripeWebhookSecret)
	if err != nil {
		s.logger.Warn("webhook: invalid signature", "error", err, logField(r))
		respondErr(w, http.StatusBadRequest, "invalid webhook signature")
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		if err := s.onPaymentSucceeded(r, event); err != nil {
			s.logger.Error("webhook: handler error",
				"event_id", event.ID,
				"type", event.Type,
				"error", err,
				logField(r),
			)
			// Return 500 so Stripe retries delivery.
			respondErr(w, http.StatusInternalServerError, "webhook handler failed")
			return
		}

	case "charge.refunded":
		// Informational only — refunds don't re-open trial campaigns.
		s.logger.Info("webhook: charge refunded", "event_id", event.ID, logField(r))

	default:
		// Unknown event type — ack immediately so Stripe stops retrying.
		s.logger.Debug("webhook: unhandled event type", "type", event.Type, logField(r))
	}

	w.WriteHeader(http.StatusOK)
}

// onPaymentSucceeded marks the user paid. A user we don't know about is acked
// with a warning rather than a 500 — Stripe retrying won't make the user
// appear, and the metadata is set by our own checkout flow.
func (s *Server) onPaymentSucceeded(r *http.Request, event billing.Event) error {
	userID, err := billing.ExtractUserID(event)
	if err != nil {
		s.logger.Warn("webhook: payment without usable user_id",
			"event_id", event.ID, "error", err, logField(r))
		return nil
	}

	n, err := s.q.SetUserPaid(r.Context(), userID)
	if err != nil {
		return fmt.Errorf("onPaymentSucceeded: set user paid: %w", err)
	}
	if n == 0 {
		s.logger.Warn("webhook: payment for unknown user",
			"event_id", event.ID, "user_id", userID, logField(r))
		return nil
	}

	s.logger.Info("webhook: user marked paid", "user_id", userID, logField(r))
	return nil
}

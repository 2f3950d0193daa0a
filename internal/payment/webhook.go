package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/junaid4290/my-auth-stripe-app/internal/common"
	"github.com/junaid4290/my-auth-stripe-app/internal/obs"
	"github.com/junaid4290/my-auth-stripe-app/internal/record"
)

// Event types this recorder acts on. Everything else is acknowledged without
// persistence.
const (
	EventIntentSucceeded       = "payment_intent.succeeded"
	EventIntentFailed          = "payment_intent.payment_failed"
	EventSessionCompleted      = "checkout.session.completed"
	EventSessionAsyncSucceeded = "checkout.session.async_payment_succeeded"
	EventSessionAsyncFailed    = "checkout.session.async_payment_failed"
)

// StatusFailed is the literal status written for failed payments, regardless
// of what the event itself reports.
const StatusFailed = "failed"

// Webhook verifies inbound processor events and records payment outcomes.
// It is stateless per invocation; once the signature checks out it always
// acknowledges with 200 so the processor never redelivers because of a local
// storage problem.
type Webhook struct {
	Provider Provider
	Store    record.Store
	Log      zerolog.Logger
}

// Handle processes POST /api/webhook.
func (h Webhook) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "Unable to read request body")
		return
	}
	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		common.JSONError(w, http.StatusBadRequest, "No signature provided")
		return
	}
	event, err := h.Provider.VerifyWebhook(body, signature)
	if err != nil {
		if errors.Is(err, ErrWebhookSecretUnset) {
			common.JSONError(w, http.StatusInternalServerError, "Webhook secret not configured")
			return
		}
		h.Log.Warn().Err(err).Msg("webhook signature verification failed")
		common.JSONError(w, http.StatusBadRequest, "Webhook signature verification failed")
		return
	}

	switch event.Type {
	case EventIntentSucceeded:
		h.recordSuccess(r.Context(), event.Intent)
	case EventIntentFailed:
		h.recordFailure(r.Context(), event.Intent)
	case EventSessionCompleted, EventSessionAsyncSucceeded, EventSessionAsyncFailed:
		h.logSessionEvent(event)
	default:
		h.Log.Info().Str("event_type", event.Type).Msg("unhandled webhook event")
		obs.ObserveWebhookEvent(event.Type, "ignored")
	}

	common.JSON(w, http.StatusOK, map[string]bool{"received": true})
}

// recordSuccess writes one payment record for a succeeded intent. The status
// is copied verbatim from the event; a failed payment-method lookup or a
// failed insert is logged and swallowed.
func (h Webhook) recordSuccess(ctx context.Context, intent *EventIntent) {
	if intent == nil {
		return
	}
	rec := record.Payment{
		PaymentIntentID: intent.ID,
		CustomerID:      strPtr(intent.CustomerID),
		Amount:          intent.Amount,
		Currency:        intent.Currency,
		Status:          intent.Status,
		CustomerName:    metaPtr(intent.Metadata, "customer_name"),
		CustomerEmail:   metaPtr(intent.Metadata, "customer_email"),
		OrderNote:       metaPtr(intent.Metadata, "order_note"),
		PhoneNumber:     metaPtr(intent.Metadata, "phone_number"),
	}
	if intent.PaymentMethodID != "" {
		card, err := h.Provider.RetrievePaymentMethod(ctx, intent.PaymentMethodID)
		if err != nil {
			h.Log.Warn().Err(err).
				Str("payment_intent_id", intent.ID).
				Str("payment_method_id", intent.PaymentMethodID).
				Msg("payment method lookup failed")
		} else {
			rec.PaymentMethodType = strPtr(card.Type)
			rec.CardBrand = strPtr(card.Brand)
			rec.CardLast4 = strPtr(card.Last4)
		}
	}
	rec.Metadata = marshalMeta(map[string]any{
		"raw":            intent.Metadata,
		"payment_method": intent.PaymentMethodID,
		"receipt_email":  intent.ReceiptEmail,
	})
	h.insert(ctx, rec)
}

// recordFailure writes one payment record with status forced to "failed" and
// the intent's last error captured in the metadata blob.
func (h Webhook) recordFailure(ctx context.Context, intent *EventIntent) {
	if intent == nil {
		return
	}
	rec := record.Payment{
		PaymentIntentID: intent.ID,
		CustomerID:      strPtr(intent.CustomerID),
		Amount:          intent.Amount,
		Currency:        intent.Currency,
		Status:          StatusFailed,
		CustomerName:    metaPtr(intent.Metadata, "customer_name"),
		CustomerEmail:   metaPtr(intent.Metadata, "customer_email"),
		OrderNote:       metaPtr(intent.Metadata, "order_note"),
		PhoneNumber:     metaPtr(intent.Metadata, "phone_number"),
		Metadata: marshalMeta(map[string]any{
			"last_error": intent.LastError,
			"raw":        intent.Metadata,
		}),
	}
	h.insert(ctx, rec)
}

func (h Webhook) insert(ctx context.Context, rec record.Payment) {
	if h.Store == nil {
		h.Log.Error().Str("payment_intent_id", rec.PaymentIntentID).Msg("record store not configured")
		obs.ObserveWebhookEvent(eventTypeForStatus(rec.Status), "store_error")
		return
	}
	if _, err := h.Store.InsertPayment(ctx, rec); err != nil {
		// The processor is never told persistence failed; it would only
		// redeliver into the same outage.
		h.Log.Error().Err(err).
			Str("payment_intent_id", rec.PaymentIntentID).
			Str("status", rec.Status).
			Msg("payment record insert failed")
		obs.ObserveWebhookEvent(eventTypeForStatus(rec.Status), "store_error")
		return
	}
	h.Log.Info().
		Str("payment_intent_id", rec.PaymentIntentID).
		Str("status", rec.Status).
		Msg("payment record written")
	obs.ObserveWebhookEvent(eventTypeForStatus(rec.Status), "recorded")
}

func (h Webhook) logSessionEvent(event Event) {
	evt := h.Log.Info().Str("event_type", event.Type)
	if event.Session != nil {
		evt = evt.Str("session_id", event.Session.ID).
			Int64("amount_total", event.Session.AmountTotal).
			Str("customer_email", event.Session.CustomerEmail)
	}
	evt.Msg("checkout session event")
	obs.ObserveWebhookEvent(event.Type, "logged")
}

func eventTypeForStatus(status string) string {
	if status == StatusFailed {
		return EventIntentFailed
	}
	return EventIntentSucceeded
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// metaPtr returns the metadata value as a nullable string; absent or empty
// keys become NULL columns rather than errors.
func metaPtr(md map[string]string, key string) *string {
	if md == nil {
		return nil
	}
	return strPtr(md[key])
}

func marshalMeta(v map[string]any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return b
}

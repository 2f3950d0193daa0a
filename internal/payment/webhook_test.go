package payment_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/junaid4290/my-auth-stripe-app/internal/payment"
	"github.com/junaid4290/my-auth-stripe-app/internal/record"
)

type stubStore struct {
	inserted  []record.Payment
	insertErr error
}

func (s *stubStore) InsertPayment(_ context.Context, p record.Payment) (uuid.UUID, error) {
	if s.insertErr != nil {
		return uuid.Nil, s.insertErr
	}
	s.inserted = append(s.inserted, p)
	return uuid.New(), nil
}

func (s *stubStore) ListByPaymentIntent(_ context.Context, intentID string) ([]record.Payment, error) {
	var out []record.Payment
	for _, p := range s.inserted {
		if p.PaymentIntentID == intentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func newWebhook(p *fakeProvider, s record.Store) payment.Webhook {
	return payment.Webhook{Provider: p, Store: s, Log: zerolog.Nop()}
}

func postWebhook(t *testing.T, h payment.Webhook, body, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(body))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rr := httptest.NewRecorder()
	h.Handle(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func succeededEvent() payment.Event {
	return payment.Event{
		Type: payment.EventIntentSucceeded,
		Intent: &payment.EventIntent{
			ID:              "pi_123",
			Amount:          4999,
			Currency:        "usd",
			Status:          "succeeded",
			CustomerID:      "cus_1",
			PaymentMethodID: "pm_1",
			ReceiptEmail:    "alice@example.com",
			Metadata: map[string]string{
				"customer_name":  "Alice",
				"customer_email": "alice@example.com",
				"order_note":     "gift wrap",
				"phone_number":   "5551234",
			},
		},
	}
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	verified := false
	p := &fakeProvider{verify: func([]byte, string) (payment.Event, error) {
		verified = true
		return payment.Event{}, nil
	}}
	store := &stubStore{}
	rr := postWebhook(t, newWebhook(p, store), "{}", "")

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "No signature provided", decodeBody(t, rr)["error"])
	require.False(t, verified)
	require.Empty(t, store.inserted)
}

func TestWebhookSecretUnsetIsServerError(t *testing.T) {
	p := &fakeProvider{verify: func([]byte, string) (payment.Event, error) {
		return payment.Event{}, payment.ErrWebhookSecretUnset
	}}
	rr := postWebhook(t, newWebhook(p, &stubStore{}), "{}", "sig")

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "Webhook secret not configured", decodeBody(t, rr)["error"])
}

func TestWebhookInvalidSignature(t *testing.T) {
	p := &fakeProvider{verify: func([]byte, string) (payment.Event, error) {
		return payment.Event{}, errors.New("signature mismatch")
	}}
	store := &stubStore{}
	rr := postWebhook(t, newWebhook(p, store), "{}", "bad")

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "Webhook signature verification failed", decodeBody(t, rr)["error"])
	require.Empty(t, store.inserted)
}

func TestWebhookRecordsSucceededIntent(t *testing.T) {
	p := &fakeProvider{
		verify: func([]byte, string) (payment.Event, error) { return succeededEvent(), nil },
		method: payment.CardDetails{Type: "card", Brand: "visa", Last4: "4242"},
	}
	store := &stubStore{}
	rr := postWebhook(t, newWebhook(p, store), "{}", "sig")

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, true, decodeBody(t, rr)["received"])

	require.Len(t, store.inserted, 1)
	rec := store.inserted[0]
	require.Equal(t, "pi_123", rec.PaymentIntentID)
	require.Equal(t, int64(4999), rec.Amount)
	require.Equal(t, "usd", rec.Currency)
	require.Equal(t, "succeeded", rec.Status)
	require.NotNil(t, rec.CustomerName)
	require.Equal(t, "Alice", *rec.CustomerName)
	require.NotNil(t, rec.CustomerEmail)
	require.Equal(t, "alice@example.com", *rec.CustomerEmail)
	require.NotNil(t, rec.CardBrand)
	require.Equal(t, "visa", *rec.CardBrand)
	require.NotNil(t, rec.CardLast4)
	require.Equal(t, "4242", *rec.CardLast4)
	require.Equal(t, []string{"pm_1"}, p.methodGets)

	var meta map[string]any
	require.NoError(t, json.Unmarshal(rec.Metadata, &meta))
	require.Equal(t, "pm_1", meta["payment_method"])
	require.Equal(t, "alice@example.com", meta["receipt_email"])
}

func TestWebhookAbsentMetadataBecomesNull(t *testing.T) {
	ev := payment.Event{
		Type: payment.EventIntentSucceeded,
		Intent: &payment.EventIntent{
			ID: "pi_bare", Amount: 100, Currency: "usd", Status: "succeeded",
		},
	}
	p := &fakeProvider{verify: func([]byte, string) (payment.Event, error) { return ev, nil }}
	store := &stubStore{}
	postWebhook(t, newWebhook(p, store), "{}", "sig")

	require.Len(t, store.inserted, 1)
	rec := store.inserted[0]
	require.Nil(t, rec.CustomerName)
	require.Nil(t, rec.CustomerEmail)
	require.Nil(t, rec.OrderNote)
	require.Nil(t, rec.PhoneNumber)
	require.Nil(t, rec.CustomerID)
	require.Nil(t, rec.PaymentMethodType)
}

func TestWebhookMethodLookupFailureStillRecords(t *testing.T) {
	p := &fakeProvider{
		verify:    func([]byte, string) (payment.Event, error) { return succeededEvent(), nil },
		methodErr: errors.New("processor unavailable"),
	}
	store := &stubStore{}
	rr := postWebhook(t, newWebhook(p, store), "{}", "sig")

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, store.inserted, 1)
	require.Nil(t, store.inserted[0].CardBrand)
	require.Nil(t, store.inserted[0].CardLast4)
}

func TestWebhookForcesFailedStatus(t *testing.T) {
	ev := payment.Event{
		Type: payment.EventIntentFailed,
		Intent: &payment.EventIntent{
			ID:       "pi_fail",
			Amount:   500,
			Currency: "usd",
			Status:   "requires_payment_method",
			Metadata: map[string]string{"customer_name": "Bob"},
			LastError: &payment.ErrorInfo{
				Type: "card_error", Code: "card_declined", Message: "Your card was declined.",
			},
		},
	}
	p := &fakeProvider{verify: func([]byte, string) (payment.Event, error) { return ev, nil }}
	store := &stubStore{}
	rr := postWebhook(t, newWebhook(p, store), "{}", "sig")

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, store.inserted, 1)
	rec := store.inserted[0]
	require.Equal(t, "failed", rec.Status)

	var meta map[string]any
	require.NoError(t, json.Unmarshal(rec.Metadata, &meta))
	lastErr, ok := meta["last_error"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "card_declined", lastErr["code"])
	require.Equal(t, "Your card was declined.", lastErr["message"])
}

func TestWebhookRedeliveryInsertsAgain(t *testing.T) {
	p := &fakeProvider{verify: func([]byte, string) (payment.Event, error) { return succeededEvent(), nil }}
	store := &stubStore{}
	h := newWebhook(p, store)

	postWebhook(t, h, "{}", "sig")
	postWebhook(t, h, "{}", "sig")

	require.Len(t, store.inserted, 2)
	rows, err := store.ListByPaymentIntent(context.Background(), "pi_123")
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestWebhookStoreFailureStillAcknowledges(t *testing.T) {
	p := &fakeProvider{verify: func([]byte, string) (payment.Event, error) { return succeededEvent(), nil }}
	store := &stubStore{insertErr: record.ErrStoreUnavailable}
	rr := postWebhook(t, newWebhook(p, store), "{}", "sig")

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, true, decodeBody(t, rr)["received"])
}

func TestWebhookSessionEventsAreNotPersisted(t *testing.T) {
	for _, typ := range []string{
		payment.EventSessionCompleted,
		payment.EventSessionAsyncSucceeded,
		payment.EventSessionAsyncFailed,
	} {
		ev := payment.Event{
			Type: typ,
			Session: &payment.EventSession{
				ID: "cs_1", AmountTotal: 1000, CustomerEmail: "alice@example.com",
			},
		}
		p := &fakeProvider{verify: func([]byte, string) (payment.Event, error) { return ev, nil }}
		store := &stubStore{}
		rr := postWebhook(t, newWebhook(p, store), "{}", "sig")

		require.Equal(t, http.StatusOK, rr.Code, typ)
		require.Equal(t, true, decodeBody(t, rr)["received"], typ)
		require.Empty(t, store.inserted, typ)
	}
}

func TestWebhookIgnoresUnknownEventTypes(t *testing.T) {
	ev := payment.Event{Type: "customer.created"}
	p := &fakeProvider{verify: func([]byte, string) (payment.Event, error) { return ev, nil }}
	store := &stubStore{}
	rr := postWebhook(t, newWebhook(p, store), "{}", "sig")

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, true, decodeBody(t, rr)["received"])
	require.Empty(t, store.inserted)
}

package payment

import (
	"context"
	"errors"
)

// ErrWebhookSecretUnset is returned by VerifyWebhook when no signing secret
// has been configured. The webhook handler maps it to a server error rather
// than a signature failure.
var ErrWebhookSecretUnset = errors.New("webhook secret not configured")

// IntentParams captures the information required to open a payment intent
// with the processor.
type IntentParams struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

// Intent is the minimal slice of a processor payment intent the server needs.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

// SessionParams describes a hosted checkout session to create.
type SessionParams struct {
	ProductName   string
	Amount        int64
	Currency      string
	CustomerEmail string
	Metadata      map[string]string
	SuccessURL    string
	CancelURL     string
}

// Session references a processor-hosted checkout page.
type Session struct {
	ID  string
	URL string
}

// CardDetails describes a tokenised payment method, used to enrich records
// on the success path.
type CardDetails struct {
	Type  string
	Brand string
	Last4 string
}

// ErrorInfo is the processor's error-shape convention.
type ErrorInfo struct {
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// EventIntent holds the payment-intent fields carried by a webhook event.
type EventIntent struct {
	ID              string
	Amount          int64
	Currency        string
	Status          string
	CustomerID      string
	PaymentMethodID string
	ReceiptEmail    string
	Metadata        map[string]string
	LastError       *ErrorInfo
}

// EventSession holds the checkout-session fields carried by a webhook event.
// These events are logged but never persisted.
type EventSession struct {
	ID            string
	AmountTotal   int64
	CustomerEmail string
	Metadata      map[string]string
}

// Event is a verified webhook notification, normalised away from the
// processor's wire format. Exactly one of Intent/Session is set for the
// event types this service inspects.
type Event struct {
	Type    string
	Intent  *EventIntent
	Session *EventSession
}

// Provider abstracts the external payment processor. The concrete Stripe
// implementation lives in stripe.go; tests substitute fakes.
type Provider interface {
	CreatePaymentIntent(ctx context.Context, params IntentParams) (Intent, error)
	CreateCheckoutSession(ctx context.Context, params SessionParams) (Session, error)
	RetrievePaymentMethod(ctx context.Context, id string) (CardDetails, error)
	VerifyWebhook(body []byte, signature string) (Event, error)
}

// ProviderError carries the processor's error message in its conventional
// {type, code, message} shape.
type ProviderError struct {
	Type    string
	Code    string
	Message string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

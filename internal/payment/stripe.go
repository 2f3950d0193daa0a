package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"
)

// Stripe implements Provider on top of the official Stripe SDK. Each instance
// owns its API client; nothing here touches the SDK's package-level key.
type Stripe struct {
	api           *client.API
	webhookSecret string
}

// NewStripe constructs a Stripe provider. webhookSecret may be empty, in which
// case VerifyWebhook reports ErrWebhookSecretUnset.
func NewStripe(secretKey, webhookSecret string) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Stripe{api: api, webhookSecret: webhookSecret}
}

// CreatePaymentIntent opens a payment intent with automatic payment-method
// selection enabled.
func (s *Stripe) CreatePaymentIntent(ctx context.Context, p IntentParams) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(p.Amount),
		Currency: stripe.String(p.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, wrapStripeErr(err)
	}
	return Intent{ID: pi.ID, ClientSecret: pi.ClientSecret, Status: string(pi.Status)}, nil
}

// CreateCheckoutSession creates a hosted checkout page with the two hosted
// custom fields the storefront collects.
func (s *Stripe) CreateCheckoutSession(ctx context.Context, p SessionParams) (Session, error) {
	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(p.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.ProductName),
					},
					UnitAmount: stripe.Int64(p.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		CustomFields: []*stripe.CheckoutSessionCustomFieldParams{
			{
				Key: stripe.String("order_note"),
				Label: &stripe.CheckoutSessionCustomFieldLabelParams{
					Type:   stripe.String("custom"),
					Custom: stripe.String("Order Note"),
				},
				Type:     stripe.String("text"),
				Optional: stripe.Bool(true),
			},
			{
				Key: stripe.String("phone_number"),
				Label: &stripe.CheckoutSessionCustomFieldLabelParams{
					Type:   stripe.String("custom"),
					Custom: stripe.String("Phone Number"),
				},
				Type: stripe.String("numeric"),
			},
		},
	}
	if strings.TrimSpace(p.CustomerEmail) != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return Session{}, wrapStripeErr(err)
	}
	return Session{ID: sess.ID, URL: sess.URL}, nil
}

// RetrievePaymentMethod fetches card brand/last4/type for a tokenised method.
func (s *Stripe) RetrievePaymentMethod(ctx context.Context, id string) (CardDetails, error) {
	pm, err := s.api.PaymentMethods.Get(id, &stripe.PaymentMethodParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return CardDetails{}, wrapStripeErr(err)
	}
	details := CardDetails{Type: string(pm.Type)}
	if pm.Card != nil {
		details.Brand = string(pm.Card.Brand)
		details.Last4 = pm.Card.Last4
	}
	return details, nil
}

// VerifyWebhook checks the payload signature against the configured secret and
// normalises the event. This is the sole authenticity gate on the webhook path.
func (s *Stripe) VerifyWebhook(body []byte, signature string) (Event, error) {
	if s.webhookSecret == "" {
		return Event{}, ErrWebhookSecretUnset
	}
	ev, err := webhook.ConstructEvent(body, signature, s.webhookSecret)
	if err != nil {
		return Event{}, fmt.Errorf("signature verification failed: %w", err)
	}
	return normalizeEvent(ev)
}

func normalizeEvent(ev stripe.Event) (Event, error) {
	out := Event{Type: string(ev.Type)}
	switch {
	case strings.HasPrefix(out.Type, "payment_intent."):
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
			return Event{}, fmt.Errorf("decode payment intent: %w", err)
		}
		intent := &EventIntent{
			ID:           pi.ID,
			Amount:       pi.Amount,
			Currency:     string(pi.Currency),
			Status:       string(pi.Status),
			ReceiptEmail: pi.ReceiptEmail,
			Metadata:     pi.Metadata,
		}
		if pi.Customer != nil {
			intent.CustomerID = pi.Customer.ID
		}
		// Expandable reference: the raw event carries the payment method
		// as a plain id string, which the SDK decodes into a stub struct.
		if pi.PaymentMethod != nil {
			intent.PaymentMethodID = pi.PaymentMethod.ID
		}
		if pi.LastPaymentError != nil {
			intent.LastError = &ErrorInfo{
				Type:    string(pi.LastPaymentError.Type),
				Code:    string(pi.LastPaymentError.Code),
				Message: pi.LastPaymentError.Msg,
			}
		}
		out.Intent = intent
	case strings.HasPrefix(out.Type, "checkout.session."):
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
			return Event{}, fmt.Errorf("decode checkout session: %w", err)
		}
		out.Session = &EventSession{
			ID:            sess.ID,
			AmountTotal:   sess.AmountTotal,
			CustomerEmail: sess.CustomerEmail,
			Metadata:      sess.Metadata,
		}
	}
	return out, nil
}

func wrapStripeErr(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		return &ProviderError{Type: string(se.Type), Code: string(se.Code), Message: se.Msg}
	}
	return err
}

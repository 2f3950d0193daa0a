package payment

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/junaid4290/my-auth-stripe-app/internal/common"
)

// Request is one checkout form submission. It exists only for the duration of
// the processor call.
type Request struct {
	Name          string `json:"name" validate:"required"`
	Amount        string `json:"amount" validate:"required"`
	CustomerEmail string `json:"customerEmail"`
	OrderNote     string `json:"orderNote"`
	PhoneNumber   string `json:"phoneNumber"`
}

// IntentResult is returned to the browser so it can drive the embedded card
// flow against the processor.
type IntentResult struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// SessionResult points the browser at a processor-hosted checkout page.
type SessionResult struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Service validates checkout submissions and initiates payments with the
// processor.
type Service struct {
	Provider      Provider
	Currency      string
	PublicBaseURL string
	Log           zerolog.Logger

	validate *validator.Validate
}

// NewService constructs a payment service.
func NewService(provider Provider, currency, publicBaseURL string, log zerolog.Logger) *Service {
	if currency == "" {
		currency = "usd"
	}
	return &Service{
		Provider:      provider,
		Currency:      currency,
		PublicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		Log:           log,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MinorUnits converts a decimal amount string in major units to integer minor
// units, rounding to the nearest integer. It rejects anything that does not
// parse to a finite positive number, including "NaN" and "Inf" which
// strconv.ParseFloat would otherwise accept, and amounts whose minor units do
// not fit in int64: the cast would wrap negative.
func MinorUnits(amount string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, common.NewValidationError("Amount must be a positive number")
	}
	cents := math.Round(f * 100)
	if cents >= math.MaxInt64 {
		return 0, common.NewValidationError("Amount must be a positive number")
	}
	return int64(cents), nil
}

func (s *Service) checkRequest(req Request) (int64, error) {
	if err := s.validate.Struct(req); err != nil {
		return 0, common.NewValidationError("Name and amount are required")
	}
	return MinorUnits(req.Amount)
}

// CreateIntent validates the submission and opens a payment intent with the
// processor, echoing the submission fields into the intent metadata.
func (s *Service) CreateIntent(ctx context.Context, req Request) (IntentResult, error) {
	cents, err := s.checkRequest(req)
	if err != nil {
		return IntentResult{}, err
	}
	intent, err := s.Provider.CreatePaymentIntent(ctx, IntentParams{
		Amount:   cents,
		Currency: s.Currency,
		Metadata: map[string]string{
			"customer_name":  req.Name,
			"amount":         req.Amount,
			"customer_email": req.CustomerEmail,
			"order_note":     req.OrderNote,
			"phone_number":   req.PhoneNumber,
		},
	})
	if err != nil {
		return IntentResult{}, processorFailure(err, "Failed to create payment intent")
	}
	s.Log.Info().
		Str("payment_intent_id", intent.ID).
		Int64("amount", cents).
		Str("customer_name", req.Name).
		Msg("payment intent created")
	return IntentResult{ClientSecret: intent.ClientSecret, PaymentIntentID: intent.ID}, nil
}

// CreateCheckout validates the submission and creates a hosted checkout
// session with redirect URLs built from the configured public base URL.
func (s *Service) CreateCheckout(ctx context.Context, req Request) (SessionResult, error) {
	cents, err := s.checkRequest(req)
	if err != nil {
		return SessionResult{}, err
	}
	sess, err := s.Provider.CreateCheckoutSession(ctx, SessionParams{
		ProductName:   "Payment for " + req.Name,
		Amount:        cents,
		Currency:      s.Currency,
		CustomerEmail: req.CustomerEmail,
		Metadata: map[string]string{
			"customer_name": req.Name,
			"amount":        req.Amount,
		},
		SuccessURL: s.PublicBaseURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.PublicBaseURL + "/payment/cancel",
	})
	if err != nil {
		return SessionResult{}, processorFailure(err, "Failed to create checkout session")
	}
	s.Log.Info().
		Str("session_id", sess.ID).
		Int64("amount", cents).
		Str("customer_name", req.Name).
		Msg("checkout session created")
	return SessionResult{ID: sess.ID, URL: sess.URL}, nil
}

// processorFailure surfaces the processor's own message when it has one,
// falling back to a generic description otherwise. Initiation errors are
// never retried.
func processorFailure(err error, fallback string) error {
	message := strings.TrimSpace(err.Error())
	if message == "" {
		message = fallback
	}
	return common.NewProcessorError(message, err)
}

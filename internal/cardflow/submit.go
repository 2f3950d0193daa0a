package cardflow

import (
	"context"
	"errors"
	"strings"
)

// Processor error codes the flow maps to specific fields.
const (
	CodeIncorrectNumber    = "incorrect_number"
	CodeIncorrectCVC       = "incorrect_cvc"
	CodeExpiredCard        = "expired_card"
	CodeInvalidExpiryMonth = "invalid_expiry_month"
	CodeInvalidExpiryYear  = "invalid_expiry_year"
	CodeCardDeclined       = "card_declined"
)

// ErrorTypeCard marks errors the processor attributes to the card itself;
// only these are eligible for per-field placement.
const ErrorTypeCard = "card_error"

// StatusSucceeded is the terminal intent status that completes the flow.
const StatusSucceeded = "succeeded"

// CardError is a failure reported by the processor's client-side API.
type CardError struct {
	Type    string
	Code    string
	Message string
}

// Error implements the error interface.
func (e *CardError) Error() string { return e.Message }

// BillingDetails accompany tokenisation so the payment method carries the
// payer's identity.
type BillingDetails struct {
	Name  string
	Email string
}

// Client abstracts the processor's browser-side API: cross-field validation,
// card tokenisation, and intent confirmation. Calls suspend the flow and run
// strictly in sequence; none of them is retried.
type Client interface {
	ValidateElements(ctx context.Context) error
	CreatePaymentMethod(ctx context.Context, details BillingDetails) (string, error)
	ConfirmPayment(ctx context.Context, clientSecret, paymentMethodID string) (string, error)
}

// Submitter drives one payment attempt for a rendered form. The client handle
// is passed in explicitly so concurrent form instances never share state.
type Submitter struct {
	Client          Client
	ClientSecret    string
	PaymentIntentID string
	CustomerEmail   string

	// OnSuccess is invoked with the intent id when the payment reaches a
	// terminal success, driving navigation to the result page.
	OnSuccess func(paymentIntentID string)
}

// Submit runs the guarded submission sequence and returns the resulting form
// state. The guard rejects locally, without any processor call, unless the
// cardholder name is present and every card field reports complete. Only one
// submission may be in flight at a time.
func (sub *Submitter) Submit(ctx context.Context, st State) State {
	if st.Submitting {
		return st
	}
	if strings.TrimSpace(st.CardholderName) == "" {
		st.FormError = "Cardholder name is required"
		return st
	}
	if !st.FieldsComplete() {
		st.FormError = "Please complete all card fields"
		return st
	}

	st.Submitting = true
	st.FormError = ""

	if err := sub.Client.ValidateElements(ctx); err != nil {
		st.FormError = messageOr(err, "Please check your card information")
		st.Submitting = false
		return st
	}

	pmID, err := sub.Client.CreatePaymentMethod(ctx, BillingDetails{
		Name:  st.CardholderName,
		Email: sub.CustomerEmail,
	})
	if err != nil {
		st = applyTokenizeError(st, err)
		st.Submitting = false
		return st
	}

	status, err := sub.Client.ConfirmPayment(ctx, sub.ClientSecret, pmID)
	if err != nil {
		st = applyConfirmError(st, err)
		st.Submitting = false
		return st
	}
	if status == StatusSucceeded {
		st.Succeeded = true
		if sub.OnSuccess != nil {
			sub.OnSuccess(sub.PaymentIntentID)
		}
		return st
	}
	st.Submitting = false
	return st
}

// applyTokenizeError places a payment-method creation failure on the field it
// belongs to, or on the form when the processor does not blame the card.
func applyTokenizeError(st State, err error) State {
	var ce *CardError
	if !errors.As(err, &ce) || ce.Type != ErrorTypeCard {
		st.FormError = messageOr(err, "Failed to create payment method")
		return st
	}
	switch ce.Code {
	case CodeIncorrectNumber:
		st.NumberError = messageOr(ce, "Card number is incorrect")
	case CodeIncorrectCVC:
		st.CVCError = messageOr(ce, "CVV is incorrect")
	case CodeExpiredCard:
		st.ExpiryError = messageOr(ce, "Card has expired")
	case CodeInvalidExpiryMonth, CodeInvalidExpiryYear:
		st.ExpiryError = messageOr(ce, "Invalid expiry date")
	default:
		st.FormError = messageOr(ce, "Card information is invalid")
	}
	return st
}

// applyConfirmError maps confirmation failures. Declines stay at form level;
// field-specific codes land on their field.
func applyConfirmError(st State, err error) State {
	var ce *CardError
	if !errors.As(err, &ce) || ce.Type != ErrorTypeCard {
		st.FormError = messageOr(err, "Payment failed")
		return st
	}
	switch ce.Code {
	case CodeCardDeclined:
		st.FormError = "Your card was declined. Please try a different card."
	case CodeIncorrectCVC:
		st.CVCError = "CVV is incorrect"
	case CodeExpiredCard:
		st.ExpiryError = "Card has expired"
	case CodeIncorrectNumber:
		st.NumberError = "Card number is incorrect"
	default:
		st.FormError = messageOr(ce, "Payment failed")
	}
	return st
}

func messageOr(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}

// Package cardflow models the embedded card collection form: three
// processor-hosted inputs (number, expiry, CVC) plus a cardholder name, with
// completeness and error state per field. The form state is a single
// immutable value replaced on every widget event, so transitions are plain
// functions and the whole flow is testable without a browser. The served
// checkout page mirrors these transitions in its Stripe.js wiring.
package cardflow

import "strings"

// Field identifies one of the processor-hosted card inputs.
type Field int

const (
	// FieldNumber is the card number input.
	FieldNumber Field = iota
	// FieldExpiry is the expiry date input.
	FieldExpiry
	// FieldCVC is the card verification code input.
	FieldCVC
)

// BrandUnknown is reported by the number widget until it recognises a brand.
const BrandUnknown = "unknown"

// ChangeEvent mirrors the change callback the processor widget fires on each
// keystroke.
type ChangeEvent struct {
	Field    Field
	Complete bool
	Empty    bool
	Brand    string
	Error    string
}

// State is one snapshot of the form. The zero value is a freshly rendered,
// empty form.
type State struct {
	CardholderName string

	NumberComplete bool
	ExpiryComplete bool
	CVCComplete    bool

	NumberError string
	ExpiryError string
	CVCError    string

	// FormError holds errors that do not belong to a specific field, such
	// as a declined card.
	FormError string

	// Brand is the detected card brand, empty until the number widget
	// reports one.
	Brand string

	Submitting bool
	Succeeded  bool
}

// WithCardholderName returns the state with the cardholder name replaced.
func (s State) WithCardholderName(name string) State {
	s.CardholderName = name
	return s
}

// WithFieldChange applies a widget change event and returns the new state.
// The brand guess follows the number field only: a recognised brand sticks
// until the field is emptied.
func (s State) WithFieldChange(ev ChangeEvent) State {
	switch ev.Field {
	case FieldNumber:
		s.NumberComplete = ev.Complete
		s.NumberError = ev.Error
		if ev.Brand != "" && ev.Brand != BrandUnknown {
			s.Brand = ev.Brand
		} else if ev.Empty {
			s.Brand = ""
		}
	case FieldExpiry:
		s.ExpiryComplete = ev.Complete
		s.ExpiryError = ev.Error
	case FieldCVC:
		s.CVCComplete = ev.Complete
		s.CVCError = ev.Error
	}
	return s
}

// FieldsComplete reports whether all three card inputs are complete.
func (s State) FieldsComplete() bool {
	return s.NumberComplete && s.ExpiryComplete && s.CVCComplete
}

// CanSubmit is the submit-button guard: a non-blank cardholder name, all
// fields complete, and no submission already in flight.
func (s State) CanSubmit() bool {
	return strings.TrimSpace(s.CardholderName) != "" && s.FieldsComplete() && !s.Submitting
}

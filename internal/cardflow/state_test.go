package cardflow_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/junaid4290/my-auth-stripe-app/internal/cardflow"
)

func completeState() cardflow.State {
	st := cardflow.State{}.WithCardholderName("Alice")
	st = st.WithFieldChange(cardflow.ChangeEvent{Field: cardflow.FieldNumber, Complete: true, Brand: "visa"})
	st = st.WithFieldChange(cardflow.ChangeEvent{Field: cardflow.FieldExpiry, Complete: true})
	st = st.WithFieldChange(cardflow.ChangeEvent{Field: cardflow.FieldCVC, Complete: true})
	return st
}

func TestZeroStateCannotSubmit(t *testing.T) {
	var st cardflow.State
	require.False(t, st.CanSubmit())
	require.False(t, st.FieldsComplete())
}

func TestSubmitGuardRequiresEverything(t *testing.T) {
	st := completeState()
	require.True(t, st.CanSubmit())

	require.False(t, st.WithCardholderName("").CanSubmit())

	incomplete := st.WithFieldChange(cardflow.ChangeEvent{Field: cardflow.FieldCVC, Complete: false})
	require.False(t, incomplete.CanSubmit())

	inFlight := st
	inFlight.Submitting = true
	require.False(t, inFlight.CanSubmit())
}

func TestFieldChangeTracksErrors(t *testing.T) {
	st := cardflow.State{}.WithFieldChange(cardflow.ChangeEvent{
		Field: cardflow.FieldNumber,
		Error: "Your card number is invalid.",
	})
	require.Equal(t, "Your card number is invalid.", st.NumberError)

	st = st.WithFieldChange(cardflow.ChangeEvent{Field: cardflow.FieldNumber, Complete: true})
	require.Empty(t, st.NumberError)
	require.True(t, st.NumberComplete)
}

func TestBrandSticksUntilFieldEmptied(t *testing.T) {
	st := cardflow.State{}.WithFieldChange(cardflow.ChangeEvent{Field: cardflow.FieldNumber, Brand: "visa"})
	require.Equal(t, "visa", st.Brand)

	// An unknown brand report keeps the previous guess while typing continues.
	st = st.WithFieldChange(cardflow.ChangeEvent{Field: cardflow.FieldNumber, Brand: cardflow.BrandUnknown})
	require.Equal(t, "visa", st.Brand)

	st = st.WithFieldChange(cardflow.ChangeEvent{Field: cardflow.FieldNumber, Brand: "mastercard"})
	require.Equal(t, "mastercard", st.Brand)

	st = st.WithFieldChange(cardflow.ChangeEvent{Field: cardflow.FieldNumber, Empty: true, Brand: cardflow.BrandUnknown})
	require.Empty(t, st.Brand)
}

func TestBrandIgnoresOtherFields(t *testing.T) {
	st := cardflow.State{}.WithFieldChange(cardflow.ChangeEvent{Field: cardflow.FieldNumber, Brand: "amex"})
	st = st.WithFieldChange(cardflow.ChangeEvent{Field: cardflow.FieldCVC, Empty: true})
	require.Equal(t, "amex", st.Brand)
}

func TestTransitionsDoNotMutateOriginal(t *testing.T) {
	original := cardflow.State{}
	_ = original.WithCardholderName("Alice")
	_ = original.WithFieldChange(cardflow.ChangeEvent{Field: cardflow.FieldNumber, Complete: true})
	require.Equal(t, cardflow.State{}, original)
}

package common_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/junaid4290/my-auth-stripe-app/internal/common"
)

func TestWriteErrorUsesAppErrorStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	common.WriteError(rr, common.NewValidationError("Amount must be a positive number"))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.JSONEq(t, `{"error":"Amount must be a positive number"}`, rr.Body.String())
}

func TestWriteErrorWrapsUnknownErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	common.WriteError(rr, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.JSONEq(t, `{"error":"boom"}`, rr.Body.String())
}

func TestAppErrorUnwrap(t *testing.T) {
	inner := errors.New("socket closed")
	err := common.NewProcessorError("Failed to create payment intent", inner)
	require.ErrorIs(t, err, inner)
	require.True(t, common.IsAppError(err))
	require.Equal(t, "socket closed", err.Error())
}

func TestJSONErrorShape(t *testing.T) {
	rr := httptest.NewRecorder()
	common.JSONError(rr, http.StatusBadRequest, "No signature provided")

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.JSONEq(t, `{"error":"No signature provided"}`, rr.Body.String())
}

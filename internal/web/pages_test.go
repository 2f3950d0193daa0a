package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/junaid4290/my-auth-stripe-app/internal/web"
)

func newPages(t *testing.T) *web.Pages {
	t.Helper()
	pages, err := web.NewPages("pk_test_123", zerolog.Nop())
	require.NoError(t, err)
	return pages
}

func TestIndexEmbedsPublishableKey(t *testing.T) {
	pages := newPages(t)
	rr := httptest.NewRecorder()
	pages.Index(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rr.Body.String(), "pk_test_123")
	require.Contains(t, rr.Body.String(), "/api/create-payment-intent")
	require.Contains(t, rr.Body.String(), "/api/create-checkout")
}

func TestSuccessShowsSessionID(t *testing.T) {
	pages := newPages(t)
	rr := httptest.NewRecorder()
	pages.Success(rr, httptest.NewRequest(http.MethodGet, "/payment/success?session_id=cs_123", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Checkout Session ID")
	require.Contains(t, rr.Body.String(), "cs_123")
}

func TestSuccessShowsPaymentIntentID(t *testing.T) {
	pages := newPages(t)
	rr := httptest.NewRecorder()
	pages.Success(rr, httptest.NewRequest(http.MethodGet, "/payment/success?payment_intent=pi_123", nil))

	require.Contains(t, rr.Body.String(), "Payment Intent ID")
	require.Contains(t, rr.Body.String(), "pi_123")
}

func TestSuccessWithoutIdentifierOmitsBox(t *testing.T) {
	pages := newPages(t)
	rr := httptest.NewRecorder()
	pages.Success(rr, httptest.NewRequest(http.MethodGet, "/payment/success", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotContains(t, rr.Body.String(), "Payment Intent ID")
	require.NotContains(t, rr.Body.String(), "Checkout Session ID")
}

func TestCancel(t *testing.T) {
	pages := newPages(t)
	rr := httptest.NewRecorder()
	pages.Cancel(rr, httptest.NewRequest(http.MethodGet, "/payment/cancel", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Payment Cancelled")
	require.Contains(t, rr.Body.String(), "No charges were made")
}

package payment

import (
	"encoding/json"
	"net/http"

	"github.com/junaid4290/my-auth-stripe-app/internal/common"
	"github.com/junaid4290/my-auth-stripe-app/internal/obs"
)

// Handler exposes the payment initiation endpoints.
type Handler struct {
	Svc *Service
}

// CreateIntent handles POST /api/create-payment-intent.
func (h *Handler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "payment handler unavailable")
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	result, err := h.Svc.CreateIntent(r.Context(), req)
	if err != nil {
		obs.ObserveIntentCreate("error")
		common.WriteError(w, err)
		return
	}
	obs.ObserveIntentCreate("ok")
	common.JSON(w, http.StatusOK, result)
}

// CreateCheckout handles POST /api/create-checkout.
func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "payment handler unavailable")
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	result, err := h.Svc.CreateCheckout(r.Context(), req)
	if err != nil {
		obs.ObserveCheckoutCreate("error")
		common.WriteError(w, err)
		return
	}
	obs.ObserveCheckoutCreate("ok")
	common.JSON(w, http.StatusOK, result)
}

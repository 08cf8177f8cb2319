package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/co-developer342/fyp-wednesday/internal/checkout"
	"github.com/co-developer342/fyp-wednesday/internal/orders"
	"github.com/co-developer342/fyp-wednesday/internal/payment"
)

type CheckoutHandler struct {
	coordinator *checkout.Coordinator
	methods     payment.MethodSource
	orders      orders.Client
}

func NewCheckoutHandler(coordinator *checkout.Coordinator, methods payment.MethodSource, ordersClient orders.Client) *CheckoutHandler {
	return &CheckoutHandler{coordinator: coordinator, methods: methods, orders: ordersClient}
}

type checkoutStateView struct {
	State       checkout.State `json:"state"`
	ClientToken string         `json:"clientToken,omitempty"`
	TokenError  string         `json:"tokenError,omitempty"`
	LastError   string         `json:"lastError,omitempty"`
	OrderID     string         `json:"orderId,omitempty"`
}

func (h *CheckoutHandler) stateView() checkoutStateView {
	v := checkoutStateView{
		State:       h.coordinator.State(),
		ClientToken: h.coordinator.ClientToken(),
		OrderID:     h.coordinator.OrderID(),
	}
	if err := h.coordinator.TokenError(); err != nil {
		v.TokenError = err.Error()
	}
	if err := h.coordinator.LastError(); err != nil {
		v.LastError = err.Error()
	}
	return v
}

func (h *CheckoutHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.stateView())
}

// StartToken fetches the payment client token. Callable again after a
// failure, which is the retry affordance the page itself never had.
func (h *CheckoutHandler) StartToken(w http.ResponseWriter, r *http.Request) {
	err := h.coordinator.Start(r.Context())
	if err != nil {
		if errors.Is(err, checkout.ErrNotIdle) {
			writeError(w, http.StatusConflict, "token fetch already started")
			return
		}
		writeJSON(w, http.StatusBadGateway, h.stateView())
		return
	}
	writeJSON(w, http.StatusOK, h.stateView())
}

// Submit triggers the payment with the identity the rendering layer asserts.
// Precondition violations map to 409 so the UI can keep the control
// disabled; provider and order failures map to 502.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID        string `json:"userId"`
		Authenticated bool   `json:"authenticated"`
		Address       string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	method := h.methods.Method(h.coordinator.ClientToken())
	user := checkout.User{
		ID:            body.UserID,
		Authenticated: body.Authenticated,
		Address:       body.Address,
	}

	conf, err := h.coordinator.Submit(r.Context(), method, user)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNotReady),
			errors.Is(err, checkout.ErrEmptyCart),
			errors.Is(err, checkout.ErrNotAuthenticated),
			errors.Is(err, checkout.ErrNoAddress),
			errors.Is(err, checkout.ErrNoPaymentMethod):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusBadGateway, "payment failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, conf)
}

// ListOrders backs the order-history view checkout navigates to.
func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	list, err := h.orders.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to load orders")
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": list})
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/co-developer342/fyp-wednesday/internal/cart"
	"github.com/co-developer342/fyp-wednesday/internal/catalog"
	"github.com/co-developer342/fyp-wednesday/internal/pricing"
)

type CartHandler struct {
	store   *cart.Store
	catalog catalog.Client
	logger  *zap.Logger
}

func NewCartHandler(store *cart.Store, catalogClient catalog.Client, logger *zap.Logger) *CartHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartHandler{store: store, catalog: catalogClient, logger: logger}
}

type cartView struct {
	Items        []cart.LineItem `json:"items"`
	ItemCount    int             `json:"itemCount"`
	TotalAmount  float64         `json:"totalAmount"`
	TotalDisplay string          `json:"totalDisplay"`
}

func (h *CartHandler) view() cartView {
	items := h.store.Items()
	total := pricing.CartTotal(items)
	return cartView{
		Items:        items,
		ItemCount:    pricing.ItemCount(items),
		TotalAmount:  total,
		TotalDisplay: pricing.FormatUSD(total),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view())
}

// AddItem snapshots the product from the catalog and appends a line item.
// When the client sends no selections, the first option of every attribute
// is preselected, matching the product page's default dropdown state.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Slug       string            `json:"slug"`
		Selections map[string]string `json:"selections"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Slug == "" {
		writeError(w, http.StatusBadRequest, "missing slug")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.catalog.GetProduct(ctx, body.Slug)
	if err != nil {
		h.logger.Warn("add to cart: product fetch failed", zap.String("slug", body.Slug), zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to load product")
		return
	}

	var selected map[string]cart.SelectedAttribute
	if body.Selections == nil {
		selected = cart.DefaultSelections(p)
	} else {
		selected = make(map[string]cart.SelectedAttribute, len(body.Selections))
		for key, value := range body.Selections {
			opt, ok := p.Option(key, value)
			if !ok {
				writeError(w, http.StatusBadRequest, "unknown attribute selection")
				return
			}
			selected[key] = cart.SelectedAttribute{Value: opt.Value, PriceDelta: opt.PriceDelta}
		}
	}

	item, err := h.store.Add(ctx, p, selected)
	if err != nil {
		if errors.Is(err, cart.ErrUnknownAttribute) {
			writeError(w, http.StatusBadRequest, "unknown attribute selection")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Added cart.LineItem `json:"added"`
		Cart  cartView      `json:"cart"`
	}{Added: item, Cart: h.view()})
}

// RemoveProduct removes every line item for the product. This is the legacy
// identity: all variants of the product go at once.
func (h *CartHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.store.Remove(ctx, productID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineId")
	if lineID == "" {
		writeError(w, http.StatusBadRequest, "missing lineId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.store.RemoveLine(ctx, lineID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

type attributeUpdate struct {
	Key        string  `json:"key"`
	Value      string  `json:"value"`
	PriceDelta float64 `json:"price"`
}

// UpdateProductAttribute sets the selection on every line item matching the
// product id. A product with no lines in the cart is a no-op.
func (h *CartHandler) UpdateProductAttribute(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}

	var body attributeUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Key == "" {
		writeError(w, http.StatusBadRequest, "missing attribute key")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.store.UpdateAttribute(ctx, productID, body.Key, body.Value, body.PriceDelta); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) UpdateLineAttribute(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineId")
	if lineID == "" {
		writeError(w, http.StatusBadRequest, "missing lineId")
		return
	}

	var body attributeUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Key == "" {
		writeError(w, http.StatusBadRequest, "missing attribute key")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.store.UpdateLineAttribute(ctx, lineID, body.Key, body.Value, body.PriceDelta); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.store.Clear(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}

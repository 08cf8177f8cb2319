package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/co-developer342/fyp-wednesday/internal/catalog"
)

type CatalogHandler struct {
	catalog catalog.Client
	logger  *zap.Logger
}

func NewCatalogHandler(catalogClient catalog.Client, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{catalog: catalogClient, logger: logger}
}

// ListProducts passes the catalog through. A catalog failure is recovered
// locally: the shop renders an empty list rather than a blocking error.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		h.logger.Warn("catalog list failed", zap.Error(err))
		products = nil
	}
	if products == nil {
		products = []catalog.Product{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

// GetProduct returns a single product with its attributes, plus related
// products from the same category when available.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		writeError(w, http.StatusBadRequest, "missing slug")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.catalog.GetProduct(ctx, slug)
	if err != nil {
		h.logger.Warn("catalog get failed", zap.String("slug", slug), zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to load product")
		return
	}

	related, err := h.catalog.RelatedProducts(ctx, p.ID, p.CategoryID)
	if err != nil {
		// Related products are decoration; the product page still works.
		h.logger.Warn("related products failed", zap.String("productId", p.ID), zap.Error(err))
		related = nil
	}
	if related == nil {
		related = []catalog.Product{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"product":         p,
		"relatedProducts": related,
	})
}

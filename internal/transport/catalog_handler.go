package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DefaultSearchTimeout bounds a request when no timeout is configured
const DefaultSearchTimeout = 5 * time.Second

// CatalogHandler handles HTTP requests for the storefront catalog
type CatalogHandler struct {
	catalog service.CatalogService
	timeout time.Duration
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler. A non-positive timeout
// falls back to DefaultSearchTimeout.
func NewCatalogHandler(catalog service.CatalogService, timeout time.Duration, logger *zap.Logger) *CatalogHandler {
	if timeout <= 0 {
		timeout = DefaultSearchTimeout
	}
	return &CatalogHandler{
		catalog: catalog,
		timeout: timeout,
		logger:  logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/stores/{storeID}/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Get("/{categoryID}/search", h.Search)
		r.Get("/{categoryID}/suggestions", h.Suggest)
		r.Get("/{categoryID}/products", h.ListProducts)
	})
	r.Get("/api/products/{productID}", h.GetProduct)
}

// Search handles tiered product search within a category
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	storeID, categoryID, ok := h.scopeParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	results, err := h.catalog.Search(ctx, storeID, categoryID, r.URL.Query().Get("q"))
	if err != nil {
		h.respondWithServiceError(w, err, "search failed")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, results)
}

// Suggest handles product name autocomplete within a category
func (h *CatalogHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	storeID, categoryID, ok := h.scopeParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names, err := h.catalog.Suggest(ctx, storeID, categoryID, r.URL.Query().Get("q"))
	if err != nil {
		h.respondWithServiceError(w, err, "suggestions failed")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, names)
}

// ListCategories handles category browsing; parent_id selects a subtree
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	storeID, verr := middleware.ParseIDParam(r, "storeID")
	if verr != nil {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{*verr})
		return
	}
	parentID, verr := middleware.ParseOptionalIDQuery(r, "parent_id")
	if verr != nil {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{*verr})
		return
	}

	categories, err := h.catalog.ListCategories(r.Context(), storeID, parentID)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// ListProducts handles the listing of a category and its immediate children
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	storeID, categoryID, ok := h.scopeParams(w, r)
	if !ok {
		return
	}

	products, err := h.catalog.ListProducts(r.Context(), storeID, categoryID)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct handles product detail lookup
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, verr := middleware.ParseIDParam(r, "productID")
	if verr != nil {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{*verr})
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) scopeParams(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	var invalid []middleware.ValidationError

	storeID, verr := middleware.ParseIDParam(r, "storeID")
	if verr != nil {
		invalid = append(invalid, *verr)
	}
	categoryID, verr := middleware.ParseIDParam(r, "categoryID")
	if verr != nil {
		invalid = append(invalid, *verr)
	}

	if len(invalid) > 0 {
		middleware.RespondWithValidationErrors(w, invalid)
		return 0, 0, false
	}
	return storeID, categoryID, true
}

// respondWithServiceError maps service and repository errors to status codes
func (h *CatalogHandler) respondWithServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		h.logger.Debug("Rejected request", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid argument")
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrCategoryNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "category not found")
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("Request timed out", zap.Error(err))
		middleware.RespondWithError(w, http.StatusGatewayTimeout, "search timed out")
	case errors.Is(err, service.ErrSearchUnavailable):
		h.logger.Error("Search unavailable", zap.Error(err))
		middleware.RespondWithError(w, http.StatusServiceUnavailable, "search is temporarily unavailable")
	default:
		h.logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

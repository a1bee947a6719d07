package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	// SuggestionLimit caps the number of names returned by Suggest
	SuggestionLimit = 5
)

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrSearchUnavailable = errors.New("search unavailable")
)

var validate = validator.New()

// CatalogService defines the read-only storefront operations
type CatalogService interface {
	Search(ctx context.Context, storeID, categoryID int64, query string) ([]domain.SearchResult, error)
	Suggest(ctx context.Context, storeID, categoryID int64, prefix string) ([]string, error)
	GetProduct(ctx context.Context, productID int64) (*domain.SearchResult, error)
	ListCategories(ctx context.Context, storeID, parentID int64) ([]*domain.Category, error)
	ListProducts(ctx context.Context, storeID, categoryID int64) ([]domain.SearchResult, error)
}

// Option configures a catalog service
type Option func(*catalogService)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(s *catalogService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMonitor sets the search monitor. A nil monitor is ignored.
func WithMonitor(monitor SearchMonitor) Option {
	return func(s *catalogService) {
		if monitor != nil {
			s.monitor = monitor
		}
	}
}

type catalogService struct {
	products   repository.ProductSearchRepository
	categories repository.CategoryRepository
	logger     *zap.Logger
	monitor    SearchMonitor
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	products repository.ProductSearchRepository,
	categories repository.CategoryRepository,
	opts ...Option,
) CatalogService {
	s := &catalogService{
		products:   products,
		categories: categories,
		logger:     zap.NewNop(),
		monitor:    noopMonitor{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type scopeParams struct {
	StoreID    int64  `validate:"gt=0"`
	CategoryID int64  `validate:"gt=0"`
	Query      string `validate:"required"`
}

func validateScope(storeID, categoryID int64, query string) error {
	params := scopeParams{
		StoreID:    storeID,
		CategoryID: categoryID,
		Query:      strings.TrimSpace(query),
	}
	if err := validate.Struct(params); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return nil
}

// Suggest returns product names in scope starting with prefix
func (s *catalogService) Suggest(ctx context.Context, storeID, categoryID int64, prefix string) ([]string, error) {
	if err := validateScope(storeID, categoryID, prefix); err != nil {
		return nil, err
	}

	scope := repository.SearchScope{StoreID: storeID, CategoryID: categoryID}
	names, err := s.products.Suggest(ctx, scope, strings.TrimSpace(prefix), SuggestionLimit)
	if err != nil {
		s.logger.Error("Suggestion query failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}

	return names, nil
}

// GetProduct retrieves one product with its current pricing
func (s *catalogService) GetProduct(ctx context.Context, productID int64) (*domain.SearchResult, error) {
	if err := validate.Var(productID, "gt=0"); err != nil {
		return nil, fmt.Errorf("%w: product id: %w", ErrInvalidArgument, err)
	}

	match, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	result := match.ToSearchResult()
	return &result, nil
}

// ListCategories lists the top-level categories of a store when parentID is
// zero, and the children of parentID otherwise.
func (s *catalogService) ListCategories(ctx context.Context, storeID, parentID int64) ([]*domain.Category, error) {
	if err := validate.Var(storeID, "gt=0"); err != nil {
		return nil, fmt.Errorf("%w: store id: %w", ErrInvalidArgument, err)
	}
	if err := validate.Var(parentID, "gte=0"); err != nil {
		return nil, fmt.Errorf("%w: parent id: %w", ErrInvalidArgument, err)
	}

	if parentID == 0 {
		categories, err := s.categories.ListTopLevel(ctx, storeID)
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		return categories, nil
	}

	parent, err := s.categories.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find parent category: %w", err)
	}
	if parent.StoreID != storeID {
		return nil, repository.ErrCategoryNotFound
	}

	categories, err := s.categories.ListChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list child categories: %w", err)
	}
	return categories, nil
}

// ListProducts lists every product of a store in a category and its
// immediate children, priced like search results.
func (s *catalogService) ListProducts(ctx context.Context, storeID, categoryID int64) ([]domain.SearchResult, error) {
	if err := validate.Var(storeID, "gt=0"); err != nil {
		return nil, fmt.Errorf("%w: store id: %w", ErrInvalidArgument, err)
	}
	if err := validate.Var(categoryID, "gt=0"); err != nil {
		return nil, fmt.Errorf("%w: category id: %w", ErrInvalidArgument, err)
	}

	scope := repository.SearchScope{StoreID: storeID, CategoryID: categoryID}
	matches, err := s.products.ListProducts(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, m.ToSearchResult())
	}
	return results, nil
}

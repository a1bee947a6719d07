package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"

	sq "github.com/Masterminds/squirrel"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	ListTopLevel(ctx context.Context, storeID int64) ([]*domain.Category, error)
	ListChildren(ctx context.Context, parentID int64) ([]*domain.Category, error)
}

type categoryRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *categoryRepository) selectCategories() sq.SelectBuilder {
	return r.builder.
		Select("id", "name", "store_id", "parent_category_id").
		From("categories")
}

// FindByID retrieves a category by ID
func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	query, args, err := r.selectCategories().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build category query: %w", err)
	}

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return category, nil
}

// ListTopLevel retrieves the categories of a store that have no parent
func (r *categoryRepository) ListTopLevel(ctx context.Context, storeID int64) ([]*domain.Category, error) {
	return r.list(ctx, r.selectCategories().
		Where(sq.Eq{"store_id": storeID}).
		Where(sq.Eq{"parent_category_id": nil}))
}

// ListChildren retrieves the immediate children of a category
func (r *categoryRepository) ListChildren(ctx context.Context, parentID int64) ([]*domain.Category, error) {
	return r.list(ctx, r.selectCategories().Where(sq.Eq{"parent_category_id": parentID}))
}

func (r *categoryRepository) list(ctx context.Context, b sq.SelectBuilder) ([]*domain.Category, error) {
	query, args, err := b.OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build category query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var (
		category domain.Category
		parentID sql.NullInt64
	)

	if err := row.Scan(&category.ID, &category.Name, &category.StoreID, &parentID); err != nil {
		return nil, err
	}

	if parentID.Valid {
		category.ParentID = &parentID.Int64
	}

	return &category, nil
}

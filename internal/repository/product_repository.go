package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"storefront/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// SearchScope restricts a query to one store and to a category plus its
// immediate children.
type SearchScope struct {
	StoreID    int64
	CategoryID int64
}

// ProductSearchRepository defines the read queries behind the storefront search
type ProductSearchRepository interface {
	SearchRelevance(ctx context.Context, scope SearchScope, terms []string) ([]domain.ProductMatch, error)
	SearchSubstring(ctx context.Context, scope SearchScope, terms []string, excludeIDs []int64) ([]domain.ProductMatch, error)
	Suggest(ctx context.Context, scope SearchScope, prefix string, limit int) ([]string, error)
	FindByID(ctx context.Context, id int64) (*domain.ProductMatch, error)
	ListProducts(ctx context.Context, scope SearchScope) ([]domain.ProductMatch, error)
}

type productRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

// NewProductRepository creates a new instance of ProductSearchRepository
func NewProductRepository(db *sql.DB) ProductSearchRepository {
	return &productRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// selectMatches projects the columns scanned by scanMatch. The discount
// percent is NULL when the product has no discount or it has expired.
func (r *productRepository) selectMatches() sq.SelectBuilder {
	return r.builder.
		Select(
			"p.id",
			"p.image",
			"p.name",
			"p.description",
			"p.category_id",
			"p.unit_price",
			"CASE WHEN d.end_date > NOW() THEN d.percent END AS discount_percent",
		).
		From("products p").
		LeftJoin("discounts d ON d.id = p.discount_id")
}

func (r *productRepository) scoped(b sq.SelectBuilder, scope SearchScope) sq.SelectBuilder {
	return b.
		Join("categories c ON c.id = p.category_id").
		Where(sq.Eq{"p.store_id": scope.StoreID}).
		Where(sq.Or{
			sq.Eq{"p.category_id": scope.CategoryID},
			sq.Eq{"c.parent_category_id": scope.CategoryID},
		})
}

// SearchRelevance runs a full-text OR match over name and description,
// ranked by relevance and then by category id.
func (r *productRepository) SearchRelevance(ctx context.Context, scope SearchScope, terms []string) ([]domain.ProductMatch, error) {
	tsquery := orTSQuery(terms)
	if tsquery == "" {
		return []domain.ProductMatch{}, nil
	}

	query, args, err := r.scoped(r.selectMatches(), scope).
		Where("p.search_vector @@ to_tsquery('simple', ?)", tsquery).
		OrderByClause("ts_rank(p.search_vector, to_tsquery('simple', ?)) DESC", tsquery).
		OrderBy("p.category_id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build relevance query: %w", err)
	}

	matches, err := r.queryMatches(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to run relevance search: %w", err)
	}

	return matches, nil
}

// SearchSubstring matches products where any term is a case-insensitive
// substring of the name or the description. Products in excludeIDs are skipped.
func (r *productRepository) SearchSubstring(ctx context.Context, scope SearchScope, terms []string, excludeIDs []int64) ([]domain.ProductMatch, error) {
	if len(terms) == 0 {
		return []domain.ProductMatch{}, nil
	}

	anyTerm := sq.Or{}
	for _, term := range terms {
		pattern := "%" + escapeLike(term) + "%"
		anyTerm = append(anyTerm, sq.Or{
			sq.ILike{"p.name": pattern},
			sq.ILike{"p.description": pattern},
		})
	}

	builder := r.scoped(r.selectMatches(), scope).Where(anyTerm)
	if len(excludeIDs) > 0 {
		builder = builder.Where(sq.NotEq{"p.id": excludeIDs})
	}

	query, args, err := builder.OrderBy("p.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build substring query: %w", err)
	}

	matches, err := r.queryMatches(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to run substring search: %w", err)
	}

	return matches, nil
}

// Suggest returns up to limit product names starting with prefix
func (r *productRepository) Suggest(ctx context.Context, scope SearchScope, prefix string, limit int) ([]string, error) {
	query, args, err := r.scoped(r.builder.Select("p.name").From("products p"), scope).
		Where(sq.ILike{"p.name": escapeLike(prefix) + "%"}).
		OrderBy("p.name ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build suggestion query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		names = append(names, name)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suggestions: %w", err)
	}

	return names, nil
}

// FindByID retrieves a product with its active discount, if any
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.ProductMatch, error) {
	query, args, err := r.selectMatches().Where(sq.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build product query: %w", err)
	}

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return &match, nil
}

// ListProducts returns every product in scope ordered by id
func (r *productRepository) ListProducts(ctx context.Context, scope SearchScope) ([]domain.ProductMatch, error) {
	query, args, err := r.scoped(r.selectMatches(), scope).OrderBy("p.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build listing query: %w", err)
	}

	matches, err := r.queryMatches(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return matches, nil
}

func (r *productRepository) queryMatches(ctx context.Context, query string, args []interface{}) ([]domain.ProductMatch, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := []domain.ProductMatch{}
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		matches = append(matches, match)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return matches, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner) (domain.ProductMatch, error) {
	var (
		match   domain.ProductMatch
		percent decimal.NullDecimal
	)

	err := row.Scan(
		&match.ID,
		&match.Image,
		&match.Name,
		&match.Description,
		&match.CategoryID,
		&match.UnitPrice,
		&percent,
	)
	if err != nil {
		return domain.ProductMatch{}, err
	}

	if percent.Valid {
		match.DiscountPercent = &percent.Decimal
	}

	return match, nil
}

// escapeLike escapes LIKE metacharacters so terms match literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// orTSQuery builds a to_tsquery expression matching any of the terms.
// Characters outside letters and digits are treated as separators so user
// input can never form tsquery operators.
func orTSQuery(terms []string) string {
	lexemes := []string{}
	seen := map[string]bool{}

	for _, term := range terms {
		words := strings.FieldsFunc(term, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, w := range words {
			w = strings.ToLower(w)
			if seen[w] {
				continue
			}
			seen[w] = true
			lexemes = append(lexemes, w)
		}
	}

	return strings.Join(lexemes, " | ")
}

// Package seed loads a small demo catalog used for local development and
// for exercising the tiered search by hand.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Summary reports the ids created by Run
type Summary struct {
	StoreID    int64
	Categories map[string]int64
	DiscountID int64
	Products   int
}

type productSeed struct {
	name        string
	description string
	category    string
	price       string
	discounted  bool
	recommended bool
}

var catalog = []productSeed{
	{"Smartphone X", "Flagship phone with a great camera", "Phones", "799.00", false, true},
	{"Budget Phone", "Affordable phone with long battery life", "Phones", "149.99", true, false},
	{"Blue Phone Case", "Slim silicone case for Smartphone X", "Cases", "19.90", true, true},
	{"Leather Wallet Case", "Folio case with card slots", "Cases", "34.50", false, false},
	{"Fast Charger", "65W USB-C charger", "Chargers", "29.00", true, false},
	{"Wireless Charging Pad", "Qi charging pad for phones and earbuds", "Chargers", "39.00", false, false},
	{"Chef Knife", "Forged steel knife for the kitchen", "Kitchen", "89.00", false, true},
	{"Cutting Board", "Bamboo board with juice groove", "Kitchen", "24.00", true, false},
}

// categoryTree maps each seeded category to its parent; "" marks a top-level category
var categoryTree = []struct{ name, parent string }{
	{"Phones", ""},
	{"Cases", "Phones"},
	{"Chargers", "Phones"},
	{"Kitchen", ""},
}

// Run inserts one demo store with its categories, a discount and products in
// a single transaction.
func Run(ctx context.Context, db *sql.DB) (*Summary, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	store := domain.Store{
		Name:      "Demo Electronics " + uuid.NewString()[:8],
		OwnerID:   1,
		Location:  "Main Street 1",
		LogoImage: imageName(),
	}
	if store.ID, err = insertReturningID(ctx, tx, builder.Insert("stores").
		Columns("name", "owner_id", "location", "logo_image").
		Values(store.Name, store.OwnerID, store.Location, store.LogoImage)); err != nil {
		return nil, fmt.Errorf("failed to insert store: %w", err)
	}

	summary := &Summary{StoreID: store.ID, Categories: make(map[string]int64)}

	for _, node := range categoryTree {
		category := domain.Category{Name: node.name, StoreID: store.ID}
		if node.parent != "" {
			parentID := summary.Categories[node.parent]
			category.ParentID = &parentID
		}
		if category.ID, err = insertReturningID(ctx, tx, builder.Insert("categories").
			Columns("name", "store_id", "parent_category_id").
			Values(category.Name, category.StoreID, category.ParentID)); err != nil {
			return nil, fmt.Errorf("failed to insert category %s: %w", node.name, err)
		}
		summary.Categories[node.name] = category.ID
	}

	discount := domain.Discount{
		StoreID: store.ID,
		Percent: decimal.NewFromInt(15),
		Name:    "Launch week",
		EndDate: time.Now().UTC().AddDate(0, 0, 30),
	}
	if discount.ID, err = insertReturningID(ctx, tx, builder.Insert("discounts").
		Columns("store_id", "percent", "name", "end_date").
		Values(discount.StoreID, discount.Percent, discount.Name, discount.EndDate)); err != nil {
		return nil, fmt.Errorf("failed to insert discount: %w", err)
	}
	summary.DiscountID = discount.ID

	for _, seed := range catalog {
		product, err := seed.product(store.ID, summary.Categories[seed.category], discount.ID)
		if err != nil {
			return nil, err
		}
		if _, err := insertReturningID(ctx, tx, builder.Insert("products").
			Columns("name", "description", "image", "unit_price", "category_id", "store_id", "discount_id", "stock_quantity", "recommended").
			Values(product.Name, product.Description, product.Image, product.UnitPrice, product.CategoryID,
				product.StoreID, product.DiscountID, product.StockQuantity, product.Recommended)); err != nil {
			return nil, fmt.Errorf("failed to insert product %s: %w", seed.name, err)
		}
		summary.Products++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return summary, nil
}

func (s productSeed) product(storeID, categoryID, discountID int64) (domain.Product, error) {
	price, err := decimal.NewFromString(s.price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("invalid price for %s: %w", s.name, err)
	}

	product := domain.Product{
		Name:          s.name,
		Description:   s.description,
		Image:         imageName(),
		UnitPrice:     price,
		CategoryID:    categoryID,
		StoreID:       storeID,
		StockQuantity: 25,
		Recommended:   s.recommended,
	}
	if s.discounted {
		product.DiscountID = &discountID
	}
	return product, nil
}

func insertReturningID(ctx context.Context, tx *sql.Tx, insert sq.InsertBuilder) (int64, error) {
	query, args, err := insert.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert: %w", err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func imageName() string {
	return uuid.NewString() + ".jpg"
}

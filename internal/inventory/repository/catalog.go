package repository

import (
	"context"

	"github.com/retailhub/backoffice/pkg/database"
)

// Category is a product category
type Category struct {
	ID   int64  `db:"category_id" json:"category_id"`
	Name string `db:"category_name" json:"category_name"`
}

// Brand is a product brand
type Brand struct {
	ID   int64  `db:"brand_id" json:"brand_id"`
	Name string `db:"brand_name" json:"brand_name"`
}

// CatalogRepository handles categories and brands
type CatalogRepository struct {
	db *database.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *database.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCategories lists product categories
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]*Category, error) {
	var categories []*Category
	query := `SELECT category_id, category_name FROM product_categories ORDER BY category_name`
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory inserts a category
func (r *CatalogRepository) CreateCategory(ctx context.Context, c *Category) error {
	query := `INSERT INTO product_categories (category_name) VALUES ($1) RETURNING category_id`
	return database.Translate(r.db.QueryRowxContext(ctx, query, c.Name).Scan(&c.ID), "category")
}

// ListBrands lists brands
func (r *CatalogRepository) ListBrands(ctx context.Context) ([]*Brand, error) {
	var brands []*Brand
	query := `SELECT brand_id, brand_name FROM brands ORDER BY brand_name`
	if err := r.db.SelectContext(ctx, &brands, query); err != nil {
		return nil, err
	}
	return brands, nil
}

// CreateBrand inserts a brand
func (r *CatalogRepository) CreateBrand(ctx context.Context, b *Brand) error {
	query := `INSERT INTO brands (brand_name) VALUES ($1) RETURNING brand_id`
	return database.Translate(r.db.QueryRowxContext(ctx, query, b.Name).Scan(&b.ID), "brand")
}

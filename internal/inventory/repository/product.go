package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/retailhub/backoffice/pkg/database"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/shopspring/decimal"
)

// Product represents a catalog product with its current stock
type Product struct {
	ID                  int64           `db:"product_id" json:"product_id"`
	Name                string          `db:"product_name" json:"product_name"`
	BrandID             *int64          `db:"brand_id" json:"brand_id,omitempty"`
	BrandName           *string         `db:"brand_name" json:"brand_name,omitempty"`
	CategoryID          int64           `db:"category_id" json:"category_id"`
	CategoryName        string          `db:"category_name" json:"category_name"`
	SubcategoryID       *int64          `db:"subcategory_id" json:"subcategory_id,omitempty"`
	SupplierID          *int64          `db:"supplier_id" json:"supplier_id,omitempty"`
	SupplierName        *string         `db:"supplier_name" json:"supplier_name,omitempty"`
	Unit                string          `db:"unit" json:"unit"`
	ReorderLevel        int             `db:"reorder_level" json:"reorder_level"`
	StockThresholdAlert bool            `db:"stock_threshold_alert" json:"stock_threshold_alert"`
	TaxPercentage       decimal.Decimal `db:"tax_percentage" json:"tax_percentage"`
	Stock               int             `db:"stock" json:"stock"`
	DateAdded           time.Time       `db:"date_added" json:"date_added"`
	LastUpdated         time.Time       `db:"last_updated" json:"last_updated"`
}

// Shortfall is a product whose stock is below its reorder level
type Shortfall struct {
	ProductID    int64  `db:"product_id" json:"product_id"`
	ProductName  string `db:"product_name" json:"product_name"`
	SupplierID   *int64 `db:"supplier_id" json:"supplier_id,omitempty"`
	ReorderLevel int    `db:"reorder_level" json:"reorder_level"`
	Stock        int    `db:"stock" json:"stock"`
}

// Required is the quantity needed to reach the reorder level
func (s *Shortfall) Required() int {
	return s.ReorderLevel - s.Stock
}

// ProductRepository handles product persistence
type ProductRepository struct {
	db *database.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *database.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productSelect = `
	SELECT p.product_id, p.product_name, p.brand_id, b.brand_name, p.category_id, c.category_name,
	       p.subcategory_id, p.supplier_id, s.supplier_name, p.unit, p.reorder_level,
	       p.stock_threshold_alert, p.tax_percentage, p.date_added, p.last_updated,
	       COALESCE((SELECT SUM(ib.quantity) FROM inventory_batches ib WHERE ib.product_id = p.product_id), 0) AS stock
	FROM products p
	JOIN product_categories c ON c.category_id = p.category_id
	LEFT JOIN brands b ON b.brand_id = p.brand_id
	LEFT JOIN suppliers s ON s.supplier_id = p.supplier_id`

// List lists every product with its stock
func (r *ProductRepository) List(ctx context.Context) ([]*Product, error) {
	var products []*Product
	if err := r.db.SelectContext(ctx, &products, productSelect+` ORDER BY p.product_name`); err != nil {
		return nil, err
	}
	return products, nil
}

// Search lists products whose name contains term, case-insensitively
func (r *ProductRepository) Search(ctx context.Context, term string) ([]*Product, error) {
	var products []*Product
	query := productSelect + ` WHERE p.product_name ILIKE $1 ORDER BY p.product_name`
	if err := r.db.SelectContext(ctx, &products, query, "%"+escapeLike(term)+"%"); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID gets a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	if err := r.db.GetContext(ctx, &p, productSelect+` WHERE p.product_id = $1`, id); err != nil {
		return nil, database.Translate(err, "product")
	}
	return &p, nil
}

// Create inserts a product
func (r *ProductRepository) Create(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (
			product_name, brand_id, category_id, subcategory_id, supplier_id, unit,
			reorder_level, tax_percentage
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING product_id, date_added, last_updated
	`

	err := r.db.QueryRowxContext(ctx, query,
		p.Name, p.BrandID, p.CategoryID, p.SubcategoryID, p.SupplierID, p.Unit,
		p.ReorderLevel, p.TaxPercentage,
	).Scan(&p.ID, &p.DateAdded, &p.LastUpdated)
	return database.Translate(err, "product")
}

// Update updates a product's catalog fields
func (r *ProductRepository) Update(ctx context.Context, p *Product) error {
	query := `
		UPDATE products SET
			product_name = $2, brand_id = $3, category_id = $4, subcategory_id = $5,
			supplier_id = $6, unit = $7, reorder_level = $8, tax_percentage = $9,
			last_updated = NOW()
		WHERE product_id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.BrandID, p.CategoryID, p.SubcategoryID, p.SupplierID, p.Unit,
		p.ReorderLevel, p.TaxPercentage,
	)
	if err != nil {
		return database.Translate(err, "product")
	}
	return requireRow(result, "product")
}

// Shortfalls lists products whose summed batch quantity is below the
// reorder level
func (r *ProductRepository) Shortfalls(ctx context.Context) ([]*Shortfall, error) {
	query := `
		SELECT p.product_id, p.product_name, p.supplier_id, p.reorder_level,
		       COALESCE(SUM(b.quantity), 0) AS stock
		FROM products p
		LEFT JOIN inventory_batches b ON b.product_id = p.product_id
		GROUP BY p.product_id, p.product_name, p.supplier_id, p.reorder_level
		HAVING p.reorder_level - COALESCE(SUM(b.quantity), 0) > 0
		ORDER BY p.product_id
	`

	var rows []*Shortfall
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}

// SetThresholdAlerts raises the stock threshold flag on the listed products
// and clears it everywhere else
func (r *ProductRepository) SetThresholdAlerts(ctx context.Context, productIDs []int64) error {
	if productIDs == nil {
		productIDs = []int64{}
	}
	query := `
		UPDATE products
		SET stock_threshold_alert = (product_id = ANY($1))
		WHERE stock_threshold_alert <> (product_id = ANY($1))
	`
	_, err := r.db.ExecContext(ctx, query, pq.Array(productIDs))
	return err
}

func requireRow(result sql.Result, resource string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound(resource)
	}
	return nil
}

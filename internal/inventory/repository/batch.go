package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/retailhub/backoffice/pkg/database"
	"github.com/shopspring/decimal"
)

// Batch is a received lot of a product. Batches are append-only; a
// product's stock is the sum of its batch quantities.
type Batch struct {
	ID           int64            `db:"batch_id" json:"batch_id"`
	ProductID    int64            `db:"product_id" json:"product_id"`
	ProductName  string           `db:"product_name" json:"product_name,omitempty"`
	OrderID      *int64           `db:"order_id" json:"order_id,omitempty"`
	Quantity     int              `db:"quantity" json:"quantity"`
	CostPerUnit  *decimal.Decimal `db:"cost_per_unit" json:"cost_per_unit,omitempty"`
	PurchaseRate *decimal.Decimal `db:"purchase_rate" json:"purchase_rate,omitempty"`
	MRP          *decimal.Decimal `db:"mrp" json:"mrp,omitempty"`
	SalesRate    *decimal.Decimal `db:"sales_rate" json:"sales_rate,omitempty"`
	ExpiryDate   *time.Time       `db:"expiry_date" json:"expiry_date,omitempty"`
	DateReceived time.Time        `db:"date_received" json:"date_received"`
}

// BatchRepository handles batch persistence
type BatchRepository struct {
	db *database.DB
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *database.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// Insert appends a batch on the caller's transaction
func (r *BatchRepository) Insert(ctx context.Context, tx sqlx.QueryerContext, b *Batch) error {
	query := `
		INSERT INTO inventory_batches (
			product_id, order_id, quantity, cost_per_unit, purchase_rate, mrp, sales_rate, expiry_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING batch_id, date_received
	`

	err := tx.QueryRowxContext(ctx, query,
		b.ProductID, b.OrderID, b.Quantity, b.CostPerUnit, b.PurchaseRate, b.MRP, b.SalesRate, b.ExpiryDate,
	).Scan(&b.ID, &b.DateReceived)
	return database.Translate(err, "product")
}

// ListByProduct lists a product's batches, oldest first
func (r *BatchRepository) ListByProduct(ctx context.Context, productID int64) ([]*Batch, error) {
	query := `
		SELECT b.batch_id, b.product_id, p.product_name, b.order_id, b.quantity, b.cost_per_unit,
		       b.purchase_rate, b.mrp, b.sales_rate, b.expiry_date, b.date_received
		FROM inventory_batches b
		JOIN products p ON p.product_id = b.product_id
		WHERE b.product_id = $1
		ORDER BY b.date_received, b.batch_id
	`

	var batches []*Batch
	if err := r.db.SelectContext(ctx, &batches, query, productID); err != nil {
		return nil, err
	}
	return batches, nil
}

// PurchaseRate returns the purchase rate of one of the product's batches,
// the most recent one that has a rate. ok is false when none has.
func (r *BatchRepository) PurchaseRate(ctx context.Context, productID int64) (rate decimal.Decimal, ok bool, err error) {
	var rates []decimal.Decimal
	query := `
		SELECT purchase_rate
		FROM inventory_batches
		WHERE product_id = $1 AND purchase_rate IS NOT NULL
		ORDER BY date_received DESC
		LIMIT 1
	`

	if err := r.db.SelectContext(ctx, &rates, query, productID); err != nil {
		return decimal.Zero, false, err
	}
	if len(rates) == 0 {
		return decimal.Zero, false, nil
	}
	return rates[0], true, nil
}

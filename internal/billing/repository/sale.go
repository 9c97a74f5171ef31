package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/retailhub/backoffice/pkg/database"
	"github.com/shopspring/decimal"
)

// Sale is a point-of-sale transaction
type Sale struct {
	ID              int64           `db:"transaction_id" json:"transaction_id"`
	InvoiceNumber   string          `db:"invoice_number" json:"invoice_number"`
	CustomerID      int64           `db:"customer_id" json:"customer_id"`
	CustomerEmail   string          `db:"customer_email" json:"customer_email,omitempty"`
	PaymentMethod   string          `db:"payment_method" json:"payment_method"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	ProcessedBy     *int64          `db:"processed_by" json:"processed_by,omitempty"`
	TransactionDate time.Time       `db:"transaction_date" json:"transaction_date"`
}

// SaleItem is one line of a sale, sold from a specific batch
type SaleItem struct {
	ID            int64           `db:"sales_item_id" json:"sales_item_id"`
	TransactionID int64           `db:"transaction_id" json:"transaction_id"`
	ProductID     int64           `db:"product_id" json:"product_id"`
	ProductName   string          `db:"product_name" json:"product_name,omitempty"`
	BatchID       int64           `db:"batch_id" json:"batch_id"`
	Quantity      int             `db:"quantity_sold" json:"quantity_sold"`
	SellingPrice  decimal.Decimal `db:"selling_price" json:"selling_price"`
	Discount      decimal.Decimal `db:"discount" json:"discount"`
	LineTotal     decimal.Decimal `db:"line_total" json:"line_total"`
}

// StockLine is the stock of one product batch as seen at the till
type StockLine struct {
	ProductID   int64            `db:"product_id" json:"product_id"`
	ProductName string           `db:"product_name" json:"product_name"`
	BatchID     int64            `db:"batch_id" json:"batch_id"`
	Quantity    int              `db:"quantity" json:"quantity"`
	SalesRate   *decimal.Decimal `db:"sales_rate" json:"sales_rate,omitempty"`
	MRP         *decimal.Decimal `db:"mrp" json:"mrp,omitempty"`
	ExpiryDate  *time.Time       `db:"expiry_date" json:"expiry_date,omitempty"`
}

// SaleRepository handles sales persistence
type SaleRepository struct {
	db *database.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *database.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// Insert creates the transaction row with a zero total. The invoice number
// is derived from the generated ID and stored by Finalize.
func (r *SaleRepository) Insert(ctx context.Context, tx sqlx.QueryerContext, s *Sale) error {
	query := `
		INSERT INTO sales_transactions (customer_id, payment_method, processed_by)
		VALUES ($1, $2, $3)
		RETURNING transaction_id, transaction_date
	`

	err := tx.QueryRowxContext(ctx, query, s.CustomerID, s.PaymentMethod, s.ProcessedBy).
		Scan(&s.ID, &s.TransactionDate)
	return database.Translate(err, "customer")
}

// InsertItem adds a sold line
func (r *SaleRepository) InsertItem(ctx context.Context, tx sqlx.QueryerContext, item *SaleItem) error {
	query := `
		INSERT INTO sales_items (
			transaction_id, product_id, batch_id, quantity_sold, selling_price, discount, line_total
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING sales_item_id
	`

	err := tx.QueryRowxContext(ctx, query,
		item.TransactionID, item.ProductID, item.BatchID, item.Quantity, item.SellingPrice, item.Discount, item.LineTotal,
	).Scan(&item.ID)
	return database.Translate(err, "product batch")
}

// Finalize stores the invoice number and accumulated total of a transaction
func (r *SaleRepository) Finalize(ctx context.Context, tx sqlx.ExecerContext, id int64, invoice string, total decimal.Decimal) error {
	query := `UPDATE sales_transactions SET invoice_number = $2, total_amount = $3 WHERE transaction_id = $1`
	_, err := tx.ExecContext(ctx, query, id, invoice, total)
	return database.Translate(err, "sale")
}

// ProductNames maps product IDs to names
func (r *SaleRepository) ProductNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	rows := []struct {
		ID   int64  `db:"product_id"`
		Name string `db:"product_name"`
	}{}
	query := `SELECT product_id, product_name FROM products WHERE product_id = ANY($1)`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

// List lists transactions newest first
func (r *SaleRepository) List(ctx context.Context) ([]*Sale, error) {
	query := `
		SELECT t.transaction_id, t.invoice_number, t.customer_id, c.email AS customer_email,
		       t.payment_method, t.total_amount, t.processed_by, t.transaction_date
		FROM sales_transactions t
		JOIN customers c ON c.customer_id = t.customer_id
		ORDER BY t.transaction_date DESC, t.transaction_id DESC
	`

	var sales []*Sale
	if err := r.db.SelectContext(ctx, &sales, query); err != nil {
		return nil, err
	}
	return sales, nil
}

// Stock lists every product batch with its quantity
func (r *SaleRepository) Stock(ctx context.Context) ([]*StockLine, error) {
	query := `
		SELECT p.product_id, p.product_name, b.batch_id, b.quantity, b.sales_rate, b.mrp, b.expiry_date
		FROM products p
		JOIN inventory_batches b ON b.product_id = p.product_id
		ORDER BY p.product_name, b.expiry_date NULLS LAST, b.batch_id
	`

	var lines []*StockLine
	if err := r.db.SelectContext(ctx, &lines, query); err != nil {
		return nil, err
	}
	return lines, nil
}

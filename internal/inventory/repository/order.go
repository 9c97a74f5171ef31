package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/retailhub/backoffice/pkg/database"
	"github.com/shopspring/decimal"
)

// Supplier order statuses
const (
	OrderPending    = "Pending"
	OrderProcessing = "Processing"
	OrderPartial    = "Partial"
	OrderWaiting    = "Waiting"
	OrderCompleted  = "Completed"
	OrderCancelled  = "Cancelled"
)

// OpenStatuses are the statuses of orders still in progress
var OpenStatuses = []string{OrderPending, OrderProcessing, OrderPartial, OrderWaiting}

// ClosedStatuses are the terminal statuses
var ClosedStatuses = []string{OrderCompleted, OrderCancelled}

// SupplierOrder represents an order placed with a supplier
type SupplierOrder struct {
	ID            int64           `db:"order_id" json:"order_id"`
	SupplierID    int64           `db:"supplier_id" json:"supplier_id"`
	SupplierName  string          `db:"supplier_name" json:"supplier_name,omitempty"`
	SupplierEmail string          `db:"supplier_email" json:"-"`
	InvoiceNumber *string         `db:"invoice_number" json:"invoice_number"`
	TotalCost     decimal.Decimal `db:"total_cost" json:"total_cost"`
	Status        string          `db:"status" json:"status"`
	ProcessedBy   *int64          `db:"processed_by" json:"processed_by,omitempty"`
	OrderDate     time.Time       `db:"order_date" json:"order_date"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// OrderItem is one line of a supplier order
type OrderItem struct {
	ID          int64            `db:"item_id" json:"item_id"`
	OrderID     int64            `db:"order_id" json:"order_id"`
	ProductID   int64            `db:"product_id" json:"product_id"`
	ProductName string           `db:"product_name" json:"product_name,omitempty"`
	Quantity    int              `db:"quantity_supplied" json:"quantity_supplied"`
	UnitCost    *decimal.Decimal `db:"unit_cost" json:"unit_cost,omitempty"`
}

// OrderFilter narrows order listings
type OrderFilter struct {
	Statuses     []string
	SupplierID   *int64
	Invoice      string
	SupplierName string
	From         *time.Time
	To           *time.Time
}

// OrderRepository handles supplier order persistence
type OrderRepository struct {
	db *database.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *database.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderSelect = `
	SELECT o.order_id, o.supplier_id, s.supplier_name, s.email AS supplier_email, o.invoice_number,
	       o.total_cost, o.status, o.processed_by, o.order_date, o.updated_at
	FROM supplier_orders o
	JOIN suppliers s ON s.supplier_id = o.supplier_id`

// List lists orders matching the filter, newest first
func (r *OrderRepository) List(ctx context.Context, filter OrderFilter) ([]*SupplierOrder, error) {
	var f Filter
	if len(filter.Statuses) > 0 {
		f.In("o.status", filter.Statuses)
	}
	if filter.SupplierID != nil {
		f.Eq("o.supplier_id", *filter.SupplierID)
	}
	if filter.Invoice != "" {
		f.Contains(filter.Invoice, "o.invoice_number")
	}
	if filter.SupplierName != "" {
		f.Contains(filter.SupplierName, "s.supplier_name")
	}
	if filter.From != nil {
		f.Gte("o.order_date", *filter.From)
	}
	if filter.To != nil {
		f.Lte("o.order_date", *filter.To)
	}

	var orders []*SupplierOrder
	query := orderSelect + f.Where() + ` ORDER BY o.order_date DESC, o.order_id DESC`
	if err := r.db.SelectContext(ctx, &orders, query, f.Args()...); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetByInvoice gets an order by invoice number
func (r *OrderRepository) GetByInvoice(ctx context.Context, invoice string) (*SupplierOrder, error) {
	return r.getByInvoice(ctx, r.db, invoice, "")
}

// GetByInvoiceForUpdate locks an order by invoice number on the caller's transaction
func (r *OrderRepository) GetByInvoiceForUpdate(ctx context.Context, tx sqlx.QueryerContext, invoice string) (*SupplierOrder, error) {
	return r.getByInvoice(ctx, tx, invoice, " FOR UPDATE OF o")
}

// GetByID gets an order by ID
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*SupplierOrder, error) {
	var o SupplierOrder
	if err := r.db.GetContext(ctx, &o, orderSelect+` WHERE o.order_id = $1`, id); err != nil {
		return nil, database.Translate(err, "supplier order")
	}
	return &o, nil
}

func (r *OrderRepository) getByInvoice(ctx context.Context, q sqlx.QueryerContext, invoice, suffix string) (*SupplierOrder, error) {
	var o SupplierOrder
	if err := sqlx.GetContext(ctx, q, &o, orderSelect+` WHERE o.invoice_number = $1`+suffix, invoice); err != nil {
		return nil, database.Translate(err, "supplier order")
	}
	return &o, nil
}

// Insert creates the order row on the caller's transaction
func (r *OrderRepository) Insert(ctx context.Context, tx sqlx.QueryerContext, o *SupplierOrder) error {
	query := `
		INSERT INTO supplier_orders (supplier_id, total_cost, status, processed_by)
		VALUES ($1, $2, $3, $4)
		RETURNING order_id, order_date, updated_at
	`

	err := tx.QueryRowxContext(ctx, query, o.SupplierID, o.TotalCost, o.Status, o.ProcessedBy).
		Scan(&o.ID, &o.OrderDate, &o.UpdatedAt)
	return database.Translate(err, "supplier")
}

// SetInvoice stores the generated invoice number
func (r *OrderRepository) SetInvoice(ctx context.Context, tx sqlx.ExecerContext, orderID int64, invoice string) error {
	query := `UPDATE supplier_orders SET invoice_number = $2 WHERE order_id = $1`
	result, err := tx.ExecContext(ctx, query, orderID, invoice)
	if err != nil {
		return database.Translate(err, "supplier order")
	}
	return requireRow(result, "supplier order")
}

// InsertItem adds a line item on the caller's transaction
func (r *OrderRepository) InsertItem(ctx context.Context, tx sqlx.QueryerContext, item *OrderItem) error {
	query := `
		INSERT INTO supplier_order_items (order_id, product_id, quantity_supplied, unit_cost)
		VALUES ($1, $2, $3, $4)
		RETURNING item_id
	`

	err := tx.QueryRowxContext(ctx, query, item.OrderID, item.ProductID, item.Quantity, item.UnitCost).
		Scan(&item.ID)
	return database.Translate(err, "product")
}

// Items lists the line items of an order
func (r *OrderRepository) Items(ctx context.Context, q sqlx.QueryerContext, orderID int64) ([]*OrderItem, error) {
	query := `
		SELECT i.item_id, i.order_id, i.product_id, p.product_name, i.quantity_supplied, i.unit_cost
		FROM supplier_order_items i
		JOIN products p ON p.product_id = i.product_id
		WHERE i.order_id = $1
		ORDER BY i.item_id
	`

	var items []*OrderItem
	if err := sqlx.SelectContext(ctx, q, &items, query, orderID); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatus sets an order's status on the caller's transaction
func (r *OrderRepository) UpdateStatus(ctx context.Context, tx sqlx.ExecerContext, orderID int64, status string) error {
	query := `UPDATE supplier_orders SET status = $2, updated_at = NOW() WHERE order_id = $1`
	result, err := tx.ExecContext(ctx, query, orderID, status)
	if err != nil {
		return database.Translate(err, "supplier order")
	}
	return requireRow(result, "supplier order")
}

// Cancel marks an open order Cancelled. Missing and closed orders are NotFound.
func (r *OrderRepository) Cancel(ctx context.Context, invoice string) (*SupplierOrder, error) {
	var o SupplierOrder
	query := `
		UPDATE supplier_orders
		SET status = 'Cancelled', updated_at = NOW()
		WHERE invoice_number = $1 AND status NOT IN ('Completed', 'Cancelled')
		RETURNING order_id, supplier_id, invoice_number, total_cost, status, processed_by, order_date, updated_at
	`

	if err := r.db.GetContext(ctx, &o, query, invoice); err != nil {
		return nil, database.Translate(err, "open supplier order")
	}
	return &o, nil
}

// RecentOrderExists reports whether a Pending or Completed order for the
// supplier containing the product was placed at or after since
func (r *OrderRepository) RecentOrderExists(ctx context.Context, supplierID, productID int64, since time.Time) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM supplier_orders o
			JOIN supplier_order_items i ON i.order_id = o.order_id
			WHERE o.supplier_id = $1
			  AND i.product_id = $2
			  AND o.status IN ('Pending', 'Completed')
			  AND o.order_date >= $3
		)
	`

	if err := r.db.GetContext(ctx, &exists, query, supplierID, productID, since); err != nil {
		return false, err
	}
	return exists, nil
}

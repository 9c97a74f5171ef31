package repository

import (
	"context"
	"time"

	"github.com/retailhub/backoffice/pkg/database"
	"github.com/shopspring/decimal"
)

// Overview is the admin landing page summary
type Overview struct {
	Employees      int64           `db:"employees" json:"employees"`
	Departments    int64           `db:"departments" json:"departments"`
	Products       int64           `db:"products" json:"products"`
	Suppliers      int64           `db:"suppliers" json:"suppliers"`
	OpenOrders     int64           `db:"open_orders" json:"open_orders"`
	SalesToday     decimal.Decimal `db:"sales_today" json:"sales_today"`
	LowStockAlerts int64           `db:"low_stock_alerts" json:"low_stock_alerts"`
}

// OverviewRepository reads cross-department counts
type OverviewRepository struct {
	db *database.DB
}

// NewOverviewRepository creates a new overview repository
func NewOverviewRepository(db *database.DB) *OverviewRepository {
	return &OverviewRepository{db: db}
}

// Get counts the back office's main entities. Sales are summed from
// dayStart onwards.
func (r *OverviewRepository) Get(ctx context.Context, dayStart time.Time) (*Overview, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM employees) AS employees,
			(SELECT COUNT(*) FROM departments) AS departments,
			(SELECT COUNT(*) FROM products) AS products,
			(SELECT COUNT(*) FROM suppliers) AS suppliers,
			(SELECT COUNT(*) FROM supplier_orders
			  WHERE status IN ('Pending', 'Processing', 'Partial', 'Waiting')) AS open_orders,
			(SELECT COALESCE(SUM(total_amount), 0) FROM sales_transactions
			  WHERE transaction_date >= $1) AS sales_today,
			(SELECT COUNT(*) FROM products WHERE stock_threshold_alert) AS low_stock_alerts
	`

	var o Overview
	if err := r.db.GetContext(ctx, &o, query, dayStart); err != nil {
		return nil, err
	}
	return &o, nil
}

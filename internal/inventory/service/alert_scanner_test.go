package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/retailhub/backoffice/internal/inventory/repository"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shortfallColumns = []string{"product_id", "product_name", "supplier_id", "reorder_level", "stock"}

func newAlertScanner(t *testing.T) (*AlertScanner, *testutil.MockDB) {
	t.Helper()
	orders, mockDB := newOrderService(t)

	scanner := NewAlertScanner(
		repository.NewProductRepository(mockDB.Wrapped),
		repository.NewOrderRepository(mockDB.Wrapped),
		repository.NewBatchRepository(mockDB.Wrapped),
		orders,
		nil,
		logger.Nop(),
	)
	scanner.now = func() time.Time { return placedAt }
	return scanner, mockDB
}

func expectShortfalls(mockDB *testutil.MockDB) {
	mockDB.ExpectQuery(`HAVING p.reorder_level - COALESCE(SUM(b.quantity), 0) > 0`).
		WillReturnRows(testutil.MockRows(shortfallColumns...).
			AddRow(1, "Loose tea", nil, 10, 2).
			AddRow(2, "Milk 1L", 4, 20, 5).
			AddRow(3, "Eggs 12", 5, 10, 4))
}

func expectReorderOfEggs(mockDB *testutil.MockDB) {
	mockDB.ExpectQuery(`AND o.status IN ('Pending', 'Completed')`).
		WithArgs(int64(5), int64(3), placedAt.Add(-24*time.Hour)).
		WillReturnRows(testutil.MockRows("exists").AddRow(false))
	mockDB.ExpectQuery(`WHERE product_id = $1 AND purchase_rate IS NOT NULL`).
		WithArgs(int64(3)).
		WillReturnRows(testutil.MockRows("purchase_rate").AddRow("2.25"))
	mockDB.ExpectBegin()
	mockDB.ExpectQuery(`INSERT INTO supplier_orders`).
		WithArgs(int64(5), "13.5", "Pending", nil).
		WillReturnRows(testutil.MockRows("order_id", "order_date", "updated_at").AddRow(40, placedAt, placedAt))
	mockDB.ExpectExec(`UPDATE supplier_orders SET invoice_number = $2`).
		WithArgs(int64(40), "SO-20240610-40").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectQuery(`INSERT INTO supplier_order_items`).
		WithArgs(int64(40), int64(3), int64(6), "2.25").
		WillReturnRows(testutil.MockRows("item_id").AddRow(900))
	mockDB.ExpectCommit()
}

func TestProcessStockAlerts(t *testing.T) {
	ctx := context.Background()

	t.Run("reorders shortfalls without a recent order", func(t *testing.T) {
		scanner, mockDB := newAlertScanner(t)

		expectShortfalls(mockDB)
		mockDB.ExpectQuery(`AND o.status IN ('Pending', 'Completed')`).
			WithArgs(int64(4), int64(2), placedAt.Add(-24*time.Hour)).
			WillReturnRows(testutil.MockRows("exists").AddRow(true))
		expectReorderOfEggs(mockDB)
		mockDB.ExpectExec(`SET stock_threshold_alert = (product_id = ANY($1))`).
			WithArgs("{1,2,3}").
			WillReturnResult(sqlmock.NewResult(0, 3))

		report, err := scanner.ProcessStockAlerts(ctx)
		require.NoError(t, err)
		assert.Len(t, report.Shortfalls, 3)
		assert.Equal(t, []int64{1, 2}, report.Skipped)
		assert.Empty(t, report.Failed)
		require.Len(t, report.Reordered, 1)
		assert.Equal(t, Reorder{ProductID: 3, OrderID: 40, InvoiceNumber: "SO-20240610-40", Quantity: 6}, report.Reordered[0])
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("one failing product does not stop the sweep", func(t *testing.T) {
		scanner, mockDB := newAlertScanner(t)

		expectShortfalls(mockDB)
		mockDB.ExpectQuery(`AND o.status IN ('Pending', 'Completed')`).
			WithArgs(int64(4), int64(2), placedAt.Add(-24*time.Hour)).
			WillReturnError(fmt.Errorf("statement timeout"))
		expectReorderOfEggs(mockDB)
		mockDB.ExpectExec(`SET stock_threshold_alert`).
			WillReturnResult(sqlmock.NewResult(0, 3))

		report, err := scanner.ProcessStockAlerts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, report.Skipped)
		assert.Equal(t, []int64{2}, report.Failed)
		assert.Len(t, report.Reordered, 1)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("shortfall query failure is returned", func(t *testing.T) {
		scanner, mockDB := newAlertScanner(t)

		mockDB.ExpectQuery(`HAVING p.reorder_level`).WillReturnError(fmt.Errorf("relation does not exist"))

		_, err := scanner.ProcessStockAlerts(ctx)
		assert.Error(t, err)
		mockDB.ExpectationsWereMet(t)
	})
}

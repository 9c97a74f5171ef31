//go:build integration

package service_test

import (
	"context"
	"os"
	"testing"

	"github.com/retailhub/backoffice/internal/inventory/repository"
	"github.com/retailhub/backoffice/internal/inventory/service"
	"github.com/retailhub/backoffice/pkg/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var suite *testutil.IntegrationSuite

func TestMain(m *testing.M) {
	ctx := context.Background()
	var err error

	suite, err = testutil.NewIntegrationSuite(ctx)
	if err != nil {
		panic("failed to create integration suite: " + err.Error())
	}

	code := m.Run()
	testutil.TerminateContainer(ctx)
	os.Exit(code)
}

func TestStockSweep_ReordersThenSettles(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.Reset(t, ctx)

	supplier := suite.Fixtures.Supplier()
	require.NoError(t, testutil.SeedSupplier(ctx, suite.RawDB, &supplier))
	categoryID, err := testutil.SeedCategory(ctx, suite.RawDB, "Beverages")
	require.NoError(t, err)
	product := suite.Fixtures.Product(categoryID, &supplier.ID)
	require.NoError(t, testutil.SeedProduct(ctx, suite.RawDB, &product))
	_, err = testutil.SeedBatch(ctx, suite.RawDB, product.ID, 4, "3.50")
	require.NoError(t, err)

	productRepo := repository.NewProductRepository(suite.DB)
	orderRepo := repository.NewOrderRepository(suite.DB)
	batchRepo := repository.NewBatchRepository(suite.DB)
	orders := service.NewOrderService(suite.DB, orderRepo, batchRepo, nil, nil, suite.Logger)
	scanner := service.NewAlertScanner(productRepo, orderRepo, batchRepo, orders, nil, suite.Logger)

	report, err := scanner.ProcessStockAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, report.Reordered, 1)
	reorder := report.Reordered[0]
	assert.Equal(t, 6, reorder.Quantity)

	placed, err := orders.Track(ctx, reorder.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, repository.OrderPending, placed.Status)
	assert.Equal(t, "21", placed.TotalCost.String())
	require.Len(t, placed.Items, 1)

	stored, err := productRepo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, stored.StockThresholdAlert)

	// The pending order suppresses a second reorder
	report, err = scanner.ProcessStockAlerts(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Reordered)
	assert.Equal(t, []int64{product.ID}, report.Skipped)

	_, err = orders.UpdateOrderStatus(ctx, reorder.InvoiceNumber, repository.OrderCompleted, nil)
	require.NoError(t, err)

	batches, err := batchRepo.ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, batches, 2)

	report, err = scanner.ProcessStockAlerts(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Shortfalls)

	stored, err = productRepo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, stored.StockThresholdAlert)
}

func TestUpdateOrderStatus_CompletedOrderIsFinal(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.Reset(t, ctx)

	supplier := suite.Fixtures.Supplier()
	require.NoError(t, testutil.SeedSupplier(ctx, suite.RawDB, &supplier))
	categoryID, err := testutil.SeedCategory(ctx, suite.RawDB, "Snacks")
	require.NoError(t, err)
	product := suite.Fixtures.Product(categoryID, &supplier.ID)
	require.NoError(t, testutil.SeedProduct(ctx, suite.RawDB, &product))

	orderRepo := repository.NewOrderRepository(suite.DB)
	batchRepo := repository.NewBatchRepository(suite.DB)
	orders := service.NewOrderService(suite.DB, orderRepo, batchRepo, nil, nil, suite.Logger)

	rate := decimal.RequireFromString("12.40")
	detail, err := orders.PlaceSupplierOrder(ctx, service.NewOrder{
		SupplierID: supplier.ID,
		Lines:      []service.OrderLine{{ProductID: product.ID, Quantity: 5, Rate: rate}},
	})
	require.NoError(t, err)
	invoice := *detail.InvoiceNumber

	_, err = orders.UpdateOrderStatus(ctx, invoice, repository.OrderCompleted, nil)
	require.NoError(t, err)

	_, err = orders.UpdateOrderStatus(ctx, invoice, repository.OrderCancelled, nil)
	assert.Error(t, err)

	_, err = orders.CancelOrder(ctx, invoice)
	assert.Error(t, err)
}

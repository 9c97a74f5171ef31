package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/retailhub/backoffice/internal/billing/events"
	"github.com/retailhub/backoffice/internal/billing/repository"
	"github.com/retailhub/backoffice/pkg/database"
	"github.com/retailhub/backoffice/pkg/document"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/mailer"
	"github.com/retailhub/backoffice/pkg/metrics"
	"github.com/shopspring/decimal"
)

// BillLine is one item rung up at the till
type BillLine struct {
	ProductID int64
	BatchID   int64
	Quantity  int
	Price     decimal.Decimal
	Discount  decimal.Decimal
}

// NewBill describes a sale being rung up
type NewBill struct {
	CustomerEmail string
	PaymentMethod string
	Lines         []BillLine
	ProcessedBy   *int64
}

// Bill is a committed sale with its items
type Bill struct {
	*repository.Sale
	Items       []*repository.SaleItem `json:"items"`
	ReceiptSent bool                   `json:"receipt_sent"`
}

// InvoiceNumber formats the sale invoice as INV-YYYYMMDD-<transactionID>
func InvoiceNumber(transactionID int64, date time.Time) string {
	return fmt.Sprintf("INV-%s-%d", date.Format("20060102"), transactionID)
}

// LineTotal is quantity × price − discount
func LineTotal(quantity int, price, discount decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).Sub(discount)
}

// BillingService handles point-of-sale billing
type BillingService struct {
	db           *database.DB
	customerRepo *repository.CustomerRepository
	saleRepo     *repository.SaleRepository
	mail         mailer.Sender
	publisher    *events.BillingEventPublisher
	metrics      *metrics.Metrics
	logger       *logger.Logger
}

// NewBillingService creates a new billing service
func NewBillingService(
	db *database.DB,
	customerRepo *repository.CustomerRepository,
	saleRepo *repository.SaleRepository,
	mail mailer.Sender,
	publisher *events.BillingEventPublisher,
	m *metrics.Metrics,
	log *logger.Logger,
) *BillingService {
	return &BillingService{
		db:           db,
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		mail:         mail,
		publisher:    publisher,
		metrics:      m,
		logger:       log,
	}
}

// CreateBill records a sale for the customer with the given email, creating
// the customer on first purchase, then emails the receipt. The sale is
// committed before the receipt is sent and stands when sending fails.
func (s *BillingService) CreateBill(ctx context.Context, in NewBill) (*Bill, error) {
	if len(in.Lines) == 0 {
		return nil, errors.Validation(map[string]string{"items": "at least one item is required"})
	}
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}

	sale := &repository.Sale{
		PaymentMethod: in.PaymentMethod,
		ProcessedBy:   in.ProcessedBy,
		CustomerEmail: in.CustomerEmail,
	}
	items := make([]*repository.SaleItem, 0, len(in.Lines))

	err := s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		customer, created, err := s.customerRepo.Resolve(ctx, tx, in.CustomerEmail)
		if err != nil {
			return err
		}
		if created {
			s.logger.Info().Int64("customer_id", customer.ID).Msg("customer registered at till")
		}
		sale.CustomerID = customer.ID

		if err := s.saleRepo.Insert(ctx, tx, sale); err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range in.Lines {
			item := &repository.SaleItem{
				TransactionID: sale.ID,
				ProductID:     line.ProductID,
				BatchID:       line.BatchID,
				Quantity:      line.Quantity,
				SellingPrice:  line.Price,
				Discount:      line.Discount,
				LineTotal:     LineTotal(line.Quantity, line.Price, line.Discount),
			}
			if err := s.saleRepo.InsertItem(ctx, tx, item); err != nil {
				return err
			}
			total = total.Add(item.LineTotal)
			items = append(items, item)
		}

		sale.TotalAmount = total
		sale.InvoiceNumber = InvoiceNumber(sale.ID, sale.TransactionDate)
		return s.saleRepo.Finalize(ctx, tx, sale.ID, sale.InvoiceNumber, total)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("customer_email", in.CustomerEmail).Msg("failed to create bill")
		return nil, err
	}

	total, _ := sale.TotalAmount.Float64()
	s.metrics.RecordSale(total)

	bill := &Bill{Sale: sale, Items: items}
	if err := s.sendReceipt(ctx, bill); err != nil {
		s.metrics.RecordDependencyError("mail")
		s.logger.Error().Err(err).
			Str("invoice_number", sale.InvoiceNumber).
			Str("customer_email", in.CustomerEmail).
			Msg("failed to send receipt")
	} else {
		bill.ReceiptSent = true
	}

	s.publisher.PublishSaleCompleted(ctx, sale, bill.ReceiptSent)

	s.logger.Info().
		Int64("transaction_id", sale.ID).
		Str("invoice_number", sale.InvoiceNumber).
		Str("total_amount", sale.TotalAmount.StringFixed(2)).
		Bool("receipt_sent", bill.ReceiptSent).
		Msg("bill created")

	return bill, nil
}

func validateLines(lines []BillLine) error {
	for _, line := range lines {
		if line.Price.IsNegative() {
			return errors.Validation(map[string]string{"selling_price": "must not be negative"})
		}
		if line.Discount.IsNegative() {
			return errors.Validation(map[string]string{"discount": "must not be negative"})
		}
		if LineTotal(line.Quantity, line.Price, line.Discount).IsNegative() {
			return errors.Validation(map[string]string{"discount": "must not exceed the line amount"})
		}
	}
	return nil
}

func (s *BillingService) sendReceipt(ctx context.Context, bill *Bill) error {
	ids := make([]int64, 0, len(bill.Items))
	for _, item := range bill.Items {
		ids = append(ids, item.ProductID)
	}

	names, err := s.saleRepo.ProductNames(ctx, ids)
	if err != nil {
		return fmt.Errorf("look up product names: %w", err)
	}

	receipt := document.Receipt{
		InvoiceNumber: bill.InvoiceNumber,
		PaymentMethod: bill.PaymentMethod,
		Date:          bill.TransactionDate,
		Total:         bill.TotalAmount,
	}
	for _, item := range bill.Items {
		item.ProductName = names[item.ProductID]
		receipt.Lines = append(receipt.Lines, document.ReceiptLine{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.SellingPrice,
			Discount:    item.Discount,
			LineTotal:   item.LineTotal,
		})
	}

	body, err := document.RenderReceiptHTML(receipt)
	if err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}

	return s.mail.Send(ctx, mailer.Message{
		To:      bill.CustomerEmail,
		Subject: "Invoice " + bill.InvoiceNumber,
		HTML:    body,
	})
}

// History lists past bills, newest first
func (s *BillingService) History(ctx context.Context) ([]*repository.Sale, error) {
	return s.saleRepo.List(ctx)
}

// Stock lists batch-level stock for the till
func (s *BillingService) Stock(ctx context.Context) ([]*repository.StockLine, error) {
	return s.saleRepo.Stock(ctx)
}

// SubmitFeedback stores a customer's rating
func (s *BillingService) SubmitFeedback(ctx context.Context, customerID int64, rating int, comments *string) (*repository.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, errors.Validation(map[string]string{"rating": "must be between 1 and 5"})
	}

	f := &repository.Feedback{CustomerID: customerID, Rating: rating, Comments: comments}
	if err := s.customerRepo.AddFeedback(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

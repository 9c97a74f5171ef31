package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// HR events
	EventEmployeeCreated     = "hr.employee.created"
	EventEmployeeDeactivated = "hr.employee.deactivated"
	EventEmployeePurged      = "hr.employee.purged"
	EventLeaveRequested      = "hr.leave.requested"
	EventLeaveApproved       = "hr.leave.approved"
	EventLeaveRejected       = "hr.leave.rejected"
	EventPayrollProcessed    = "hr.payroll.processed"

	// Inventory events
	EventOrderPlaced        = "inventory.order.placed"
	EventOrderStatusChanged = "inventory.order.status_changed"
	EventStockReordered     = "inventory.stock.reordered"

	// Billing events
	EventSaleCompleted = "billing.sale.completed"
)

// DefaultExchange is the topic exchange all back-office events go through
const DefaultExchange = "backoffice.events"

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// GenerateEventID returns a new random event ID
func GenerateEventID() string {
	return uuid.New().String()
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// HR events

// EmployeeEvent is published when an employee is created, deactivated or purged
type EmployeeEvent struct {
	EmployeeID int64  `json:"employee_id"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role,omitempty"`
}

// LeaveEvent is published on every leave request transition
type LeaveEvent struct {
	LeaveID    int64  `json:"leave_id"`
	EmployeeID int64  `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	LeaveType  string `json:"leave_type,omitempty"`
	Status     string `json:"status"`
}

// PayrollProcessedEvent summarises one monthly payroll run
type PayrollProcessedEvent struct {
	Month     int `json:"month"`
	Year      int `json:"year"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// Inventory events

// OrderPlacedEvent is published when a supplier order is created
type OrderPlacedEvent struct {
	OrderID       int64  `json:"order_id"`
	InvoiceNumber string `json:"invoice_number"`
	SupplierID    int64  `json:"supplier_id"`
	TotalCost     string `json:"total_cost"`
	Automatic     bool   `json:"automatic"`
}

// OrderStatusChangedEvent is published when a supplier order changes status
type OrderStatusChangedEvent struct {
	OrderID        int64  `json:"order_id"`
	InvoiceNumber  string `json:"invoice_number"`
	Status         string `json:"status"`
	BatchesCreated int    `json:"batches_created"`
}

// StockReorderedEvent is published for every automatic reorder
type StockReorderedEvent struct {
	ProductID int64 `json:"product_id"`
	OrderID   int64 `json:"order_id"`
	Quantity  int   `json:"quantity"`
}

// Billing events

// SaleCompletedEvent is published after a bill is committed
type SaleCompletedEvent struct {
	TransactionID int64  `json:"transaction_id"`
	InvoiceNumber string `json:"invoice_number"`
	CustomerID    int64  `json:"customer_id"`
	TotalAmount   string `json:"total_amount"`
	ReceiptSent   bool   `json:"receipt_sent"`
}

package document

import (
	"bytes"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
)

var funcs = template.FuncMap{
	"money": Money,
	"date":  func(t time.Time) string { return t.Format("02 Jan 2006 15:04") },
}

var receiptTmpl = template.Must(template.New("receipt").Funcs(funcs).Parse(`<!DOCTYPE html>
<html><body style="font-family: sans-serif">
<h2>Thank you for shopping with us</h2>
<p>Invoice <strong>{{.InvoiceNumber}}</strong><br>{{date .Date}}<br>Payment: {{.PaymentMethod}}</p>
<table border="1" cellpadding="6" cellspacing="0">
<tr><th>Product</th><th>Qty</th><th>Price</th><th>Discount</th><th>Total</th></tr>
{{range .Lines}}<tr><td>{{.ProductName}}</td><td>{{.Quantity}}</td><td>{{money .Price}}</td><td>{{money .Discount}}</td><td>{{money .LineTotal}}</td></tr>
{{end}}<tr><td colspan="4"><strong>Total</strong></td><td><strong>{{money .Total}}</strong></td></tr>
</table>
</body></html>`))

var purchaseOrderTmpl = template.Must(template.New("purchase-order").Funcs(funcs).Parse(`<!DOCTYPE html>
<html><body style="font-family: sans-serif">
<p>Dear {{.ContactPerson}},</p>
<p>Please supply the following against purchase order <strong>{{.InvoiceNumber}}</strong> dated {{date .OrderDate}}.</p>
<table border="1" cellpadding="6" cellspacing="0">
<tr><th>Product</th><th>Quantity</th><th>Unit cost</th></tr>
{{range .Lines}}<tr><td>{{.ProductName}}</td><td>{{.Quantity}}</td><td>{{money .UnitCost}}</td></tr>
{{end}}<tr><td colspan="2"><strong>Total</strong></td><td><strong>{{money .TotalCost}}</strong></td></tr>
</table>
</body></html>`))

// ReceiptLine is one sold item on a receipt
type ReceiptLine struct {
	ProductName string
	Quantity    int
	Price       decimal.Decimal
	Discount    decimal.Decimal
	LineTotal   decimal.Decimal
}

// Receipt is the customer copy of a sale
type Receipt struct {
	InvoiceNumber string
	PaymentMethod string
	Date          time.Time
	Lines         []ReceiptLine
	Total         decimal.Decimal
}

// RenderReceiptHTML renders the receipt as an HTML email body
func RenderReceiptHTML(r Receipt) (string, error) {
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PurchaseOrderLine is one product requested from a supplier
type PurchaseOrderLine struct {
	ProductName string
	Quantity    int
	UnitCost    decimal.Decimal
}

// PurchaseOrder is the summary sent to a supplier for a placed order
type PurchaseOrder struct {
	InvoiceNumber string
	ContactPerson string
	OrderDate     time.Time
	Lines         []PurchaseOrderLine
	TotalCost     decimal.Decimal
}

// RenderPurchaseOrderHTML renders the supplier notification body
func RenderPurchaseOrderHTML(po PurchaseOrder) (string, error) {
	var buf bytes.Buffer
	if err := purchaseOrderTmpl.Execute(&buf, po); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package document

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() AttendanceReport {
	month := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return AttendanceReport{
		EmployeeID:   7,
		EmployeeName: "Asha Patel",
		Department:   "Sales",
		Month:        month,
		Lines: []AttendanceLine{
			{Date: month, Status: "Present", TotalHours: decimal.NewFromInt(8)},
			{Date: month.AddDate(0, 0, 1), Status: "Leave", LeaveType: "Sick"},
			{Date: month.AddDate(0, 0, 2), Status: "Present", TotalHours: decimal.RequireFromString("7.5")},
		},
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "136.36", Money(decimal.RequireFromString("136.3636")))
	assert.Equal(t, "12,500.00", Money(decimal.NewFromInt(12500)))
}

func TestRenderPayslipPDF(t *testing.T) {
	p := Payslip{
		EmployeeID:     7,
		EmployeeName:   "Asha Patel",
		Department:     "Sales",
		Month:          6,
		Year:           2024,
		BaseSalary:     decimal.NewFromInt(3000),
		LeaveDeduction: decimal.RequireFromString("136.36"),
		NetSalary:      decimal.RequireFromString("2863.64"),
		AccountNumber:  "1234567890",
	}

	out, err := RenderPayslipPDF(p)
	require.NoError(t, err)
	require.True(t, len(out) > 4)
	assert.Equal(t, "%PDF", string(out[:4]))
	assert.Equal(t, "June 2024", p.Period())
	assert.Equal(t, "payslip-7-2024-06.pdf", p.Filename())
	assert.Equal(t, "******7890", maskAccount(p.AccountNumber))
}

func TestRenderAttendancePDF(t *testing.T) {
	out, err := RenderAttendancePDF(sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestAttendanceSummary(t *testing.T) {
	present, absent, leave, hours := sampleReport().Summary()
	assert.Equal(t, 2, present)
	assert.Equal(t, 0, absent)
	assert.Equal(t, 1, leave)
	assert.Equal(t, "15.50", hours.StringFixed(2))
}

func TestRenderAttendanceXLSX(t *testing.T) {
	out, err := RenderAttendanceXLSX(sampleReport())
	require.NoError(t, err)

	_, err = zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(attendanceSheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 4)
	assert.Equal(t, []string{"Date", "Status", "Leave type", "Hours"}, rows[0])
	assert.Equal(t, "2024-06-02", rows[2][0])
	assert.Equal(t, "Leave", rows[2][1])
	assert.Equal(t, "attendance-7-2024-06.xlsx", sampleReport().Filename("xlsx"))
}

func TestRenderReceiptHTML(t *testing.T) {
	body, err := RenderReceiptHTML(Receipt{
		InvoiceNumber: "INV-20240610-70",
		PaymentMethod: "Card",
		Date:          time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC),
		Lines: []ReceiptLine{
			{ProductName: "Basmati <Rice>", Quantity: 2, Price: decimal.NewFromInt(50), Discount: decimal.NewFromInt(5), LineTotal: decimal.NewFromInt(95)},
		},
		Total: decimal.NewFromInt(95),
	})
	require.NoError(t, err)

	assert.Contains(t, body, "INV-20240610-70")
	assert.Contains(t, body, "Basmati &lt;Rice&gt;")
	assert.Contains(t, body, "95.00")
}

func TestRenderPurchaseOrderHTML(t *testing.T) {
	body, err := RenderPurchaseOrderHTML(PurchaseOrder{
		InvoiceNumber: "SO-20240610-12",
		ContactPerson: "Ravi",
		OrderDate:     time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC),
		Lines:         []PurchaseOrderLine{{ProductName: "Soap", Quantity: 40, UnitCost: decimal.RequireFromString("12.5")}},
		TotalCost:     decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.Contains(t, body, "SO-20240610-12")
	assert.Contains(t, body, "Dear Ravi")
	assert.Contains(t, body, "500.00")
}

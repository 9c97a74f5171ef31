// Package document renders payslips, attendance reports and sales receipts.
// Renderers return the artifact bytes; callers decide whether to stream or mail them.
package document

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Content types of rendered artifacts
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeHTML = "text/html; charset=utf-8"
)

var printer = message.NewPrinter(language.English)

// Money formats an amount with thousands separators and two decimals
func Money(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// Payslip is the data printed on a monthly payslip
type Payslip struct {
	EmployeeID       int64
	EmployeeName     string
	Role             string
	Department       string
	Email            string
	Month            int
	Year             int
	BaseSalary       decimal.Decimal
	TotalHoursWorked decimal.Decimal
	LeaveDeduction   decimal.Decimal
	Bonus            decimal.Decimal
	HourlyRate       decimal.Decimal
	NetSalary        decimal.Decimal
	BankName         string
	AccountNumber    string
	ProcessedAt      time.Time
}

// Period returns the payslip month as "January 2024"
func (p Payslip) Period() string {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// Filename returns the download name of the payslip
func (p Payslip) Filename() string {
	return fmt.Sprintf("payslip-%d-%04d-%02d.pdf", p.EmployeeID, p.Year, p.Month)
}

// RenderPayslipPDF renders the payslip as a single-page PDF
func RenderPayslipPDF(p Payslip) ([]byte, error) {
	pdf := newPDF()

	heading(pdf, "Payslip", p.Period())

	keyValues(pdf, [][2]string{
		{"Employee ID", fmt.Sprintf("%d", p.EmployeeID)},
		{"Name", p.EmployeeName},
		{"Role", p.Role},
		{"Department", p.Department},
		{"Bank", p.BankName},
		{"Account", maskAccount(p.AccountNumber)},
	})
	pdf.Ln(6)

	table(pdf, []string{"Component", "Amount"}, []float64{120, 60}, [][]string{
		{"Base salary", Money(p.BaseSalary)},
		{"Bonus", Money(p.Bonus)},
		{"Leave deduction", "-" + Money(p.LeaveDeduction)},
		{"Hours worked", p.TotalHoursWorked.StringFixed(2)},
		{"Hourly rate", Money(p.HourlyRate)},
	})

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 9, "Net salary", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 9, Money(p.NetSalary), "1", 1, "R", false, 0, "")

	if !p.ProcessedAt.IsZero() {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 6, "Processed on "+p.ProcessedAt.Format("02 Jan 2006"), "", 1, "L", false, 0, "")
	}

	return output(pdf)
}

// AttendanceLine is one day of an attendance report
type AttendanceLine struct {
	Date       time.Time
	Status     string
	LeaveType  string
	TotalHours decimal.Decimal
}

// AttendanceReport is one employee's attendance for a month
type AttendanceReport struct {
	EmployeeID   int64
	EmployeeName string
	Department   string
	Month        time.Time
	Lines        []AttendanceLine
}

// Summary returns the day counts per status and the total hours
func (r AttendanceReport) Summary() (present, absent, leave int, hours decimal.Decimal) {
	for _, l := range r.Lines {
		switch l.Status {
		case "Present":
			present++
		case "Absent":
			absent++
		case "Leave":
			leave++
		}
		hours = hours.Add(l.TotalHours)
	}
	return present, absent, leave, hours
}

// Filename returns the download name for the given extension
func (r AttendanceReport) Filename(ext string) string {
	return fmt.Sprintf("attendance-%d-%s.%s", r.EmployeeID, r.Month.Format("2006-01"), ext)
}

// RenderAttendancePDF renders the attendance report as a PDF table
func RenderAttendancePDF(r AttendanceReport) ([]byte, error) {
	pdf := newPDF()

	heading(pdf, "Attendance report", r.Month.Format("January 2006"))
	keyValues(pdf, [][2]string{
		{"Employee ID", fmt.Sprintf("%d", r.EmployeeID)},
		{"Name", r.EmployeeName},
		{"Department", r.Department},
	})
	pdf.Ln(6)

	rows := make([][]string, 0, len(r.Lines))
	for _, l := range r.Lines {
		rows = append(rows, []string{
			l.Date.Format("2006-01-02"),
			l.Status,
			l.LeaveType,
			l.TotalHours.StringFixed(2),
		})
	}
	table(pdf, []string{"Date", "Status", "Leave type", "Hours"}, []float64{45, 45, 50, 40}, rows)

	present, absent, leave, hours := r.Summary()
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Present %d  Absent %d  Leave %d  Hours %s",
		present, absent, leave, hours.StringFixed(2)), "", 1, "L", false, 0, "")

	return output(pdf)
}

func newPDF() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	return pdf
}

func heading(pdf *fpdf.Fpdf, title, subtitle string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, subtitle, "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func keyValues(pdf *fpdf.Fpdf, pairs [][2]string) {
	for _, kv := range pairs {
		if kv[1] == "" {
			continue
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, kv[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, kv[1], "", 1, "L", false, 0, "")
	}
}

func table(pdf *fpdf.Fpdf, header []string, widths []float64, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		for i, cell := range row {
			align := "L"
			if i == len(row)-1 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 7, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func maskAccount(account string) string {
	if len(account) <= 4 {
		return account
	}
	masked := make([]byte, len(account)-4)
	for i := range masked {
		masked[i] = '*'
	}
	return string(masked) + account[len(account)-4:]
}

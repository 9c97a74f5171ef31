package document

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const attendanceSheet = "Attendance"

// RenderAttendanceXLSX renders the attendance report as a one-sheet workbook
func RenderAttendanceXLSX(r AttendanceReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", attendanceSheet); err != nil {
		return nil, err
	}

	header := []interface{}{"Date", "Status", "Leave type", "Hours"}
	if err := f.SetSheetRow(attendanceSheet, "A1", &header); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(attendanceSheet, "A1", "D1", bold); err != nil {
		return nil, err
	}

	for i, l := range r.Lines {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{l.Date.Format("2006-01-02"), l.Status, l.LeaveType, l.TotalHours.InexactFloat64()}
		if err := f.SetSheetRow(attendanceSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	present, absent, leave, hours := r.Summary()
	summaryRow := len(r.Lines) + 3
	summary := []interface{}{
		fmt.Sprintf("Present %d", present),
		fmt.Sprintf("Absent %d", absent),
		fmt.Sprintf("Leave %d", leave),
		hours.InexactFloat64(),
	}
	cell, err := excelize.CoordinatesToCellName(1, summaryRow)
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(attendanceSheet, cell, &summary); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(attendanceSheet, "A", "D", 16); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

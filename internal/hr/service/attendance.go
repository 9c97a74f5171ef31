package service

import (
	"context"
	"time"

	"github.com/retailhub/backoffice/internal/hr/repository"
	"github.com/retailhub/backoffice/pkg/document"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/shopspring/decimal"
)

// Attendance export formats
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// AttendanceInput records one day of attendance
type AttendanceInput struct {
	EmployeeID int64           `json:"employee_id" validate:"required,gt=0"`
	Date       string          `json:"attendance_date" validate:"required,datetime=2006-01-02"`
	Status     string          `json:"status" validate:"required,oneof=Present Absent Leave"`
	LeaveType  *string         `json:"leave_type" validate:"omitempty,max=50"`
	TotalHours decimal.Decimal `json:"total_hours"`
}

// Export is a rendered attendance report
type Export struct {
	Filename    string
	ContentType string
	Content     []byte
}

// AttendanceService handles attendance records and reports
type AttendanceService struct {
	attendanceRepo *repository.AttendanceRepository
	employeeRepo   *repository.EmployeeRepository
	logger         *logger.Logger
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(
	attendanceRepo *repository.AttendanceRepository,
	employeeRepo *repository.EmployeeRepository,
	log *logger.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		logger:         log,
	}
}

// List lists attendance rows
func (s *AttendanceService) List(ctx context.Context, filter repository.AttendanceFilter) ([]*repository.Attendance, error) {
	return s.attendanceRepo.List(ctx, filter)
}

// Record creates or replaces the attendance of an employee for one day
func (s *AttendanceService) Record(ctx context.Context, in *AttendanceInput) (*repository.Attendance, error) {
	date, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		return nil, errors.Validation(map[string]string{"attendance_date": "must be YYYY-MM-DD"})
	}
	if in.TotalHours.IsNegative() || in.TotalHours.GreaterThan(decimal.NewFromInt(24)) {
		return nil, errors.Validation(map[string]string{"total_hours": "must be between 0 and 24"})
	}

	a := &repository.Attendance{
		EmployeeID:     in.EmployeeID,
		AttendanceDate: date,
		Status:         in.Status,
		TotalHours:     in.TotalHours,
	}
	if in.Status == repository.AttendanceLeave {
		a.LeaveType = in.LeaveType
	}

	if err := s.attendanceRepo.Upsert(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int64("employee_id", a.EmployeeID).
		Str("date", in.Date).
		Str("status", a.Status).
		Msg("attendance recorded")

	return a, nil
}

// Export renders one employee's attendance for the month containing month
func (s *AttendanceService) Export(ctx context.Context, employeeID int64, month time.Time, format string) (*Export, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	from, to := monthBounds(month)
	rows, err := s.attendanceRepo.List(ctx, repository.AttendanceFilter{
		From:       &from,
		To:         &to,
		EmployeeID: &employeeID,
	})
	if err != nil {
		return nil, err
	}

	report := document.AttendanceReport{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName(),
		Month:        from,
		Lines:        make([]document.AttendanceLine, 0, len(rows)),
	}
	if emp.DepartmentName != nil {
		report.Department = *emp.DepartmentName
	}
	for _, row := range rows {
		report.Lines = append(report.Lines, document.AttendanceLine{
			Date:       row.AttendanceDate,
			Status:     row.Status,
			LeaveType:  deref(row.LeaveType),
			TotalHours: row.TotalHours,
		})
	}

	var content []byte
	var contentType string
	switch format {
	case FormatXLSX, "":
		format = FormatXLSX
		contentType = document.ContentTypeXLSX
		content, err = document.RenderAttendanceXLSX(report)
	case FormatPDF:
		contentType = document.ContentTypePDF
		content, err = document.RenderAttendancePDF(report)
	default:
		return nil, errors.BadRequest("format must be xlsx or pdf")
	}
	if err != nil {
		return nil, errors.Dependency("attendance report rendering", err)
	}

	return &Export{
		Filename:    report.Filename(format),
		ContentType: contentType,
		Content:     content,
	}, nil
}

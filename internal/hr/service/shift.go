package service

import (
	"context"
	"time"

	"github.com/retailhub/backoffice/internal/hr/repository"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/logger"
)

// rotation is the label sequence assigned by GenerateMonthlyShifts
var rotation = [2]string{repository.ShiftMorning, repository.ShiftNight}

// ShiftGeneration reports the outcome of a monthly generation run
type ShiftGeneration struct {
	Skipped  bool `json:"skipped"`
	Inserted int  `json:"inserted"`
	Kept     int  `json:"kept"`
}

// ShiftService handles shift rota business logic
type ShiftService struct {
	shiftRepo    *repository.ShiftRepository
	employeeRepo *repository.EmployeeRepository
	logger       *logger.Logger
	now          func() time.Time
}

// NewShiftService creates a new shift service
func NewShiftService(
	shiftRepo *repository.ShiftRepository,
	employeeRepo *repository.EmployeeRepository,
	log *logger.Logger,
) *ShiftService {
	return &ShiftService{
		shiftRepo:    shiftRepo,
		employeeRepo: employeeRepo,
		logger:       log,
		now:          time.Now,
	}
}

// GenerateMonthlyShifts assigns every active employee a shift for each day
// of the current month. The run is skipped entirely when any shift is
// already scheduled for today or later.
//
// Labels alternate Morning/Night on a running index kept per department
// across all days, so an employee's label depends on the department size.
// Employees without a department get no rota.
func (s *ShiftService) GenerateMonthlyShifts(ctx context.Context) (*ShiftGeneration, error) {
	today := dateOf(s.now())

	exists, err := s.shiftRepo.ExistsOnOrAfter(ctx, today)
	if err != nil {
		return nil, err
	}
	if exists {
		s.logger.Info().Time("date", today).Msg("shifts already generated, skipping")
		return &ShiftGeneration{Skipped: true}, nil
	}

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	monthStart, monthEnd := monthBounds(today)
	result := &ShiftGeneration{}

	for _, dept := range groupByDepartment(employees) {
		index := 0
		for day := monthStart; !day.After(monthEnd); day = day.AddDate(0, 0, 1) {
			for _, emp := range dept {
				inserted, err := s.shiftRepo.InsertIfAbsent(ctx, emp.ID, day, rotation[index%len(rotation)])
				if err != nil {
					return nil, err
				}
				if inserted {
					result.Inserted++
				} else {
					result.Kept++
				}
				index++
			}
		}
	}

	s.logger.Info().
		Str("month", monthStart.Format("2006-01")).
		Int("inserted", result.Inserted).
		Int("kept", result.Kept).
		Msg("monthly shifts generated")

	return result, nil
}

// AdjustShiftsForAbsence flips Morning and Night for every other employee
// scheduled on date. The absent employee's own shift is left as is.
func (s *ShiftService) AdjustShiftsForAbsence(ctx context.Context, employeeID int64, date time.Time) (int64, error) {
	if _, err := s.shiftRepo.GetByEmployeeAndDate(ctx, employeeID, date); err != nil {
		return 0, err
	}

	toggled, err := s.shiftRepo.ToggleOthersOnDate(ctx, date, employeeID)
	if err != nil {
		return 0, err
	}

	s.logger.Info().
		Int64("employee_id", employeeID).
		Time("date", date).
		Int64("toggled", toggled).
		Msg("shifts adjusted for absence")

	return toggled, nil
}

// List lists shifts
func (s *ShiftService) List(ctx context.Context, filter repository.ShiftFilter) ([]*repository.Shift, error) {
	return s.shiftRepo.List(ctx, filter)
}

// UpdateType relabels one shift
func (s *ShiftService) UpdateType(ctx context.Context, id int64, shiftType string) error {
	switch shiftType {
	case repository.ShiftMorning, repository.ShiftNight, repository.ShiftNotAssigned:
	default:
		return errors.Validation(map[string]string{
			"shift_type": "must be one of Morning, Night, Not Assigned",
		})
	}

	if err := s.shiftRepo.UpdateType(ctx, id, shiftType); err != nil {
		return err
	}

	s.logger.Info().Int64("shift_id", id).Str("shift_type", shiftType).Msg("shift updated")
	return nil
}

// groupByDepartment splits employees ordered by department into one slice
// per department, dropping those without one
func groupByDepartment(employees []*repository.ActiveEmployee) [][]*repository.ActiveEmployee {
	var groups [][]*repository.ActiveEmployee
	var current []*repository.ActiveEmployee
	var currentDept int64

	for _, emp := range employees {
		if emp.DepartmentID == nil {
			continue
		}
		if current != nil && *emp.DepartmentID != currentDept {
			groups = append(groups, current)
			current = nil
		}
		currentDept = *emp.DepartmentID
		current = append(current, emp)
	}
	if current != nil {
		groups = append(groups, current)
	}
	return groups
}

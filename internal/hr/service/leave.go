package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/retailhub/backoffice/internal/hr/events"
	"github.com/retailhub/backoffice/internal/hr/repository"
	"github.com/retailhub/backoffice/pkg/database"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/metrics"
)

// NewLeave describes a leave request being filed
type NewLeave struct {
	EmployeeID int64
	StartDate  time.Time
	EndDate    time.Time
	LeaveType  string
	Reason     *string
}

// LeaveService handles the leave request workflow
type LeaveService struct {
	db             *database.DB
	leaveRepo      *repository.LeaveRepository
	attendanceRepo *repository.AttendanceRepository
	publisher      *events.HREventPublisher
	metrics        *metrics.Metrics
	logger         *logger.Logger
	now            func() time.Time
}

// NewLeaveService creates a new leave service
func NewLeaveService(
	db *database.DB,
	leaveRepo *repository.LeaveRepository,
	attendanceRepo *repository.AttendanceRepository,
	publisher *events.HREventPublisher,
	m *metrics.Metrics,
	log *logger.Logger,
) *LeaveService {
	return &LeaveService{
		db:             db,
		leaveRepo:      leaveRepo,
		attendanceRepo: attendanceRepo,
		publisher:      publisher,
		metrics:        m,
		logger:         log,
		now:            time.Now,
	}
}

// RequestLeave files a Pending request. It is refused with a conflict when
// a pending or approved request of the same employee overlaps the range.
func (s *LeaveService) RequestLeave(ctx context.Context, in NewLeave) (*repository.LeaveRequest, error) {
	if in.EndDate.Before(in.StartDate) {
		return nil, errors.Validation(map[string]string{
			"end_date": "must not be before start_date",
		})
	}

	overlap, err := s.leaveRepo.HasOverlap(ctx, in.EmployeeID, in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, errors.Conflict("leave request overlaps an existing request")
	}

	leave := &repository.LeaveRequest{
		EmployeeID: in.EmployeeID,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		LeaveType:  in.LeaveType,
		Reason:     in.Reason,
	}
	if err := s.leaveRepo.Create(ctx, leave); err != nil {
		return nil, err
	}

	s.publisher.PublishLeave(ctx, leave)

	s.logger.Info().
		Int64("leave_id", leave.ID).
		Int64("employee_id", leave.EmployeeID).
		Str("leave_type", leave.LeaveType).
		Msg("leave requested")

	return leave, nil
}

// List lists leave requests
func (s *LeaveService) List(ctx context.Context, filter repository.LeaveFilter) ([]*repository.LeaveRequest, error) {
	return s.leaveRepo.List(ctx, filter)
}

// ApproveLeaveRequest approves a Pending request and marks the employee's
// attendance in the covered range as Leave. Both writes share one
// transaction.
func (s *LeaveService) ApproveLeaveRequest(ctx context.Context, id int64) (*repository.LeaveRequest, error) {
	var leave *repository.LeaveRequest
	var marked int64

	err := s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		var err error
		leave, err = s.leaveRepo.GetPendingForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		reviewedAt := s.now()
		if err := s.leaveRepo.SetApproved(ctx, tx, id, reviewedAt); err != nil {
			return err
		}

		marked, err = s.attendanceRepo.MarkLeave(ctx, tx, leave.EmployeeID, leave.StartDate, leave.EndDate, leave.LeaveType)
		if err != nil {
			return err
		}

		leave.Status = repository.LeaveApproved
		leave.ReviewedAt = &reviewedAt
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("leave_id", id).Msg("failed to approve leave request")
		return nil, err
	}

	s.metrics.RecordLeaveDecision(repository.LeaveApproved)
	s.publisher.PublishLeave(ctx, leave)

	s.logger.Info().
		Int64("leave_id", id).
		Int64("employee_id", leave.EmployeeID).
		Int64("attendance_rows", marked).
		Msg("leave approved")

	return leave, nil
}

// RejectLeaveRequest rejects a Pending request
func (s *LeaveService) RejectLeaveRequest(ctx context.Context, id int64) (*repository.LeaveRequest, error) {
	leave, err := s.leaveRepo.Reject(ctx, id, s.now())
	if err != nil {
		return nil, err
	}

	s.metrics.RecordLeaveDecision(repository.LeaveRejected)
	s.publisher.PublishLeave(ctx, leave)

	s.logger.Info().Int64("leave_id", id).Int64("employee_id", leave.EmployeeID).Msg("leave rejected")
	return leave, nil
}

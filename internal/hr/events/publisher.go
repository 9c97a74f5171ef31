package events

import (
	"context"

	"github.com/retailhub/backoffice/internal/hr/repository"
	"github.com/retailhub/backoffice/pkg/httputil"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/messaging"
)

// HREventPublisher publishes HR events. A nil publisher drops every event,
// which is how the service runs without a broker.
type HREventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewHREventPublisher creates a new HR event publisher
func NewHREventPublisher(rmq *messaging.RabbitMQ, exchange string, log *logger.Logger) (*HREventPublisher, error) {
	if rmq == nil {
		return nil, nil
	}

	publisher, err := messaging.NewPublisher(rmq, exchange, "hr", log)
	if err != nil {
		return nil, err
	}

	return &HREventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

func (p *HREventPublisher) publish(ctx context.Context, eventType string, data interface{}) {
	if p == nil {
		return
	}
	if err := p.publisher.Publish(ctx, eventType, data); err != nil {
		p.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to publish hr event")
	}
}

// PublishEmployeeCreated publishes an employee created event
func (p *HREventPublisher) PublishEmployeeCreated(ctx context.Context, emp *repository.Employee) {
	p.publish(ctx, messaging.EventEmployeeCreated, messaging.EmployeeEvent{
		EmployeeID: emp.ID,
		Name:       emp.FullName(),
		Role:       emp.Role,
	})
}

// PublishEmployeeDeactivated publishes an employee deactivated event
func (p *HREventPublisher) PublishEmployeeDeactivated(ctx context.Context, employeeID int64) {
	p.publish(ctx, messaging.EventEmployeeDeactivated, messaging.EmployeeEvent{EmployeeID: employeeID})
}

// PublishEmployeePurged publishes one event per hard-deleted employee
func (p *HREventPublisher) PublishEmployeePurged(ctx context.Context, employeeIDs []int64) {
	for _, id := range employeeIDs {
		p.publish(ctx, messaging.EventEmployeePurged, messaging.EmployeeEvent{EmployeeID: id})
	}
}

// PublishLeave publishes the leave event matching the request's status
func (p *HREventPublisher) PublishLeave(ctx context.Context, l *repository.LeaveRequest) {
	eventType := messaging.EventLeaveRequested
	switch l.Status {
	case repository.LeaveApproved:
		eventType = messaging.EventLeaveApproved
	case repository.LeaveRejected:
		eventType = messaging.EventLeaveRejected
	}

	p.publish(ctx, eventType, messaging.LeaveEvent{
		LeaveID:    l.ID,
		EmployeeID: l.EmployeeID,
		StartDate:  l.StartDate.Format(httputil.DateLayout),
		EndDate:    l.EndDate.Format(httputil.DateLayout),
		LeaveType:  l.LeaveType,
		Status:     l.Status,
	})
}

// PublishPayrollProcessed publishes a payroll run summary
func (p *HREventPublisher) PublishPayrollProcessed(ctx context.Context, month, year, processed, failed int) {
	p.publish(ctx, messaging.EventPayrollProcessed, messaging.PayrollProcessedEvent{
		Month:     month,
		Year:      year,
		Processed: processed,
		Failed:    failed,
	})
}

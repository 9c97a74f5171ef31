package messaging

import (
	"context"
	"testing"

	"github.com/retailhub/backoffice/pkg/httputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_RoundTripsData(t *testing.T) {
	event, err := NewEvent(EventLeaveApproved, "hr", "corr-1", LeaveEvent{
		LeaveID:    9,
		EmployeeID: 4,
		StartDate:  "2024-06-10",
		EndDate:    "2024-06-12",
		Status:     "Approved",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventLeaveApproved, event.Type)
	assert.Equal(t, "corr-1", event.CorrelationID)

	var data LeaveEvent
	require.NoError(t, event.UnmarshalData(&data))
	assert.Equal(t, int64(9), data.LeaveID)
	assert.Equal(t, "2024-06-12", data.EndDate)
}

func TestGenerateEventID_Unique(t *testing.T) {
	assert.NotEqual(t, GenerateEventID(), GenerateEventID())
}

func TestCorrelationID_FallsBackToRequestID(t *testing.T) {
	ctx := context.WithValue(context.Background(), httputil.RequestIDKey, "req-42")
	assert.Equal(t, "req-42", getCorrelationID(ctx))

	ctx = WithCorrelationID(ctx, "corr-7")
	assert.Equal(t, "corr-7", getCorrelationID(ctx))
}

func TestNilPublisherDropsEvents(t *testing.T) {
	var p *Publisher
	assert.NoError(t, p.Publish(context.Background(), EventSaleCompleted, SaleCompletedEvent{TransactionID: 1}))
}

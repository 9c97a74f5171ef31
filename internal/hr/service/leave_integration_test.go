//go:build integration

package service_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/retailhub/backoffice/internal/hr/repository"
	"github.com/retailhub/backoffice/internal/hr/service"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var suite *testutil.IntegrationSuite

func TestMain(m *testing.M) {
	ctx := context.Background()
	var err error

	suite, err = testutil.NewIntegrationSuite(ctx)
	if err != nil {
		panic("failed to create integration suite: " + err.Error())
	}

	code := m.Run()
	testutil.TerminateContainer(ctx)
	os.Exit(code)
}

func day(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestLeaveWorkflow_ApprovalMarksAttendance(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.Reset(t, ctx)

	emp := suite.Fixtures.Employee(testutil.WithSalary("3100.00"))
	require.NoError(t, testutil.SeedEmployee(ctx, suite.RawDB, &emp))

	attendanceRepo := repository.NewAttendanceRepository(suite.DB)
	for d := 10; d <= 14; d++ {
		require.NoError(t, attendanceRepo.Upsert(ctx, &repository.Attendance{
			EmployeeID:     emp.ID,
			AttendanceDate: day(d),
			Status:         repository.AttendancePresent,
			TotalHours:     decimal.NewFromInt(8),
		}))
	}

	svc := service.NewLeaveService(suite.DB, repository.NewLeaveRepository(suite.DB), attendanceRepo, nil, nil, suite.Logger)

	leave, err := svc.RequestLeave(ctx, service.NewLeave{
		EmployeeID: emp.ID,
		StartDate:  day(11),
		EndDate:    day(12),
		LeaveType:  "Sick Leave",
	})
	require.NoError(t, err)
	assert.Equal(t, repository.LeavePending, leave.Status)

	_, err = svc.RequestLeave(ctx, service.NewLeave{
		EmployeeID: emp.ID,
		StartDate:  day(12),
		EndDate:    day(13),
		LeaveType:  "Casual Leave",
	})
	assert.True(t, errors.Is(err, errors.ErrConflict))

	approved, err := svc.ApproveLeaveRequest(ctx, leave.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.LeaveApproved, approved.Status)

	from, to := day(10), day(14)
	rows, err := attendanceRepo.List(ctx, repository.AttendanceFilter{From: &from, To: &to, EmployeeID: &emp.ID})
	require.NoError(t, err)
	require.Len(t, rows, 5)

	leaveDays := 0
	for _, row := range rows {
		if row.Status == repository.AttendanceLeave {
			leaveDays++
			require.NotNil(t, row.LeaveType)
			assert.Equal(t, "Sick Leave", *row.LeaveType)
		}
	}
	assert.Equal(t, 2, leaveDays)

	// A decided request cannot be approved again
	_, err = svc.ApproveLeaveRequest(ctx, leave.ID)
	assert.Error(t, err)
}

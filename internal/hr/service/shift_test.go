package service

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/retailhub/backoffice/internal/hr/repository"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqlmockResult(rows int64) driver.Result {
	return sqlmock.NewResult(0, rows)
}

func newShiftService(t *testing.T, now time.Time) (*ShiftService, *testutil.MockDB) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() { mockDB.Close() })

	svc := NewShiftService(
		repository.NewShiftRepository(mockDB.Wrapped),
		repository.NewEmployeeRepository(mockDB.Wrapped),
		logger.Nop(),
	)
	svc.now = func() time.Time { return now }
	return svc, mockDB
}

const insertShift = `INSERT INTO shifts (employee_id, shift_date, shift_type) VALUES ($1, $2, $3) ON CONFLICT (employee_id, shift_date) DO NOTHING`

func TestGenerateMonthlyShifts(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2023, time.February, 1, 8, 0, 0, 0, time.UTC)

	t.Run("skipped when shifts exist from today", func(t *testing.T) {
		svc, mockDB := newShiftService(t, now)

		mockDB.ExpectQuery(`SELECT EXISTS (SELECT 1 FROM shifts WHERE shift_date >= $1)`).
			WithArgs(time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC)).
			WillReturnRows(testutil.MockRows("exists").AddRow(true))

		result, err := svc.GenerateMonthlyShifts(ctx)
		require.NoError(t, err)
		assert.True(t, result.Skipped)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("running index continues across days within a department", func(t *testing.T) {
		svc, mockDB := newShiftService(t, now)

		mockDB.ExpectQuery(`SELECT EXISTS (SELECT 1 FROM shifts WHERE shift_date >= $1)`).
			WillReturnRows(testutil.MockRows("exists").AddRow(false))
		mockDB.ExpectQuery(`FROM employees WHERE status = 'Active'`).
			WillReturnRows(testutil.MockRows("employee_id", "department_id", "salary").
				AddRow(1, 10, "1000").
				AddRow(2, 10, "1000").
				AddRow(3, 10, "1000").
				AddRow(4, 20, "1000").
				AddRow(5, nil, "1000"))

		labels := []string{repository.ShiftMorning, repository.ShiftNight}
		departments := [][]int64{{1, 2, 3}, {4}}
		expected := 0
		for _, dept := range departments {
			index := 0
			for d := 1; d <= 28; d++ {
				date := time.Date(2023, time.February, d, 0, 0, 0, 0, time.UTC)
				for _, id := range dept {
					result := sqlmockResult(1)
					if id == 2 && d == 1 {
						result = sqlmockResult(0)
					}
					mockDB.ExpectExec(insertShift).
						WithArgs(id, date, labels[index%2]).
						WillReturnResult(result)
					index++
					expected++
				}
			}
		}

		result, err := svc.GenerateMonthlyShifts(ctx)
		require.NoError(t, err)
		assert.False(t, result.Skipped)
		assert.Equal(t, expected-1, result.Inserted)
		assert.Equal(t, 1, result.Kept)
		mockDB.ExpectationsWereMet(t)
	})
}

func TestAdjustShiftsForAbsence(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	lookup := `WHERE s.employee_id = $1 AND s.shift_date = $2`

	t.Run("employee without a shift that day is not found", func(t *testing.T) {
		svc, mockDB := newShiftService(t, june2024)

		mockDB.ExpectQuery(lookup).
			WithArgs(int64(7), date).
			WillReturnRows(testutil.MockRows("shift_id", "employee_id", "employee_name", "department_id", "shift_date", "shift_type"))

		toggled, err := svc.AdjustShiftsForAbsence(ctx, 7, date)
		assert.Zero(t, toggled)
		assert.True(t, errors.Is(err, errors.ErrNotFound))
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("toggles everyone else on that date", func(t *testing.T) {
		svc, mockDB := newShiftService(t, june2024)

		mockDB.ExpectQuery(lookup).
			WithArgs(int64(7), date).
			WillReturnRows(testutil.MockRows("shift_id", "employee_id", "employee_name", "department_id", "shift_date", "shift_type").
				AddRow(70, 7, "Meera Das", 10, date, "Morning"))
		mockDB.ExpectExec(`WHERE shift_date = $1 AND employee_id <> $2 AND shift_type IN ('Morning', 'Night')`).
			WithArgs(date, int64(7)).
			WillReturnResult(sqlmockResult(4))

		toggled, err := svc.AdjustShiftsForAbsence(ctx, 7, date)
		require.NoError(t, err)
		assert.Equal(t, int64(4), toggled)
		mockDB.ExpectationsWereMet(t)
	})
}

func TestUpdateShiftType(t *testing.T) {
	svc, mockDB := newShiftService(t, june2024)

	err := svc.UpdateType(context.Background(), 1, "Evening")
	assert.True(t, errors.Is(err, errors.ErrValidation))

	mockDB.ExpectExec(`UPDATE shifts SET shift_type = $2 WHERE shift_id = $1`).
		WithArgs(int64(404), repository.ShiftNight).
		WillReturnResult(sqlmockResult(0))
	err = svc.UpdateType(context.Background(), 404, repository.ShiftNight)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}

func TestGroupByDepartment(t *testing.T) {
	ten, twenty := int64(10), int64(20)
	groups := groupByDepartment([]*repository.ActiveEmployee{
		{ID: 1, DepartmentID: &ten},
		{ID: 2, DepartmentID: &ten},
		{ID: 3, DepartmentID: &twenty},
		{ID: 4},
	})

	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 2)
	assert.Equal(t, int64(3), groups[1][0].ID)
}

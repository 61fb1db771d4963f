package postgresql

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/cmlabs-hris/attendance-classifier/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to TEST_DATABASE_URL, applies the schema and isolates the test by company.
func setupTestDB(t *testing.T) (*database.DB, string) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	schema, err := os.ReadFile("../../../migrations/001_attendance_classifier.sql")
	require.NoError(t, err)
	_, err = db.Exec(ctx, string(schema))
	require.NoError(t, err)

	companyID := "test-" + uuid.NewString()
	t.Cleanup(func() {
		for _, table := range []string{
			"attendance_classified", "attendance_punches", "attendance_weekly_offs",
			"attendance_holidays", "attendance_shifts", "attendance_employees",
		} {
			_, _ = db.Exec(context.Background(), "DELETE FROM "+table+" WHERE company_id = $1", companyID)
		}
	})

	return db, companyID
}

func TestReferenceRepositories(t *testing.T) {
	db, companyID := setupTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO attendance_employees (company_id, employee_number, full_name, active_status, shift_deviation_allowed)
		VALUES ($1, 'E1', 'Ayu', 'Active', FALSE), ($1, 'E2', 'Budi', 'Inactive', TRUE)
	`, companyID)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `
		INSERT INTO attendance_shifts (company_id, id, label, start_time, end_time, early_in_threshold, allowed_late_count)
		VALUES ($1, 'GS', 'General Shift', '09:00', '18:00', 30, 2)
	`, companyID)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `INSERT INTO attendance_holidays (company_id, date, label) VALUES ($1, '15-JAN-2024', 'Company Day')`, companyID)
	require.NoError(t, err)

	employees, err := NewEmployeeRepository(db).ListByCompany(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "E2", employees[1].EmployeeNumber)
	assert.True(t, employees[1].ShiftDeviationAllowed)

	shifts, err := NewShiftRepository(db).ListByCompany(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, 30, shifts[0].EarlyInThreshold)

	holidays, err := NewHolidayRepository(db).ListByCompany(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, []attendance.Holiday{{Date: "15-JAN-2024", Label: "Company Day"}}, holidays)

	weeklyOffs := NewWeeklyOffRepository(db)
	require.NoError(t, weeklyOffs.Replace(ctx, companyID, []int{6, 0}))
	require.NoError(t, weeklyOffs.Replace(ctx, companyID, []int{0, 5}))
	days, err := weeklyOffs.GetByCompany(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 5}, days)
}

func TestPunchRepository(t *testing.T) {
	db, companyID := setupTestDB(t)
	ctx := context.Background()
	repo := NewPunchRepository(db)

	_, err := repo.BulkUpsert(ctx, companyID, []attendance.RawPunch{
		{EmployeeNumber: "E1", Date: "02-JAN-2024", Shift: "GS", InTime: "09:00", OutTime: "18:00"},
		{EmployeeNumber: "E1", Date: "01-JAN-2024", Shift: "GS", InTime: "09:00", OutTime: "NA"},
		{EmployeeNumber: "E1", Date: "01-FEB-2024", Shift: "GS", InTime: "NA", OutTime: "NA"},
	})
	require.NoError(t, err)

	// same key replaces the stored row
	_, err = repo.BulkUpsert(ctx, companyID, []attendance.RawPunch{
		{EmployeeNumber: "E1", Date: "01-JAN-2024", Shift: "GS", InTime: "09:00", OutTime: "18:30"},
	})
	require.NoError(t, err)

	jan, err := repo.ListByMonth(ctx, companyID, "JAN-2024")
	require.NoError(t, err)
	require.Len(t, jan, 2)
	assert.Equal(t, "01-JAN-2024", jan[0].Date)
	assert.Equal(t, "18:30", jan[0].OutTime)

	companies, err := repo.ListCompaniesWithPunches(ctx, "FEB-2024")
	require.NoError(t, err)
	assert.Contains(t, companies, companyID)
}

func TestClassifiedRepository(t *testing.T) {
	db, companyID := setupTestDB(t)
	ctx := context.Background()
	repo := NewClassifiedRepository(db)

	records := []attendance.ClassifiedRecord{
		{
			RawPunch:  attendance.RawPunch{EmployeeNumber: "E1", Date: "01-JAN-2024", Shift: "GS", InTime: "09:00", OutTime: "18:00"},
			Status:    attendance.StatusClean,
			Deviation: "On Time",
		},
		{
			RawPunch:  attendance.RawPunch{EmployeeNumber: "E1", Date: "02-JAN-2024", Shift: "GS", InTime: "09:45", OutTime: "18:00"},
			Status:    attendance.StatusAudit,
			Deviation: "Audit Waiver Eligible (Occasion 1/2) - Late In (45m)",
			Waiver:    true,
		},
	}

	require.NoError(t, repo.ReplaceMonth(ctx, companyID, "JAN-2024", uuid.NewString(), records))
	runID := uuid.NewString()
	require.NoError(t, repo.ReplaceMonth(ctx, companyID, "JAN-2024", runID, records))

	stored, err := repo.ListByMonth(ctx, companyID, "JAN-2024")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, runID, stored[0].RunID)
	assert.Equal(t, records[1], stored[1].ClassifiedRecord)
	require.NotNil(t, stored[0].WorkDate)

	status := string(attendance.StatusAudit)
	page, total, err := repo.List(ctx, attendance.ListFilter{Status: &status, Page: 1, Limit: 10}, companyID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, page, 1)
	assert.True(t, page[0].Waiver)
}

func TestClassifiedRepository_ConcurrentReplaceMonth(t *testing.T) {
	db, companyID := setupTestDB(t)
	ctx := context.Background()
	repo := NewClassifiedRepository(db)

	records := []attendance.ClassifiedRecord{
		{
			RawPunch:  attendance.RawPunch{EmployeeNumber: "E1", Date: "01-FEB-2024", Shift: "GS", InTime: "09:00", OutTime: "18:00"},
			Status:    attendance.StatusClean,
			Deviation: "On Time",
		},
		{
			RawPunch:  attendance.RawPunch{EmployeeNumber: "E2", Date: "01-FEB-2024", Shift: "GS", InTime: "09:00", OutTime: "18:00"},
			Status:    attendance.StatusClean,
			Deviation: "On Time",
		},
	}

	const runs = 4
	var wg sync.WaitGroup
	errs := make(chan error, runs)
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.ReplaceMonth(ctx, companyID, "FEB-2024", uuid.NewString(), records)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	stored, err := repo.ListByMonth(ctx, companyID, "FEB-2024")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, stored[0].RunID, stored[1].RunID)
}

package attendance

import (
	"context"
)

// EmployeeRepository reads the employee master. All methods are scoped by companyID.
type EmployeeRepository interface {
	ListByCompany(ctx context.Context, companyID string) ([]Employee, error)
}

type ShiftRepository interface {
	ListByCompany(ctx context.Context, companyID string) ([]ShiftDefinition, error)
}

type HolidayRepository interface {
	ListByCompany(ctx context.Context, companyID string) ([]Holiday, error)
}

type WeeklyOffRepository interface {
	GetByCompany(ctx context.Context, companyID string) ([]int, error)
	Replace(ctx context.Context, companyID string, weekdays []int) error
}

// PunchRepository stores raw punches keyed by (company, employee_number, date).
type PunchRepository interface {
	// BulkUpsert inserts punches, replacing rows with the same employee number and date
	BulkUpsert(ctx context.Context, companyID string, punches []RawPunch) (int, error)

	// ListByMonth returns the punches whose date falls in monthKey ("JAN-2024")
	ListByMonth(ctx context.Context, companyID string, monthKey string) ([]RawPunch, error)

	// ListCompaniesWithPunches is used by the scheduled recalculation
	ListCompaniesWithPunches(ctx context.Context, monthKey string) ([]string, error)
}

// ClassifiedRepository stores engine output.
type ClassifiedRepository interface {
	// ReplaceMonth deletes the stored month and inserts records in one transaction
	ReplaceMonth(ctx context.Context, companyID string, monthKey string, runID string, records []ClassifiedRecord) error

	List(ctx context.Context, filter ListFilter, companyID string) ([]StoredRecord, int64, error)

	// ListByMonth returns every stored record of a month in classification order
	ListByMonth(ctx context.Context, companyID string, monthKey string) ([]StoredRecord, error)
}

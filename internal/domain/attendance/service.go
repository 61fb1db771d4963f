package attendance

import (
	"context"
	"io"
)

// AttendanceService defines the classification use cases exposed over HTTP.
type AttendanceService interface {
	// Classify runs the engine on inline reference data and punches without touching storage
	Classify(ctx context.Context, req ClassifyRequest) (ClassifyResponse, error)

	// ImportPunches stores punches read from an uploaded spreadsheet
	ImportPunches(ctx context.Context, req ImportPunchesRequest) (ImportPunchesResponse, error)

	// Recalculate reclassifies a whole month for the caller's company
	Recalculate(ctx context.Context, req RecalculateRequest) (RecalculateResponse, error)

	// List returns stored classified records
	List(ctx context.Context, filter ListFilter) (ListResponse, error)

	// Summary aggregates stored classified records per employee
	Summary(ctx context.Context, req SummaryRequest) (SummaryResponse, error)

	// UpdateWeeklyOffs replaces the caller's company weekly off days
	UpdateWeeklyOffs(ctx context.Context, req UpdateWeeklyOffsRequest) (WeeklyOffsResponse, error)

	// Export writes the stored month as an xlsx workbook
	Export(ctx context.Context, req ExportRequest, w io.Writer) error
}

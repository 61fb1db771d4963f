package attendance

import "errors"

var (
	// Request errors
	ErrNoPunches        = errors.New("no punch records supplied")
	ErrInvalidMonth     = errors.New("month must be in MMM-YYYY format")
	ErrEmptySpreadsheet = errors.New("spreadsheet contains no punch rows")
	ErrMissingColumns   = errors.New("spreadsheet is missing required columns")

	// Company scope errors
	ErrCompanyIDRequired = errors.New("company_id claim is missing or invalid")

	// General errors
	ErrNoClassifiedRecords = errors.New("no classified attendance found for this period")
	ErrNoPunchesForMonth   = errors.New("no punch records found for this period")
)

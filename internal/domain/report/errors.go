package report

import "errors"

var (
	ErrInvalidPeriod       = errors.New("period must be today, last_7_days, last_30_days or custom")
	ErrInvalidExportFormat = errors.New("format must be csv or xlsx")
	ErrArchiveFailed       = errors.New("failed to archive export")
)

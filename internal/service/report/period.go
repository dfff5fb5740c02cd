package report

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timestamp"
)

// ResolvePeriod turns a validated filter into calendar days in loc. Presets
// count back from now and include today. A custom range is returned as
// given, even when end precedes start.
func ResolvePeriod(filter report.ReportFilter, now time.Time, loc *time.Location) (start, end time.Time, err error) {
	if loc == nil {
		loc = time.Local
	}
	n := now.In(loc)
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)

	switch filter.Period {
	case report.PeriodToday:
		return today, today, nil
	case report.PeriodLast7Days, "":
		return today.AddDate(0, 0, -6), today, nil
	case report.PeriodLast30Days:
		return today.AddDate(0, 0, -29), today, nil
	case report.PeriodCustom:
		start, err = time.ParseInLocation(timestamp.DateLayout, filter.StartDate, loc)
		if err != nil {
			return time.Time{}, time.Time{}, report.ErrInvalidPeriod
		}
		end, err = time.ParseInLocation(timestamp.DateLayout, filter.EndDate, loc)
		if err != nil {
			return time.Time{}, time.Time{}, report.ErrInvalidPeriod
		}
		return start, end, nil
	}
	return time.Time{}, time.Time{}, report.ErrInvalidPeriod
}

func periodRange(period report.Period, start, end time.Time) report.PeriodRange {
	return report.PeriodRange{
		Period:    period,
		StartDate: start.Format(timestamp.DateLayout),
		EndDate:   end.Format(timestamp.DateLayout),
	}
}

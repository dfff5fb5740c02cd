package report

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type Period string

const (
	PeriodToday      Period = "today"
	PeriodLast7Days  Period = "last_7_days"
	PeriodLast30Days Period = "last_30_days"
	PeriodCustom     Period = "custom"
)

var periods = []string{string(PeriodToday), string(PeriodLast7Days), string(PeriodLast30Days), string(PeriodCustom)}

// ReportFilter selects a date range and optionally one staff member. An
// empty period means last_7_days; custom requires both dates.
type ReportFilter struct {
	Period    Period `json:"period"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	StaffName string `json:"staff_name"`
}

func (f *ReportFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Period == "" {
		f.Period = PeriodLast7Days
	}
	if !validator.IsInSlice(string(f.Period), periods) {
		errs.Add("period", ErrInvalidPeriod.Error())
	}

	if f.Period == PeriodCustom {
		if f.StartDate == "" {
			errs.Add("start_date", "start_date is required for a custom period")
		}
		if f.EndDate == "" {
			errs.Add("end_date", "end_date is required for a custom period")
		}
	}
	if f.StartDate != "" {
		if _, ok := validator.IsValidDate(f.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != "" {
		if _, ok := validator.IsValidDate(f.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

// PeriodRange is a resolved, inclusive date range.
type PeriodRange struct {
	Period    Period `json:"period"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ========================================
// DASHBOARD
// ========================================

type DashboardResponse struct {
	Period             PeriodRange   `json:"period"`
	KPIs               KPIs          `json:"kpis"`
	DailyTrend         []DailyCount  `json:"daily_trend"`
	HourlyDistribution []HourlyCount `json:"hourly_distribution"`
	Today              []TodayEntry  `json:"today"`
	TotalStaff         int           `json:"total_staff"`
	Warnings           []string      `json:"warnings,omitempty"`
}

// KPIs summarise check-ins over a range. Absent values render as "-".
type KPIs struct {
	TotalCheckins      int     `json:"total_checkins"`
	AvgCheckinsPerDay  float64 `json:"avg_checkins_per_day"`
	AverageCheckinTime string  `json:"average_checkin_time"`
	EarliestCheckin    string  `json:"earliest_checkin"`
	EarliestStaff      string  `json:"earliest_staff"`
	LatestCheckin      string  `json:"latest_checkin"`
	LatestStaff        string  `json:"latest_staff"`
	LateCheckins       int     `json:"late_checkins"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type HourlyCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type TodayEntry struct {
	StaffName  string `json:"staff_name"`
	CheckIn    string `json:"check_in"`
	Department string `json:"department,omitempty"`
}

// ========================================
// ATTENDANCE REPORT
// ========================================

type AttendanceReport struct {
	Period              PeriodRange                     `json:"period"`
	StaffName           string                          `json:"staff_name"`
	Total               int                             `json:"total"`
	Records             []attendance.AttendanceResponse `json:"records"`
	StaffSummaries      []StaffSummary                  `json:"staff_summaries"`
	DepartmentSummaries []DepartmentSummary             `json:"department_summaries"`
	Warnings            []string                        `json:"warnings,omitempty"`
}

type StaffSummary struct {
	StaffName      string  `json:"staff_name"`
	Department     string  `json:"department"`
	DaysPresent    int     `json:"days_present"`
	TotalHours     float64 `json:"total_hours"`
	AvgHoursPerDay float64 `json:"avg_hours_per_day"`
}

type DepartmentSummary struct {
	Department     string  `json:"department"`
	StaffCount     int     `json:"staff_count"`
	DaysPresent    int     `json:"days_present"`
	TotalHours     float64 `json:"total_hours"`
	AvgHoursPerDay float64 `json:"avg_hours_per_day"`
}

// ========================================
// EXPORT
// ========================================

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

type ExportRequest struct {
	ReportFilter
	Format ExportFormat `json:"format"`
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := r.ReportFilter.Validate(); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, ve...)
		}
	}

	if r.Format == "" {
		r.Format = FormatCSV
	}
	if r.Format != FormatCSV && r.Format != FormatXLSX {
		errs.Add("format", ErrInvalidExportFormat.Error())
	}

	return errs.Err()
}

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

type ArchiveResponse struct {
	Key    string `json:"key"`
	URL    string `json:"url"`
	Format string `json:"format"`
	Rows   int    `json:"rows"`
}

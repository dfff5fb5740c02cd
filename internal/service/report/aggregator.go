package report

import (
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timestamp"
)

const (
	noValue            = "-"
	unassignedDept     = "Unassigned"
	allStaff           = "All"
	allStaffLabel      = "All Staff"
	secondsPerHour     = 3600
	hoursPerDayBuckets = 24
)

// Aggregator computes report figures over normalized attendance records.
// Time-of-day values are read in loc.
type Aggregator struct {
	loc       *time.Location
	lateAfter int
}

// NewAggregator counts a check-in as late when its time of day is after
// lateAfterSeconds. A non-positive value disables late counting.
func NewAggregator(loc *time.Location, lateAfterSeconds int) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{loc: loc, lateAfter: lateAfterSeconds}
}

// FilterByRange keeps records dated within [start, end]. Records with a
// missing or malformed date are dropped. end before start yields nothing.
func (a *Aggregator) FilterByRange(records []attendance.Attendance, start, end time.Time) []attendance.Attendance {
	result := []attendance.Attendance{}
	from, to := dayKey(start, a.loc), dayKey(end, a.loc)
	if to < from {
		return result
	}

	for _, r := range records {
		d, ok := r.CalendarDate(a.loc)
		if !ok {
			continue
		}
		key := d.Format(timestamp.DateLayout)
		if key >= from && key <= to {
			result = append(result, r)
		}
	}
	return result
}

// FilterByStaff keeps records for name. An empty name or the "All" choices
// pass everything through.
func (a *Aggregator) FilterByStaff(records []attendance.Attendance, name string) []attendance.Attendance {
	if name == "" || name == allStaff || name == allStaffLabel {
		return records
	}

	result := []attendance.Attendance{}
	for _, r := range records {
		if r.StaffName == name {
			result = append(result, r)
		}
	}
	return result
}

// ComputeKPIs summarises the check-ins of records over [start, end].
func (a *Aggregator) ComputeKPIs(records []attendance.Attendance, start, end time.Time) report.KPIs {
	kpis := report.KPIs{
		AverageCheckinTime: noValue,
		EarliestCheckin:    noValue,
		EarliestStaff:      noValue,
		LatestCheckin:      noValue,
		LatestStaff:        noValue,
	}

	var (
		sum              int
		earliest, latest int
	)
	for _, r := range records {
		if r.CheckIn == nil {
			continue
		}
		tod := a.timeOfDay(*r.CheckIn)

		// strict comparisons keep the first record seen on a tie
		if kpis.TotalCheckins == 0 || tod < earliest {
			earliest = tod
			kpis.EarliestStaff = r.StaffName
		}
		if kpis.TotalCheckins == 0 || tod > latest {
			latest = tod
			kpis.LatestStaff = r.StaffName
		}
		if a.lateAfter > 0 && tod > a.lateAfter {
			kpis.LateCheckins++
		}

		sum += tod
		kpis.TotalCheckins++
	}

	kpis.AvgCheckinsPerDay = round2(float64(kpis.TotalCheckins) / float64(DaySpan(start, end, a.loc)))

	if kpis.TotalCheckins > 0 {
		kpis.AverageCheckinTime = timestamp.FormatClock(sum / kpis.TotalCheckins)
		kpis.EarliestCheckin = timestamp.FormatClock(earliest)
		kpis.LatestCheckin = timestamp.FormatClock(latest)
	}

	return kpis
}

// DailyTrend counts check-ins per calendar date, oldest date first.
func (a *Aggregator) DailyTrend(records []attendance.Attendance) []report.DailyCount {
	counts := map[string]int{}
	for _, r := range records {
		if r.CheckIn == nil || r.Date == "" {
			continue
		}
		counts[r.Date]++
	}

	trend := make([]report.DailyCount, 0, len(counts))
	for date, count := range counts {
		trend = append(trend, report.DailyCount{Date: date, Count: count})
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Date < trend[j].Date })
	return trend
}

// HourlyDistribution counts check-ins per hour of day, one bucket per hour.
func (a *Aggregator) HourlyDistribution(records []attendance.Attendance) []report.HourlyCount {
	buckets := make([]report.HourlyCount, hoursPerDayBuckets)
	for h := range buckets {
		buckets[h].Hour = h
	}
	for _, r := range records {
		if r.CheckIn == nil {
			continue
		}
		buckets[a.timeOfDay(*r.CheckIn)/secondsPerHour].Count++
	}
	return buckets
}

// TodayView lists each staff member's earliest check-in on day, earliest
// first. departments maps staff names to their department and may be nil.
func (a *Aggregator) TodayView(records []attendance.Attendance, day time.Time, departments map[string]string) []report.TodayEntry {
	key := dayKey(day, a.loc)

	type firstCheckin struct {
		name string
		tod  int
		dept string
	}
	byStaff := map[string]*firstCheckin{}
	var order []string

	for _, r := range records {
		if r.CheckIn == nil || r.StaffName == "" || r.Date != key {
			continue
		}
		tod := a.timeOfDay(*r.CheckIn)
		entry, ok := byStaff[r.StaffName]
		if !ok {
			byStaff[r.StaffName] = &firstCheckin{name: r.StaffName, tod: tod, dept: r.Department}
			order = append(order, r.StaffName)
			continue
		}
		if tod < entry.tod {
			entry.tod = tod
		}
	}

	entries := make([]firstCheckin, 0, len(order))
	for _, name := range order {
		entries = append(entries, *byStaff[name])
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].tod < entries[j].tod })

	view := make([]report.TodayEntry, 0, len(entries))
	for _, e := range entries {
		dept := departments[e.name]
		if dept == "" {
			dept = e.dept
		}
		view = append(view, report.TodayEntry{
			StaffName:  e.name,
			CheckIn:    timestamp.FormatClock(e.tod),
			Department: dept,
		})
	}
	return view
}

type staffTotals struct {
	name  string
	dept  string
	dates map[string]struct{}
	hours float64
}

// StaffSummaries reports days present and hours worked per staff member,
// ordered by name. departments maps staff names to their department and
// may be nil; records without one fall back to their own department.
func (a *Aggregator) StaffSummaries(records []attendance.Attendance, departments map[string]string) []report.StaffSummary {
	totals := a.staffTotals(records, departments)

	summaries := make([]report.StaffSummary, 0, len(totals))
	for _, t := range totals {
		summaries = append(summaries, report.StaffSummary{
			StaffName:      t.name,
			Department:     t.dept,
			DaysPresent:    len(t.dates),
			TotalHours:     round2(t.hours),
			AvgHoursPerDay: perDay(t.hours, len(t.dates)),
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].StaffName < summaries[j].StaffName })
	return summaries
}

// DepartmentSummaries rolls StaffSummaries up per department, ordered by
// department name.
func (a *Aggregator) DepartmentSummaries(records []attendance.Attendance, departments map[string]string) []report.DepartmentSummary {
	byDept := map[string]*report.DepartmentSummary{}
	hours := map[string]float64{}

	for _, t := range a.staffTotals(records, departments) {
		d, ok := byDept[t.dept]
		if !ok {
			d = &report.DepartmentSummary{Department: t.dept}
			byDept[t.dept] = d
		}
		d.StaffCount++
		d.DaysPresent += len(t.dates)
		hours[t.dept] += t.hours
	}

	summaries := make([]report.DepartmentSummary, 0, len(byDept))
	for dept, d := range byDept {
		d.TotalHours = round2(hours[dept])
		d.AvgHoursPerDay = perDay(hours[dept], d.DaysPresent)
		summaries = append(summaries, *d)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Department < summaries[j].Department })
	return summaries
}

func (a *Aggregator) staffTotals(records []attendance.Attendance, departments map[string]string) map[string]*staffTotals {
	totals := map[string]*staffTotals{}
	for _, r := range records {
		if r.StaffName == "" || r.Status == attendance.StatusAbsent {
			continue
		}
		t, ok := totals[r.StaffName]
		if !ok {
			t = &staffTotals{name: r.StaffName, dates: map[string]struct{}{}}
			totals[r.StaffName] = t
		}
		if t.dept == "" {
			t.dept = departments[r.StaffName]
		}
		if t.dept == "" {
			t.dept = r.Department
		}
		if r.Date != "" {
			t.dates[r.Date] = struct{}{}
		}
		if h, ok := r.WorkedHours(); ok {
			t.hours += h
		}
	}
	for _, t := range totals {
		if t.dept == "" {
			t.dept = unassignedDept
		}
	}
	return totals
}

func (a *Aggregator) timeOfDay(t time.Time) int {
	if timestamp.IsClockOnly(t) {
		return timestamp.TimeOfDaySeconds(t)
	}
	return timestamp.TimeOfDaySeconds(t.In(a.loc))
}

// DaySpan is the inclusive number of calendar days from start to end, never
// less than one.
func DaySpan(start, end time.Time, loc *time.Location) int {
	s, _ := time.Parse(timestamp.DateLayout, dayKey(start, loc))
	e, _ := time.Parse(timestamp.DateLayout, dayKey(end, loc))
	days := int(e.Sub(s).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(timestamp.DateLayout)
}

func perDay(hours float64, days int) float64 {
	if days == 0 {
		return 0
	}
	return round2(hours / float64(days))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

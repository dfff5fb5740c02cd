package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timestamp"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	DefaultMaxRows       = 100
	DefaultMaxCellLength = 30
	SheetName            = "Attendance"

	instantLayout = "2006-01-02 15:04:05"
	clockLayout   = "15:04:05"
)

// Columns is the fixed export column order.
var Columns = []string{"name", "nfc_uid", "date", "device_id", "department", "user_id", "timestamp", "action", "id"}

// Options bound an export. Zero values fall back to the defaults.
type Options struct {
	MaxRows       int
	MaxCellLength int
	Location      *time.Location
}

func (o Options) withDefaults() Options {
	if o.MaxRows <= 0 {
		o.MaxRows = DefaultMaxRows
	}
	if o.MaxCellLength <= 0 {
		o.MaxCellLength = DefaultMaxCellLength
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// Rows renders at most MaxRows records as export rows, without the header.
// Missing values are empty strings and every cell is cut to MaxCellLength
// characters.
func Rows(records []attendance.Attendance, opts Options) [][]string {
	opts = opts.withDefaults()

	n := len(records)
	if n > opts.MaxRows {
		n = opts.MaxRows
	}

	rows := make([][]string, 0, n)
	for _, r := range records[:n] {
		row := []string{
			r.StaffName,
			r.NFCUID,
			r.Date,
			r.DeviceID,
			r.Department,
			r.UserID,
			formatTimestamp(r.Timestamp(), opts.Location),
			string(r.Action),
			r.ID,
		}
		for i := range row {
			row[i] = truncate(row[i], opts.MaxCellLength)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes the header and the rows of records to w. It returns the
// number of data rows written.
func WriteCSV(w io.Writer, records []attendance.Attendance, opts Options) (int, error) {
	rows := Rows(records, opts)

	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return 0, fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return 0, fmt.Errorf("failed to write csv rows: %w", err)
	}
	return len(rows), nil
}

// WriteXLSX writes a single-sheet workbook with the same content as WriteCSV.
func WriteXLSX(w io.Writer, records []attendance.Attendance, opts Options) (int, error) {
	rows := Rows(records, opts)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return 0, fmt.Errorf("failed to write xlsx header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return 0, fmt.Errorf("failed to style xlsx header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return 0, fmt.Errorf("failed to write xlsx row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return len(rows), nil
}

func formatTimestamp(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	if timestamp.IsClockOnly(*t) {
		return t.Format(clockLayout)
	}
	return t.In(loc).Format(instantLayout)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

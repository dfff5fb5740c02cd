package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func makeRecords(n int) []attendance.Attendance {
	records := make([]attendance.Attendance, 0, n)
	for i := 0; i < n; i++ {
		at := time.Date(2024, 1, 5, 8, i%60, 0, 0, time.UTC)
		records = append(records, attendance.Attendance{
			ID:         fmt.Sprintf("record-%03d", i),
			StaffName:  fmt.Sprintf("Staff %d with a rather long display name", i),
			Date:       "2024-01-05",
			CheckIn:    &at,
			Action:     attendance.ActionCheckIn,
			NFCUID:     "04:A2:2B:1A:6C:5D:80",
			DeviceID:   "gate-1",
			Department: "Operations",
		})
	}
	return records
}

func TestWriteCSV_CapsRowsAndTruncatesCells(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteCSV(&buf, makeRecords(150), Options{Location: time.UTC})
	require.NoError(t, err)
	assert.Equal(t, 100, n)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 101)
	assert.Equal(t, Columns, rows[0])

	for _, row := range rows[1:] {
		require.Len(t, row, 9)
		for _, cell := range row {
			assert.LessOrEqual(t, utf8.RuneCountInString(cell), 30)
		}
	}
	assert.Equal(t, "2024-01-05 08:00:00", rows[1][6])
	assert.Equal(t, "check_in", rows[1][7])
}

func TestRows_MissingFieldsAreEmpty(t *testing.T) {
	rows := Rows([]attendance.Attendance{{StaffName: "Alice"}}, Options{})
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Alice", "", "", "", "", "", "", "", ""}, rows[0])
}

func TestRows_CustomLimits(t *testing.T) {
	rows := Rows(makeRecords(10), Options{MaxRows: 3, MaxCellLength: 5, Location: time.UTC})
	require.Len(t, rows, 3)
	assert.Equal(t, "Staff", rows[0][0])
	assert.Equal(t, "Opera", rows[0][4])
}

func TestRows_TruncatesByCharacter(t *testing.T) {
	rows := Rows([]attendance.Attendance{{StaffName: strings.Repeat("é", 40)}}, Options{})
	assert.Equal(t, strings.Repeat("é", 30), rows[0][0])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteXLSX(&buf, makeRecords(5), Options{Location: time.UTC})
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "record-000", rows[1][8])
}

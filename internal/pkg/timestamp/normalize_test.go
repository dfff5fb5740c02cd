package timestamp

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Nil(t *testing.T) {
	assert.Nil(t, Normalize(nil))

	var p *time.Time
	assert.Nil(t, Normalize(p))

	var s *string
	assert.Nil(t, Normalize(s))
}

func TestNormalize_EpochSecondsBag(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)

	got := NormalizeIn(map[string]any{"_seconds": 0}, loc)
	require.NotNil(t, got)
	assert.True(t, got.Equal(time.Unix(0, 0)))
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 7, got.Hour())

	got = NormalizeIn(map[string]any{"_seconds": float64(1704443400), "_nanoseconds": float64(500)}, time.UTC)
	require.NotNil(t, got)
	assert.True(t, time.Date(2024, 1, 5, 8, 30, 0, 500, time.UTC).Equal(*got))

	got = NormalizeIn(map[string]any{"_seconds": json.Number("1704443400")}, time.UTC)
	require.NotNil(t, got)
	assert.Equal(t, 2024, got.Year())
}

func TestNormalize_EpochSecondsBagInvalid(t *testing.T) {
	assert.Nil(t, Normalize(map[string]any{"_seconds": "soon"}))
	assert.Nil(t, Normalize(map[string]any{"other": 1}))
	assert.Nil(t, Normalize(map[string]any{}))
}

func TestNormalize_NativeInstantUnchanged(t *testing.T) {
	in := time.Date(2024, 1, 5, 8, 30, 0, 0, time.UTC)

	got := Normalize(in)
	require.NotNil(t, got)
	assert.Equal(t, in, *got)

	got = Normalize(&in)
	require.NotNil(t, got)
	assert.Equal(t, in, *got)
}

func TestNormalize_Strings(t *testing.T) {
	loc := time.UTC
	cases := []struct {
		input string
		want  time.Time
	}{
		{"2024-01-05T08:30:00", time.Date(2024, 1, 5, 8, 30, 0, 0, loc)},
		{"2024-01-05T08:30:00Z", time.Date(2024, 1, 5, 8, 30, 0, 0, loc)},
		{"2024-01-05 08:30:00", time.Date(2024, 1, 5, 8, 30, 0, 0, loc)},
		{"2024/01/05 08:30", time.Date(2024, 1, 5, 8, 30, 0, 0, loc)},
		{"01/05/2024 08:30:00", time.Date(2024, 1, 5, 8, 30, 0, 0, loc)},
		{"2024-01-05", time.Date(2024, 1, 5, 0, 0, 0, 0, loc)},
		{"Jan 5, 2024", time.Date(2024, 1, 5, 0, 0, 0, 0, loc)},
	}
	for _, c := range cases {
		got := NormalizeIn(c.input, loc)
		if assert.NotNil(t, got, "input %q", c.input) {
			assert.True(t, c.want.Equal(*got), "NormalizeIn(%q) = %v, want %v", c.input, *got, c.want)
		}
	}
}

func TestNormalize_ClockOnlyFallback(t *testing.T) {
	got := NormalizeIn("08:30:00", time.UTC)
	require.NotNil(t, got)
	assert.True(t, IsClockOnly(*got))
	assert.Equal(t, 8, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestNormalize_Unparseable(t *testing.T) {
	for _, in := range []any{"not-a-date", "", "   ", "25:61:00", 42, []string{"x"}, true} {
		assert.Nil(t, Normalize(in), "input %v", in)
	}
}

func TestAnchorToDate(t *testing.T) {
	clock := NormalizeIn("17:15:00", time.UTC)
	require.NotNil(t, clock)

	got := AnchorToDate(*clock, "2023-08-10", time.UTC)
	assert.True(t, time.Date(2023, 8, 10, 17, 15, 0, 0, time.UTC).Equal(got))

	full := time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, full, AnchorToDate(full, "2023-08-10", time.UTC))

	assert.Equal(t, *clock, AnchorToDate(*clock, "garbage", time.UTC))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "08:45:00", FormatClock(8*3600+45*60))
	assert.Equal(t, "00:00:00", FormatClock(0))
	assert.Equal(t, "23:59:59", FormatClock(86399))
	assert.Equal(t, "00:00:00", FormatClock(-5))
}

func TestTimeOfDaySeconds(t *testing.T) {
	assert.Equal(t, 9*3600+30*60+15, TimeOfDaySeconds(time.Date(2024, 1, 5, 9, 30, 15, 0, time.UTC)))
}

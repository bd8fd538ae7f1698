package timegrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		raw     string
		want    Clock
		wantErr bool
	}{
		{raw: "07:30", want: 450},
		{raw: "00:00", want: 0},
		{raw: "23:59", want: 1439},
		{raw: " 10:30 ", want: 630},
		{raw: "24:00", wantErr: true},
		{raw: "10:60", wantErr: true},
		{raw: "1030", wantErr: true},
		{raw: "ten:30", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.raw)
		if tc.wantErr {
			assert.Error(t, err, tc.raw)
			continue
		}
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestClockString(t *testing.T) {
	assert.Equal(t, "07:30", MustClock("07:30").String())
	assert.Equal(t, "15:30", Clock(930).String())
}

func TestIntervalOverlaps(t *testing.T) {
	base, err := ParseInterval("09:00", "10:30")
	require.NoError(t, err)

	cases := []struct {
		name  string
		other string
		end   string
		want  bool
	}{
		{name: "identical", other: "09:00", end: "10:30", want: true},
		{name: "contained", other: "09:30", end: "10:00", want: true},
		{name: "straddles start", other: "08:00", end: "09:01", want: true},
		{name: "straddles end", other: "10:29", end: "11:00", want: true},
		{name: "touching before", other: "08:00", end: "09:00", want: false},
		{name: "touching after", other: "10:30", end: "12:00", want: false},
		{name: "disjoint", other: "13:00", end: "14:00", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			other, err := ParseInterval(tc.other, tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.want, base.Overlaps(other))
			assert.Equal(t, tc.want, other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestNewIntervalRejectsInverted(t *testing.T) {
	_, err := ParseInterval("10:30", "07:30")
	assert.Error(t, err)
	_, err = ParseInterval("10:30", "10:30")
	assert.Error(t, err)
}

func TestIntervalGapTo(t *testing.T) {
	morning, _ := ParseInterval("07:30", "10:30")
	afternoon, _ := ParseInterval("13:00", "14:30")
	assert.Equal(t, 150, morning.GapTo(afternoon))

	next, _ := ParseInterval("10:30", "12:00")
	assert.Equal(t, 0, morning.GapTo(next))
}

func TestDayOrderingAndParsing(t *testing.T) {
	assert.True(t, Monday < Tuesday)
	assert.True(t, Friday < Saturday)
	assert.True(t, Saturday.Valid())
	assert.False(t, Saturday.IsWeekday())
	assert.True(t, Wednesday.IsWeekday())

	day, err := ParseDay("sat")
	require.NoError(t, err)
	assert.Equal(t, Saturday, day)

	_, err = ParseDay("SUN")
	assert.Error(t, err)
}

func TestDaySQLRoundTrip(t *testing.T) {
	v, err := Thursday.Value()
	require.NoError(t, err)
	assert.Equal(t, "THU", v)

	var d Day
	require.NoError(t, d.Scan("FRI"))
	assert.Equal(t, Friday, d)
	require.NoError(t, d.Scan([]byte("MON")))
	assert.Equal(t, Monday, d)
	assert.Error(t, d.Scan("SUN"))
	assert.Error(t, d.Scan(3.5))
}

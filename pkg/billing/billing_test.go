package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClampedBillingDate(t *testing.T) {
	tests := []struct {
		name       string
		year       int
		month      time.Month
		billingDay int
		want       time.Time
	}{
		{name: "plain day", year: 2024, month: time.March, billingDay: 15, want: date(2024, time.March, 15)},
		{name: "day 31 in feb leap", year: 2024, month: time.February, billingDay: 31, want: date(2024, time.February, 29)},
		{name: "day 31 in feb non-leap", year: 2023, month: time.February, billingDay: 31, want: date(2023, time.February, 28)},
		{name: "day 31 in april", year: 2024, month: time.April, billingDay: 31, want: date(2024, time.April, 30)},
		{name: "day 1", year: 2024, month: time.December, billingDay: 1, want: date(2024, time.December, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampedBillingDate(tt.year, tt.month, tt.billingDay))
		})
	}
}

// Every anchor day must resolve inside the target month, for all months.
func TestClampedBillingDate_AlwaysInMonth(t *testing.T) {
	for _, year := range []int{2023, 2024} {
		for month := time.January; month <= time.December; month++ {
			for day := 1; day <= 31; day++ {
				got := ClampedBillingDate(year, month, day)
				assert.Equal(t, year, got.Year())
				assert.Equal(t, month, got.Month())
			}
		}
	}
}

func TestNextBillingDate_NoSpillOver(t *testing.T) {
	// Jan 31 must land on Feb 28, not Mar 3.
	first := NextBillingDate(date(2023, time.January, 31))
	assert.Equal(t, date(2023, time.February, 28), first)

	// Applied again the anchor has drifted to 28; the clamp keeps it there.
	second := NextBillingDate(first)
	assert.Equal(t, date(2023, time.March, 28), second)
}

func TestNextBillingDate_YearBoundary(t *testing.T) {
	assert.Equal(t, date(2025, time.January, 15), NextBillingDate(date(2024, time.December, 15)))
}

func TestOverlapMonths(t *testing.T) {
	end := date(2024, time.May, 10)
	current := Month{2024, time.July}

	tests := []struct {
		name     string
		start    time.Time
		end      *time.Time
		isActive bool
		winStart Month
		winEnd   Month
		want     []string
	}{
		{
			name:     "closed range inside window",
			start:    date(2024, time.March, 15),
			end:      &end,
			isActive: false,
			winStart: Month{2024, time.January},
			winEnd:   Month{2024, time.June},
			want:     []string{"2024-03", "2024-04", "2024-05"},
		},
		{
			name:     "active open-ended runs through current month",
			start:    date(2024, time.March, 15),
			isActive: true,
			winStart: Month{2024, time.January},
			winEnd:   Month{2024, time.December},
			want:     []string{"2024-03", "2024-04", "2024-05", "2024-06", "2024-07"},
		},
		{
			name:     "advisory end date ignored while active",
			start:    date(2024, time.March, 15),
			end:      &end,
			isActive: true,
			winStart: Month{2024, time.April},
			winEnd:   Month{2024, time.July},
			want:     []string{"2024-04", "2024-05", "2024-06", "2024-07"},
		},
		{
			name:     "starts and ends in the same month counts once",
			start:    date(2024, time.April, 3),
			end:      &[]time.Time{date(2024, time.April, 20)}[0],
			isActive: false,
			winStart: Month{2024, time.January},
			winEnd:   Month{2024, time.December},
			want:     []string{"2024-04"},
		},
		{
			name:     "starts after window end",
			start:    date(2025, time.January, 1),
			isActive: true,
			winStart: Month{2024, time.January},
			winEnd:   Month{2024, time.June},
			want:     nil,
		},
		{
			name:     "ended before window start",
			start:    date(2023, time.January, 1),
			end:      &[]time.Time{date(2023, time.June, 1)}[0],
			isActive: false,
			winStart: Month{2024, time.January},
			winEnd:   Month{2024, time.June},
			want:     nil,
		},
		{
			name:     "inverted window",
			start:    date(2024, time.March, 15),
			isActive: true,
			winStart: Month{2024, time.June},
			winEnd:   Month{2024, time.January},
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverlapMonths(tt.start, tt.end, tt.isActive, tt.winStart, tt.winEnd, current)
			keys := make([]string, 0, len(got))
			for _, m := range got {
				keys = append(keys, m.String())
			}
			if tt.want == nil {
				assert.Empty(t, keys)
				return
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, Month{2024, time.February}, m)
	assert.Equal(t, "2024-02", m.String())

	_, err = ParseMonth("2024-13")
	assert.Error(t, err)
	_, err = ParseMonth("feb 2024")
	assert.Error(t, err)
}

func TestMonthsBetween(t *testing.T) {
	assert.Equal(t, 12, MonthsBetween(Month{2024, time.January}, Month{2024, time.December}))
	assert.Equal(t, 1, MonthsBetween(Month{2024, time.March}, Month{2024, time.March}))
	assert.Equal(t, 2, MonthsBetween(Month{2024, time.December}, Month{2025, time.January}))
	assert.Equal(t, 0, MonthsBetween(Month{2024, time.May}, Month{2024, time.April}))
}

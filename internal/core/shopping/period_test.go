package shopping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		day  string
		want string
	}{
		{name: "wednesday rolls back to sunday", day: "2026-08-26", want: "2026-08-23"},
		{name: "sunday stays put", day: "2026-08-23", want: "2026-08-23"},
		{name: "saturday end of week", day: "2026-08-29", want: "2026-08-23"},
		{name: "crosses month boundary", day: "2026-09-01", want: "2026-08-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, err := time.Parse("2006-01-02", tt.day)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, WeekStart(day).Format("2006-01-02"))
		})
	}
}

func TestWeekStartTruncatesToMidnight(t *testing.T) {
	day := time.Date(2026, 8, 26, 18, 30, 12, 0, time.UTC)
	start := WeekStart(day)
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 0, start.Minute())
}

func TestPeriodKeys(t *testing.T) {
	day := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-23", WeekKey(day))
	assert.Equal(t, "2026-08", MonthKey(day))
}

func TestNormalizeSection(t *testing.T) {
	assert.Equal(t, "produce", normalizeSection("produce"))
	assert.Equal(t, SectionOther, normalizeSection(""))
	assert.Equal(t, SectionOther, normalizeSection("hardware"))
}

func TestSectionRankOrder(t *testing.T) {
	assert.Less(t, sectionRank("meat"), sectionRank("produce"))
	assert.Less(t, sectionRank("produce"), sectionRank("spices"))
	assert.Equal(t, sectionRank("other"), sectionRank("unknown"))
}

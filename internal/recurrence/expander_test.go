package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studioops/internal/domain"
)

func baseWindow(start time.Time, d time.Duration) domain.Interval {
	return domain.Interval{Start: start, End: start.Add(d)}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(domain.RecurrencePattern{Frequency: domain.FrequencyDaily, Interval: 1}))

	assert.ErrorIs(t, Validate(domain.RecurrencePattern{Frequency: "hourly", Interval: 1}), ErrInvalidPattern)
	assert.ErrorIs(t, Validate(domain.RecurrencePattern{Frequency: domain.FrequencyDaily, Interval: 0}), ErrInvalidPattern)
	// Weekday anchors only make sense for weekly patterns.
	assert.ErrorIs(t, Validate(domain.RecurrencePattern{
		Frequency: domain.FrequencyMonthly,
		Interval:  1,
		Weekdays:  []time.Weekday{time.Monday},
	}), ErrInvalidPattern)
}

func TestExpand_WeeklyWithAnchors(t *testing.T) {
	e := NewExpander(0, 0)

	// Base window: Monday 2024-01-01 09:00-10:00 UTC.
	base := baseWindow(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), time.Hour)
	end := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)

	got, err := e.Expand(domain.RecurrencePattern{
		Frequency: domain.FrequencyWeekly,
		Interval:  1,
		Weekdays:  []time.Weekday{time.Wednesday, time.Monday},
		EndDate:   &end,
	}, base)
	require.NoError(t, err)

	require.Len(t, got, 4)
	want := []time.Time{
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
	}
	for i, occ := range got {
		assert.Equal(t, want[i], occ.Start, "occurrence %d", i)
		assert.Equal(t, time.Hour, occ.Duration(), "occurrence %d", i)
	}
}

func TestExpand_DailyInterval(t *testing.T) {
	e := NewExpander(0, 0)
	base := baseWindow(time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC), 2*time.Hour)
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	got, err := e.Expand(domain.RecurrencePattern{
		Frequency: domain.FrequencyDaily,
		Interval:  3,
		EndDate:   &end,
	}, base)
	require.NoError(t, err)

	require.Len(t, got, 3) // Mar 1, 4, 7
	assert.Equal(t, time.Date(2024, 3, 7, 14, 0, 0, 0, time.UTC), got[2].Start)
}

func TestExpand_WeeklyWithoutAnchorsPreservesTimeOfDay(t *testing.T) {
	e := NewExpander(0, 0)
	base := baseWindow(time.Date(2024, 5, 3, 18, 30, 0, 0, time.UTC), 90*time.Minute)
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	got, err := e.Expand(domain.RecurrencePattern{
		Frequency: domain.FrequencyWeekly,
		Interval:  2,
		EndDate:   &end,
	}, base)
	require.NoError(t, err)

	require.Len(t, got, 3) // May 3, 17, 31
	for _, occ := range got {
		assert.Equal(t, 18, occ.Start.Hour())
		assert.Equal(t, 30, occ.Start.Minute())
	}
}

func TestExpand_MonthlyClampsDayOfMonth(t *testing.T) {
	e := NewExpander(0, 0)
	base := baseWindow(time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC), time.Hour)
	end := time.Date(2024, 4, 30, 23, 0, 0, 0, time.UTC)

	got, err := e.Expand(domain.RecurrencePattern{
		Frequency: domain.FrequencyMonthly,
		Interval:  1,
		EndDate:   &end,
	}, base)
	require.NoError(t, err)

	require.Len(t, got, 4)
	assert.Equal(t, time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC), got[0].Start)
	// 2024 is a leap year: Feb clamps to 29.
	assert.Equal(t, time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC), got[1].Start)
	assert.Equal(t, time.Date(2024, 3, 31, 10, 0, 0, 0, time.UTC), got[2].Start)
	assert.Equal(t, time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC), got[3].Start)
}

func TestExpand_YearlyLeapDayClamps(t *testing.T) {
	e := NewExpander(0, 0)
	base := baseWindow(time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), time.Hour)
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	got, err := e.Expand(domain.RecurrencePattern{
		Frequency: domain.FrequencyYearly,
		Interval:  1,
		EndDate:   &end,
	}, base)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, time.Date(2025, 2, 28, 12, 0, 0, 0, time.UTC), got[1].Start)
	assert.Equal(t, time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC), got[2].Start)
}

func TestExpand_OpenEndedPatternHitsOccurrenceCap(t *testing.T) {
	e := NewExpander(10, 0)
	base := baseWindow(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), time.Hour)

	got, err := e.Expand(domain.RecurrencePattern{
		Frequency: domain.FrequencyDaily,
		Interval:  1,
	}, base)
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

func TestExpand_OpenEndedPatternHitsHorizon(t *testing.T) {
	e := NewExpander(0, 0)
	base := baseWindow(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), time.Hour)

	got, err := e.Expand(domain.RecurrencePattern{
		Frequency: domain.FrequencyYearly,
		Interval:  1,
	}, base)
	require.NoError(t, err)
	// The 730-day default horizon admits the 2024 and 2025 starts only.
	assert.Len(t, got, 2)
}

func TestExpand_RejectsInvalidBase(t *testing.T) {
	e := NewExpander(0, 0)
	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	_, err := e.Expand(domain.RecurrencePattern{Frequency: domain.FrequencyDaily, Interval: 1},
		domain.Interval{Start: at, End: at})
	assert.ErrorIs(t, err, ErrInvalidBase)
}

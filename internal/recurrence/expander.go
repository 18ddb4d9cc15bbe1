package recurrence

import (
	"errors"
	"sort"
	"time"

	"studioops/internal/domain"
)

var (
	// ErrInvalidPattern indicates the pattern cannot be expanded as written.
	ErrInvalidPattern = errors.New("recurrence: invalid pattern")
	// ErrInvalidBase indicates the base window has a non-positive duration.
	ErrInvalidBase = errors.New("recurrence: base window duration must be positive")
)

const (
	// DefaultMaxOccurrences bounds expansion when the pattern has no end
	// date. Patterns may be open-ended, so a hard cap is required to keep
	// generation finite.
	DefaultMaxOccurrences = 365
	// DefaultHorizon bounds how far past the base start expansion may run.
	DefaultHorizon = 2 * 365 * 24 * time.Hour
)

// Expander turns a recurrence pattern plus a base window into an ordered,
// finite sequence of occurrence windows. The result is materialized once
// per commit; the pattern is not re-interpreted afterwards.
type Expander struct {
	maxOccurrences int
	horizon        time.Duration
}

func NewExpander(maxOccurrences int, horizon time.Duration) *Expander {
	if maxOccurrences <= 0 {
		maxOccurrences = DefaultMaxOccurrences
	}
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	return &Expander{maxOccurrences: maxOccurrences, horizon: horizon}
}

// Validate rejects patterns before any resource lookup happens.
func Validate(p domain.RecurrencePattern) error {
	if !p.Frequency.Valid() {
		return ErrInvalidPattern
	}
	if p.Interval < 1 {
		return ErrInvalidPattern
	}
	if len(p.Weekdays) > 0 && p.Frequency != domain.FrequencyWeekly {
		return ErrInvalidPattern
	}
	for _, wd := range p.Weekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return ErrInvalidPattern
		}
	}
	return nil
}

// Expand generates occurrence windows chronologically, starting with the
// base window itself. Expansion stops at the pattern end date when present,
// and always at the configured occurrence cap and horizon.
func (e *Expander) Expand(p domain.RecurrencePattern, base domain.Interval) ([]domain.Interval, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	if !base.Valid() {
		return nil, ErrInvalidBase
	}

	duration := base.Duration()
	horizonEnd := base.Start.Add(e.horizon)

	within := func(start time.Time) bool {
		if start.After(horizonEnd) {
			return false
		}
		if p.EndDate != nil && start.After(*p.EndDate) {
			return false
		}
		return true
	}

	out := make([]domain.Interval, 0, 8)
	emit := func(start time.Time) bool {
		if !within(start) || len(out) >= e.maxOccurrences {
			return false
		}
		out = append(out, domain.Interval{Start: start, End: start.Add(duration)})
		return true
	}

	switch p.Frequency {
	case domain.FrequencyDaily:
		for i := 0; ; i++ {
			if !emit(base.Start.AddDate(0, 0, i*p.Interval)) {
				break
			}
		}

	case domain.FrequencyWeekly:
		if len(p.Weekdays) == 0 {
			for i := 0; ; i++ {
				if !emit(base.Start.AddDate(0, 0, 7*i*p.Interval)) {
					break
				}
			}
			break
		}
		// One occurrence per anchored weekday within each interval-week
		// step, chronological relative to the base start's weekday.
		offsets := weekdayOffsets(base.Start.Weekday(), p.Weekdays)
	weeks:
		for step := 0; ; step++ {
			weekStart := base.Start.AddDate(0, 0, 7*step*p.Interval)
			if !within(weekStart) {
				break
			}
			for _, off := range offsets {
				if !emit(weekStart.AddDate(0, 0, off)) {
					break weeks
				}
			}
		}

	case domain.FrequencyMonthly:
		for i := 0; ; i++ {
			if !emit(addMonthsClamped(base.Start, i*p.Interval)) {
				break
			}
		}

	case domain.FrequencyYearly:
		for i := 0; ; i++ {
			if !emit(addMonthsClamped(base.Start, 12*i*p.Interval)) {
				break
			}
		}
	}

	return out, nil
}

// weekdayOffsets maps anchored weekdays to day offsets from the base
// weekday, sorted so occurrences within a week come out chronologically.
func weekdayOffsets(base time.Weekday, anchors []time.Weekday) []int {
	seen := make(map[int]struct{}, len(anchors))
	offsets := make([]int, 0, len(anchors))
	for _, wd := range anchors {
		off := (int(wd) - int(base) + 7) % 7
		if _, ok := seen[off]; ok {
			continue
		}
		seen[off] = struct{}{}
		offsets = append(offsets, off)
	}
	sort.Ints(offsets)
	return offsets
}

// addMonthsClamped advances the calendar date by months, clamping the
// day-of-month to the last valid day when the target month is shorter.
// time.Time.AddDate would normalize Jan 31 + 1 month into March.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(target.Year(), target.Month()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

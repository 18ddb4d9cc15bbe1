package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// RecurrencePattern is owned by its booking and consumed once by the
// expander to materialize occurrences. Weekdays apply only to weekly
// patterns.
type RecurrencePattern struct {
	Frequency Frequency                         `json:"frequency"`
	Interval  int                               `json:"interval"`
	EndDate   *time.Time                        `json:"end_date,omitempty"`
	Weekdays  datatypes.JSONSlice[time.Weekday] `json:"weekdays,omitempty"`
}

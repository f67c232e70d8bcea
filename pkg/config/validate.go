package config

import (
	"cmp"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts standard five-field expressions.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a five-field cron expression such as "*/30 * * * *".
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("invalid cron schedule: cannot be empty")
	}
	if _, err := cronParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// ValidateTimezone checks that timezone names a loadable IANA location.
func ValidateTimezone(timezone string) error {
	if timezone == "" {
		return fmt.Errorf("invalid timezone: cannot be empty")
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", timezone, err)
	}
	return nil
}

// ValidateRange checks min <= value <= max for counts and durations alike.
func ValidateRange[T cmp.Ordered](value, min, max T) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%v) cannot be greater than max (%v)", min, max)
	}
	if value < min || value > max {
		return fmt.Errorf("value %v out of range [%v, %v]", value, min, max)
	}
	return nil
}

// ValidatePositive rejects zero and negative values.
func ValidatePositive[T cmp.Ordered](value T) error {
	var zero T
	if value <= zero {
		return fmt.Errorf("value must be positive, got %v", value)
	}
	return nil
}

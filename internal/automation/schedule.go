package automation

import (
	"fmt"
	"time"

	"filekeeper/internal/config"
	"filekeeper/internal/reports"
)

// TaskKind identifies one scheduled cadence.
type TaskKind string

const (
	TaskDaily   TaskKind = reports.TriggerDaily
	TaskWeekly  TaskKind = reports.TriggerWeekly
	TaskMonthly TaskKind = reports.TriggerMonthly
)

// TaskKinds returns the cadences in execution order.
func TaskKinds() []TaskKind {
	return []TaskKind{TaskDaily, TaskWeekly, TaskMonthly}
}

// Schedule resolves the next due time for each cadence from configuration.
type Schedule struct {
	daily    config.Clock
	weekday  time.Weekday
	weekly   config.Clock
	monthDay int
	monthly  config.Clock
}

// NewSchedule parses the automation cadence fields. Config validation
// normally rejects bad values before this point; errors here guard direct
// construction from unvalidated configs.
func NewSchedule(cfg *config.Config) (*Schedule, error) {
	daily, err := config.ParseClock(cfg.Automation.DailyTime)
	if err != nil {
		return nil, fmt.Errorf("automation daily_time: %w", err)
	}
	weekly, err := config.ParseClock(cfg.Automation.WeeklyTime)
	if err != nil {
		return nil, fmt.Errorf("automation weekly_time: %w", err)
	}
	monthly, err := config.ParseClock(cfg.Automation.MonthlyTime)
	if err != nil {
		return nil, fmt.Errorf("automation monthly_time: %w", err)
	}
	return &Schedule{
		daily:    daily,
		weekday:  cfg.Weekday(),
		weekly:   weekly,
		monthDay: cfg.Automation.MonthlyDay,
		monthly:  monthly,
	}, nil
}

// Next returns the first instant the cadence fires strictly after the given
// time.
func (s *Schedule) Next(kind TaskKind, after time.Time) time.Time {
	switch kind {
	case TaskWeekly:
		return nextWeekly(after, s.weekday, s.weekly)
	case TaskMonthly:
		return nextMonthly(after, s.monthDay, s.monthly)
	default:
		return nextDaily(after, s.daily)
	}
}

func nextDaily(after time.Time, clock config.Clock) time.Time {
	next := at(after.Year(), after.Month(), after.Day(), clock, after.Location())
	if !next.After(after) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func nextWeekly(after time.Time, day time.Weekday, clock config.Clock) time.Time {
	offset := (int(day) - int(after.Weekday()) + 7) % 7
	next := at(after.Year(), after.Month(), after.Day(), clock, after.Location()).AddDate(0, 0, offset)
	if !next.After(after) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// nextMonthly clamps the configured day into each month, so day 31 fires on
// the last day of shorter months. The rollover is computed month-by-month
// rather than with AddDate, which would skip short months.
func nextMonthly(after time.Time, day int, clock config.Clock) time.Time {
	next := monthlyOn(after.Year(), after.Month(), day, clock, after.Location())
	if !next.After(after) {
		year, month := after.Year(), after.Month()
		if month == time.December {
			year, month = year+1, time.January
		} else {
			month++
		}
		next = monthlyOn(year, month, day, clock, after.Location())
	}
	return next
}

func monthlyOn(year int, month time.Month, day int, clock config.Clock, loc *time.Location) time.Time {
	if last := daysIn(year, month); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, month, day, clock.Hour, clock.Minute, 0, 0, loc)
}

// daysIn relies on time.Date normalizing day zero of the following month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func at(year int, month time.Month, day int, clock config.Clock, loc *time.Location) time.Time {
	return time.Date(year, month, day, clock.Hour, clock.Minute, 0, 0, loc)
}

package period

import (
	"fmt"
	"time"

	"github.com/sahod-planner/backend/internal/types"
)

// BimonthlyOffset is the number of days between the two postings of a
// bimonthly recurring schedule.
const BimonthlyOffset = 15

// ValidateScheduleDay checks the schedule day of a recurring schedule.
//
// For monthly schedules, it is the day of the month (1-31). Bimonthly
// schedules post on the day (1-15) and BimonthlyOffset days later. Weekly
// schedules post on the weekday (0-6, Sunday is 0).
func ValidateScheduleDay(frequency Frequency, day int) error {
	switch frequency {
	case Monthly:
		if day < 1 || day > 31 {
			return fmt.Errorf("the schedule day of a monthly schedule must be between 1 and 31, got %d", day)
		}
	case Bimonthly:
		if day < 1 || day > 15 {
			return fmt.Errorf("the schedule day of a bimonthly schedule must be between 1 and 15, got %d", day)
		}
	case Weekly:
		if day < 0 || day > 6 {
			return fmt.Errorf("the schedule day of a weekly schedule must be a weekday between 0 (Sunday) and 6 (Saturday), got %d", day)
		}
	default:
		return fmt.Errorf("%w: unknown frequency %q", ErrUnsupportedSchedule, frequency)
	}

	return nil
}

// ScheduledDates returns all dates in [from, to] on which a recurring
// schedule posts, in ascending order.
func ScheduledDates(frequency Frequency, day int, from, to types.Date) ([]types.Date, error) {
	if err := ValidateScheduleDay(frequency, day); err != nil {
		return nil, err
	}

	var dates []types.Date
	if to.Before(from) {
		return dates, nil
	}

	if frequency == Weekly {
		offset := (int(time.Weekday(day)) - int(from.Weekday()) + 7) % 7
		for d := from.AddDays(offset); !d.After(to); d = d.AddDays(7) {
			dates = append(dates, d)
		}
		return dates, nil
	}

	for month := from.FirstOfMonth(0); !month.After(to); month = month.FirstOfMonth(1) {
		candidates := []types.Date{month.ClampDay(day)}
		if frequency == Bimonthly {
			candidates = append(candidates, month.ClampDay(day+BimonthlyOffset))
		}

		for _, d := range candidates {
			if d.Between(from, to) {
				dates = append(dates, d)
			}
		}
	}

	return dates, nil
}

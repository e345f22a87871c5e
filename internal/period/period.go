// Package period computes budget period boundaries for pay cycles and the
// posting dates of recurring schedules.
package period

import (
	"errors"
	"fmt"

	"github.com/sahod-planner/backend/internal/types"
)

// ErrUnsupportedSchedule is returned for schedules whose periods cannot be computed.
var ErrUnsupportedSchedule = errors.New("this pay schedule is not supported")

type Frequency string

const (
	Monthly   Frequency = "monthly"
	Bimonthly Frequency = "bimonthly"
	Weekly    Frequency = "weekly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	return f == Monthly || f == Bimonthly || f == Weekly
}

// PaydayType tags which payday of a cycle starts a period.
type PaydayType string

const (
	Single    PaydayType = "single"
	Kinsenas  PaydayType = "kinsenas"
	Katapusan PaydayType = "katapusan"
)

// Period is a budget period. Start and End are both part of the period.
type Period struct {
	Start           types.Date
	End             types.Date
	ExpectedPayDate types.Date
	PaydayType      PaydayType
}

// Contains reports whether the date is inside the period.
func (p Period) Contains(d types.Date) bool {
	return d.Between(p.Start, p.End)
}

// DaysRemaining returns the number of days left in the period including
// today. It is never negative.
func (p Period) DaysRemaining(today types.Date) int {
	days := today.DaysUntil(p.End) + 1
	if days < 0 {
		return 0
	}
	return days
}

// Compute returns the period enclosing the reference date.
//
// Monthly periods start on payDay1 of each month. Bimonthly periods start
// on payDay1 (kinsenas) and payDay2 (katapusan). Pay days past the end of
// a month are clamped to the last day of that month, evaluated for the
// month each boundary falls in.
func Compute(frequency Frequency, payDay1, payDay2 int, reference types.Date) (Period, error) {
	switch frequency {
	case Monthly:
		return monthly(payDay1, reference), nil
	case Bimonthly:
		if payDay1 >= payDay2 {
			return Period{}, fmt.Errorf("%w: the first pay day (%d) must be before the second (%d)", ErrUnsupportedSchedule, payDay1, payDay2)
		}
		return bimonthly(payDay1, payDay2, reference), nil
	case Weekly:
		return Period{}, fmt.Errorf("%w: weekly pay cycles do not have budget periods yet", ErrUnsupportedSchedule)
	}

	return Period{}, fmt.Errorf("%w: unknown frequency %q", ErrUnsupportedSchedule, frequency)
}

func monthly(payDay int, reference types.Date) Period {
	start := reference.ClampDay(payDay)
	if reference.Before(start) {
		start = reference.FirstOfMonth(-1).ClampDay(payDay)
	}

	end := start.FirstOfMonth(1).ClampDay(payDay).AddDays(-1)

	return Period{
		Start:           start,
		End:             end,
		ExpectedPayDate: start,
		PaydayType:      Single,
	}
}

func bimonthly(payDay1, payDay2 int, reference types.Date) Period {
	first := reference.ClampDay(payDay1)
	second := reference.ClampDay(payDay2)

	var p Period
	switch {
	case !reference.Before(second):
		p = Period{
			Start:      second,
			End:        reference.FirstOfMonth(1).ClampDay(payDay1).AddDays(-1),
			PaydayType: Katapusan,
		}
	case !reference.Before(first):
		p = Period{
			Start:      first,
			End:        second.AddDays(-1),
			PaydayType: Kinsenas,
		}
	default:
		p = Period{
			Start:      reference.FirstOfMonth(-1).ClampDay(payDay2),
			End:        first.AddDays(-1),
			PaydayType: Katapusan,
		}
	}

	p.ExpectedPayDate = p.Start
	return p
}

package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sahod-planner/backend/internal/period"
	"github.com/sahod-planner/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultPayCycleName is used for pay cycles created without a name.
const DefaultPayCycleName = "My Salary"

// PayCycle is a named income schedule.
//
// Pay cycles are never deleted so that historical period instances keep
// their reference. Deactivating them hides them instead.
type PayCycle struct {
	DefaultModel
	OwnerID        uuid.UUID `gorm:"index"`
	Name           string
	Frequency      period.Frequency
	PayDay1        *int
	PayDay2        *int
	PayDayOfWeek   *int
	ExpectedAmount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Active         bool
}

// BeforeSave normalizes the name and rejects invalid schedules.
func (p *PayCycle) BeforeSave(_ *gorm.DB) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		p.Name = DefaultPayCycleName
	}

	return p.Validate()
}

// Validate checks that the schedule fields match the frequency.
func (p PayCycle) Validate() error {
	if !p.ExpectedAmount.IsPositive() {
		return Invalid("the expected amount must be positive")
	}

	switch p.Frequency {
	case period.Monthly:
		if p.PayDay1 == nil || *p.PayDay1 < 1 || *p.PayDay1 > 31 {
			return Invalid("a monthly pay cycle needs a pay day between 1 and 31")
		}

		if p.PayDay2 != nil || p.PayDayOfWeek != nil {
			return Invalid("a monthly pay cycle only has one pay day")
		}
	case period.Bimonthly:
		if p.PayDay1 == nil || p.PayDay2 == nil {
			return Invalid("a bimonthly pay cycle needs both pay days")
		}

		if *p.PayDay1 < 1 || *p.PayDay1 > 28 || *p.PayDay2 > 31 || *p.PayDay1 >= *p.PayDay2 {
			return Invalid("the first pay day of a bimonthly pay cycle must be between 1 and 28, the second after it and at most 31")
		}

		if p.PayDayOfWeek != nil {
			return Invalid("a bimonthly pay cycle does not have a pay day of the week")
		}
	case period.Weekly:
		if p.PayDayOfWeek == nil || *p.PayDayOfWeek < 0 || *p.PayDayOfWeek > 6 {
			return Invalid("a weekly pay cycle needs a pay day of the week between 0 (Sunday) and 6 (Saturday)")
		}

		if p.PayDay1 != nil || p.PayDay2 != nil {
			return Invalid("a weekly pay cycle only has a pay day of the week")
		}
	default:
		return Invalid("the frequency must be one of monthly, bimonthly, weekly")
	}

	return nil
}

// PeriodFor computes the period of this pay cycle that contains the date.
func (p PayCycle) PeriodFor(date types.Date) (period.Period, error) {
	return period.Compute(p.Frequency, intValue(p.PayDay1), intValue(p.PayDay2), date)
}

// ScheduleChanged reports whether any field that defines period
// boundaries differs between p and o.
func (p PayCycle) ScheduleChanged(o PayCycle) bool {
	return p.Frequency != o.Frequency ||
		intValue(p.PayDay1) != intValue(o.PayDay1) ||
		intValue(p.PayDay2) != intValue(o.PayDay2) ||
		intValue(p.PayDayOfWeek) != intValue(o.PayDayOfWeek)
}

func intValue(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/sahod-planner/backend/internal/period"
	"github.com/sahod-planner/backend/internal/types"
	"github.com/shopspring/decimal"
)

// PeriodInstance is one concrete budget period of a pay cycle.
//
// Instances start out assumed and are confirmed exactly once when the
// owner reports that the income arrived. Confirmed instances are locked.
type PeriodInstance struct {
	DefaultModel
	OwnerID           uuid.UUID  `gorm:"index"`
	PayCycleID        uuid.UUID  `gorm:"uniqueIndex:instance_cycle_start,priority:1"`
	PayCycle          PayCycle   `json:"-"`
	PeriodStart       types.Date `gorm:"uniqueIndex:instance_cycle_start,priority:2"`
	PeriodEnd         types.Date
	ExpectedPayDate   types.Date
	PaydayType        period.PaydayType
	ExpectedAmount    decimal.Decimal     `gorm:"type:DECIMAL(20,8)"`
	ActualAmount      decimal.NullDecimal `gorm:"type:DECIMAL(20,8)"`
	IsAssumed         bool
	ConfirmedAt       *time.Time
	RolloverProcessed bool
}

// Period returns the boundaries stored on the instance.
func (i PeriodInstance) Period() period.Period {
	return period.Period{
		Start:           i.PeriodStart,
		End:             i.PeriodEnd,
		ExpectedPayDate: i.ExpectedPayDate,
		PaydayType:      i.PaydayType,
	}
}

// Locked reports whether the income for the instance has been confirmed.
func (i PeriodInstance) Locked() bool {
	return !i.IsAssumed
}

// Income returns the confirmed amount, or the expected amount while the
// instance is assumed.
func (i PeriodInstance) Income() decimal.Decimal {
	if i.ActualAmount.Valid {
		return i.ActualAmount.Decimal
	}
	return i.ExpectedAmount
}

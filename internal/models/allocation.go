package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Allocation is the budget of one envelope for one period instance.
type Allocation struct {
	DefaultModel
	OwnerID          uuid.UUID       `gorm:"index"`
	PeriodInstanceID uuid.UUID       `gorm:"uniqueIndex:allocation_instance_envelope,priority:1"`
	PeriodInstance   PeriodInstance  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	EnvelopeID       uuid.UUID       `gorm:"uniqueIndex:allocation_instance_envelope,priority:2"`
	Envelope         Envelope        `json:"-"`
	AllocatedAmount  decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	RolloverAmount   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	CachedSpent      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

func (a *Allocation) BeforeSave(_ *gorm.DB) error {
	if a.AllocatedAmount.IsNegative() {
		return Invalid("the allocated amount must not be negative")
	}

	return nil
}

// Available returns the budget of the period, i.e. the allocated amount
// plus the carried in rollover.
func (a Allocation) Available() decimal.Decimal {
	return a.AllocatedAmount.Add(a.RolloverAmount)
}

// Remaining returns the amount still available. It is negative when the
// envelope is over budget.
func (a Allocation) Remaining() decimal.Decimal {
	return a.Available().Sub(a.CachedSpent)
}

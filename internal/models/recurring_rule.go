package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sahod-planner/backend/internal/period"
	"github.com/sahod-planner/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecurringRule posts a ledger entry on every scheduled date.
//
// LastPostedDate only ever moves forward.
type RecurringRule struct {
	DefaultModel
	OwnerID         uuid.UUID `gorm:"index"`
	Description     string
	Amount          decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Category        string
	EnvelopeID      *uuid.UUID
	TransactionType EntryType
	Frequency       period.Frequency
	ScheduleDay     int
	LastPostedDate  *types.Date
	Active          bool
}

func (r *RecurringRule) BeforeSave(_ *gorm.DB) error {
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)

	return r.Validate()
}

func (r RecurringRule) Validate() error {
	if !r.Amount.IsPositive() {
		return Invalid("the amount of a recurring rule must be positive")
	}

	if !r.TransactionType.Valid() {
		return Invalid("the transaction type must be income or expense")
	}

	if !r.Frequency.Valid() {
		return Invalid("the frequency must be one of monthly, bimonthly, weekly")
	}

	if err := period.ValidateScheduleDay(r.Frequency, r.ScheduleDay); err != nil {
		return Invalid("%s", err.Error())
	}

	return nil
}

package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sahod-planner/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EntryType string

const (
	EntryIncome  EntryType = "income"
	EntryExpense EntryType = "expense"
)

func (t EntryType) Valid() bool {
	return t == EntryIncome || t == EntryExpense
}

// LedgerEntry is an income or expense record of the ledger.
//
// The optional links record where an entry came from. An entry posted by
// a recurring rule is unique per rule and date.
type LedgerEntry struct {
	DefaultModel
	OwnerID          uuid.UUID       `gorm:"index"`
	Date             types.Date      `gorm:"uniqueIndex:ledger_rule_date,priority:2"`
	Amount           decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Type             EntryType
	Description      string
	Category         string
	EnvelopeID       *uuid.UUID `gorm:"index"`
	PeriodInstanceID *uuid.UUID `gorm:"index"`
	RecurringRuleID  *uuid.UUID `gorm:"uniqueIndex:ledger_rule_date,priority:1"`
}

func (l *LedgerEntry) BeforeSave(_ *gorm.DB) error {
	l.Description = strings.TrimSpace(l.Description)
	l.Category = strings.TrimSpace(l.Category)

	if !l.Amount.IsPositive() {
		return Invalid("the amount of a ledger entry must be positive")
	}

	if !l.Type.Valid() {
		return Invalid("the type of a ledger entry must be income or expense")
	}

	if l.Date.IsZero() {
		return Invalid("a ledger entry needs a date")
	}

	return nil
}

package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// Defaults for envelopes created without display settings
const (
	DefaultEnvelopeEmoji = "📦"
	DefaultEnvelopeColor = "#6366f1"
)

// Envelope is a spending bucket of an owner.
//
// The cookie jar accumulates unused remainders of rollover envelopes over
// the lifetime of the envelope. It only changes through rollover
// processing and explicit withdrawals.
type Envelope struct {
	DefaultModel
	OwnerID      uuid.UUID `gorm:"uniqueIndex:envelope_owner_name,priority:1"`
	Name         string
	NameKey      *string `json:"-" gorm:"uniqueIndex:envelope_owner_name,priority:2"`
	Emoji        string
	Color        string
	TargetAmount decimal.NullDecimal `gorm:"type:DECIMAL(20,8)"`
	IsRollover   bool
	CookieJar    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	SortOrder    int
	Active       bool
}

// BeforeSave normalizes the envelope and keeps the name key in sync.
//
// Only active envelopes have a name key, so names of deleted envelopes
// can be reused.
func (e *Envelope) BeforeSave(_ *gorm.DB) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return Invalid("the envelope name must not be empty")
	}

	if e.TargetAmount.Valid && e.TargetAmount.Decimal.IsNegative() {
		return Invalid("the target amount must not be negative")
	}

	if e.CookieJar.IsNegative() {
		return Invalid("the cookie jar must not be negative")
	}

	if e.Emoji == "" {
		e.Emoji = DefaultEnvelopeEmoji
	}

	if e.Color == "" {
		e.Color = DefaultEnvelopeColor
	}

	e.NameKey = nil
	if e.Active {
		key := EnvelopeNameKey(e.Name)
		e.NameKey = &key
	}

	return nil
}

// EnvelopeNameKey returns the case folded name used to detect duplicates.
func EnvelopeNameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

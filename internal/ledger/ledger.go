// Package ledger stores income and expense entries.
//
// The budgeting engine only talks to the ledger through RecordEntry,
// QueryEntries and LinkInstance and never assumes a category taxonomy.
package ledger

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/sahod-planner/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Filter restricts the entries returned by QueryEntries. Zero values do
// not filter.
type Filter struct {
	ID               *uuid.UUID
	Type             models.EntryType
	From             types.Date // Inclusive
	To               types.Date // Inclusive
	EnvelopeID       *uuid.UUID
	PeriodInstanceID *uuid.UUID
	RecurringRuleID  *uuid.UUID

	// Only entries that are not linked to any period instance
	Unlinked bool

	// Glob patterns matched case-insensitively against the category
	CategoryPatterns []string

	Description string
	Amount      decimal.NullDecimal
	MinAmount   decimal.NullDecimal
	MaxAmount   decimal.NullDecimal

	Offset int
	Limit  int // 0 means no limit
}

// Ledger is the gorm backed ledger.
type Ledger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// RecordEntry persists a new entry.
func (l *Ledger) RecordEntry(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
	entry.ID = uuid.Nil
	err := l.db.WithContext(ctx).Create(&entry).Error
	if err != nil {
		return models.LedgerEntry{}, err
	}

	return entry, nil
}

// QueryEntries returns the owner's entries matching the filter, newest first.
func (l *Ledger) QueryEntries(ctx context.Context, owner uuid.UUID, f Filter) ([]models.LedgerEntry, error) {
	q := l.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("date DESC, created_at DESC")

	if f.ID != nil {
		q = q.Where("id = ?", *f.ID)
	}

	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}

	if !f.From.IsZero() {
		q = q.Where("date >= ?", f.From)
	}

	if !f.To.IsZero() {
		q = q.Where("date <= ?", f.To)
	}

	if f.EnvelopeID != nil {
		q = q.Where("envelope_id = ?", *f.EnvelopeID)
	}

	if f.PeriodInstanceID != nil {
		q = q.Where("period_instance_id = ?", *f.PeriodInstanceID)
	}

	if f.RecurringRuleID != nil {
		q = q.Where("recurring_rule_id = ?", *f.RecurringRuleID)
	}

	if f.Unlinked {
		q = q.Where("period_instance_id IS NULL")
	}

	if f.Description != "" {
		q = q.Where("description = ?", f.Description)
	}

	if f.Amount.Valid {
		q = q.Where("amount = ?", f.Amount.Decimal)
	}

	if f.MinAmount.Valid {
		q = q.Where("amount >= ?", f.MinAmount.Decimal)
	}

	if f.MaxAmount.Valid {
		q = q.Where("amount <= ?", f.MaxAmount.Decimal)
	}

	// Category patterns can only be evaluated after loading, so
	// pagination moves to the filtered result
	if len(f.CategoryPatterns) == 0 {
		if f.Offset > 0 {
			q = q.Offset(f.Offset)
		}

		if f.Limit > 0 {
			q = q.Limit(f.Limit)
		}
	}

	var entries []models.LedgerEntry
	err := q.Find(&entries).Error
	if err != nil {
		return nil, err
	}

	if len(f.CategoryPatterns) == 0 {
		return entries, nil
	}

	matching := make([]models.LedgerEntry, 0, len(entries))
	for _, entry := range entries {
		if MatchesCategory(entry.Category, f.CategoryPatterns) {
			matching = append(matching, entry)
		}
	}

	return paginate(matching, f.Offset, f.Limit), nil
}

// LinkInstance links an entry to a period instance. Entries already
// linked to another instance are not found.
func (l *Ledger) LinkInstance(ctx context.Context, owner, entryID, instanceID uuid.UUID) error {
	tx := l.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("id = ? AND owner_id = ?", entryID, owner).
		Where("period_instance_id IS NULL OR period_instance_id = ?", instanceID).
		UpdateColumn("period_instance_id", instanceID)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return models.NotFound("ledger entry")
	}

	return nil
}

// MatchesCategory reports whether the category matches any of the glob
// patterns, ignoring case.
func MatchesCategory(category string, patterns []string) bool {
	category = strings.ToLower(category)
	for _, pattern := range patterns {
		if glob.Glob(strings.ToLower(pattern), category) {
			return true
		}
	}
	return false
}

func paginate(entries []models.LedgerEntry, offset, limit int) []models.LedgerEntry {
	if offset >= len(entries) {
		return []models.LedgerEntry{}
	}
	entries = entries[offset:]

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}

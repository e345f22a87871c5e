package sahod

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sahod-planner/backend/internal/ledger"
	"github.com/sahod-planner/backend/internal/metrics"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/sahod-planner/backend/internal/period"
	"github.com/sahod-planner/backend/internal/types"
)

// Fields of a recurring rule that can be updated
const (
	RecurringDescription     = "Description"
	RecurringAmount          = "Amount"
	RecurringCategory        = "Category"
	RecurringEnvelopeID      = "EnvelopeID"
	RecurringTransactionType = "TransactionType"
	RecurringFrequency       = "Frequency"
	RecurringScheduleDay     = "ScheduleDay"
	RecurringActive          = "Active"
)

// CreateRecurringRule creates an active recurring rule. Dates before its
// creation are never posted.
func (e *Engine) CreateRecurringRule(ctx context.Context, owner uuid.UUID, rule models.RecurringRule) (models.RecurringRule, error) {
	rule.ID = uuid.Nil
	rule.OwnerID = owner
	rule.Active = true
	rule.LastPostedDate = nil
	rule.CreatedAt = e.now().UTC()

	if err := e.checkEnvelope(ctx, owner, rule.EnvelopeID); err != nil {
		return models.RecurringRule{}, err
	}

	err := e.db.WithContext(ctx).Create(&rule).Error
	if err != nil {
		return models.RecurringRule{}, err
	}

	return rule, nil
}

// RecurringRules returns the owner's active recurring rules.
func (e *Engine) RecurringRules(ctx context.Context, owner uuid.UUID) ([]models.RecurringRule, error) {
	var rules []models.RecurringRule
	err := e.db.WithContext(ctx).
		Where("owner_id = ? AND active = ?", owner, true).
		Order("created_at ASC").
		Find(&rules).Error

	return rules, err
}

// RecurringRule returns a recurring rule of the owner.
func (e *Engine) RecurringRule(ctx context.Context, owner, id uuid.UUID) (models.RecurringRule, error) {
	var rule models.RecurringRule
	err := e.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, owner).
		First(&rule).Error

	return rule, err
}

// UpdateRecurringRule applies the named fields of changes to the rule.
// Entries that were posted already are not changed.
func (e *Engine) UpdateRecurringRule(ctx context.Context, owner, id uuid.UUID, changes models.RecurringRule, fields ...string) (models.RecurringRule, error) {
	rule, err := e.RecurringRule(ctx, owner, id)
	if err != nil {
		return models.RecurringRule{}, err
	}

	for _, field := range fields {
		switch field {
		case RecurringDescription:
			rule.Description = changes.Description
		case RecurringAmount:
			rule.Amount = changes.Amount
		case RecurringCategory:
			rule.Category = changes.Category
		case RecurringEnvelopeID:
			rule.EnvelopeID = changes.EnvelopeID
		case RecurringTransactionType:
			rule.TransactionType = changes.TransactionType
		case RecurringFrequency:
			rule.Frequency = changes.Frequency
		case RecurringScheduleDay:
			rule.ScheduleDay = changes.ScheduleDay
		case RecurringActive:
			rule.Active = changes.Active
		}
	}

	if err := e.checkEnvelope(ctx, owner, rule.EnvelopeID); err != nil {
		return models.RecurringRule{}, err
	}

	// The posting position only moves through reconciliation
	err = e.db.WithContext(ctx).Omit("last_posted_date").Save(&rule).Error
	if err != nil {
		return models.RecurringRule{}, err
	}

	return e.RecurringRule(ctx, owner, id)
}

// DeleteRecurringRule deactivates the rule. Posted entries are kept.
func (e *Engine) DeleteRecurringRule(ctx context.Context, owner, id uuid.UUID) error {
	res := e.db.WithContext(ctx).
		Model(&models.RecurringRule{}).
		Where("id = ? AND owner_id = ? AND active = ?", id, owner, true).
		UpdateColumn("active", false)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return models.NotFound("recurring rule")
	}

	return nil
}

func (e *Engine) checkEnvelope(ctx context.Context, owner uuid.UUID, id *uuid.UUID) error {
	if id == nil {
		return nil
	}

	_, err := e.Envelope(ctx, owner, *id)
	return err
}

// ReconcileReport lists what a reconciliation posted.
type ReconcileReport struct {
	Posted   []models.LedgerEntry
	Warnings []Warning
}

// Reconcile posts all due entries of the owner's recurring rules up to
// today.
func (e *Engine) Reconcile(ctx context.Context, owner uuid.UUID) ReconcileReport {
	return e.ReconcileAt(ctx, owner, e.Today())
}

// ReconcileAt posts all entries of the owner's active recurring rules that
// are scheduled in the reconciliation window ending with today's month.
//
// It can run any number of times: an entry is posted at most once per rule
// and date. A failing rule is reported as a warning and does not stop the
// other rules.
func (e *Engine) ReconcileAt(ctx context.Context, owner uuid.UUID, today types.Date) ReconcileReport {
	report := ReconcileReport{Posted: []models.LedgerEntry{}}

	rules, err := e.RecurringRules(ctx, owner)
	if err != nil {
		report.Warnings = append(report.Warnings, softFailure(owner, OperationRecurring, owner, err))
		return report
	}

	spent := false
	for _, rule := range rules {
		posted, err := e.reconcileRule(ctx, rule, today)
		report.Posted = append(report.Posted, posted...)
		if err != nil {
			report.Warnings = append(report.Warnings, softFailure(owner, OperationRecurring, rule.ID, err))
		}

		for _, entry := range posted {
			spent = spent || (entry.Type == models.EntryExpense && entry.EnvelopeID != nil)
		}
	}

	if len(report.Posted) > 0 {
		log.Info().Str("owner", owner.String()).Int("posted", len(report.Posted)).Msg("reconciled recurring rules")
	}

	// Postings into envelopes change the spending of the current period
	if spent {
		if w, ok := e.refreshCurrentSpent(ctx, owner); !ok {
			report.Warnings = append(report.Warnings, w)
		}
	}

	return report
}

func (e *Engine) reconcileRule(ctx context.Context, rule models.RecurringRule, today types.Date) ([]models.LedgerEntry, error) {
	from := today.FirstOfMonth(-(e.config.RecurringWindowMonths - 1))
	dates, err := period.ScheduledDates(rule.Frequency, rule.ScheduleDay, from, today)
	if err != nil {
		return nil, err
	}

	created := types.DateOf(rule.CreatedAt.In(e.config.Location))
	posted := []models.LedgerEntry{}

	for _, date := range dates {
		if date.Before(created) || (rule.LastPostedDate != nil && !date.After(*rule.LastPostedDate)) {
			continue
		}

		existing, err := e.ledger.QueryEntries(ctx, rule.OwnerID, ledger.Filter{
			RecurringRuleID: &rule.ID,
			From:            date,
			To:              date,
			Limit:           1,
		})
		if err != nil {
			return posted, err
		}

		if len(existing) == 0 {
			entry, err := e.ledger.RecordEntry(ctx, models.LedgerEntry{
				OwnerID:         rule.OwnerID,
				Date:            date,
				Amount:          rule.Amount,
				Type:            rule.TransactionType,
				Description:     rule.Description,
				Category:        rule.Category,
				EnvelopeID:      rule.EnvelopeID,
				RecurringRuleID: &rule.ID,
			})

			// A concurrent reconciliation posted it first
			if errors.Is(err, models.ErrRecurringAlreadyPosted) {
				err = nil
			} else if err == nil {
				posted = append(posted, entry)
				metrics.RecurringPosted.Inc()
			}

			if err != nil {
				return posted, err
			}
		}

		err = e.db.WithContext(ctx).
			Model(&models.RecurringRule{}).
			Where("id = ? AND (last_posted_date IS NULL OR last_posted_date < ?)", rule.ID, date).
			UpdateColumn("last_posted_date", date).Error
		if err != nil {
			return posted, err
		}

		d := date
		rule.LastPostedDate = &d
	}

	return posted, nil
}

// refreshCurrentSpent refreshes the spending of the owner's current
// instance as a best effort step.
func (e *Engine) refreshCurrentSpent(ctx context.Context, owner uuid.UUID) (Warning, bool) {
	current, err := e.CurrentInstance(ctx, owner, nil)
	if err != nil {
		return softFailure(owner, OperationRefreshSpent, owner, err), false
	}

	if current.NeedsSetup {
		return Warning{}, true
	}

	err = e.RefreshSpent(ctx, owner, current.Instance.ID)
	if err != nil {
		return softFailure(owner, OperationRefreshSpent, current.Instance.ID, err), false
	}

	return Warning{}, true
}

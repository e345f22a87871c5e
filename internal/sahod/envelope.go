package sahod

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sahod-planner/backend/internal/ledger"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Fields of an envelope that can be updated
const (
	EnvelopeName         = "Name"
	EnvelopeEmoji        = "Emoji"
	EnvelopeColor        = "Color"
	EnvelopeTargetAmount = "TargetAmount"
	EnvelopeIsRollover   = "IsRollover"
	EnvelopeSortOrder    = "SortOrder"
)

// CreateEnvelope creates an active envelope at the end of the owner's
// envelope order. The number of active envelopes is bounded.
func (e *Engine) CreateEnvelope(ctx context.Context, owner uuid.UUID, envelope models.Envelope) (models.Envelope, error) {
	envelope.ID = uuid.Nil
	envelope.OwnerID = owner
	envelope.Active = true
	envelope.CookieJar = decimal.Zero

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Envelope{}).
			Where("owner_id = ? AND active = ?", owner, true).
			Count(&count).Error
		if err != nil {
			return err
		}

		if count >= int64(e.config.MaxEnvelopes) {
			return models.Invalid("you can have at most %d active envelopes", e.config.MaxEnvelopes)
		}

		var next int
		err = tx.Model(&models.Envelope{}).
			Where("owner_id = ?", owner).
			Select("COALESCE(MAX(sort_order) + 1, 0)").
			Scan(&next).Error
		if err != nil {
			return err
		}

		envelope.SortOrder = next
		return tx.Create(&envelope).Error
	})
	if err != nil {
		return models.Envelope{}, err
	}

	return envelope, nil
}

// Envelopes returns the owner's active envelopes in their sort order.
func (e *Engine) Envelopes(ctx context.Context, owner uuid.UUID) ([]models.Envelope, error) {
	var envelopes []models.Envelope
	err := e.db.WithContext(ctx).
		Where("owner_id = ? AND active = ?", owner, true).
		Order("sort_order ASC, name ASC").
		Find(&envelopes).Error

	return envelopes, err
}

// Envelope returns an active envelope of the owner.
func (e *Engine) Envelope(ctx context.Context, owner, id uuid.UUID) (models.Envelope, error) {
	var envelope models.Envelope
	err := e.db.WithContext(ctx).
		Where("id = ? AND owner_id = ? AND active = ?", id, owner, true).
		First(&envelope).Error

	return envelope, err
}

// EnvelopeDetail is an envelope with its state in the current period.
type EnvelopeDetail struct {
	Envelope   models.Envelope
	Instance   *models.PeriodInstance
	Allocation *models.Allocation
	Entries    []models.LedgerEntry // Expenses of the envelope in the current period
}

// EnvelopeDetail returns the envelope with its current allocation and the
// expenses booked on it in the current period.
func (e *Engine) EnvelopeDetail(ctx context.Context, owner, id uuid.UUID) (EnvelopeDetail, error) {
	envelope, err := e.Envelope(ctx, owner, id)
	if err != nil {
		return EnvelopeDetail{}, err
	}

	detail := EnvelopeDetail{Envelope: envelope, Entries: []models.LedgerEntry{}}

	current, err := e.CurrentInstance(ctx, owner, nil)
	if err != nil {
		return EnvelopeDetail{}, err
	}

	if current.NeedsSetup {
		return detail, nil
	}
	detail.Instance = current.Instance

	var allocation models.Allocation
	err = e.db.WithContext(ctx).
		Where("period_instance_id = ? AND envelope_id = ?", current.Instance.ID, envelope.ID).
		First(&allocation).Error
	if err == nil {
		detail.Allocation = &allocation
	} else if !errors.Is(err, models.ErrResourceNotFound) {
		return EnvelopeDetail{}, err
	}

	detail.Entries, err = e.ledger.QueryEntries(ctx, owner, ledger.Filter{
		Type:       models.EntryExpense,
		EnvelopeID: &envelope.ID,
		From:       current.Instance.PeriodStart,
		To:         current.Instance.PeriodEnd,
	})
	if err != nil {
		return EnvelopeDetail{}, err
	}

	return detail, nil
}

// UpdateEnvelope applies the named fields of changes to the envelope.
func (e *Engine) UpdateEnvelope(ctx context.Context, owner, id uuid.UUID, changes models.Envelope, fields ...string) (models.Envelope, error) {
	envelope, err := e.Envelope(ctx, owner, id)
	if err != nil {
		return models.Envelope{}, err
	}

	for _, field := range fields {
		switch field {
		case EnvelopeName:
			envelope.Name = changes.Name
		case EnvelopeEmoji:
			envelope.Emoji = changes.Emoji
		case EnvelopeColor:
			envelope.Color = changes.Color
		case EnvelopeTargetAmount:
			envelope.TargetAmount = changes.TargetAmount
		case EnvelopeIsRollover:
			envelope.IsRollover = changes.IsRollover
		case EnvelopeSortOrder:
			envelope.SortOrder = changes.SortOrder
		}
	}

	// The cookie jar only changes through rollover and withdrawals
	err = e.db.WithContext(ctx).Omit("cookie_jar").Save(&envelope).Error
	if err != nil {
		return models.Envelope{}, err
	}

	return e.Envelope(ctx, owner, id)
}

// ToggleRollover flips whether the envelope carries its remainder over.
func (e *Engine) ToggleRollover(ctx context.Context, owner, id uuid.UUID) (models.Envelope, error) {
	res := e.db.WithContext(ctx).
		Model(&models.Envelope{}).
		Where("id = ? AND owner_id = ? AND active = ?", id, owner, true).
		UpdateColumn("is_rollover", gorm.Expr("NOT is_rollover"))
	if res.Error != nil {
		return models.Envelope{}, res.Error
	}

	if res.RowsAffected == 0 {
		return models.Envelope{}, models.NotFound("envelope")
	}

	return e.Envelope(ctx, owner, id)
}

// ReorderEnvelopes sets the sort order of the owner's envelopes to their
// position in ids.
func (e *Engine) ReorderEnvelopes(ctx context.Context, owner uuid.UUID, ids []uuid.UUID) ([]models.Envelope, error) {
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, models.Invalid("envelope %s is listed more than once", id)
		}
		seen[id] = true
	}

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			res := tx.Model(&models.Envelope{}).
				Where("id = ? AND owner_id = ? AND active = ?", id, owner, true).
				UpdateColumn("sort_order", i)
			if res.Error != nil {
				return res.Error
			}

			if res.RowsAffected == 0 {
				return models.NotFound("envelope")
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return e.Envelopes(ctx, owner)
}

// DeleteEnvelope deactivates an envelope. Envelopes with money allocated
// or spent in their latest period cannot be deleted.
func (e *Engine) DeleteEnvelope(ctx context.Context, owner, id uuid.UUID) error {
	envelope, err := e.Envelope(ctx, owner, id)
	if err != nil {
		return err
	}

	var latest models.Allocation
	err = e.db.WithContext(ctx).
		Joins("PeriodInstance").
		Where("allocations.envelope_id = ?", envelope.ID).
		Order("PeriodInstance.period_start DESC").
		First(&latest).Error
	if err == nil && (latest.AllocatedAmount.IsPositive() || latest.CachedSpent.IsPositive()) {
		return models.Invalid("%s has money allocated or spent in its latest period and cannot be deleted", envelope.Name)
	} else if err != nil && !errors.Is(err, models.ErrResourceNotFound) {
		return err
	}

	envelope.Active = false
	return e.db.WithContext(ctx).Omit("cookie_jar").Save(&envelope).Error
}

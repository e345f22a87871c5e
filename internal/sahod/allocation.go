package sahod

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sahod-planner/backend/internal/ledger"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AllocationInput is the amount to allocate to one envelope.
type AllocationInput struct {
	EnvelopeID      uuid.UUID
	AllocatedAmount decimal.Decimal
}

// FillResult is the outcome of filling a period instance.
type FillResult struct {
	Allocations []models.Allocation
	Skipped     []uuid.UUID // Envelopes that do not exist or are inactive
}

// Fill replaces all allocations of an unconfirmed instance.
//
// Either all allocations are replaced or none. Rollover envelopes carry in
// the non-negative remainder of their allocation in the preceding
// instance of the pay cycle.
func (e *Engine) Fill(ctx context.Context, owner, instanceID uuid.UUID, inputs []AllocationInput) (FillResult, error) {
	instance, err := e.Instance(ctx, owner, instanceID)
	if err != nil {
		return FillResult{}, err
	}

	if instance.Locked() {
		return FillResult{}, errFillLocked(instance)
	}

	seen := make(map[uuid.UUID]bool, len(inputs))
	for _, input := range inputs {
		if input.AllocatedAmount.IsNegative() {
			return FillResult{}, models.Invalid("the allocated amount must not be negative")
		}

		if seen[input.EnvelopeID] {
			return FillResult{}, models.Invalid("envelope %s is allocated more than once", input.EnvelopeID)
		}
		seen[input.EnvelopeID] = true
	}

	envelopes, err := e.Envelopes(ctx, owner)
	if err != nil {
		return FillResult{}, err
	}

	active := make(map[uuid.UUID]models.Envelope, len(envelopes))
	for _, envelope := range envelopes {
		active[envelope.ID] = envelope
	}

	carried := make(map[uuid.UUID]models.Allocation)
	previous, err := e.previousInstance(ctx, instance)
	if err == nil {
		allocations, err := e.allocations(ctx, previous.ID)
		if err != nil {
			return FillResult{}, err
		}

		for _, allocation := range allocations {
			carried[allocation.EnvelopeID] = allocation
		}
	} else if !errors.Is(err, models.ErrResourceNotFound) {
		return FillResult{}, err
	}

	result := FillResult{Allocations: []models.Allocation{}, Skipped: []uuid.UUID{}}

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Claim the instance while it is assumed. A confirmation that
		// committed since it was read aborts the fill, one that comes
		// later waits for it.
		res := tx.Model(&models.PeriodInstance{}).
			Where("id = ? AND is_assumed = ?", instance.ID, true).
			UpdateColumn("updated_at", e.now().UTC())
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return errFillLocked(instance)
		}

		var existing []models.Allocation
		err := tx.Where("period_instance_id = ?", instance.ID).Find(&existing).Error
		if err != nil {
			return err
		}

		// Spending does not depend on allocations and is kept
		spent := make(map[uuid.UUID]decimal.Decimal, len(existing))
		for _, allocation := range existing {
			spent[allocation.EnvelopeID] = allocation.CachedSpent
		}

		err = tx.Where("period_instance_id = ?", instance.ID).Delete(&models.Allocation{}).Error
		if err != nil {
			return err
		}

		for _, input := range inputs {
			envelope, ok := active[input.EnvelopeID]
			if !ok {
				result.Skipped = append(result.Skipped, input.EnvelopeID)
				continue
			}

			allocation := models.Allocation{
				OwnerID:          owner,
				PeriodInstanceID: instance.ID,
				EnvelopeID:       envelope.ID,
				AllocatedAmount:  input.AllocatedAmount,
				RolloverAmount:   decimal.Zero,
				CachedSpent:      spent[envelope.ID],
			}

			if prev, ok := carried[envelope.ID]; ok && envelope.IsRollover {
				allocation.RolloverAmount = decimal.Max(decimal.Zero, prev.Remaining())
			}

			err = tx.Create(&allocation).Error
			if err != nil {
				return err
			}

			allocation.Envelope = envelope
			result.Allocations = append(result.Allocations, allocation)
		}

		return nil
	})
	if err != nil {
		return FillResult{}, err
	}

	if len(result.Skipped) > 0 {
		log.Info().Str("instance", instance.ID.String()).Int("skipped", len(result.Skipped)).Msg("skipped unknown or inactive envelopes while filling")
	}

	return result, nil
}

// allocations returns the allocations of an instance in envelope order.
func errFillLocked(instance models.PeriodInstance) error {
	return models.Invalid("the period starting %s is confirmed, its allocations can only be updated one at a time", instance.PeriodStart)
}

func (e *Engine) allocations(ctx context.Context, instanceID uuid.UUID) ([]models.Allocation, error) {
	var allocations []models.Allocation
	err := e.db.WithContext(ctx).
		Joins("Envelope").
		Where("allocations.period_instance_id = ?", instanceID).
		Order("Envelope.sort_order ASC, Envelope.name ASC").
		Find(&allocations).Error

	return allocations, err
}

// InstanceAllocations returns the allocations of an instance of the owner.
func (e *Engine) InstanceAllocations(ctx context.Context, owner, instanceID uuid.UUID) ([]models.Allocation, error) {
	instance, err := e.Instance(ctx, owner, instanceID)
	if err != nil {
		return nil, err
	}

	return e.allocations(ctx, instance.ID)
}

// CurrentAllocations are the allocations of the current instance.
type CurrentAllocations struct {
	CurrentInstance
	Allocations []models.Allocation

	// The current instance has no allocations yet and the allocations
	// are those of the previous instance
	IsFallback bool
}

// CurrentAllocations returns the allocations of the owner's current
// instance, falling back to the previous instance's allocations when the
// current one has not been filled.
func (e *Engine) CurrentAllocations(ctx context.Context, owner uuid.UUID) (CurrentAllocations, error) {
	current, err := e.CurrentInstance(ctx, owner, nil)
	if err != nil {
		return CurrentAllocations{}, err
	}

	result := CurrentAllocations{CurrentInstance: current, Allocations: []models.Allocation{}}
	if current.NeedsSetup {
		return result, nil
	}

	allocations, err := e.allocations(ctx, current.Instance.ID)
	if err != nil {
		return CurrentAllocations{}, err
	}

	if len(allocations) > 0 {
		result.Allocations = allocations
		return result, nil
	}

	previous, err := e.previousInstance(ctx, *current.Instance)
	if errors.Is(err, models.ErrResourceNotFound) {
		return result, nil
	} else if err != nil {
		return CurrentAllocations{}, err
	}

	allocations, err = e.allocations(ctx, previous.ID)
	if err != nil {
		return CurrentAllocations{}, err
	}

	if len(allocations) > 0 {
		result.Allocations = allocations
		result.IsFallback = true
	}

	return result, nil
}

// Allocation returns an allocation of the owner.
func (e *Engine) Allocation(ctx context.Context, owner, id uuid.UUID) (models.Allocation, error) {
	var allocation models.Allocation
	err := e.db.WithContext(ctx).
		Joins("Envelope").
		Where("allocations.id = ? AND allocations.owner_id = ?", id, owner).
		First(&allocation).Error

	return allocation, err
}

// UpdateAllocation sets the allocated amount of one allocation.
//
// Once the instance is confirmed, the amount cannot be reduced below what
// has been spent already.
func (e *Engine) UpdateAllocation(ctx context.Context, owner, id uuid.UUID, amount decimal.Decimal) (models.Allocation, error) {
	if amount.IsNegative() {
		return models.Allocation{}, models.Invalid("the allocated amount must not be negative")
	}

	allocation, err := e.Allocation(ctx, owner, id)
	if err != nil {
		return models.Allocation{}, err
	}

	// The guard and the write are one statement so that a concurrent
	// confirmation or spend is taken into account
	assumed := e.db.Model(&models.PeriodInstance{}).Select("id").Where("is_assumed = ?", true)
	res := e.db.WithContext(ctx).
		Model(&models.Allocation{}).
		Where("id = ? AND owner_id = ?", allocation.ID, owner).
		Where("(cached_spent <= ? OR period_instance_id IN (?))", amount, assumed).
		UpdateColumn("allocated_amount", amount)
	if res.Error != nil {
		return models.Allocation{}, res.Error
	}

	if res.RowsAffected == 0 {
		allocation, err = e.Allocation(ctx, owner, id)
		if err != nil {
			return models.Allocation{}, err
		}

		return models.Allocation{}, models.Invalid(
			"the allocation of %s cannot be reduced to %s because %s has already been spent, %s short",
			allocation.Envelope.Name,
			e.money(amount),
			e.money(allocation.CachedSpent),
			e.money(allocation.CachedSpent.Sub(amount)),
		)
	}

	return e.Allocation(ctx, owner, id)
}

// RefreshSpent recomputes the spent amount of every allocation of the
// instance from the expense entries in the ledger.
func (e *Engine) RefreshSpent(ctx context.Context, owner, instanceID uuid.UUID) error {
	instance, err := e.Instance(ctx, owner, instanceID)
	if err != nil {
		return err
	}

	allocations, err := e.allocations(ctx, instance.ID)
	if err != nil {
		return err
	}

	for _, allocation := range allocations {
		entries, err := e.ledger.QueryEntries(ctx, owner, ledger.Filter{
			Type:       models.EntryExpense,
			EnvelopeID: &allocation.EnvelopeID,
			From:       instance.PeriodStart,
			To:         instance.PeriodEnd,
		})
		if err != nil {
			return err
		}

		spent := decimal.Zero
		for _, entry := range entries {
			spent = spent.Add(entry.Amount)
		}

		if spent.Equal(allocation.CachedSpent) {
			continue
		}

		err = e.db.WithContext(ctx).
			Model(&models.Allocation{}).
			Where("id = ?", allocation.ID).
			UpdateColumn("cached_spent", spent).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// SafeDailySpend divides the remaining budget evenly across the days left,
// rounded to two decimal places. It is zero when nothing remains or no
// days are left.
func SafeDailySpend(remaining decimal.Decimal, daysLeft int) decimal.Decimal {
	if daysLeft <= 0 || !remaining.IsPositive() {
		return decimal.Zero
	}

	return remaining.Div(decimal.NewFromInt(int64(daysLeft))).Round(2)
}

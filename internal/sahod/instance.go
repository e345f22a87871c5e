package sahod

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/sahod-planner/backend/internal/period"
	"github.com/sahod-planner/backend/internal/types"
)

// CurrentInstance is the period instance enclosing today.
type CurrentInstance struct {
	NeedsSetup    bool                   // The owner has no active pay cycle
	PayCycle      *models.PayCycle       // The pay cycle the instance belongs to
	Instance      *models.PeriodInstance // The instance
	DaysRemaining int                    // Days left in the period including today
	Warnings      []Warning              // Best effort steps that failed
}

// CurrentInstance returns the current instance of the given pay cycle, or
// of the owner's default pay cycle when cycleID is nil.
func (e *Engine) CurrentInstance(ctx context.Context, owner uuid.UUID, cycleID *uuid.UUID) (CurrentInstance, error) {
	cycle, err := e.activePayCycle(ctx, owner, cycleID)
	if cycleID == nil && needsSetup(err) {
		return CurrentInstance{NeedsSetup: true}, nil
	} else if err != nil {
		return CurrentInstance{}, err
	}

	return e.GetOrCreateCurrentInstance(ctx, cycle, e.Today())
}

// GetOrCreateCurrentInstance returns the instance of the pay cycle that
// contains today, creating it when it does not exist yet.
//
// An unconfirmed instance whose boundaries no longer match the pay cycle
// is replaced. Before a new instance is created, the rollover of the last
// completed confirmed instance is processed as a best effort step.
func (e *Engine) GetOrCreateCurrentInstance(ctx context.Context, cycle models.PayCycle, today types.Date) (CurrentInstance, error) {
	key := cycle.ID.String() + "/" + today.String()

	v, err, _ := e.instances.Do(key, func() (any, error) {
		return e.currentInstance(ctx, cycle, today)
	})
	if err != nil {
		return CurrentInstance{}, err
	}

	// The result is shared between concurrent callers
	current := v.(CurrentInstance)
	current.Warnings = append([]Warning(nil), current.Warnings...)
	return current, nil
}

func (e *Engine) currentInstance(ctx context.Context, cycle models.PayCycle, today types.Date) (CurrentInstance, error) {
	p, err := e.periodFor(ctx, cycle, today)
	if err != nil {
		return CurrentInstance{}, err
	}

	instance, err := e.enclosingInstance(ctx, cycle, today)
	if err != nil && !errors.Is(err, models.ErrResourceNotFound) {
		return CurrentInstance{}, err
	}

	// Unconfirmed instances with stale boundaries are dropped
	for err == nil && !instance.Locked() && (!instance.PeriodStart.Equal(p.Start) || !instance.PeriodEnd.Equal(p.End)) {
		log.Info().
			Str("instance", instance.ID.String()).
			Str("stale-start", instance.PeriodStart.String()).
			Str("start", p.Start.String()).
			Msg("replacing instance with stale period boundaries")

		err = e.db.WithContext(ctx).
			Where("id = ? AND is_assumed = ?", instance.ID, true).
			Delete(&models.PeriodInstance{}).Error
		if err != nil {
			return CurrentInstance{}, err
		}

		instance, err = e.enclosingInstance(ctx, cycle, today)
		if err != nil && !errors.Is(err, models.ErrResourceNotFound) {
			return CurrentInstance{}, err
		}
	}

	current := CurrentInstance{PayCycle: &cycle}

	if errors.Is(err, models.ErrResourceNotFound) {
		if w, ok := e.rolloverPending(ctx, cycle, today); !ok {
			current.Warnings = append(current.Warnings, w)
		}

		instance, err = e.createInstance(ctx, cycle, p)
		if err != nil {
			return CurrentInstance{}, err
		}
	}

	current.Instance = &instance
	current.DaysRemaining = instance.Period().DaysRemaining(today)
	return current, nil
}

// enclosingInstance returns the latest instance of the cycle whose range
// contains the date.
func (e *Engine) enclosingInstance(ctx context.Context, cycle models.PayCycle, date types.Date) (models.PeriodInstance, error) {
	var instance models.PeriodInstance
	err := e.db.WithContext(ctx).
		Where("pay_cycle_id = ? AND period_start <= ? AND period_end >= ?", cycle.ID, date, date).
		Order("period_start DESC").
		First(&instance).Error

	return instance, err
}

// periodFor computes the period of the cycle containing today. A completed
// instance overlapping the start of the period keeps its range and the
// period starts after it. This happens when the pay day is moved later
// after an instance was created.
func (e *Engine) periodFor(ctx context.Context, cycle models.PayCycle, today types.Date) (period.Period, error) {
	p, err := cycle.PeriodFor(today)
	if err != nil {
		return period.Period{}, err
	}

	var previous models.PeriodInstance
	err = e.db.WithContext(ctx).
		Where("pay_cycle_id = ? AND period_end >= ? AND period_end < ?", cycle.ID, p.Start, today).
		Order("period_end DESC").
		First(&previous).Error
	if err == nil {
		p.Start = previous.PeriodEnd.AddDays(1)
		p.ExpectedPayDate = p.Start
	} else if !errors.Is(err, models.ErrResourceNotFound) {
		return period.Period{}, err
	}

	return p, nil
}

// createInstance inserts an assumed instance for the period.
func (e *Engine) createInstance(ctx context.Context, cycle models.PayCycle, p period.Period) (models.PeriodInstance, error) {
	instance := models.PeriodInstance{
		OwnerID:         cycle.OwnerID,
		PayCycleID:      cycle.ID,
		PeriodStart:     p.Start,
		PeriodEnd:       p.End,
		ExpectedPayDate: p.ExpectedPayDate,
		PaydayType:      p.PaydayType,
		ExpectedAmount:  cycle.ExpectedAmount,
		IsAssumed:       true,
	}

	err := e.db.WithContext(ctx).Create(&instance).Error
	if errors.Is(err, models.ErrPeriodInstanceNotUnique) {
		// Created concurrently, use the winner
		err = e.db.WithContext(ctx).
			Where("pay_cycle_id = ? AND period_start = ?", cycle.ID, p.Start).
			First(&instance).Error
	}
	if err != nil {
		return models.PeriodInstance{}, err
	}

	log.Debug().Str("instance", instance.ID.String()).Str("start", instance.PeriodStart.String()).Str("end", instance.PeriodEnd.String()).Msg("created period instance")
	return instance, nil
}

// rolloverPending processes the rollover of the most recent completed
// confirmed instance of the cycle that has not been processed yet.
func (e *Engine) rolloverPending(ctx context.Context, cycle models.PayCycle, today types.Date) (Warning, bool) {
	var instance models.PeriodInstance
	err := e.db.WithContext(ctx).
		Where("pay_cycle_id = ? AND is_assumed = ? AND rollover_processed = ? AND period_end < ?", cycle.ID, false, false, today).
		Order("period_end DESC").
		First(&instance).Error

	if errors.Is(err, models.ErrResourceNotFound) {
		return Warning{}, true
	} else if err != nil {
		return softFailure(cycle.OwnerID, OperationRollover, cycle.ID, err), false
	}

	_, err = e.processCompletedPeriod(ctx, instance)
	if err != nil {
		return softFailure(cycle.OwnerID, OperationRollover, instance.ID, err), false
	}

	return Warning{}, true
}

// Instance returns a period instance of the owner.
func (e *Engine) Instance(ctx context.Context, owner, id uuid.UUID) (models.PeriodInstance, error) {
	var instance models.PeriodInstance
	err := e.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, owner).
		First(&instance).Error

	return instance, err
}

// PendingInstances returns the owner's unconfirmed instances that have
// started, newest first.
func (e *Engine) PendingInstances(ctx context.Context, owner uuid.UUID) ([]models.PeriodInstance, error) {
	var instances []models.PeriodInstance
	err := e.db.WithContext(ctx).
		Where("owner_id = ? AND is_assumed = ? AND period_start <= ?", owner, true, e.Today()).
		Order("period_start DESC").
		Find(&instances).Error

	return instances, err
}

// InstanceHistory returns the owner's latest instances, newest first. A
// limit of 0 uses the configured default.
func (e *Engine) InstanceHistory(ctx context.Context, owner uuid.UUID, limit int) ([]models.PeriodInstance, error) {
	if limit <= 0 {
		limit = e.config.InstanceHistoryLimit
	}

	var instances []models.PeriodInstance
	err := e.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("period_start DESC").
		Limit(limit).
		Find(&instances).Error

	return instances, err
}

// previousInstance returns the instance of the same pay cycle that
// started immediately before the given one.
func (e *Engine) previousInstance(ctx context.Context, instance models.PeriodInstance) (models.PeriodInstance, error) {
	var previous models.PeriodInstance
	err := e.db.WithContext(ctx).
		Where("pay_cycle_id = ? AND period_start < ?", instance.PayCycleID, instance.PeriodStart).
		Order("period_start DESC").
		First(&previous).Error

	return previous, err
}

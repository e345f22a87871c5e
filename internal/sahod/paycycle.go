package sahod

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sahod-planner/backend/internal/models"
	"gorm.io/gorm"
)

// Fields of a pay cycle that can be updated
const (
	PayCycleName           = "Name"
	PayCycleFrequency      = "Frequency"
	PayCyclePayDay1        = "PayDay1"
	PayCyclePayDay2        = "PayDay2"
	PayCyclePayDayOfWeek   = "PayDayOfWeek"
	PayCycleExpectedAmount = "ExpectedAmount"
	PayCycleActive         = "Active"
)

// CreatePayCycle creates an active pay cycle for the owner.
func (e *Engine) CreatePayCycle(ctx context.Context, owner uuid.UUID, cycle models.PayCycle) (models.PayCycle, error) {
	cycle.ID = uuid.Nil
	cycle.OwnerID = owner
	cycle.Active = true

	err := e.db.WithContext(ctx).Create(&cycle).Error
	if err != nil {
		return models.PayCycle{}, err
	}

	return cycle, nil
}

// PayCycles returns the owner's active pay cycles, oldest first.
func (e *Engine) PayCycles(ctx context.Context, owner uuid.UUID) ([]models.PayCycle, error) {
	var cycles []models.PayCycle
	err := e.db.WithContext(ctx).
		Where(&models.PayCycle{OwnerID: owner, Active: true}, "OwnerID", "Active").
		Order("created_at ASC").
		Find(&cycles).Error

	return cycles, err
}

// PayCycle returns a pay cycle of the owner, active or not.
func (e *Engine) PayCycle(ctx context.Context, owner, id uuid.UUID) (models.PayCycle, error) {
	var cycle models.PayCycle
	err := e.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, owner).
		First(&cycle).Error

	return cycle, err
}

// activePayCycle returns the given active pay cycle or, without an id,
// the owner's oldest active one.
func (e *Engine) activePayCycle(ctx context.Context, owner uuid.UUID, id *uuid.UUID) (models.PayCycle, error) {
	q := e.db.WithContext(ctx).
		Where("owner_id = ? AND active = ?", owner, true).
		Order("created_at ASC")

	if id != nil {
		q = q.Where("id = ?", *id)
	}

	var cycle models.PayCycle
	err := q.First(&cycle).Error
	return cycle, err
}

// UpdatePayCycle applies the named fields of changes to the pay cycle.
//
// When the schedule changes, unconfirmed instances of the cycle that
// contain or follow today are removed so that the next lookup recomputes
// their boundaries. Confirmed instances are never touched.
func (e *Engine) UpdatePayCycle(ctx context.Context, owner, id uuid.UUID, changes models.PayCycle, fields ...string) (models.PayCycle, error) {
	var cycle models.PayCycle

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND owner_id = ?", id, owner).First(&cycle).Error
		if err != nil {
			return err
		}

		before := cycle
		for _, field := range fields {
			switch field {
			case PayCycleName:
				cycle.Name = changes.Name
			case PayCycleFrequency:
				cycle.Frequency = changes.Frequency
			case PayCyclePayDay1:
				cycle.PayDay1 = changes.PayDay1
			case PayCyclePayDay2:
				cycle.PayDay2 = changes.PayDay2
			case PayCyclePayDayOfWeek:
				cycle.PayDayOfWeek = changes.PayDayOfWeek
			case PayCycleExpectedAmount:
				cycle.ExpectedAmount = changes.ExpectedAmount
			case PayCycleActive:
				cycle.Active = changes.Active
			}
		}

		err = tx.Save(&cycle).Error
		if err != nil {
			return err
		}

		if !cycle.ScheduleChanged(before) {
			return nil
		}

		res := tx.
			Where("pay_cycle_id = ? AND is_assumed = ? AND period_end >= ?", cycle.ID, true, e.Today()).
			Delete(&models.PeriodInstance{})

		if res.RowsAffected > 0 {
			log.Info().Str("pay-cycle", cycle.ID.String()).Int64("instances", res.RowsAffected).Msg("schedule changed, removed unconfirmed instances")
		}

		return res.Error
	})
	if err != nil {
		return models.PayCycle{}, err
	}

	return cycle, nil
}

// DeletePayCycle deactivates the pay cycle. Its instances are kept.
func (e *Engine) DeletePayCycle(ctx context.Context, owner, id uuid.UUID) error {
	res := e.db.WithContext(ctx).
		Model(&models.PayCycle{}).
		Where("id = ? AND owner_id = ? AND active = ?", id, owner, true).
		UpdateColumn("active", false)

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return models.NotFound("pay cycle")
	}

	return nil
}

// needsSetup reports whether the error means the owner has no active pay cycle.
func needsSetup(err error) bool {
	return errors.Is(err, models.ErrResourceNotFound)
}

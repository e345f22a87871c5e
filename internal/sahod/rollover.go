package sahod

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sahod-planner/backend/internal/metrics"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EnvelopeCredit is the amount moved into the cookie jar of an envelope.
type EnvelopeCredit struct {
	EnvelopeID uuid.UUID       `json:"envelopeId"`
	Amount     decimal.Decimal `json:"amount"`
}

// RolloverResult is the outcome of processing a completed period.
type RolloverResult struct {
	Processed bool             // False when the rollover had been processed before
	Credits   []EnvelopeCredit // Cookie jar credits
}

// ProcessRollover processes the rollover of a completed instance of the
// owner. It is rejected while the period has not ended.
func (e *Engine) ProcessRollover(ctx context.Context, owner, instanceID uuid.UUID) (RolloverResult, error) {
	instance, err := e.Instance(ctx, owner, instanceID)
	if err != nil {
		return RolloverResult{}, err
	}

	if !instance.PeriodEnd.Before(e.Today()) {
		return RolloverResult{}, models.Invalid("the period ending %s has not ended yet", instance.PeriodEnd)
	}

	return e.processCompletedPeriod(ctx, instance)
}

// processCompletedPeriod moves the positive remainders of rollover
// envelopes into their cookie jars, once per instance.
//
// The processed flag is claimed and all credits are written in one
// transaction. When any credit fails, nothing is credited and the flag
// stays unset so the rollover can be retried.
func (e *Engine) processCompletedPeriod(ctx context.Context, instance models.PeriodInstance) (RolloverResult, error) {
	var result RolloverResult

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PeriodInstance{}).
			Where("id = ? AND rollover_processed = ?", instance.ID, false).
			UpdateColumn("rollover_processed", true)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return nil
		}
		result.Processed = true

		var allocations []models.Allocation
		err := tx.Joins("Envelope").
			Where("allocations.period_instance_id = ? AND Envelope.is_rollover = ?", instance.ID, true).
			Find(&allocations).Error
		if err != nil {
			return err
		}

		for _, allocation := range allocations {
			remaining := allocation.Remaining()
			if !remaining.IsPositive() {
				continue
			}

			err = tx.Model(&models.Envelope{}).
				Where("id = ?", allocation.EnvelopeID).
				UpdateColumn("cookie_jar", gorm.Expr("cookie_jar + ?", remaining)).Error
			if err != nil {
				return err
			}

			result.Credits = append(result.Credits, EnvelopeCredit{EnvelopeID: allocation.EnvelopeID, Amount: remaining})
		}

		return nil
	})
	if err != nil {
		return RolloverResult{}, err
	}

	if result.Processed {
		metrics.RolloversProcessed.Inc()
		log.Info().Str("instance", instance.ID.String()).Int("credits", len(result.Credits)).Msg("processed rollover")
	}

	return result, nil
}

// WithdrawResult is the outcome of a cookie jar withdrawal.
type WithdrawResult struct {
	Envelope   models.Envelope
	Allocation models.Allocation
}

// WithdrawFromCookieJar moves an amount from the cookie jar of an envelope
// into the rollover of its allocation in the current period.
func (e *Engine) WithdrawFromCookieJar(ctx context.Context, owner, envelopeID uuid.UUID, amount decimal.Decimal) (WithdrawResult, error) {
	if !amount.IsPositive() {
		return WithdrawResult{}, models.Invalid("the withdrawal amount must be positive")
	}

	envelope, err := e.Envelope(ctx, owner, envelopeID)
	if err != nil {
		return WithdrawResult{}, err
	}

	current, err := e.CurrentInstance(ctx, owner, nil)
	if err != nil {
		return WithdrawResult{}, err
	}

	if current.NeedsSetup {
		return WithdrawResult{}, models.Invalid("there is no current period to withdraw into, set up a pay cycle first")
	}

	var allocation models.Allocation
	err = e.db.WithContext(ctx).
		Where("period_instance_id = ? AND envelope_id = ?", current.Instance.ID, envelope.ID).
		First(&allocation).Error
	if err != nil {
		return WithdrawResult{}, models.Invalid("%s has no allocation in the current period", envelope.Name)
	}

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Envelope{}).
			Where("id = ? AND cookie_jar >= ?", envelope.ID, amount).
			UpdateColumn("cookie_jar", gorm.Expr("cookie_jar - ?", amount))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var jar models.Envelope
			if err := tx.Where("id = ?", envelope.ID).First(&jar).Error; err != nil {
				return err
			}

			return models.Invalid("cannot withdraw %s, the cookie jar of %s only holds %s", e.money(amount), jar.Name, e.money(jar.CookieJar))
		}

		return tx.Model(&models.Allocation{}).
			Where("id = ?", allocation.ID).
			UpdateColumn("rollover_amount", gorm.Expr("rollover_amount + ?", amount)).Error
	})
	if err != nil {
		return WithdrawResult{}, err
	}

	envelope, err = e.Envelope(ctx, owner, envelope.ID)
	if err != nil {
		return WithdrawResult{}, err
	}

	allocation, err = e.Allocation(ctx, owner, allocation.ID)
	if err != nil {
		return WithdrawResult{}, err
	}

	return WithdrawResult{Envelope: envelope, Allocation: allocation}, nil
}

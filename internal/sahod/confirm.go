package sahod

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sahod-planner/backend/internal/ledger"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/shopspring/decimal"
)

// CandidateAction decides what happens with an income entry that was
// found near the expected pay date.
type CandidateAction string

const (
	CandidatePreview CandidateAction = ""     // Return a found candidate without confirming
	CandidateLink    CandidateAction = "link" // Link the candidate to the instance instead of recording income
	CandidateSkip    CandidateAction = "skip" // Ignore candidates and record a new income entry
)

type ConfirmStatus string

const (
	StatusConfirmed        ConfirmStatus = "confirmed"
	StatusAlreadyConfirmed ConfirmStatus = "already_confirmed"
	StatusCandidateFound   ConfirmStatus = "candidate_found"
)

// ConfirmRequest holds the parameters of a confirmation.
type ConfirmRequest struct {
	ActualAmount decimal.NullDecimal // Defaults to the expected amount
	Action       CandidateAction
	CandidateID  *uuid.UUID // Required for CandidateLink
}

// ConfirmResult is the outcome of a confirmation.
type ConfirmResult struct {
	Status      ConfirmStatus
	Instance    models.PeriodInstance
	Candidate   *models.LedgerEntry // The found candidate for StatusCandidateFound
	IncomeEntry *models.LedgerEntry // The income entry linked to or recorded for the instance
	Warnings    []Warning
}

// Confirm records that the income of the instance arrived and locks it.
//
// Confirmation happens exactly once. Confirming a confirmed instance does
// not change it and reports StatusAlreadyConfirmed. Unless the caller
// decided on a candidate, an unlinked income entry near the expected pay
// date and amount is returned as a candidate and nothing is written.
func (e *Engine) Confirm(ctx context.Context, owner, instanceID uuid.UUID, req ConfirmRequest) (ConfirmResult, error) {
	switch req.Action {
	case CandidatePreview, CandidateSkip:
	case CandidateLink:
		if req.CandidateID == nil {
			return ConfirmResult{}, models.Invalid("linking an income entry needs the ID of the candidate")
		}
	default:
		return ConfirmResult{}, models.Invalid("the candidate action must be link or skip, got %q", req.Action)
	}

	if req.ActualAmount.Valid && !req.ActualAmount.Decimal.IsPositive() {
		return ConfirmResult{}, models.Invalid("the actual amount must be positive")
	}

	instance, err := e.Instance(ctx, owner, instanceID)
	if err != nil {
		return ConfirmResult{}, err
	}

	if instance.Locked() {
		return ConfirmResult{Status: StatusAlreadyConfirmed, Instance: instance}, nil
	}

	amount := instance.ExpectedAmount
	if req.ActualAmount.Valid {
		amount = req.ActualAmount.Decimal
	}

	var result ConfirmResult

	switch req.Action {
	case CandidatePreview:
		candidate, err := e.FindIncomeCandidate(ctx, instance, amount)
		if err != nil {
			result.Warnings = append(result.Warnings, softFailure(owner, OperationIncomeSearch, instance.ID, err))
		} else if candidate != nil {
			return ConfirmResult{Status: StatusCandidateFound, Instance: instance, Candidate: candidate}, nil
		}
	case CandidateLink:
		// The candidate is only linked by the request that confirms
		err := e.checkCandidate(ctx, instance, *req.CandidateID)
		if err != nil {
			return ConfirmResult{}, err
		}
	}

	res := e.db.WithContext(ctx).
		Model(&models.PeriodInstance{}).
		Where("id = ? AND owner_id = ? AND is_assumed = ?", instance.ID, owner, true).
		UpdateColumns(map[string]any{
			"actual_amount": amount,
			"is_assumed":    false,
			"confirmed_at":  e.now().UTC(),
		})
	if res.Error != nil {
		return ConfirmResult{}, res.Error
	}

	result.Status = StatusConfirmed
	if res.RowsAffected == 0 {
		result.Status = StatusAlreadyConfirmed
	}

	instance, err = e.Instance(ctx, owner, instance.ID)
	if err != nil {
		return ConfirmResult{}, err
	}
	result.Instance = instance

	// Only the request that confirmed records the income
	if result.Status == StatusAlreadyConfirmed {
		return result, nil
	}

	log.Info().Str("instance", instance.ID.String()).Str("amount", amount.String()).Msg("confirmed period instance")

	if req.Action == CandidateLink {
		err := e.ledger.LinkInstance(ctx, owner, *req.CandidateID, instance.ID)
		if err == nil {
			entries, err := e.ledger.QueryEntries(ctx, owner, ledger.Filter{ID: req.CandidateID, Limit: 1})
			if err == nil && len(entries) > 0 {
				result.IncomeEntry = &entries[0]
			}
			return result, nil
		}

		// The candidate was linked elsewhere in the meantime, the income
		// is recorded instead
		result.Warnings = append(result.Warnings, softFailure(owner, OperationIncomeLink, *req.CandidateID, err))
	}

	entry, err := e.recordIncome(ctx, instance, amount)
	if err != nil {
		result.Warnings = append(result.Warnings, softFailure(owner, OperationIncomeRecord, instance.ID, err))
	} else {
		result.IncomeEntry = &entry
	}

	return result, nil
}

// checkCandidate returns a not found error unless the entry is an income
// entry of the owner that is unlinked or linked to the instance.
func (e *Engine) checkCandidate(ctx context.Context, instance models.PeriodInstance, id uuid.UUID) error {
	entries, err := e.ledger.QueryEntries(ctx, instance.OwnerID, ledger.Filter{ID: &id, Type: models.EntryIncome, Limit: 1})
	if err != nil {
		return err
	}

	if len(entries) == 0 || (entries[0].PeriodInstanceID != nil && *entries[0].PeriodInstanceID != instance.ID) {
		return models.NotFound("ledger entry")
	}

	return nil
}

// FindIncomeCandidate returns an unlinked income entry whose amount and
// date are within the configured tolerances of the instance's pay date.
func (e *Engine) FindIncomeCandidate(ctx context.Context, instance models.PeriodInstance, amount decimal.Decimal) (*models.LedgerEntry, error) {
	tolerance := amount.Mul(e.config.IncomeMatchAmountTolerance)
	days := e.config.IncomeMatchDays

	entries, err := e.ledger.QueryEntries(ctx, instance.OwnerID, ledger.Filter{
		Type:             models.EntryIncome,
		From:             instance.ExpectedPayDate.AddDays(-days),
		To:               instance.ExpectedPayDate.AddDays(days),
		Unlinked:         true,
		CategoryPatterns: e.config.IncomeCategoryPatterns,
		MinAmount:        decimal.NewNullDecimal(amount.Sub(tolerance)),
		MaxAmount:        decimal.NewNullDecimal(amount.Add(tolerance)),
		Limit:            1,
	})
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// recordIncome records the income entry of a confirmed instance unless
// one already exists. Entries are matched by instance link first, then by
// description and amount.
func (e *Engine) recordIncome(ctx context.Context, instance models.PeriodInstance, amount decimal.Decimal) (models.LedgerEntry, error) {
	cycle, err := e.PayCycle(ctx, instance.OwnerID, instance.PayCycleID)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	entries, err := e.ledger.QueryEntries(ctx, instance.OwnerID, ledger.Filter{
		Type:             models.EntryIncome,
		PeriodInstanceID: &instance.ID,
		Limit:            1,
	})
	if err != nil {
		return models.LedgerEntry{}, err
	}
	if len(entries) > 0 {
		return entries[0], nil
	}

	description := IncomeDescription(cycle, instance)
	entries, err = e.ledger.QueryEntries(ctx, instance.OwnerID, ledger.Filter{
		Type:        models.EntryIncome,
		Description: description,
		Amount:      decimal.NewNullDecimal(amount),
		Limit:       1,
	})
	if err != nil {
		return models.LedgerEntry{}, err
	}
	if len(entries) > 0 {
		return entries[0], nil
	}

	return e.ledger.RecordEntry(ctx, models.LedgerEntry{
		OwnerID:          instance.OwnerID,
		Date:             e.Today(),
		Amount:           amount,
		Type:             models.EntryIncome,
		Description:      description,
		Category:         e.config.IncomeCategory,
		PeriodInstanceID: &instance.ID,
	})
}

// IncomeDescription is the description of income entries recorded on
// confirmation.
func IncomeDescription(cycle models.PayCycle, instance models.PeriodInstance) string {
	return fmt.Sprintf("%s - %s", cycle.Name, instance.PeriodStart)
}

package sahod

import (
	"context"

	"github.com/google/uuid"
	"github.com/sahod-planner/backend/internal/models"
)

// RecordEntry records a ledger entry of the owner. An expense booked on an
// envelope refreshes the spending of the current period as a best effort
// step.
func (e *Engine) RecordEntry(ctx context.Context, owner uuid.UUID, entry models.LedgerEntry) (models.LedgerEntry, []Warning, error) {
	entry.OwnerID = owner
	entry.PeriodInstanceID = nil
	entry.RecurringRuleID = nil

	if err := e.checkEnvelope(ctx, owner, entry.EnvelopeID); err != nil {
		return models.LedgerEntry{}, nil, err
	}

	entry, err := e.ledger.RecordEntry(ctx, entry)
	if err != nil {
		return models.LedgerEntry{}, nil, err
	}

	var warnings []Warning
	if entry.Type == models.EntryExpense && entry.EnvelopeID != nil {
		if w, ok := e.refreshCurrentSpent(ctx, owner); !ok {
			warnings = append(warnings, w)
		}
	}

	return entry, warnings, nil
}

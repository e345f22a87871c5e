package sahod

import (
	"context"

	"github.com/google/uuid"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/sahod-planner/backend/internal/types"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DashboardEnvelope is an envelope with its budget in the current period.
type DashboardEnvelope struct {
	Envelope        models.Envelope
	AllocationID    *uuid.UUID
	Allocated       decimal.Decimal
	Rollover        decimal.Decimal
	Spent           decimal.Decimal
	Remaining       decimal.Decimal
	PercentageSpent decimal.Decimal // Of the available budget, one decimal place
	IsOverBudget    bool
}

// NextPayday is the expected pay date of the following period.
type NextPayday struct {
	Date      types.Date `json:"date"`
	DaysUntil int        `json:"daysUntil"`
	IsToday   bool       `json:"isToday"`
}

// Summary totals the envelopes of the current period.
type Summary struct {
	TotalAllocated       decimal.Decimal `json:"totalAllocated"`
	TotalRollover        decimal.Decimal `json:"totalRollover"`
	TotalSpent           decimal.Decimal `json:"totalSpent"`
	TotalRemaining       decimal.Decimal `json:"totalRemaining"`
	SafeDailySpend       decimal.Decimal `json:"safeDailySpend"`
	AllocationPercentage decimal.Decimal `json:"allocationPercentage"` // Allocated share of the period income, one decimal place
}

// Dashboard is the state of the owner's current period.
type Dashboard struct {
	CurrentInstance
	NeedsConfirmation bool
	IsLocked          bool
	NextPayday        *NextPayday
	Summary           Summary
	Envelopes         []DashboardEnvelope
}

// Dashboard returns the state of the owner's current period. Spending is
// refreshed from the ledger first as a best effort step.
func (e *Engine) Dashboard(ctx context.Context, owner uuid.UUID) (Dashboard, error) {
	current, err := e.CurrentInstance(ctx, owner, nil)
	if err != nil {
		return Dashboard{}, err
	}

	dashboard := Dashboard{CurrentInstance: current, Envelopes: []DashboardEnvelope{}}
	if current.NeedsSetup {
		return dashboard, nil
	}

	instance := *current.Instance
	today := e.Today()

	if err := e.RefreshSpent(ctx, owner, instance.ID); err != nil {
		dashboard.Warnings = append(dashboard.Warnings, softFailure(owner, OperationRefreshSpent, instance.ID, err))
	}

	dashboard.IsLocked = instance.Locked()
	dashboard.NeedsConfirmation = !instance.Locked() && !today.Before(instance.ExpectedPayDate)

	next, err := current.PayCycle.PeriodFor(instance.PeriodEnd.AddDays(1))
	if err == nil {
		days := today.DaysUntil(next.ExpectedPayDate)
		dashboard.NextPayday = &NextPayday{
			Date:      next.ExpectedPayDate,
			DaysUntil: max(days, 0),
			IsToday:   days == 0,
		}
	}

	envelopes, err := e.Envelopes(ctx, owner)
	if err != nil {
		return Dashboard{}, err
	}

	allocations, err := e.allocations(ctx, instance.ID)
	if err != nil {
		return Dashboard{}, err
	}

	byEnvelope := make(map[uuid.UUID]models.Allocation, len(allocations))
	for _, allocation := range allocations {
		byEnvelope[allocation.EnvelopeID] = allocation
	}

	s := Summary{
		TotalAllocated: decimal.Zero,
		TotalRollover:  decimal.Zero,
		TotalSpent:     decimal.Zero,
		TotalRemaining: decimal.Zero,
	}

	for _, envelope := range envelopes {
		d := DashboardEnvelope{
			Envelope:        envelope,
			Allocated:       decimal.Zero,
			Rollover:        decimal.Zero,
			Spent:           decimal.Zero,
			Remaining:       decimal.Zero,
			PercentageSpent: decimal.Zero,
		}

		if allocation, ok := byEnvelope[envelope.ID]; ok {
			id := allocation.ID
			d.AllocationID = &id
			d.Allocated = allocation.AllocatedAmount
			d.Rollover = allocation.RolloverAmount
			d.Spent = allocation.CachedSpent
			d.Remaining = allocation.Remaining()
			d.IsOverBudget = d.Remaining.IsNegative()
			d.PercentageSpent = percentage(d.Spent, allocation.Available())
		}

		s.TotalAllocated = s.TotalAllocated.Add(d.Allocated)
		s.TotalRollover = s.TotalRollover.Add(d.Rollover)
		s.TotalSpent = s.TotalSpent.Add(d.Spent)
		s.TotalRemaining = s.TotalRemaining.Add(d.Remaining)

		dashboard.Envelopes = append(dashboard.Envelopes, d)
	}

	s.SafeDailySpend = SafeDailySpend(s.TotalRemaining, current.DaysRemaining)
	s.AllocationPercentage = percentage(s.TotalAllocated, instance.Income())
	dashboard.Summary = s

	return dashboard, nil
}

// percentage returns part as a percentage of whole with one decimal
// place, or zero when whole is not positive.
func percentage(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}

	return part.Mul(hundred).Div(whole).Round(1)
}

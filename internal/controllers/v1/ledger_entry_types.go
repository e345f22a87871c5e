package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sahod-planner/backend/internal/ledger"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/sahod-planner/backend/internal/sahod"
	"github.com/sahod-planner/backend/internal/types"
	internal_uuid "github.com/sahod-planner/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntryEditable represents all user configurable parameters
type LedgerEntryEditable struct {
	Date        types.Date       `json:"date" example:"2025-03-14"`       // Date of the entry
	Amount      decimal.Decimal  `json:"amount" example:"249.50"`         // Amount of the entry, always positive
	Type        models.EntryType `json:"type" example:"expense"`          // income or expense
	Description string           `json:"description" example:"Groceries"` // Description
	Category    string           `json:"category" example:"Food"`         // Category
	EnvelopeID  *uuid.UUID       `json:"envelopeId" example:"null"`       // Envelope the expense is booked on
}

func (editable LedgerEntryEditable) model(owner uuid.UUID) models.LedgerEntry {
	return models.LedgerEntry{
		OwnerID:     owner,
		Date:        editable.Date,
		Amount:      editable.Amount,
		Type:        editable.Type,
		Description: editable.Description,
		Category:    editable.Category,
		EnvelopeID:  editable.EnvelopeID,
	}
}

type LedgerEntryLinks struct {
	Envelope string `json:"envelope,omitempty" example:"https://example.com/api/v1/envelopes/3b1ea324-d438-4419-882a-2fc91d71772f"` // The envelope the entry is booked on
	Instance string `json:"instance,omitempty" example:"https://example.com/api/v1/instances/3b1ea324-d438-4419-882a-2fc91d71772f"` // The period instance the income is linked to
}

type LedgerEntry struct {
	models.DefaultModel
	LedgerEntryEditable
	PeriodInstanceID *uuid.UUID       `json:"periodInstanceId"` // Period instance the income is linked to
	RecurringRuleID  *uuid.UUID       `json:"recurringRuleId"`  // Recurring rule that posted the entry
	Links            LedgerEntryLinks `json:"links"`
}

func newLedgerEntry(c *gin.Context, model models.LedgerEntry) LedgerEntry {
	url := baseURL(c)

	entry := LedgerEntry{
		DefaultModel: model.DefaultModel,
		LedgerEntryEditable: LedgerEntryEditable{
			Date:        model.Date,
			Amount:      model.Amount,
			Type:        model.Type,
			Description: model.Description,
			Category:    model.Category,
			EnvelopeID:  model.EnvelopeID,
		},
		PeriodInstanceID: model.PeriodInstanceID,
		RecurringRuleID:  model.RecurringRuleID,
	}

	if model.EnvelopeID != nil {
		entry.Links.Envelope = fmt.Sprintf("%s/v1/envelopes/%s", url, model.EnvelopeID)
	}

	if model.PeriodInstanceID != nil {
		entry.Links.Instance = fmt.Sprintf("%s/v1/instances/%s", url, model.PeriodInstanceID)
	}

	return entry
}

// newLedgerEntryPtr converts an optional entry.
func newLedgerEntryPtr(c *gin.Context, model *models.LedgerEntry) *LedgerEntry {
	if model == nil {
		return nil
	}

	entry := newLedgerEntry(c, *model)
	return &entry
}

func newLedgerEntries(c *gin.Context, entries []models.LedgerEntry) []LedgerEntry {
	data := make([]LedgerEntry, 0, len(entries))
	for _, entry := range entries {
		data = append(data, newLedgerEntry(c, entry))
	}

	return data
}

type LedgerEntryListResponse struct {
	Data       []LedgerEntry   `json:"data"`                                                          // List of ledger entries, newest first
	Posted     []LedgerEntry   `json:"posted"`                                                        // Entries posted by recurring rules during this request
	Warnings   []sahod.Warning `json:"warnings"`                                                      // Best effort steps that failed
	Error      *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination     `json:"pagination"`                                                    // Pagination information
}

type LedgerEntryCreateResponse struct {
	Data     []LedgerEntryResponse `json:"data"`                                                          // List of the created entries or their respective error
	Warnings []sahod.Warning       `json:"warnings"`                                                      // Best effort steps that failed
	Error    *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *LedgerEntryCreateResponse) appendError(err error, currentStatus int) int {
	r.Data = append(r.Data, LedgerEntryResponse{Error: errorString(err)})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type LedgerEntryResponse struct {
	Data  *LedgerEntry `json:"data"`                                                          // Data for the ledger entry
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type Pagination struct {
	Count  int `json:"count" example:"25"`  // The amount of records returned in this response
	Offset int `json:"offset" example:"13"` // The offset for the first record returned
	Limit  int `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
}

type LedgerEntryQueryFilter struct {
	Type           models.EntryType `form:"type"`              // income or expense
	From           types.Date       `form:"from"`              // First date, inclusive
	Until          types.Date       `form:"until"`             // Last date, inclusive
	EnvelopeID     internal_uuid.UUID     `form:"envelope"`          // By ID of the envelope
	InstanceID     internal_uuid.UUID     `form:"instance"`          // By ID of the linked period instance
	RecurringRule  internal_uuid.UUID     `form:"recurringRule"`     // By ID of the posting recurring rule
	Unlinked       bool             `form:"unlinked"`          // Only entries not linked to a period instance
	Category       string           `form:"category"`          // Glob pattern for the category, case-insensitive
	Description    string           `form:"description"`       // Exact description
	AmountLessOrEq decimal.Decimal  `form:"amountLessOrEqual"` // Amount less than or equal to this
	AmountMoreOrEq decimal.Decimal  `form:"amountMoreOrEqual"` // Amount more than or equal to this
	Offset         uint             `form:"offset"`            // The offset of the first entry returned. Defaults to 0.
	Limit          int              `form:"limit"`             // Maximum number of entries to return. Defaults to 50.
}

func (f LedgerEntryQueryFilter) model(setFields []string) (ledger.Filter, error) {
	filter := ledger.Filter{
		Type:        f.Type,
		From:        f.From,
		To:          f.Until,
		Unlinked:    f.Unlinked,
		Description: f.Description,
		Offset:      int(f.Offset),
		Limit:       50,
	}

	if f.Type != "" && !f.Type.Valid() {
		return ledger.Filter{}, models.Invalid("the type must be income or expense")
	}

	if f.EnvelopeID != internal_uuid.Nil {
		filter.EnvelopeID = &f.EnvelopeID.UUID
	}

	if f.InstanceID != internal_uuid.Nil {
		filter.PeriodInstanceID = &f.InstanceID.UUID
	}

	if f.RecurringRule != internal_uuid.Nil {
		filter.RecurringRuleID = &f.RecurringRule.UUID
	}

	if f.Category != "" {
		filter.CategoryPatterns = []string{f.Category}
	}

	for _, field := range setFields {
		switch field {
		case "AmountLessOrEq":
			filter.MaxAmount = decimal.NewNullDecimal(f.AmountLessOrEq)
		case "AmountMoreOrEq":
			filter.MinAmount = decimal.NewNullDecimal(f.AmountMoreOrEq)
		case "Limit":
			if f.Limit < 0 {
				return ledger.Filter{}, errNegativeLimit
			}
			filter.Limit = f.Limit
		}
	}

	return filter, nil
}

package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/sahod-planner/backend/internal/period"
	"github.com/sahod-planner/backend/internal/types"
	"github.com/shopspring/decimal"
)

// RecurringRuleEditable represents all user configurable parameters
type RecurringRuleEditable struct {
	Description     string           `json:"description" example:"Netflix"`                             // Description of the posted entries
	Amount          decimal.Decimal  `json:"amount" example:"549"`                                      // Amount of the posted entries
	Category        string           `json:"category" example:"Subscriptions"`                          // Category of the posted entries
	EnvelopeID      *uuid.UUID       `json:"envelopeId" example:"45b6b5b9-f746-4ae9-b77b-7688b91f8166"` // Envelope the posted expenses are booked on
	TransactionType models.EntryType `json:"transactionType" example:"expense"`                         // income or expense
	Frequency       period.Frequency `json:"frequency" example:"monthly"`                               // One of monthly, bimonthly, weekly
	ScheduleDay     int              `json:"scheduleDay" example:"5"`                                   // Day of the month, or of the week for weekly rules
	Active          bool             `json:"active" example:"true" default:"true"`                      // Inactive rules are not posted
}

func (editable RecurringRuleEditable) model() models.RecurringRule {
	return models.RecurringRule{
		Description:     editable.Description,
		Amount:          editable.Amount,
		Category:        editable.Category,
		EnvelopeID:      editable.EnvelopeID,
		TransactionType: editable.TransactionType,
		Frequency:       editable.Frequency,
		ScheduleDay:     editable.ScheduleDay,
		Active:          editable.Active,
	}
}

type RecurringRuleLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/recurring-rules/6c2b0c5e-39a4-4f0e-9d52-1f5f0d7c2b1a"`                   // The rule itself
	Entries string `json:"entries" example:"https://example.com/api/v1/ledger-entries?recurringRule=6c2b0c5e-39a4-4f0e-9d52-1f5f0d7c2b1a"` // Entries posted by the rule
}

type RecurringRule struct {
	models.DefaultModel
	RecurringRuleEditable
	LastPostedDate *types.Date        `json:"lastPostedDate" example:"2025-03-05"` // The latest scheduled date that has been posted
	Links          RecurringRuleLinks `json:"links"`
}

func newRecurringRule(c *gin.Context, model models.RecurringRule) RecurringRule {
	url := baseURL(c)

	return RecurringRule{
		DefaultModel: model.DefaultModel,
		RecurringRuleEditable: RecurringRuleEditable{
			Description:     model.Description,
			Amount:          model.Amount,
			Category:        model.Category,
			EnvelopeID:      model.EnvelopeID,
			TransactionType: model.TransactionType,
			Frequency:       model.Frequency,
			ScheduleDay:     model.ScheduleDay,
			Active:          model.Active,
		},
		LastPostedDate: model.LastPostedDate,
		Links: RecurringRuleLinks{
			Self:    fmt.Sprintf("%s/v1/recurring-rules/%s", url, model.ID),
			Entries: fmt.Sprintf("%s/v1/ledger-entries?recurringRule=%s", url, model.ID),
		},
	}
}

type RecurringRuleListResponse struct {
	Data  []RecurringRule `json:"data"`                                                          // List of recurring rules
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type RecurringRuleCreateResponse struct {
	Data  []RecurringRuleResponse `json:"data"`                                                          // List of the created rules or their respective error
	Error *string                 `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *RecurringRuleCreateResponse) appendError(err error, currentStatus int) int {
	r.Data = append(r.Data, RecurringRuleResponse{Error: errorString(err)})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type RecurringRuleResponse struct {
	Data  *RecurringRule `json:"data"`                                                          // Data for the recurring rule
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

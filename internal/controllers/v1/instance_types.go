package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/sahod-planner/backend/internal/period"
	"github.com/sahod-planner/backend/internal/sahod"
	"github.com/sahod-planner/backend/internal/types"
	internal_uuid "github.com/sahod-planner/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

type InstanceLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/instances/3b1ea324-d438-4419-882a-2fc91d71772f"`                  // The instance itself
	PayCycle    string `json:"payCycle" example:"https://example.com/api/v1/pay-cycles/7d7a1d8e-3a30-4ac5-9a1c-5f8e5f0c3e21"`              // The pay cycle of the instance
	Allocations string `json:"allocations" example:"https://example.com/api/v1/instances/3b1ea324-d438-4419-882a-2fc91d71772f/allocations"` // Allocations of the instance
	Confirm     string `json:"confirm" example:"https://example.com/api/v1/instances/3b1ea324-d438-4419-882a-2fc91d71772f/confirm"`         // Confirms the income of the instance
	Rollover    string `json:"rollover" example:"https://example.com/api/v1/instances/3b1ea324-d438-4419-882a-2fc91d71772f/rollover"`       // Processes the rollover of the completed instance
}

// Instance is one budget period of a pay cycle.
type Instance struct {
	models.DefaultModel
	PayCycleID        uuid.UUID           `json:"payCycleId" example:"7d7a1d8e-3a30-4ac5-9a1c-5f8e5f0c3e21"` // ID of the pay cycle
	PeriodStart       types.Date          `json:"periodStart" example:"2025-03-15"`                          // First day of the period
	PeriodEnd         types.Date          `json:"periodEnd" example:"2025-03-29"`                            // Last day of the period
	ExpectedPayDate   types.Date          `json:"expectedPayDate" example:"2025-03-14"`                      // Pay date, moved to the previous workday on weekends
	PaydayType        period.PaydayType   `json:"paydayType" example:"kinsenas"`                             // Which of the pay days starts the period
	ExpectedAmount    decimal.Decimal     `json:"expectedAmount" example:"15000"`                            // Income expected for the period
	ActualAmount      decimal.NullDecimal `json:"actualAmount" example:"14850"`                              // Confirmed income
	IsAssumed         bool                `json:"isAssumed" example:"true"`                                  // The income has not been confirmed yet
	IsLocked          bool                `json:"isLocked" example:"false"`                                  // The income has been confirmed
	ConfirmedAt       *time.Time          `json:"confirmedAt" example:"2025-03-14T09:12:44Z"`                // Time of the confirmation
	RolloverProcessed bool                `json:"rolloverProcessed" example:"false"`                         // The rollover of the period has been processed
	Links             InstanceLinks       `json:"links"`
}

func newInstance(c *gin.Context, model models.PeriodInstance) Instance {
	url := baseURL(c)
	self := fmt.Sprintf("%s/v1/instances/%s", url, model.ID)

	return Instance{
		DefaultModel:      model.DefaultModel,
		PayCycleID:        model.PayCycleID,
		PeriodStart:       model.PeriodStart,
		PeriodEnd:         model.PeriodEnd,
		ExpectedPayDate:   model.ExpectedPayDate,
		PaydayType:        model.PaydayType,
		ExpectedAmount:    model.ExpectedAmount,
		ActualAmount:      model.ActualAmount,
		IsAssumed:         model.IsAssumed,
		IsLocked:          model.Locked(),
		ConfirmedAt:       model.ConfirmedAt,
		RolloverProcessed: model.RolloverProcessed,
		Links: InstanceLinks{
			Self:        self,
			PayCycle:    fmt.Sprintf("%s/v1/pay-cycles/%s", url, model.PayCycleID),
			Allocations: self + "/allocations",
			Confirm:     self + "/confirm",
			Rollover:    self + "/rollover",
		},
	}
}

func newInstances(c *gin.Context, instances []models.PeriodInstance) []Instance {
	data := make([]Instance, 0, len(instances))
	for _, instance := range instances {
		data = append(data, newInstance(c, instance))
	}

	return data
}

// CurrentInstance is the period instance enclosing today.
type CurrentInstance struct {
	NeedsSetup    bool            `json:"needsSetup" example:"false"` // The owner has no active pay cycle
	PayCycle      *PayCycle       `json:"payCycle"`                   // The pay cycle of the instance
	Instance      *Instance       `json:"instance"`                   // The current instance
	DaysRemaining int             `json:"daysRemaining" example:"12"` // Days left in the period including today
	Warnings      []sahod.Warning `json:"warnings"`                   // Best effort steps that failed
}

func newCurrentInstance(c *gin.Context, current sahod.CurrentInstance) CurrentInstance {
	data := CurrentInstance{
		NeedsSetup:    current.NeedsSetup,
		DaysRemaining: current.DaysRemaining,
		Warnings:      warnings(current.Warnings),
	}

	if current.PayCycle != nil {
		cycle := newPayCycle(c, *current.PayCycle)
		data.PayCycle = &cycle
	}

	if current.Instance != nil {
		instance := newInstance(c, *current.Instance)
		data.Instance = &instance
	}

	return data
}

// warnings makes sure that warnings are always rendered as a list.
func warnings(w []sahod.Warning) []sahod.Warning {
	if w == nil {
		return []sahod.Warning{}
	}
	return w
}

type CurrentInstanceResponse struct {
	Data  *CurrentInstance `json:"data"`                                                          // Data for the current instance
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type InstanceResponse struct {
	Data  *Instance `json:"data"`                                                          // Data for the instance
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type InstanceListResponse struct {
	Data  []Instance `json:"data"`                                                          // List of instances, newest first
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type QueryCurrentInstance struct {
	PayCycle internal_uuid.UUID `form:"payCycle"` // ID of the pay cycle. Defaults to the oldest active pay cycle.
}

type QueryHistory struct {
	Limit int `form:"limit" example:"10"` // Maximum number of instances to return
}

// ConfirmEditable holds the parameters of a confirmation.
type ConfirmEditable struct {
	ActualAmount    decimal.NullDecimal   `json:"actualAmount" example:"14850"`                               // The income that arrived. Defaults to the expected amount
	CandidateAction sahod.CandidateAction `json:"candidateAction" example:"link"`                             // link or skip a found income entry. Leave empty to search for candidates
	CandidateID     *uuid.UUID            `json:"candidateId" example:"1e5e9b74-3f51-4c85-8d6d-5a46f0e0a7d3"` // The income entry to link
}

func (editable ConfirmEditable) model() sahod.ConfirmRequest {
	return sahod.ConfirmRequest{
		ActualAmount: editable.ActualAmount,
		Action:       editable.CandidateAction,
		CandidateID:  editable.CandidateID,
	}
}

// Confirmation is the outcome of a confirmation.
type Confirmation struct {
	Status      sahod.ConfirmStatus `json:"status" example:"confirmed"` // confirmed, already_confirmed or candidate_found
	Instance    Instance            `json:"instance"`                   // The instance
	Candidate   *LedgerEntry        `json:"candidate"`                  // The income entry found near the pay date
	IncomeEntry *LedgerEntry        `json:"incomeEntry"`                // The income entry linked to or recorded for the instance
	Warnings    []sahod.Warning     `json:"warnings"`                   // Best effort steps that failed
}

type ConfirmResponse struct {
	Data  *Confirmation `json:"data"`                                                          // Data for the confirmation
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type Rollover struct {
	Processed bool                   `json:"processed" example:"true"` // False when the rollover had been processed before
	Credits   []sahod.EnvelopeCredit `json:"credits"`                  // Cookie jar credits
}

type RolloverResponse struct {
	Data  *Rollover `json:"data"`                                                          // Data for the rollover
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

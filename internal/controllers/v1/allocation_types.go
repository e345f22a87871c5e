package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/sahod-planner/backend/internal/sahod"
	"github.com/shopspring/decimal"
)

// AllocationEditable is the amount allocated to one envelope.
type AllocationEditable struct {
	EnvelopeID      uuid.UUID       `json:"envelopeId" example:"a0909e84-e8f9-4cb6-82a5-025dff105ff2"` // ID of the envelope
	AllocatedAmount decimal.Decimal `json:"allocatedAmount" example:"3000"`                            // Amount allocated for the period
}

func (editable AllocationEditable) model() sahod.AllocationInput {
	return sahod.AllocationInput{
		EnvelopeID:      editable.EnvelopeID,
		AllocatedAmount: editable.AllocatedAmount,
	}
}

// AllocationAmountEditable changes the amount of one allocation.
type AllocationAmountEditable struct {
	AllocatedAmount decimal.NullDecimal `json:"allocatedAmount" example:"3500"` // Amount allocated for the period
}

type AllocationLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/allocations/902cd93c-3724-4e46-8540-d014131282fc"`   // The allocation itself
	Envelope string `json:"envelope" example:"https://example.com/api/v1/envelopes/a0909e84-e8f9-4cb6-82a5-025dff105ff2"` // The envelope
	Instance string `json:"instance" example:"https://example.com/api/v1/instances/3b1ea324-d438-4419-882a-2fc91d71772f"` // The period instance
}

type Allocation struct {
	models.DefaultModel
	PeriodInstanceID uuid.UUID       `json:"periodInstanceId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // ID of the period instance
	EnvelopeID       uuid.UUID       `json:"envelopeId" example:"a0909e84-e8f9-4cb6-82a5-025dff105ff2"`       // ID of the envelope
	EnvelopeName     string          `json:"envelopeName" example:"Groceries"`                                // Name of the envelope
	AllocatedAmount  decimal.Decimal `json:"allocatedAmount" example:"3000"`                                  // Amount allocated for the period
	RolloverAmount   decimal.Decimal `json:"rolloverAmount" example:"250"`                                    // Amount carried in from the previous period and the cookie jar
	Spent            decimal.Decimal `json:"spent" example:"1200"`                                            // Expenses booked on the envelope in the period
	Remaining        decimal.Decimal `json:"remaining" example:"2050"`                                        // Allocated plus rollover minus spent
	Links            AllocationLinks `json:"links"`
}

func newAllocation(c *gin.Context, model models.Allocation) Allocation {
	url := baseURL(c)

	return Allocation{
		DefaultModel:     model.DefaultModel,
		PeriodInstanceID: model.PeriodInstanceID,
		EnvelopeID:       model.EnvelopeID,
		EnvelopeName:     model.Envelope.Name,
		AllocatedAmount:  model.AllocatedAmount,
		RolloverAmount:   model.RolloverAmount,
		Spent:            model.CachedSpent,
		Remaining:        model.Remaining(),
		Links: AllocationLinks{
			Self:     fmt.Sprintf("%s/v1/allocations/%s", url, model.ID),
			Envelope: fmt.Sprintf("%s/v1/envelopes/%s", url, model.EnvelopeID),
			Instance: fmt.Sprintf("%s/v1/instances/%s", url, model.PeriodInstanceID),
		},
	}
}

func newAllocations(c *gin.Context, allocations []models.Allocation) []Allocation {
	data := make([]Allocation, 0, len(allocations))
	for _, allocation := range allocations {
		data = append(data, newAllocation(c, allocation))
	}

	return data
}

type AllocationResponse struct {
	Data  *Allocation `json:"data"`                                                          // Data for the allocation
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AllocationListResponse struct {
	Data  []Allocation `json:"data"`                                                          // List of allocations in envelope order
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// Fill is the outcome of filling an instance.
type Fill struct {
	Allocations []Allocation `json:"allocations"` // The allocations of the instance
	Skipped     []uuid.UUID  `json:"skipped"`     // IDs of envelopes that do not exist or are deleted
}

type FillResponse struct {
	Data  *Fill   `json:"data"`                                                          // Data for the fill
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// CurrentAllocations are the allocations of the current instance.
type CurrentAllocations struct {
	CurrentInstance
	IsFallback  bool         `json:"isFallback" example:"false"` // The current instance has no allocations, these are the previous instance's
	Allocations []Allocation `json:"allocations"`                // The allocations
}

type CurrentAllocationsResponse struct {
	Data  *CurrentAllocations `json:"data"`                                                          // Data for the current allocations
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

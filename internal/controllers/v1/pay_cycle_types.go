package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/sahod-planner/backend/internal/period"
	"github.com/shopspring/decimal"
)

// PayCycleEditable represents all user configurable parameters
type PayCycleEditable struct {
	Name           string           `json:"name" example:"My Salary" default:"My Salary"` // Name of the pay cycle
	Frequency      period.Frequency `json:"frequency" example:"bimonthly"`                // One of monthly, bimonthly, weekly
	PayDay1        *int             `json:"payDay1" example:"15"`                         // Pay day of the month for monthly and bimonthly cycles
	PayDay2        *int             `json:"payDay2" example:"30"`                         // Second pay day of the month for bimonthly cycles
	PayDayOfWeek   *int             `json:"payDayOfWeek" example:"5"`                     // Pay day of the week for weekly cycles, 0 is Sunday
	ExpectedAmount decimal.Decimal  `json:"expectedAmount" example:"25000"`               // Expected income per period
}

func (editable PayCycleEditable) model() models.PayCycle {
	return models.PayCycle{
		Name:           editable.Name,
		Frequency:      editable.Frequency,
		PayDay1:        editable.PayDay1,
		PayDay2:        editable.PayDay2,
		PayDayOfWeek:   editable.PayDayOfWeek,
		ExpectedAmount: editable.ExpectedAmount,
	}
}

type PayCycleLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/pay-cycles/3b1ea324-d438-4419-882a-2fc91d71772f"`                // The pay cycle itself
	Current string `json:"current" example:"https://example.com/api/v1/instances/current?payCycle=3b1ea324-d438-4419-882a-2fc91d71772f"` // The current instance of the pay cycle
}

type PayCycle struct {
	models.DefaultModel
	PayCycleEditable
	Active bool          `json:"active" example:"true"` // Inactive pay cycles are deleted
	Links  PayCycleLinks `json:"links"`
}

func newPayCycle(c *gin.Context, model models.PayCycle) PayCycle {
	url := baseURL(c)

	return PayCycle{
		DefaultModel: model.DefaultModel,
		PayCycleEditable: PayCycleEditable{
			Name:           model.Name,
			Frequency:      model.Frequency,
			PayDay1:        model.PayDay1,
			PayDay2:        model.PayDay2,
			PayDayOfWeek:   model.PayDayOfWeek,
			ExpectedAmount: model.ExpectedAmount,
		},
		Active: model.Active,
		Links: PayCycleLinks{
			Self:    fmt.Sprintf("%s/v1/pay-cycles/%s", url, model.ID),
			Current: fmt.Sprintf("%s/v1/instances/current?payCycle=%s", url, model.ID),
		},
	}
}

type PayCycleListResponse struct {
	Data  []PayCycle `json:"data"`                                                          // List of pay cycles
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type PayCycleCreateResponse struct {
	Data  []PayCycleResponse `json:"data"`                                                          // List of the created pay cycles or their respective error
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *PayCycleCreateResponse) appendError(err error, currentStatus int) int {
	r.Data = append(r.Data, PayCycleResponse{Error: errorString(err)})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type PayCycleResponse struct {
	Data  *PayCycle `json:"data"`                                                          // Data for the pay cycle
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

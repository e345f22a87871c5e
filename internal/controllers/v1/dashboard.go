package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sahod-planner/backend/internal/httputil"
	"github.com/sahod-planner/backend/internal/sahod"
	"github.com/shopspring/decimal"
)

// DashboardEnvelope is an envelope with its budget in the current period.
type DashboardEnvelope struct {
	Envelope
	AllocationID    *uuid.UUID      `json:"allocationId" example:"902cd93c-3724-4e46-8540-d014131282fc"` // ID of the allocation in the current period, if any
	Allocated       decimal.Decimal `json:"allocated" example:"3000"`                                    // Allocated in the current period
	Rollover        decimal.Decimal `json:"rollover" example:"250"`                                      // Carried into the current period
	Spent           decimal.Decimal `json:"spent" example:"1200"`                                        // Spent in the current period
	Remaining       decimal.Decimal `json:"remaining" example:"2050"`                                    // Allocated plus rollover minus spent
	PercentageSpent decimal.Decimal `json:"percentageSpent" example:"36.9"`                              // Spent share of allocated plus rollover
	IsOverBudget    bool            `json:"isOverBudget" example:"false"`                                // More was spent than is available
}

// Dashboard is the state of the current period.
type Dashboard struct {
	CurrentInstance
	NeedsConfirmation bool                `json:"needsConfirmation" example:"false"` // The pay date has passed and the income is not confirmed
	IsLocked          bool                `json:"isLocked" example:"true"`           // The income has been confirmed
	NextPayday        *sahod.NextPayday   `json:"nextPayday"`                        // Expected pay date of the next period
	Summary           *sahod.Summary      `json:"summary"`                           // Totals over all envelopes
	Envelopes         []DashboardEnvelope `json:"envelopes"`                         // Envelopes in display order
}

type DashboardResponse struct {
	Data  *Dashboard `json:"data"`                                                          // Data for the dashboard
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// RegisterDashboardRoutes registers the routes for the dashboard with
// the RouterGroup that is passed.
func (co Controller) RegisterDashboardRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsGet)
	r.GET("", co.GetDashboard)
}

// @Summary		Get dashboard
// @Description	Returns the state of the current period: totals, safe daily spend, next payday and every envelope's budget
// @Tags			Dashboard
// @Produce		json
// @Success		200	{object}	DashboardResponse
// @Failure		500	{object}	DashboardResponse
// @Router			/v1/dashboard [get]
func (co Controller) GetDashboard(c *gin.Context) {
	dashboard, err := co.Engine.Dashboard(c, httputil.Owner(c))
	if err != nil {
		c.JSON(status(err), DashboardResponse{
			Error: errorString(err),
		})
		return
	}

	data := Dashboard{
		CurrentInstance:   newCurrentInstance(c, dashboard.CurrentInstance),
		NeedsConfirmation: dashboard.NeedsConfirmation,
		IsLocked:          dashboard.IsLocked,
		NextPayday:        dashboard.NextPayday,
		Envelopes:         make([]DashboardEnvelope, 0, len(dashboard.Envelopes)),
	}

	// Without a pay cycle, there are no totals
	if !dashboard.NeedsSetup {
		data.Summary = &dashboard.Summary
	}

	for _, e := range dashboard.Envelopes {
		data.Envelopes = append(data.Envelopes, DashboardEnvelope{
			Envelope:        newEnvelope(c, e.Envelope),
			AllocationID:    e.AllocationID,
			Allocated:       e.Allocated,
			Rollover:        e.Rollover,
			Spent:           e.Spent,
			Remaining:       e.Remaining,
			PercentageSpent: e.PercentageSpent,
			IsOverBudget:    e.IsOverBudget,
		})
	}

	c.JSON(http.StatusOK, DashboardResponse{Data: &data})
}

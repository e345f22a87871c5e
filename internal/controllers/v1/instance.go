package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sahod-planner/backend/internal/httputil"
	"github.com/sahod-planner/backend/internal/sahod"
	internal_uuid "github.com/sahod-planner/backend/internal/uuid"
)

// RegisterInstanceRoutes registers the routes for period instances with
// the RouterGroup that is passed.
func (co Controller) RegisterInstanceRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsGet)
		r.GET("", co.GetInstanceHistory)
		r.OPTIONS("/current", OptionsGet)
		r.GET("/current", co.GetCurrentInstance)
		r.OPTIONS("/pending", OptionsGet)
		r.GET("/pending", co.GetPendingInstances)
	}

	// Instance with ID
	{
		r.OPTIONS("/:id", OptionsGet)
		r.GET("/:id", co.GetInstance)
		r.OPTIONS("/:id/confirm", OptionsPost)
		r.POST("/:id/confirm", co.ConfirmInstance)
		r.OPTIONS("/:id/rollover", OptionsPost)
		r.POST("/:id/rollover", co.ProcessRollover)
		r.OPTIONS("/:id/allocations", OptionsGetPut)
		r.GET("/:id/allocations", co.GetInstanceAllocations)
		r.PUT("/:id/allocations", co.FillInstance)
	}
}

// OptionsGet returns an empty response allowing OPTIONS and GET.
func OptionsGet(c *gin.Context) {
	httputil.OptionsGet(c)
}

// OptionsPost returns an empty response allowing OPTIONS and POST.
func OptionsPost(c *gin.Context) {
	httputil.OptionsPost(c)
}

// OptionsGetPut returns an empty response allowing OPTIONS and GET, PUT.
func OptionsGetPut(c *gin.Context) {
	httputil.OptionsGetPut(c)
}

// @Summary		Get current instance
// @Description	Returns the period instance enclosing today, creating it when needed. Completed periods are rolled over first.
// @Tags			Instances
// @Produce		json
// @Success		200			{object}	CurrentInstanceResponse
// @Failure		400			{object}	CurrentInstanceResponse
// @Failure		404			{object}	CurrentInstanceResponse
// @Failure		500			{object}	CurrentInstanceResponse
// @Param			payCycle	query		string	false	"ID of the pay cycle"
// @Router			/v1/instances/current [get]
func (co Controller) GetCurrentInstance(c *gin.Context) {
	var query QueryCurrentInstance
	err := c.ShouldBindQuery(&query)
	if err != nil {
		c.JSON(status(err), CurrentInstanceResponse{
			Error: errorString(err),
		})
		return
	}

	var cycleID *uuid.UUID
	if query.PayCycle != internal_uuid.Nil {
		cycleID = &query.PayCycle.UUID
	}

	current, err := co.Engine.CurrentInstance(c, httputil.Owner(c), cycleID)
	if err != nil {
		c.JSON(status(err), CurrentInstanceResponse{
			Error: errorString(err),
		})
		return
	}

	data := newCurrentInstance(c, current)
	c.JSON(http.StatusOK, CurrentInstanceResponse{Data: &data})
}

// @Summary		Get pending instances
// @Description	Returns the unconfirmed instances whose period has started, newest first
// @Tags			Instances
// @Produce		json
// @Success		200	{object}	InstanceListResponse
// @Failure		500	{object}	InstanceListResponse
// @Router			/v1/instances/pending [get]
func (co Controller) GetPendingInstances(c *gin.Context) {
	instances, err := co.Engine.PendingInstances(c, httputil.Owner(c))
	if err != nil {
		c.JSON(status(err), InstanceListResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, InstanceListResponse{Data: newInstances(c, instances)})
}

// @Summary		Get instance history
// @Description	Returns the latest instances, newest first
// @Tags			Instances
// @Produce		json
// @Success		200		{object}	InstanceListResponse
// @Failure		400		{object}	InstanceListResponse
// @Failure		500		{object}	InstanceListResponse
// @Param			limit	query		int	false	"Maximum number of instances to return"
// @Router			/v1/instances [get]
func (co Controller) GetInstanceHistory(c *gin.Context) {
	var query QueryHistory
	err := c.ShouldBindQuery(&query)
	if err != nil {
		c.JSON(status(err), InstanceListResponse{
			Error: errorString(err),
		})
		return
	}

	if query.Limit < 0 {
		c.JSON(http.StatusBadRequest, InstanceListResponse{
			Error: errorString(errNegativeLimit),
		})
		return
	}

	instances, err := co.Engine.InstanceHistory(c, httputil.Owner(c), query.Limit)
	if err != nil {
		c.JSON(status(err), InstanceListResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, InstanceListResponse{Data: newInstances(c, instances)})
}

// @Summary		Get instance
// @Description	Returns a specific period instance
// @Tags			Instances
// @Produce		json
// @Success		200	{object}	InstanceResponse
// @Failure		400	{object}	InstanceResponse
// @Failure		404	{object}	InstanceResponse
// @Failure		500	{object}	InstanceResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/instances/{id} [get]
func (co Controller) GetInstance(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), InstanceResponse{
			Error: errorString(err),
		})
		return
	}

	instance, err := co.Engine.Instance(c, httputil.Owner(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), InstanceResponse{
			Error: errorString(err),
		})
		return
	}

	data := newInstance(c, instance)
	c.JSON(http.StatusOK, InstanceResponse{Data: &data})
}

// @Summary		Confirm income
// @Description	Confirms that the income of the instance arrived and locks the instance.
// @Description	Without a candidateAction, an unlinked income entry near the pay date is returned as candidate and nothing is changed.
// @Tags			Instances
// @Accept			json
// @Produce		json
// @Success		200				{object}	ConfirmResponse
// @Failure		400				{object}	ConfirmResponse
// @Failure		404				{object}	ConfirmResponse
// @Failure		500				{object}	ConfirmResponse
// @Param			id				path		URIID			true	"ID formatted as string"
// @Param			confirmation	body		ConfirmEditable	false	"Confirmation"
// @Router			/v1/instances/{id}/confirm [post]
func (co Controller) ConfirmInstance(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), ConfirmResponse{
			Error: errorString(err),
		})
		return
	}

	// The body is optional
	var editable ConfirmEditable
	err = httputil.BindData(c, &editable)
	if err != nil && !errors.Is(err, httputil.ErrRequestBodyEmpty) {
		c.JSON(status(err), ConfirmResponse{
			Error: errorString(err),
		})
		return
	}

	result, err := co.Engine.Confirm(c, httputil.Owner(c), uri.ID.UUID, editable.model())
	if err != nil {
		c.JSON(status(err), ConfirmResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, ConfirmResponse{Data: &Confirmation{
		Status:      result.Status,
		Instance:    newInstance(c, result.Instance),
		Candidate:   newLedgerEntryPtr(c, result.Candidate),
		IncomeEntry: newLedgerEntryPtr(c, result.IncomeEntry),
		Warnings:    warnings(result.Warnings),
	}})
}

// @Summary		Process rollover
// @Description	Moves the remainders of rollover envelopes of a completed instance into their cookie jars. Processing twice does not change anything.
// @Tags			Instances
// @Produce		json
// @Success		200	{object}	RolloverResponse
// @Failure		400	{object}	RolloverResponse
// @Failure		404	{object}	RolloverResponse
// @Failure		500	{object}	RolloverResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/instances/{id}/rollover [post]
func (co Controller) ProcessRollover(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), RolloverResponse{
			Error: errorString(err),
		})
		return
	}

	result, err := co.Engine.ProcessRollover(c, httputil.Owner(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), RolloverResponse{
			Error: errorString(err),
		})
		return
	}

	credits := result.Credits
	if credits == nil {
		credits = []sahod.EnvelopeCredit{}
	}

	c.JSON(http.StatusOK, RolloverResponse{Data: &Rollover{
		Processed: result.Processed,
		Credits:   credits,
	}})
}

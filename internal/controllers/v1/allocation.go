package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sahod-planner/backend/internal/httputil"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/sahod-planner/backend/internal/sahod"
	"golang.org/x/exp/slices"
)

// RegisterAllocationRoutes registers the routes for allocations with
// the RouterGroup that is passed.
func (co Controller) RegisterAllocationRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("/current", OptionsGet)
		r.GET("/current", co.GetCurrentAllocations)
	}

	// Allocation with ID
	{
		r.OPTIONS("/:id", co.OptionsAllocationDetail)
		r.GET("/:id", co.GetAllocation)
		r.PATCH("/:id", co.UpdateAllocation)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/allocations/{id} [options]
func (co Controller) OptionsAllocationDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = co.Engine.Allocation(c, httputil.Owner(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatch(c)
}

// @Summary		Get allocations of an instance
// @Description	Returns the allocations of a period instance in envelope order
// @Tags			Instances
// @Produce		json
// @Success		200	{object}	AllocationListResponse
// @Failure		400	{object}	AllocationListResponse
// @Failure		404	{object}	AllocationListResponse
// @Failure		500	{object}	AllocationListResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/instances/{id}/allocations [get]
func (co Controller) GetInstanceAllocations(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), AllocationListResponse{
			Error: errorString(err),
		})
		return
	}

	allocations, err := co.Engine.InstanceAllocations(c, httputil.Owner(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), AllocationListResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, AllocationListResponse{Data: newAllocations(c, allocations)})
}

// @Summary		Fill instance
// @Description	Replaces all allocations of an unconfirmed instance. Envelopes that do not exist or are deleted are skipped.
// @Tags			Instances
// @Accept			json
// @Produce		json
// @Success		200			{object}	FillResponse
// @Failure		400			{object}	FillResponse
// @Failure		404			{object}	FillResponse
// @Failure		500			{object}	FillResponse
// @Param			id			path		URIID					true	"ID formatted as string"
// @Param			allocations	body		[]AllocationEditable	true	"Allocations"
// @Router			/v1/instances/{id}/allocations [put]
func (co Controller) FillInstance(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), FillResponse{
			Error: errorString(err),
		})
		return
	}

	var editables []AllocationEditable
	err = httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), FillResponse{
			Error: errorString(err),
		})
		return
	}

	inputs := make([]sahod.AllocationInput, 0, len(editables))
	for _, editable := range editables {
		inputs = append(inputs, editable.model())
	}

	result, err := co.Engine.Fill(c, httputil.Owner(c), uri.ID.UUID, inputs)
	if err != nil {
		c.JSON(status(err), FillResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, FillResponse{Data: &Fill{
		Allocations: newAllocations(c, result.Allocations),
		Skipped:     result.Skipped,
	}})
}

// @Summary		Get current allocations
// @Description	Returns the allocations of the current instance. When it has none, the allocations of the previous instance are returned with isFallback set.
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	CurrentAllocationsResponse
// @Failure		500	{object}	CurrentAllocationsResponse
// @Router			/v1/allocations/current [get]
func (co Controller) GetCurrentAllocations(c *gin.Context) {
	current, err := co.Engine.CurrentAllocations(c, httputil.Owner(c))
	if err != nil {
		c.JSON(status(err), CurrentAllocationsResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, CurrentAllocationsResponse{Data: &CurrentAllocations{
		CurrentInstance: newCurrentInstance(c, current.CurrentInstance),
		IsFallback:      current.IsFallback,
		Allocations:     newAllocations(c, current.Allocations),
	}})
}

// @Summary		Get allocation
// @Description	Returns a specific allocation
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationResponse
// @Failure		400	{object}	AllocationResponse
// @Failure		404	{object}	AllocationResponse
// @Failure		500	{object}	AllocationResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/allocations/{id} [get]
func (co Controller) GetAllocation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), AllocationResponse{
			Error: errorString(err),
		})
		return
	}

	allocation, err := co.Engine.Allocation(c, httputil.Owner(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), AllocationResponse{
			Error: errorString(err),
		})
		return
	}

	data := newAllocation(c, allocation)
	c.JSON(http.StatusOK, AllocationResponse{Data: &data})
}

// @Summary		Update allocation
// @Description	Sets the allocated amount. Once the instance is confirmed, the amount cannot be lower than what has been spent.
// @Tags			Allocations
// @Accept			json
// @Produce		json
// @Success		200			{object}	AllocationResponse
// @Failure		400			{object}	AllocationResponse
// @Failure		404			{object}	AllocationResponse
// @Failure		500			{object}	AllocationResponse
// @Param			id			path		URIID						true	"ID formatted as string"
// @Param			allocation	body		AllocationAmountEditable	true	"Allocation"
// @Router			/v1/allocations/{id} [patch]
func (co Controller) UpdateAllocation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), AllocationResponse{
			Error: errorString(err),
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, AllocationAmountEditable{})
	if err != nil {
		c.JSON(status(err), AllocationResponse{
			Error: errorString(err),
		})
		return
	}

	var data AllocationAmountEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), AllocationResponse{
			Error: errorString(err),
		})
		return
	}

	if !slices.Contains(updateFields, "AllocatedAmount") || !data.AllocatedAmount.Valid {
		err = models.Invalid("the allocatedAmount must be set")
		c.JSON(status(err), AllocationResponse{
			Error: errorString(err),
		})
		return
	}

	allocation, err := co.Engine.UpdateAllocation(c, httputil.Owner(c), uri.ID.UUID, data.AllocatedAmount.Decimal)
	if err != nil {
		c.JSON(status(err), AllocationResponse{
			Error: errorString(err),
		})
		return
	}

	r := newAllocation(c, allocation)
	c.JSON(http.StatusOK, AllocationResponse{Data: &r})
}

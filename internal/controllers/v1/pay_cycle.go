package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sahod-planner/backend/internal/httputil"
)

// RegisterPayCycleRoutes registers the routes for pay cycles with
// the RouterGroup that is passed.
func (co Controller) RegisterPayCycleRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPayCycleList)
		r.GET("", co.GetPayCycles)
		r.POST("", co.CreatePayCycles)
	}

	// Pay cycle with ID
	{
		r.OPTIONS("/:id", co.OptionsPayCycleDetail)
		r.GET("/:id", co.GetPayCycle)
		r.PATCH("/:id", co.UpdatePayCycle)
		r.DELETE("/:id", co.DeletePayCycle)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Pay Cycles
// @Success		204
// @Router			/v1/pay-cycles [options]
func OptionsPayCycleList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Pay Cycles
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/pay-cycles/{id} [options]
func (co Controller) OptionsPayCycleDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = co.Engine.PayCycle(c, httputil.Owner(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create pay cycles
// @Description	Creates new pay cycles
// @Tags			Pay Cycles
// @Produce		json
// @Success		201			{object}	PayCycleCreateResponse
// @Failure		400			{object}	PayCycleCreateResponse
// @Failure		500			{object}	PayCycleCreateResponse
// @Param			payCycles	body		[]PayCycleEditable	true	"Pay cycles"
// @Router			/v1/pay-cycles [post]
func (co Controller) CreatePayCycles(c *gin.Context) {
	var editables []PayCycleEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), PayCycleCreateResponse{
			Error: errorString(err),
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := PayCycleCreateResponse{}

	for _, editable := range editables {
		cycle, err := co.Engine.CreatePayCycle(c, httputil.Owner(c), editable.model())
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newPayCycle(c, cycle)
		r.Data = append(r.Data, PayCycleResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get pay cycles
// @Description	Returns the active pay cycles, oldest first
// @Tags			Pay Cycles
// @Produce		json
// @Success		200	{object}	PayCycleListResponse
// @Failure		500	{object}	PayCycleListResponse
// @Router			/v1/pay-cycles [get]
func (co Controller) GetPayCycles(c *gin.Context) {
	cycles, err := co.Engine.PayCycles(c, httputil.Owner(c))
	if err != nil {
		c.JSON(status(err), PayCycleListResponse{
			Error: errorString(err),
		})
		return
	}

	data := make([]PayCycle, 0, len(cycles))
	for _, cycle := range cycles {
		data = append(data, newPayCycle(c, cycle))
	}

	c.JSON(http.StatusOK, PayCycleListResponse{Data: data})
}

// @Summary		Get pay cycle
// @Description	Returns a specific pay cycle
// @Tags			Pay Cycles
// @Produce		json
// @Success		200	{object}	PayCycleResponse
// @Failure		400	{object}	PayCycleResponse
// @Failure		404	{object}	PayCycleResponse
// @Failure		500	{object}	PayCycleResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/pay-cycles/{id} [get]
func (co Controller) GetPayCycle(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), PayCycleResponse{
			Error: errorString(err),
		})
		return
	}

	cycle, err := co.Engine.PayCycle(c, httputil.Owner(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), PayCycleResponse{
			Error: errorString(err),
		})
		return
	}

	data := newPayCycle(c, cycle)
	c.JSON(http.StatusOK, PayCycleResponse{Data: &data})
}

// @Summary		Update pay cycle
// @Description	Update an existing pay cycle. Only values to be updated need to be specified. Changing the schedule removes unconfirmed instances from today on.
// @Tags			Pay Cycles
// @Accept			json
// @Produce		json
// @Success		200			{object}	PayCycleResponse
// @Failure		400			{object}	PayCycleResponse
// @Failure		404			{object}	PayCycleResponse
// @Failure		500			{object}	PayCycleResponse
// @Param			id			path		URIID				true	"ID formatted as string"
// @Param			payCycle	body		PayCycleEditable	true	"Pay cycle"
// @Router			/v1/pay-cycles/{id} [patch]
func (co Controller) UpdatePayCycle(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), PayCycleResponse{
			Error: errorString(err),
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, PayCycleEditable{})
	if err != nil {
		c.JSON(status(err), PayCycleResponse{
			Error: errorString(err),
		})
		return
	}

	var data PayCycleEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), PayCycleResponse{
			Error: errorString(err),
		})
		return
	}

	cycle, err := co.Engine.UpdatePayCycle(c, httputil.Owner(c), uri.ID.UUID, data.model(), updateFields...)
	if err != nil {
		c.JSON(status(err), PayCycleResponse{
			Error: errorString(err),
		})
		return
	}

	r := newPayCycle(c, cycle)
	c.JSON(http.StatusOK, PayCycleResponse{Data: &r})
}

// @Summary		Delete pay cycle
// @Description	Deactivates a pay cycle. Its period instances are kept.
// @Tags			Pay Cycles
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/pay-cycles/{id} [delete]
func (co Controller) DeletePayCycle(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = co.Engine.DeletePayCycle(c, httputil.Owner(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

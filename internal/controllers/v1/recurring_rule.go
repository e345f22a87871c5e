package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sahod-planner/backend/internal/httputil"
)

// RegisterRecurringRuleRoutes registers the routes for recurring rules with
// the RouterGroup that is passed.
func (co Controller) RegisterRecurringRuleRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsRecurringRuleList)
		r.GET("", co.GetRecurringRules)
		r.POST("", co.CreateRecurringRules)
	}

	// Recurring rule with ID
	{
		r.OPTIONS("/:id", co.OptionsRecurringRuleDetail)
		r.GET("/:id", co.GetRecurringRule)
		r.PATCH("/:id", co.UpdateRecurringRule)
		r.DELETE("/:id", co.DeleteRecurringRule)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Recurring Rules
// @Success		204
// @Router			/v1/recurring-rules [options]
func OptionsRecurringRuleList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Recurring Rules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/recurring-rules/{id} [options]
func (co Controller) OptionsRecurringRuleDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = co.Engine.RecurringRule(c, httputil.Owner(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create recurring rules
// @Description	Creates new recurring rules. Dates before the creation of a rule are never posted.
// @Tags			Recurring Rules
// @Produce		json
// @Success		201			{object}	RecurringRuleCreateResponse
// @Failure		400			{object}	RecurringRuleCreateResponse
// @Failure		500			{object}	RecurringRuleCreateResponse
// @Param			recurringRules	body		[]RecurringRuleEditable	true	"Recurring rules"
// @Router			/v1/recurring-rules [post]
func (co Controller) CreateRecurringRules(c *gin.Context) {
	var editables []RecurringRuleEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), RecurringRuleCreateResponse{
			Error: errorString(err),
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := RecurringRuleCreateResponse{}

	for _, editable := range editables {
		rule, err := co.Engine.CreateRecurringRule(c, httputil.Owner(c), editable.model())
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newRecurringRule(c, rule)
		r.Data = append(r.Data, RecurringRuleResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get recurring rules
// @Description	Returns the active recurring rules
// @Tags			Recurring Rules
// @Produce		json
// @Success		200	{object}	RecurringRuleListResponse
// @Failure		500	{object}	RecurringRuleListResponse
// @Router			/v1/recurring-rules [get]
func (co Controller) GetRecurringRules(c *gin.Context) {
	rules, err := co.Engine.RecurringRules(c, httputil.Owner(c))
	if err != nil {
		c.JSON(status(err), RecurringRuleListResponse{
			Error: errorString(err),
		})
		return
	}

	data := make([]RecurringRule, 0, len(rules))
	for _, rule := range rules {
		data = append(data, newRecurringRule(c, rule))
	}

	c.JSON(http.StatusOK, RecurringRuleListResponse{Data: data})
}

// @Summary		Get recurring rule
// @Description	Returns a specific recurring rule
// @Tags			Recurring Rules
// @Produce		json
// @Success		200	{object}	RecurringRuleResponse
// @Failure		400	{object}	RecurringRuleResponse
// @Failure		404	{object}	RecurringRuleResponse
// @Failure		500	{object}	RecurringRuleResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/recurring-rules/{id} [get]
func (co Controller) GetRecurringRule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), RecurringRuleResponse{
			Error: errorString(err),
		})
		return
	}

	rule, err := co.Engine.RecurringRule(c, httputil.Owner(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), RecurringRuleResponse{
			Error: errorString(err),
		})
		return
	}

	data := newRecurringRule(c, rule)
	c.JSON(http.StatusOK, RecurringRuleResponse{Data: &data})
}

// @Summary		Update recurring rule
// @Description	Update an existing recurring rule. Only values to be updated need to be specified. Entries posted already are not changed.
// @Tags			Recurring Rules
// @Accept			json
// @Produce		json
// @Success		200			{object}	RecurringRuleResponse
// @Failure		400			{object}	RecurringRuleResponse
// @Failure		404			{object}	RecurringRuleResponse
// @Failure		500			{object}	RecurringRuleResponse
// @Param			id			path		URIID				true	"ID formatted as string"
// @Param			recurringRule	body		RecurringRuleEditable	true	"Recurring rule"
// @Router			/v1/recurring-rules/{id} [patch]
func (co Controller) UpdateRecurringRule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), RecurringRuleResponse{
			Error: errorString(err),
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, RecurringRuleEditable{})
	if err != nil {
		c.JSON(status(err), RecurringRuleResponse{
			Error: errorString(err),
		})
		return
	}

	var data RecurringRuleEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), RecurringRuleResponse{
			Error: errorString(err),
		})
		return
	}

	rule, err := co.Engine.UpdateRecurringRule(c, httputil.Owner(c), uri.ID.UUID, data.model(), updateFields...)
	if err != nil {
		c.JSON(status(err), RecurringRuleResponse{
			Error: errorString(err),
		})
		return
	}

	r := newRecurringRule(c, rule)
	c.JSON(http.StatusOK, RecurringRuleResponse{Data: &r})
}

// @Summary		Delete recurring rule
// @Description	Deactivates a recurring rule. Posted entries are kept.
// @Tags			Recurring Rules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/recurring-rules/{id} [delete]
func (co Controller) DeleteRecurringRule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = co.Engine.DeleteRecurringRule(c, httputil.Owner(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

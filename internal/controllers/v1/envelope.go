package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sahod-planner/backend/internal/httputil"
)

// RegisterEnvelopeRoutes registers the routes for envelopes with
// the RouterGroup that is passed.
func (co Controller) RegisterEnvelopeRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsEnvelopeList)
		r.GET("", co.GetEnvelopes)
		r.POST("", co.CreateEnvelopes)
		r.OPTIONS("/reorder", OptionsPost)
		r.POST("/reorder", co.ReorderEnvelopes)
	}

	// Envelope with ID
	{
		r.OPTIONS("/:id", co.OptionsEnvelopeDetail)
		r.GET("/:id", co.GetEnvelope)
		r.PATCH("/:id", co.UpdateEnvelope)
		r.DELETE("/:id", co.DeleteEnvelope)
		r.OPTIONS("/:id/toggle-rollover", OptionsPost)
		r.POST("/:id/toggle-rollover", co.ToggleRollover)
		r.OPTIONS("/:id/cookie-jar/withdraw", OptionsPost)
		r.POST("/:id/cookie-jar/withdraw", co.WithdrawFromCookieJar)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Envelopes
// @Success		204
// @Router			/v1/envelopes [options]
func OptionsEnvelopeList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Envelopes
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/envelopes/{id} [options]
func (co Controller) OptionsEnvelopeDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = co.Engine.Envelope(c, httputil.Owner(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create envelopes
// @Description	Creates new envelopes. An owner can have a limited number of active envelopes.
// @Tags			Envelopes
// @Produce		json
// @Success		201			{object}	EnvelopeCreateResponse
// @Failure		400			{object}	EnvelopeCreateResponse
// @Failure		500			{object}	EnvelopeCreateResponse
// @Param			envelopes	body		[]EnvelopeEditable	true	"Envelopes"
// @Router			/v1/envelopes [post]
func (co Controller) CreateEnvelopes(c *gin.Context) {
	var editables []EnvelopeEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), EnvelopeCreateResponse{
			Error: errorString(err),
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := EnvelopeCreateResponse{}

	for _, editable := range editables {
		envelope, err := co.Engine.CreateEnvelope(c, httputil.Owner(c), editable.model())
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newEnvelope(c, envelope)
		r.Data = append(r.Data, EnvelopeResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get envelopes
// @Description	Returns the active envelopes in display order
// @Tags			Envelopes
// @Produce		json
// @Success		200	{object}	EnvelopeListResponse
// @Failure		500	{object}	EnvelopeListResponse
// @Router			/v1/envelopes [get]
func (co Controller) GetEnvelopes(c *gin.Context) {
	envelopes, err := co.Engine.Envelopes(c, httputil.Owner(c))
	if err != nil {
		c.JSON(status(err), EnvelopeListResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, EnvelopeListResponse{Data: newEnvelopes(c, envelopes)})
}

// @Summary		Get envelope
// @Description	Returns a specific envelope with its allocation and expenses in the current period
// @Tags			Envelopes
// @Produce		json
// @Success		200	{object}	EnvelopeDetailResponse
// @Failure		400	{object}	EnvelopeDetailResponse
// @Failure		404	{object}	EnvelopeDetailResponse
// @Failure		500	{object}	EnvelopeDetailResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/envelopes/{id} [get]
func (co Controller) GetEnvelope(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), EnvelopeDetailResponse{
			Error: errorString(err),
		})
		return
	}

	detail, err := co.Engine.EnvelopeDetail(c, httputil.Owner(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), EnvelopeDetailResponse{
			Error: errorString(err),
		})
		return
	}

	data := EnvelopeDetail{
		Envelope: newEnvelope(c, detail.Envelope),
		Entries:  newLedgerEntries(c, detail.Entries),
	}

	if detail.Instance != nil {
		instance := newInstance(c, *detail.Instance)
		data.Instance = &instance
	}

	if detail.Allocation != nil {
		detail.Allocation.Envelope = detail.Envelope
		allocation := newAllocation(c, *detail.Allocation)
		data.Allocation = &allocation
	}

	c.JSON(http.StatusOK, EnvelopeDetailResponse{Data: &data})
}

// @Summary		Update envelope
// @Description	Update an existing envelope. Only values to be updated need to be specified. The cookie jar cannot be set.
// @Tags			Envelopes
// @Accept			json
// @Produce		json
// @Success		200			{object}	EnvelopeResponse
// @Failure		400			{object}	EnvelopeResponse
// @Failure		404			{object}	EnvelopeResponse
// @Failure		500			{object}	EnvelopeResponse
// @Param			id			path		URIID				true	"ID formatted as string"
// @Param			envelope	body		EnvelopeEditable	true	"Envelope"
// @Router			/v1/envelopes/{id} [patch]
func (co Controller) UpdateEnvelope(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), EnvelopeResponse{
			Error: errorString(err),
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, EnvelopeEditable{})
	if err != nil {
		c.JSON(status(err), EnvelopeResponse{
			Error: errorString(err),
		})
		return
	}

	var data EnvelopeEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), EnvelopeResponse{
			Error: errorString(err),
		})
		return
	}

	envelope, err := co.Engine.UpdateEnvelope(c, httputil.Owner(c), uri.ID.UUID, data.model(), updateFields...)
	if err != nil {
		c.JSON(status(err), EnvelopeResponse{
			Error: errorString(err),
		})
		return
	}

	r := newEnvelope(c, envelope)
	c.JSON(http.StatusOK, EnvelopeResponse{Data: &r})
}

// @Summary		Delete envelope
// @Description	Deletes an envelope. Envelopes with money allocated or spent in their latest period cannot be deleted.
// @Tags			Envelopes
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/envelopes/{id} [delete]
func (co Controller) DeleteEnvelope(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = co.Engine.DeleteEnvelope(c, httputil.Owner(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Reorder envelopes
// @Description	Sets the display order of envelopes to their position in the list
// @Tags			Envelopes
// @Accept			json
// @Produce		json
// @Success		200		{object}	EnvelopeListResponse
// @Failure		400		{object}	EnvelopeListResponse
// @Failure		404		{object}	EnvelopeListResponse
// @Failure		500		{object}	EnvelopeListResponse
// @Param			order	body		ReorderEditable	true	"Envelope order"
// @Router			/v1/envelopes/reorder [post]
func (co Controller) ReorderEnvelopes(c *gin.Context) {
	var data ReorderEditable
	err := httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), EnvelopeListResponse{
			Error: errorString(err),
		})
		return
	}

	envelopes, err := co.Engine.ReorderEnvelopes(c, httputil.Owner(c), data.EnvelopeIDs)
	if err != nil {
		c.JSON(status(err), EnvelopeListResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, EnvelopeListResponse{Data: newEnvelopes(c, envelopes)})
}

// @Summary		Toggle rollover
// @Description	Switches whether unspent money of the envelope moves to its cookie jar at the end of each period
// @Tags			Envelopes
// @Produce		json
// @Success		200	{object}	EnvelopeResponse
// @Failure		400	{object}	EnvelopeResponse
// @Failure		404	{object}	EnvelopeResponse
// @Failure		500	{object}	EnvelopeResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/envelopes/{id}/toggle-rollover [post]
func (co Controller) ToggleRollover(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), EnvelopeResponse{
			Error: errorString(err),
		})
		return
	}

	envelope, err := co.Engine.ToggleRollover(c, httputil.Owner(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), EnvelopeResponse{
			Error: errorString(err),
		})
		return
	}

	r := newEnvelope(c, envelope)
	c.JSON(http.StatusOK, EnvelopeResponse{Data: &r})
}

// @Summary		Withdraw from cookie jar
// @Description	Moves money from the cookie jar of the envelope into the rollover of its allocation in the current period
// @Tags			Envelopes
// @Accept			json
// @Produce		json
// @Success		200			{object}	WithdrawResponse
// @Failure		400			{object}	WithdrawResponse
// @Failure		404			{object}	WithdrawResponse
// @Failure		500			{object}	WithdrawResponse
// @Param			id			path		URIID				true	"ID formatted as string"
// @Param			withdrawal	body		WithdrawEditable	true	"Withdrawal"
// @Router			/v1/envelopes/{id}/cookie-jar/withdraw [post]
func (co Controller) WithdrawFromCookieJar(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), WithdrawResponse{
			Error: errorString(err),
		})
		return
	}

	var data WithdrawEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), WithdrawResponse{
			Error: errorString(err),
		})
		return
	}

	result, err := co.Engine.WithdrawFromCookieJar(c, httputil.Owner(c), uri.ID.UUID, data.Amount)
	if err != nil {
		c.JSON(status(err), WithdrawResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, WithdrawResponse{Data: &Withdrawal{
		Envelope:   newEnvelope(c, result.Envelope),
		Allocation: newAllocation(c, result.Allocation),
	}})
}

package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sahod-planner/backend/internal/httputil"
)

// RegisterLedgerEntryRoutes registers the routes for ledger entries with
// the RouterGroup that is passed.
func (co Controller) RegisterLedgerEntryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsLedgerEntryList)
		r.GET("", co.GetLedgerEntries)
		r.POST("", co.CreateLedgerEntries)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Ledger Entries
// @Success		204
// @Router			/v1/ledger-entries [options]
func OptionsLedgerEntryList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Create ledger entries
// @Description	Records new ledger entries. Expenses booked on an envelope update the spending of the current period.
// @Tags			Ledger Entries
// @Produce		json
// @Success		201		{object}	LedgerEntryCreateResponse
// @Failure		400		{object}	LedgerEntryCreateResponse
// @Failure		404		{object}	LedgerEntryCreateResponse
// @Failure		500		{object}	LedgerEntryCreateResponse
// @Param			entries	body		[]LedgerEntryEditable	true	"Ledger entries"
// @Router			/v1/ledger-entries [post]
func (co Controller) CreateLedgerEntries(c *gin.Context) {
	var editables []LedgerEntryEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), LedgerEntryCreateResponse{
			Error: errorString(err),
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := LedgerEntryCreateResponse{Warnings: warnings(nil)}
	owner := httputil.Owner(c)

	for _, editable := range editables {
		entry, w, err := co.Engine.RecordEntry(c, owner, editable.model(owner))
		if err != nil {
			status = r.appendError(err, status)
			continue
		}
		r.Warnings = append(r.Warnings, w...)

		data := newLedgerEntry(c, entry)
		r.Data = append(r.Data, LedgerEntryResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get ledger entries
// @Description	Posts due entries of recurring rules, then returns the ledger entries matching the filter, newest first
// @Tags			Ledger Entries
// @Produce		json
// @Success		200	{object}	LedgerEntryListResponse
// @Failure		400	{object}	LedgerEntryListResponse
// @Failure		500	{object}	LedgerEntryListResponse
// @Router			/v1/ledger-entries [get]
// @Param			type				query	string	false	"income or expense"
// @Param			from				query	string	false	"First date, inclusive"
// @Param			until				query	string	false	"Last date, inclusive"
// @Param			envelope			query	string	false	"Filter by envelope ID"
// @Param			instance			query	string	false	"Filter by linked period instance ID"
// @Param			recurringRule		query	string	false	"Filter by recurring rule ID"
// @Param			unlinked			query	bool	false	"Only entries not linked to a period instance"
// @Param			category			query	string	false	"Glob pattern for the category"
// @Param			description			query	string	false	"Exact description"
// @Param			amountLessOrEqual	query	string	false	"Amount less than or equal to this"
// @Param			amountMoreOrEqual	query	string	false	"Amount more than or equal to this"
// @Param			offset				query	uint	false	"The offset of the first entry returned. Defaults to 0."
// @Param			limit				query	int		false	"Maximum number of entries to return. Defaults to 50."
func (co Controller) GetLedgerEntries(c *gin.Context) {
	var filter LedgerEntryQueryFilter
	err := c.ShouldBindQuery(&filter)
	if err != nil {
		c.JSON(status(err), LedgerEntryListResponse{
			Error: errorString(err),
		})
		return
	}

	// Get the fields that we are filtering for
	setFields := httputil.GetURLFields(c.Request.URL, filter)

	query, err := filter.model(setFields)
	if err != nil {
		c.JSON(status(err), LedgerEntryListResponse{
			Error: errorString(err),
		})
		return
	}

	owner := httputil.Owner(c)
	report := co.Engine.Reconcile(c, owner)

	entries, err := co.Ledger.QueryEntries(c, owner, query)
	if err != nil {
		c.JSON(status(err), LedgerEntryListResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, LedgerEntryListResponse{
		Data:     newLedgerEntries(c, entries),
		Posted:   newLedgerEntries(c, report.Posted),
		Warnings: warnings(report.Warnings),
		Pagination: &Pagination{
			Count:  len(entries),
			Offset: query.Offset,
			Limit:  query.Limit,
		},
	})
}

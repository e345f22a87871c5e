package v1_test

import (
	"net/http"
	"testing"
	"time"

	v1 "github.com/sahod-planner/backend/internal/controllers/v1"
	"github.com/sahod-planner/backend/internal/config"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/sahod-planner/backend/internal/period"
	"github.com/sahod-planner/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) createTestRecurringRule(t *testing.T, r v1.RecurringRuleEditable, expectedStatus ...int) v1.RecurringRuleResponse {
	if r.Description == "" {
		r.Description = "Internet"
	}

	if r.Amount.IsZero() {
		r.Amount = decimal.NewFromInt(1699)
	}

	if r.TransactionType == "" {
		r.TransactionType = models.EntryExpense
	}

	if r.Frequency == "" {
		r.Frequency = period.Monthly
		r.ScheduleDay = 5
	}

	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	recorder := suite.request(t, http.MethodPost, "http://example.com/v1/recurring-rules", []v1.RecurringRuleEditable{r})
	test.AssertHTTPStatus(t, &recorder, expectedStatus...)

	var response v1.RecurringRuleCreateResponse
	test.DecodeResponse(t, &recorder, &response)

	if recorder.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.RecurringRuleResponse{}
}

func (suite *TestSuiteStandard) TestRecurringRulesCreate() {
	e := suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: "Bills"})

	rule := suite.createTestRecurringRule(suite.T(), v1.RecurringRuleEditable{
		Description: "Electricity",
		EnvelopeID:  &e.Data.ID,
		Frequency:   period.Bimonthly,
		ScheduleDay: 10,
	})

	assert.True(suite.T(), rule.Data.Active)
	assert.Nil(suite.T(), rule.Data.LastPostedDate)
	assert.Equal(suite.T(), "http://example.com/v1/ledger-entries?recurringRule="+rule.Data.ID.String(), rule.Data.Links.Entries)
}

func (suite *TestSuiteStandard) TestRecurringRulesCreateFails() {
	tests := []struct {
		name     string
		editable v1.RecurringRuleEditable
		status   int
	}{
		{"Negative amount", v1.RecurringRuleEditable{Amount: decimal.NewFromInt(-1)}, http.StatusBadRequest},
		{"Schedule day out of range", v1.RecurringRuleEditable{Frequency: period.Weekly, ScheduleDay: 7}, http.StatusBadRequest},
		{"Bimonthly schedule day too late", v1.RecurringRuleEditable{Frequency: period.Bimonthly, ScheduleDay: 20}, http.StatusBadRequest},
		{"Unknown type", v1.RecurringRuleEditable{TransactionType: "transfer"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.createTestRecurringRule(t, tt.editable, tt.status)
		})
	}
}

// TestRecurringRulesPosting verifies that listing ledger entries posts due
// entries exactly once.
func (suite *TestSuiteStandard) TestRecurringRulesPosting() {
	today := time.Now().In(config.DefaultEngine().Location)
	rule := suite.createTestRecurringRule(suite.T(), v1.RecurringRuleEditable{
		Frequency:   period.Weekly,
		ScheduleDay: int(today.Weekday()),
	})

	r := suite.request(suite.T(), http.MethodGet, rule.Data.Links.Entries, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.LedgerEntryListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Posted, 1)
	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), rule.Data.ID, *response.Data[0].RecurringRuleID)
	assert.Equal(suite.T(), "Internet", response.Data[0].Description)

	r = suite.request(suite.T(), http.MethodGet, rule.Data.Links.Entries, "")
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Posted, 0)
	assert.Len(suite.T(), response.Data, 1)

	r = suite.request(suite.T(), http.MethodGet, rule.Data.Links.Self, "")
	var single v1.RecurringRuleResponse
	test.DecodeResponse(suite.T(), &r, &single)
	require.NotNil(suite.T(), single.Data.LastPostedDate)
	assert.Equal(suite.T(), response.Data[0].Date, *single.Data.LastPostedDate)
}

func (suite *TestSuiteStandard) TestRecurringRulesUpdate() {
	rule := suite.createTestRecurringRule(suite.T(), v1.RecurringRuleEditable{})

	r := suite.request(suite.T(), http.MethodPatch, rule.Data.Links.Self, map[string]any{"amount": "1999", "category": "Utilities"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.RecurringRuleResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.True(suite.T(), decimal.NewFromInt(1999).Equal(response.Data.Amount))
	assert.Equal(suite.T(), "Utilities", response.Data.Category)
	assert.Equal(suite.T(), "Internet", response.Data.Description)

	r = suite.request(suite.T(), http.MethodPatch, rule.Data.Links.Self, map[string]any{"scheduleDay": 40})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestRecurringRulesDelete() {
	rule := suite.createTestRecurringRule(suite.T(), v1.RecurringRuleEditable{})

	r := suite.request(suite.T(), http.MethodDelete, rule.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.request(suite.T(), http.MethodDelete, rule.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = suite.request(suite.T(), http.MethodGet, "http://example.com/v1/recurring-rules", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v1.RecurringRuleListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	assert.Len(suite.T(), list.Data, 0)
}

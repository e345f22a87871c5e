package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/sahod-planner/backend/internal/controllers/v1"
	"github.com/sahod-planner/backend/internal/period"
	"github.com/sahod-planner/backend/internal/sahod"
	"github.com/sahod-planner/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestInstancesCurrentNeedsSetup() {
	r := suite.request(suite.T(), http.MethodGet, "http://example.com/v1/instances/current", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CurrentInstanceResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.True(suite.T(), response.Data.NeedsSetup)
	assert.Nil(suite.T(), response.Data.Instance)
	assert.Nil(suite.T(), response.Data.PayCycle)
	assert.NotNil(suite.T(), response.Data.Warnings)
}

func (suite *TestSuiteStandard) TestInstancesCurrent() {
	p := suite.createTestPayCycle(suite.T(), v1.PayCycleEditable{
		Frequency:      period.Bimonthly,
		PayDay1:        intPtr(15),
		PayDay2:        intPtr(30),
		ExpectedAmount: decimal.NewFromInt(12500),
	})

	r := suite.request(suite.T(), http.MethodGet, p.Data.Links.Current, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CurrentInstanceResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.False(suite.T(), response.Data.NeedsSetup)
	require.NotNil(suite.T(), response.Data.Instance)

	instance := response.Data.Instance
	assert.Equal(suite.T(), p.Data.ID, instance.PayCycleID)
	assert.Contains(suite.T(), []period.PaydayType{period.Kinsenas, period.Katapusan}, instance.PaydayType)
	assert.True(suite.T(), instance.IsAssumed)
	assert.False(suite.T(), instance.IsLocked)
	assert.True(suite.T(), decimal.NewFromInt(12500).Equal(instance.ExpectedAmount))
	assert.False(suite.T(), instance.PeriodEnd.Before(instance.PeriodStart))
	assert.GreaterOrEqual(suite.T(), response.Data.DaysRemaining, 1)

	// A second lookup returns the same instance
	r = suite.request(suite.T(), http.MethodGet, "http://example.com/v1/instances/current", "")
	var again v1.CurrentInstanceResponse
	test.DecodeResponse(suite.T(), &r, &again)
	assert.Equal(suite.T(), instance.ID, again.Data.Instance.ID)

	r = suite.request(suite.T(), http.MethodGet, instance.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}

func (suite *TestSuiteStandard) TestInstancesCurrentUnknownPayCycle() {
	suite.createTestPayCycle(suite.T(), v1.PayCycleEditable{})

	r := suite.request(suite.T(), http.MethodGet, "http://example.com/v1/instances/current?payCycle=nope", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestInstancesHistory() {
	instance := suite.currentInstance(suite.T())

	r := suite.request(suite.T(), http.MethodGet, "http://example.com/v1/instances", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.InstanceListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), instance.ID, response.Data[0].ID)

	r = suite.request(suite.T(), http.MethodGet, "http://example.com/v1/instances?limit=-1", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestInstancesConfirm() {
	e := suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{})
	instance := suite.currentInstance(suite.T())

	r := suite.request(suite.T(), http.MethodPost, instance.Links.Confirm, v1.ConfirmEditable{
		ActualAmount: decimal.NewNullDecimal(decimal.NewFromInt(29500)),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ConfirmResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), sahod.StatusConfirmed, response.Data.Status)
	assert.True(suite.T(), response.Data.Instance.IsLocked)
	assert.False(suite.T(), response.Data.Instance.IsAssumed)
	assert.True(suite.T(), decimal.NewFromInt(29500).Equal(response.Data.Instance.ActualAmount.Decimal))
	require.NotNil(suite.T(), response.Data.IncomeEntry)
	assert.Equal(suite.T(), instance.ID, *response.Data.IncomeEntry.PeriodInstanceID)

	// Confirming again does not change anything
	r = suite.request(suite.T(), http.MethodPost, instance.Links.Confirm, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), sahod.StatusAlreadyConfirmed, response.Data.Status)

	// Locked instances cannot be filled
	suite.fill(suite.T(), instance, []v1.AllocationEditable{{EnvelopeID: e.Data.ID, AllocatedAmount: decimal.NewFromInt(100)}}, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestInstancesConfirmCandidate() {
	instance := suite.currentInstance(suite.T())

	r := suite.request(suite.T(), http.MethodPost, "http://example.com/v1/ledger-entries", []v1.LedgerEntryEditable{{
		Date:        instance.ExpectedPayDate,
		Amount:      instance.ExpectedAmount,
		Type:        "income",
		Description: "Salary",
		Category:    "Salary",
	}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var created v1.LedgerEntryCreateResponse
	test.DecodeResponse(suite.T(), &r, &created)
	entry := created.Data[0].Data

	// Without an action, the candidate is returned
	r = suite.request(suite.T(), http.MethodPost, instance.Links.Confirm, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ConfirmResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), sahod.StatusCandidateFound, response.Data.Status)
	require.NotNil(suite.T(), response.Data.Candidate)
	assert.Equal(suite.T(), entry.ID, response.Data.Candidate.ID)
	assert.False(suite.T(), response.Data.Instance.IsLocked)

	// Linking needs the candidate
	r = suite.request(suite.T(), http.MethodPost, instance.Links.Confirm, map[string]any{"candidateAction": "link"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = suite.request(suite.T(), http.MethodPost, instance.Links.Confirm, v1.ConfirmEditable{
		CandidateAction: sahod.CandidateLink,
		CandidateID:     &entry.ID,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), sahod.StatusConfirmed, response.Data.Status)
	require.NotNil(suite.T(), response.Data.IncomeEntry)
	assert.Equal(suite.T(), entry.ID, response.Data.IncomeEntry.ID)
}

func (suite *TestSuiteStandard) TestInstancesConfirmFails() {
	instance := suite.currentInstance(suite.T())

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"Unknown action", instance.Links.Confirm, map[string]any{"candidateAction": "merge"}, http.StatusBadRequest},
		{"Negative amount", instance.Links.Confirm, map[string]any{"actualAmount": "-5"}, http.StatusBadRequest},
		{"Broken body", instance.Links.Confirm, `{ "actualAmount": [] }`, http.StatusBadRequest},
		{"Does not exist", "http://example.com/v1/instances/9b2a3d4e-2f7c-4b1a-8e0d-0c4e1f9a7b65/confirm", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.request(t, http.MethodPost, tt.path, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestInstancesRolloverBeforeEnd() {
	instance := suite.currentInstance(suite.T())

	r := suite.request(suite.T(), http.MethodPost, instance.Links.Rollover, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.RolloverResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Contains(suite.T(), *response.Error, "has not ended")
}

func (suite *TestSuiteStandard) TestInstancesPending() {
	suite.currentInstance(suite.T())

	r := suite.request(suite.T(), http.MethodGet, "http://example.com/v1/instances/pending", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.InstanceListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	for _, instance := range response.Data {
		assert.False(suite.T(), instance.IsLocked)
	}
}

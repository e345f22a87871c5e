package v1_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	v1 "github.com/sahod-planner/backend/internal/controllers/v1"
	"github.com/sahod-planner/backend/internal/period"
	"github.com/sahod-planner/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// request makes a request on behalf of the suite's owner.
func (suite *TestSuiteStandard) request(t *testing.T, method, url string, body any) httptest.ResponseRecorder {
	return test.Request(t, method, url, body, test.Owner(suite.owner))
}

func intPtr(i int) *int {
	return &i
}

func (suite *TestSuiteStandard) createTestPayCycle(t *testing.T, p v1.PayCycleEditable, expectedStatus ...int) v1.PayCycleResponse {
	if p.Frequency == "" {
		p.Frequency = period.Monthly
		p.PayDay1 = intPtr(15)
	}

	if p.ExpectedAmount.IsZero() {
		p.ExpectedAmount = decimal.NewFromInt(30000)
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := suite.request(t, http.MethodPost, "http://example.com/v1/pay-cycles", []v1.PayCycleEditable{p})
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.PayCycleCreateResponse
	test.DecodeResponse(t, &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.PayCycleResponse{}
}

func (suite *TestSuiteStandard) createTestEnvelope(t *testing.T, e v1.EnvelopeEditable, expectedStatus ...int) v1.EnvelopeResponse {
	if e.Name == "" {
		e.Name = uuid.NewString()
	}

	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := suite.request(t, http.MethodPost, "http://example.com/v1/envelopes", []v1.EnvelopeEditable{e})
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.EnvelopeCreateResponse
	test.DecodeResponse(t, &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.EnvelopeResponse{}
}

// currentInstance returns the current instance, creating a pay cycle first
// when the owner has none.
func (suite *TestSuiteStandard) currentInstance(t *testing.T) v1.Instance {
	r := suite.request(t, http.MethodGet, "http://example.com/v1/instances/current", "")
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.CurrentInstanceResponse
	test.DecodeResponse(t, &r, &response)

	if response.Data.NeedsSetup {
		suite.createTestPayCycle(t, v1.PayCycleEditable{})
		return suite.currentInstance(t)
	}

	require.NotNil(t, response.Data.Instance)
	return *response.Data.Instance
}

func (suite *TestSuiteStandard) fill(t *testing.T, instance v1.Instance, allocations []v1.AllocationEditable, expectedStatus ...int) v1.FillResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusOK)
	}

	r := suite.request(t, http.MethodPut, instance.Links.Allocations, allocations)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.FillResponse
	test.DecodeResponse(t, &r, &response)
	return response
}

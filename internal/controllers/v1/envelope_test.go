package v1_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	v1 "github.com/sahod-planner/backend/internal/controllers/v1"
	"github.com/sahod-planner/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestEnvelopesCreate() {
	e := suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{
		Name:         "  Groceries ",
		Emoji:        "🛒",
		TargetAmount: decimal.NewNullDecimal(decimal.NewFromInt(5000)),
	})

	assert.Equal(suite.T(), "Groceries", e.Data.Name)
	assert.Equal(suite.T(), 0, e.Data.SortOrder)
	assert.True(suite.T(), e.Data.CookieJar.IsZero())
	assert.Equal(suite.T(), "http://example.com/v1/envelopes/"+e.Data.ID.String()+"/toggle-rollover", e.Data.Links.ToggleRollover)

	second := suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: "Transport"})
	assert.Equal(suite.T(), 1, second.Data.SortOrder, "new envelopes are sorted last")
}

func (suite *TestSuiteStandard) TestEnvelopesCreateFails() {
	suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: "Bills"})

	tests := []struct {
		name     string
		editable v1.EnvelopeEditable
	}{
		{"Duplicate name", v1.EnvelopeEditable{Name: "Bills"}},
		{"Duplicate name in other case", v1.EnvelopeEditable{Name: "BILLS"}},
		{"Negative target", v1.EnvelopeEditable{Name: "Savings", TargetAmount: decimal.NewNullDecimal(decimal.NewFromInt(-1))}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.createTestEnvelope(t, tt.editable, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestEnvelopesCreateLimit() {
	for range 7 {
		suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{})
	}

	suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{}, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestEnvelopesGetDetailWithoutPayCycle() {
	e := suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: "Food"})

	r := suite.request(suite.T(), http.MethodGet, e.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.EnvelopeDetailResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), "Food", response.Data.Name)
	assert.Nil(suite.T(), response.Data.Instance)
	assert.Nil(suite.T(), response.Data.Allocation)
	assert.Len(suite.T(), response.Data.Entries, 0)
}

func (suite *TestSuiteStandard) TestEnvelopesGetDetail() {
	e := suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: "Food"})
	instance := suite.currentInstance(suite.T())
	suite.fill(suite.T(), instance, []v1.AllocationEditable{{EnvelopeID: e.Data.ID, AllocatedAmount: decimal.NewFromInt(3000)}})

	r := suite.request(suite.T(), http.MethodGet, e.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.EnvelopeDetailResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.NotNil(suite.T(), response.Data.Instance)
	require.NotNil(suite.T(), response.Data.Allocation)
	assert.Equal(suite.T(), instance.ID, response.Data.Instance.ID)
	assert.Equal(suite.T(), "Food", response.Data.Allocation.EnvelopeName)
	assert.True(suite.T(), decimal.NewFromInt(3000).Equal(response.Data.Allocation.Remaining))
}

func (suite *TestSuiteStandard) TestEnvelopesList() {
	suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: "A"})
	suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: "B"})

	r := suite.request(suite.T(), http.MethodGet, "http://example.com/v1/envelopes", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.EnvelopeListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), "A", response.Data[0].Name)
	assert.Equal(suite.T(), "B", response.Data[1].Name)
}

func (suite *TestSuiteStandard) TestEnvelopesUpdate() {
	e := suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: "Old", Color: "#ff0000"})

	r := suite.request(suite.T(), http.MethodPatch, e.Data.Links.Self, map[string]any{"name": "New", "targetAmount": "1500"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.EnvelopeResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), "New", response.Data.Name)
	assert.Equal(suite.T(), "#ff0000", response.Data.Color)
	assert.True(suite.T(), response.Data.TargetAmount.Valid)
	assert.True(suite.T(), decimal.NewFromInt(1500).Equal(response.Data.TargetAmount.Decimal))

	// Removing the target
	r = suite.request(suite.T(), http.MethodPatch, e.Data.Links.Self, map[string]any{"targetAmount": nil})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	assert.False(suite.T(), response.Data.TargetAmount.Valid)
}

func (suite *TestSuiteStandard) TestEnvelopesUpdateFails() {
	e := suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: "One"})
	suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: "Two"})

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"Duplicate name", e.Data.Links.Self, map[string]any{"name": "two"}, http.StatusBadRequest},
		{"Broken body", e.Data.Links.Self, `{ "name": false }`, http.StatusBadRequest},
		{"Does not exist", "http://example.com/v1/envelopes/3e0bbbe5-3a6b-4a5b-9ea1-4e1d6fd22c52", map[string]any{"name": "x"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.request(t, http.MethodPatch, tt.path, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestEnvelopesToggleRollover() {
	e := suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{})
	assert.False(suite.T(), e.Data.IsRollover)

	for _, expected := range []bool{true, false} {
		r := suite.request(suite.T(), http.MethodPost, e.Data.Links.ToggleRollover, "")
		test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

		var response v1.EnvelopeResponse
		test.DecodeResponse(suite.T(), &r, &response)
		assert.Equal(suite.T(), expected, response.Data.IsRollover)
	}

	r := suite.request(suite.T(), http.MethodPost, "http://example.com/v1/envelopes/3e0bbbe5-3a6b-4a5b-9ea1-4e1d6fd22c52/toggle-rollover", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestEnvelopesReorder() {
	a := suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: "A"})
	b := suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: "B"})

	r := suite.request(suite.T(), http.MethodPost, "http://example.com/v1/envelopes/reorder", v1.ReorderEditable{
		EnvelopeIDs: []uuid.UUID{b.Data.ID, a.Data.ID},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.EnvelopeListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), "B", response.Data[0].Name)
	assert.Equal(suite.T(), "A", response.Data[1].Name)

	r = suite.request(suite.T(), http.MethodPost, "http://example.com/v1/envelopes/reorder", v1.ReorderEditable{
		EnvelopeIDs: []uuid.UUID{a.Data.ID, a.Data.ID},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = suite.request(suite.T(), http.MethodPost, "http://example.com/v1/envelopes/reorder", v1.ReorderEditable{
		EnvelopeIDs: []uuid.UUID{uuid.New()},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestEnvelopesDelete() {
	e := suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{})

	r := suite.request(suite.T(), http.MethodDelete, e.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.request(suite.T(), http.MethodGet, e.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	// The name can be used again
	suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: e.Data.Name})
}

func (suite *TestSuiteStandard) TestEnvelopesDeleteWithAllocation() {
	e := suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{})
	instance := suite.currentInstance(suite.T())
	suite.fill(suite.T(), instance, []v1.AllocationEditable{{EnvelopeID: e.Data.ID, AllocatedAmount: decimal.NewFromInt(100)}})

	r := suite.request(suite.T(), http.MethodDelete, e.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestEnvelopesWithdraw() {
	e := suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{IsRollover: true})

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"No pay cycle", v1.WithdrawEditable{Amount: decimal.NewFromInt(10)}, http.StatusBadRequest},
		{"Not positive", v1.WithdrawEditable{Amount: decimal.Zero}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.request(t, http.MethodPost, e.Data.Links.Withdraw, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}

	instance := suite.currentInstance(suite.T())
	suite.fill(suite.T(), instance, []v1.AllocationEditable{{EnvelopeID: e.Data.ID, AllocatedAmount: decimal.NewFromInt(100)}})

	// The cookie jar is empty
	r := suite.request(suite.T(), http.MethodPost, e.Data.Links.Withdraw, v1.WithdrawEditable{Amount: decimal.NewFromInt(10)})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.WithdrawResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Contains(suite.T(), *response.Error, "cookie jar")
}

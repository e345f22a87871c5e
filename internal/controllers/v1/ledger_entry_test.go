package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	v1 "github.com/sahod-planner/backend/internal/controllers/v1"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/sahod-planner/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) createTestLedgerEntry(t *testing.T, e v1.LedgerEntryEditable, expectedStatus ...int) v1.LedgerEntryCreateResponse {
	if e.Type == "" {
		e.Type = models.EntryExpense
	}

	if e.Amount.IsZero() {
		e.Amount = decimal.NewFromInt(100)
	}

	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := suite.request(t, http.MethodPost, "http://example.com/v1/ledger-entries", []v1.LedgerEntryEditable{e})
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.LedgerEntryCreateResponse
	test.DecodeResponse(t, &r, &response)
	return response
}

func (suite *TestSuiteStandard) TestLedgerEntriesCreate() {
	e := suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: "Food"})
	instance := suite.currentInstance(suite.T())
	suite.fill(suite.T(), instance, []v1.AllocationEditable{{EnvelopeID: e.Data.ID, AllocatedAmount: decimal.NewFromInt(1000)}})

	response := suite.createTestLedgerEntry(suite.T(), v1.LedgerEntryEditable{
		Date:        instance.PeriodStart,
		Amount:      decimal.NewFromInt(250),
		Description: "  Lunch ",
		EnvelopeID:  &e.Data.ID,
	})

	require.Len(suite.T(), response.Data, 1)
	entry := response.Data[0].Data
	assert.Equal(suite.T(), "Lunch", entry.Description)
	assert.Equal(suite.T(), e.Data.Links.Self, entry.Links.Envelope)
	assert.Empty(suite.T(), entry.Links.Instance)
	assert.Len(suite.T(), response.Warnings, 0)

	// Spending of the current period is refreshed
	r := suite.request(suite.T(), http.MethodGet, e.Data.Links.Self, "")
	var detail v1.EnvelopeDetailResponse
	test.DecodeResponse(suite.T(), &r, &detail)
	require.NotNil(suite.T(), detail.Data.Allocation)
	assert.True(suite.T(), decimal.NewFromInt(250).Equal(detail.Data.Allocation.Spent))
	assert.True(suite.T(), decimal.NewFromInt(750).Equal(detail.Data.Allocation.Remaining))
	require.Len(suite.T(), detail.Data.Entries, 1)
	assert.Equal(suite.T(), entry.ID, detail.Data.Entries[0].ID)
}

func (suite *TestSuiteStandard) TestLedgerEntriesCreateFails() {
	date := suite.currentInstance(suite.T()).PeriodStart
	unknown := uuid.New()

	tests := []struct {
		name     string
		editable v1.LedgerEntryEditable
		status   int
	}{
		{"Negative amount", v1.LedgerEntryEditable{Date: date, Amount: decimal.NewFromInt(-3)}, http.StatusBadRequest},
		{"Unknown type", v1.LedgerEntryEditable{Date: date, Type: "transfer"}, http.StatusBadRequest},
		{"Unknown envelope", v1.LedgerEntryEditable{Date: date, EnvelopeID: &unknown}, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			response := suite.createTestLedgerEntry(t, tt.editable, tt.status)
			require.Len(t, response.Data, 1)
			assert.NotNil(t, response.Data[0].Error)
		})
	}

	r := suite.request(suite.T(), http.MethodPost, "http://example.com/v1/ledger-entries", `[{ "amount": true }]`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestLedgerEntriesGet() {
	food := suite.createTestEnvelope(suite.T(), v1.EnvelopeEditable{Name: "Food"})
	date := suite.currentInstance(suite.T()).PeriodStart

	suite.createTestLedgerEntry(suite.T(), v1.LedgerEntryEditable{Date: date, Amount: decimal.NewFromInt(100), Description: "Rice", Category: "Groceries", EnvelopeID: &food.Data.ID})
	suite.createTestLedgerEntry(suite.T(), v1.LedgerEntryEditable{Date: date, Amount: decimal.NewFromInt(300), Description: "Fare", Category: "Transport"})
	suite.createTestLedgerEntry(suite.T(), v1.LedgerEntryEditable{Date: date, Amount: decimal.NewFromInt(20000), Type: models.EntryIncome, Description: "Pay", Category: "Salary"})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"Expenses", "type=expense", 2},
		{"Income", "type=income", 1},
		{"Envelope", fmt.Sprintf("envelope=%s", food.Data.ID), 1},
		{"Category glob", "category=gro*", 1},
		{"Description", "description=Fare", 1},
		{"Amount range", "amountMoreOrEqual=200&amountLessOrEqual=1000", 1},
		{"Unlinked", "unlinked=true", 3},
		{"Limit", "limit=2", 2},
		{"Offset", "offset=2", 1},
		{"Date range", fmt.Sprintf("from=%s&until=%s", date, date), 3},
		{"Before all entries", fmt.Sprintf("until=%s", date.AddDays(-1)), 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.request(t, http.MethodGet, "http://example.com/v1/ledger-entries?"+tt.query, "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.LedgerEntryListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.len)
			assert.Equal(t, tt.len, response.Pagination.Count)
			assert.NotNil(t, response.Posted)
			assert.NotNil(t, response.Warnings)
		})
	}
}

func (suite *TestSuiteStandard) TestLedgerEntriesGetInvalidFilter() {
	tests := []string{
		"type=transfer",
		"envelope=nope",
		"from=yesterday",
		"limit=-1",
	}

	for _, tt := range tests {
		suite.T().Run(tt, func(t *testing.T) {
			r := suite.request(t, http.MethodGet, "http://example.com/v1/ledger-entries?"+tt, "")
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		})
	}
}

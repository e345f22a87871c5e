package sahod_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestRecordEntryRefreshesSpent() {
	suite.createPayCycle(15)
	instance := suite.currentInstance()
	food := suite.createEnvelope("Food", false)
	suite.fill(instance, map[uuid.UUID]int64{food.ID: 1000})

	entry, warnings, err := suite.engine.RecordEntry(suite.T().Context(), suite.owner, models.LedgerEntry{
		Date:        d(2025, time.March, 18),
		Amount:      decimal.NewFromInt(250),
		Type:        models.EntryExpense,
		Description: "Market",
		EnvelopeID:  &food.ID,
	})
	require.Nil(suite.T(), err)
	assert.Empty(suite.T(), warnings)
	assert.Equal(suite.T(), suite.owner, entry.OwnerID)

	allocations, err := suite.engine.InstanceAllocations(suite.T().Context(), suite.owner, instance.ID)
	require.Nil(suite.T(), err)
	require.Len(suite.T(), allocations, 1)
	assert.True(suite.T(), decimal.NewFromInt(250).Equal(allocations[0].CachedSpent), "spent is %s", allocations[0].CachedSpent)
}

func (suite *TestSuiteStandard) TestRecordEntryIgnoresLinks() {
	suite.createPayCycle(15)
	instance := suite.currentInstance()
	rule := uuid.New()

	entry, _, err := suite.engine.RecordEntry(suite.T().Context(), suite.owner, models.LedgerEntry{
		Date:             d(2025, time.March, 15),
		Amount:           decimal.NewFromInt(30000),
		Type:             models.EntryIncome,
		Description:      "Salary",
		PeriodInstanceID: &instance.ID,
		RecurringRuleID:  &rule,
	})
	require.Nil(suite.T(), err)
	assert.Nil(suite.T(), entry.PeriodInstanceID, "instances are only linked through confirmation")
	assert.Nil(suite.T(), entry.RecurringRuleID, "rule links are only set by reconciliation")
}

func (suite *TestSuiteStandard) TestRecordEntryUnknownEnvelope() {
	unknown := uuid.New()

	_, _, err := suite.engine.RecordEntry(suite.T().Context(), suite.owner, models.LedgerEntry{
		Date:       d(2025, time.March, 18),
		Amount:     decimal.NewFromInt(250),
		Type:       models.EntryExpense,
		EnvelopeID: &unknown,
	})
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestRecordEntryInvalid() {
	_, _, err := suite.engine.RecordEntry(suite.T().Context(), suite.owner, models.LedgerEntry{
		Date:   d(2025, time.March, 18),
		Amount: decimal.NewFromInt(-5),
		Type:   models.EntryExpense,
	})
	assert.ErrorIs(suite.T(), err, models.ErrValidation)
}

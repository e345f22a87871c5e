package sahod_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestDashboard() {
	suite.createPayCycle(15)
	instance := suite.currentInstance()
	food := suite.createEnvelope("Food", false)
	rent := suite.createEnvelope("Rent", false)
	suite.createEnvelope("Unallocated", false)
	suite.fill(instance, map[uuid.UUID]int64{food.ID: 1000, rent.ID: 500})
	suite.spend(food, d(2025, time.March, 16), 300)
	suite.spend(rent, d(2025, time.March, 17), 600)

	dashboard, err := suite.engine.Dashboard(suite.T().Context(), suite.owner)
	require.Nil(suite.T(), err)
	assert.Empty(suite.T(), dashboard.Warnings)

	assert.False(suite.T(), dashboard.NeedsSetup)
	assert.True(suite.T(), dashboard.NeedsConfirmation)
	assert.False(suite.T(), dashboard.IsLocked)
	assert.Equal(suite.T(), 26, dashboard.DaysRemaining)

	require.NotNil(suite.T(), dashboard.NextPayday)
	assert.Equal(suite.T(), d(2025, time.April, 15), dashboard.NextPayday.Date)
	assert.Equal(suite.T(), 26, dashboard.NextPayday.DaysUntil)
	assert.False(suite.T(), dashboard.NextPayday.IsToday)

	s := dashboard.Summary
	assert.True(suite.T(), decimal.NewFromInt(1500).Equal(s.TotalAllocated), s.TotalAllocated.String())
	assert.True(suite.T(), decimal.NewFromInt(900).Equal(s.TotalSpent), s.TotalSpent.String())
	assert.True(suite.T(), decimal.NewFromInt(600).Equal(s.TotalRemaining), s.TotalRemaining.String())
	assert.True(suite.T(), decimal.RequireFromString("23.08").Equal(s.SafeDailySpend), s.SafeDailySpend.String())
	assert.True(suite.T(), decimal.NewFromInt(5).Equal(s.AllocationPercentage), s.AllocationPercentage.String())

	require.Len(suite.T(), dashboard.Envelopes, 3)

	f := dashboard.Envelopes[0]
	assert.Equal(suite.T(), "Food", f.Envelope.Name)
	assert.True(suite.T(), decimal.NewFromInt(30).Equal(f.PercentageSpent), f.PercentageSpent.String())
	assert.False(suite.T(), f.IsOverBudget)

	r := dashboard.Envelopes[1]
	assert.True(suite.T(), decimal.NewFromInt(120).Equal(r.PercentageSpent), r.PercentageSpent.String())
	assert.True(suite.T(), r.IsOverBudget)
	assert.True(suite.T(), decimal.NewFromInt(-100).Equal(r.Remaining))

	u := dashboard.Envelopes[2]
	assert.Nil(suite.T(), u.AllocationID)
	assert.True(suite.T(), u.Allocated.IsZero())
}

func (suite *TestSuiteStandard) TestDashboardPaydayToday() {
	suite.createPayCycle(15)
	suite.confirm(suite.currentInstance())
	suite.setToday(d(2025, time.April, 15))

	dashboard, err := suite.engine.Dashboard(suite.T().Context(), suite.owner)
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), d(2025, time.April, 15), dashboard.Instance.PeriodStart)
	assert.True(suite.T(), dashboard.NeedsConfirmation)
	assert.Equal(suite.T(), d(2025, time.May, 15), dashboard.NextPayday.Date)
	assert.Equal(suite.T(), 30, dashboard.NextPayday.DaysUntil)
}

func (suite *TestSuiteStandard) TestDashboardNeedsSetup() {
	dashboard, err := suite.engine.Dashboard(suite.T().Context(), suite.owner)
	require.Nil(suite.T(), err)
	assert.True(suite.T(), dashboard.NeedsSetup)
	assert.Empty(suite.T(), dashboard.Envelopes)
}

package sahod_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/sahod-planner/backend/internal/period"
	"github.com/sahod-planner/backend/internal/sahod"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestCreatePayCycle() {
	cycle := suite.createPayCycle(15)
	assert.Equal(suite.T(), models.DefaultPayCycleName, cycle.Name)
	assert.Equal(suite.T(), suite.owner, cycle.OwnerID)
	assert.True(suite.T(), cycle.Active)

	cycles, err := suite.engine.PayCycles(suite.T().Context(), suite.owner)
	require.Nil(suite.T(), err)
	assert.Len(suite.T(), cycles, 1)

	cycles, err = suite.engine.PayCycles(suite.T().Context(), uuid.New())
	require.Nil(suite.T(), err)
	assert.Len(suite.T(), cycles, 0)
}

func (suite *TestSuiteStandard) TestCreatePayCycleInvalid() {
	_, err := suite.engine.CreatePayCycle(suite.T().Context(), suite.owner, models.PayCycle{
		Frequency:      period.Bimonthly,
		PayDay1:        intPtr(15),
		ExpectedAmount: decimal.NewFromInt(15000),
	})
	assert.ErrorIs(suite.T(), err, models.ErrValidation, "bimonthly pay cycles need both pay days")
}

func (suite *TestSuiteStandard) TestUpdatePayCycleInvalidatesUnconfirmed() {
	cycle := suite.createPayCycle(15)
	stale := suite.currentInstance()

	updated, err := suite.engine.UpdatePayCycle(suite.T().Context(), suite.owner, cycle.ID, models.PayCycle{
		PayDay1:        intPtr(18),
		ExpectedAmount: decimal.NewFromInt(32000),
	}, sahod.PayCyclePayDay1, sahod.PayCycleExpectedAmount)
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), 18, *updated.PayDay1)

	_, err = suite.engine.Instance(suite.T().Context(), suite.owner, stale.ID)
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)

	fresh := suite.currentInstance()
	assert.Equal(suite.T(), d(2025, time.March, 18), fresh.PeriodStart)
	assert.True(suite.T(), decimal.NewFromInt(32000).Equal(fresh.ExpectedAmount))
}

func (suite *TestSuiteStandard) TestUpdatePayCycleKeepsConfirmed() {
	cycle := suite.createPayCycle(15)
	confirmed := suite.confirm(suite.currentInstance())

	_, err := suite.engine.UpdatePayCycle(suite.T().Context(), suite.owner, cycle.ID, models.PayCycle{PayDay1: intPtr(18)}, sahod.PayCyclePayDay1)
	require.Nil(suite.T(), err)

	current := suite.currentInstance()
	assert.Equal(suite.T(), confirmed.ID, current.ID)
	assert.Equal(suite.T(), d(2025, time.March, 15), current.PeriodStart)
	assert.Equal(suite.T(), d(2025, time.April, 14), current.PeriodEnd)
}

func (suite *TestSuiteStandard) TestUpdatePayCycleNameKeepsInstances() {
	cycle := suite.createPayCycle(15)
	instance := suite.currentInstance()

	_, err := suite.engine.UpdatePayCycle(suite.T().Context(), suite.owner, cycle.ID, models.PayCycle{Name: "Main job"}, sahod.PayCycleName)
	require.Nil(suite.T(), err)

	assert.Equal(suite.T(), instance.ID, suite.currentInstance().ID)
}

func (suite *TestSuiteStandard) TestUpdatePayCycleInvalid() {
	cycle := suite.createPayCycle(15)

	_, err := suite.engine.UpdatePayCycle(suite.T().Context(), suite.owner, cycle.ID, models.PayCycle{Frequency: period.Bimonthly}, sahod.PayCycleFrequency)
	assert.ErrorIs(suite.T(), err, models.ErrValidation)

	_, err = suite.engine.UpdatePayCycle(suite.T().Context(), uuid.New(), cycle.ID, models.PayCycle{Name: "x"}, sahod.PayCycleName)
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestDeletePayCycle() {
	cycle := suite.createPayCycle(15)
	instance := suite.currentInstance()

	require.Nil(suite.T(), suite.engine.DeletePayCycle(suite.T().Context(), suite.owner, cycle.ID))

	current, err := suite.engine.CurrentInstance(suite.T().Context(), suite.owner, nil)
	require.Nil(suite.T(), err)
	assert.True(suite.T(), current.NeedsSetup)

	// Instances of deleted pay cycles are kept for history
	_, err = suite.engine.Instance(suite.T().Context(), suite.owner, instance.ID)
	assert.Nil(suite.T(), err)

	deleted, err := suite.engine.PayCycle(suite.T().Context(), suite.owner, cycle.ID)
	require.Nil(suite.T(), err)
	assert.False(suite.T(), deleted.Active)

	err = suite.engine.DeletePayCycle(suite.T().Context(), suite.owner, cycle.ID)
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

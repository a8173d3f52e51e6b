package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nutricoach/nutricoach-backend/internal/models"
	"github.com/nutricoach/nutricoach-backend/internal/service"
	"github.com/nutricoach/nutricoach-backend/internal/testhelpers"
	"github.com/nutricoach/nutricoach-backend/internal/types"
)

func TestProtocolLifecycle(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewProtocolService(db)

	protocol, err := svc.CreateProtocol(ctx, &types.ProtocolRequest{Name: " Low FODMAP ", Description: "Elimination phase"})
	require.NoError(t, err)
	assert.Equal(t, "Low FODMAP", protocol.Name)

	_, err = svc.CreateProtocol(ctx, &types.ProtocolRequest{Name: "Low FODMAP"})
	assert.ErrorIs(t, err, service.ErrProtocolExists)

	minFiber := 30.0
	target, err := svc.AddTarget(ctx, protocol.ID, &types.ProtocolTargetRequest{
		Nutrient: "Fiber", MinAmount: &minFiber, Unit: "g",
	})
	require.NoError(t, err)
	assert.Equal(t, "fiber", target.Nutrient)

	_, err = svc.AddSupplement(ctx, protocol.ID, &types.ProtocolSupplementRequest{
		Name: "Vitamin D", Dose: "10ug", Timing: "morning",
	})
	require.NoError(t, err)

	rule, err := svc.AddRule(ctx, protocol.ID, &types.ProtocolRuleRequest{
		Term: "Garlic", Action: models.RuleActionAvoid,
	})
	require.NoError(t, err)
	assert.Equal(t, "garlic", rule.Term)
	// Priority defaults when omitted.
	assert.Equal(t, 50, rule.Priority)

	loaded, err := svc.GetProtocol(ctx, protocol.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Targets, 1)
	assert.Len(t, loaded.Supplements, 1)
	assert.Len(t, loaded.Rules, 1)

	require.NoError(t, svc.DeleteRule(ctx, protocol.ID, rule.ID))
	assert.ErrorIs(t, svc.DeleteRule(ctx, protocol.ID, rule.ID), gorm.ErrRecordNotFound)
}

func TestProtocolAssignment(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewProtocolService(db)
	household := createHousehold(t, db, "Assigned")

	protocol, err := svc.CreateProtocol(ctx, &types.ProtocolRequest{Name: "Renal"})
	require.NoError(t, err)

	require.NoError(t, svc.AssignToHousehold(ctx, protocol.ID, household.ID))
	// Assigning twice is a no-op.
	require.NoError(t, svc.AssignToHousehold(ctx, protocol.ID, household.ID))

	var count int64
	require.NoError(t, db.Model(&models.HouseholdProtocol{}).
		Where("household_id = ?", household.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.NoError(t, svc.UnassignFromHousehold(ctx, protocol.ID, household.ID))
	assert.ErrorIs(t, svc.UnassignFromHousehold(ctx, protocol.ID, household.ID), gorm.ErrRecordNotFound)
}

func TestDeleteProtocolCascades(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewProtocolService(db)
	household := createHousehold(t, db, "Cascade")

	protocol, err := svc.CreateProtocol(ctx, &types.ProtocolRequest{Name: "Cardiac"})
	require.NoError(t, err)

	_, err = svc.AddRule(ctx, protocol.ID, &types.ProtocolRuleRequest{Term: "salt", Action: models.RuleActionLimit})
	require.NoError(t, err)
	require.NoError(t, svc.AssignToHousehold(ctx, protocol.ID, household.ID))

	require.NoError(t, svc.DeleteProtocol(ctx, protocol.ID))

	var rules int64
	require.NoError(t, db.Model(&models.ProtocolRule{}).Where("protocol_id = ?", protocol.ID).Count(&rules).Error)
	assert.Zero(t, rules)

	var assignments int64
	require.NoError(t, db.Model(&models.HouseholdProtocol{}).Where("protocol_id = ?", protocol.ID).Count(&assignments).Error)
	assert.Zero(t, assignments)
}

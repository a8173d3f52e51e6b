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

func TestConstraintDefaults(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewRulesService(db)

	constraint, err := svc.CreateConstraint(ctx, &types.ConstraintRequest{
		DietCategory: " Low Sodium ",
		Category:     "Processed  Meats",
		Action:       models.RuleActionAvoid,
	})
	require.NoError(t, err)
	assert.Equal(t, "low sodium", constraint.DietCategory)
	assert.Equal(t, "processed meats", constraint.Category)
	assert.Equal(t, 10, constraint.Priority)
}

func TestListConstraintsFiltersByDiet(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewRulesService(db)

	_, err := svc.CreateConstraint(ctx, &types.ConstraintRequest{
		DietCategory: "low sodium", Category: "canned soups", Action: models.RuleActionLimit,
	})
	require.NoError(t, err)
	_, err = svc.CreateConstraint(ctx, &types.ConstraintRequest{
		DietCategory: "diabetic", Category: "sweets", Action: models.RuleActionAvoid, Priority: 20,
	})
	require.NoError(t, err)

	all, err := svc.ListConstraints(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.ListConstraints(ctx, "Diabetic")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "sweets", filtered[0].Category)
}

func TestAdaptationRuleNormalization(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewRulesService(db)

	rule, err := svc.CreateAdaptationRule(ctx, &types.AdaptationRuleRequest{
		DietCategory: "Diabetic",
		Term:         "  Sugar ",
		Replacement:  "Stevia",
		Action:       models.RuleActionSwap,
	})
	require.NoError(t, err)
	assert.Equal(t, "sugar", rule.Term)
	assert.Equal(t, "stevia", rule.Replacement)
	assert.Equal(t, 10, rule.Priority)
}

func TestAvoidRulesAreHouseholdScoped(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewRulesService(db)

	owner := createHousehold(t, db, "Owner")
	other := createHousehold(t, db, "Other")

	rule, err := svc.CreateAvoidRule(ctx, owner.ID, &types.AvoidRuleRequest{
		Term: "Peanut", Reason: "allergy", Severity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "peanut", rule.Term)

	_, err = svc.UpdateAvoidRule(ctx, other.ID, rule.ID, &types.AvoidRuleRequest{
		Term: "peanut", Severity: 1,
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, svc.DeleteAvoidRule(ctx, other.ID, rule.ID), gorm.ErrRecordNotFound)

	rules, err := svc.ListAvoidRules(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, rules, 1)

	require.NoError(t, svc.DeleteAvoidRule(ctx, owner.ID, rule.ID))
}

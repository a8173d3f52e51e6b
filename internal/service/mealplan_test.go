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

func createHousehold(t *testing.T, db *gorm.DB, name string) *models.Household {
	t.Helper()
	household := models.Household{Name: name}
	require.NoError(t, db.Create(&household).Error)
	return &household
}

func TestCreatePlan(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewMealPlanService(db)
	household := createHousehold(t, db, "Planners")

	plan, err := svc.CreatePlan(ctx, household.ID, &types.MealPlanRequest{
		Name:    "Week 1",
		NumDays: 5,
		Meals: []types.PlannedMealEntry{
			{Day: 1, Slot: models.SlotBreakfast, MealName: "Oatmeal"},
			{Day: 1, Slot: models.SlotDinner, MealName: "Stir-fry"},
			{Day: 5, Slot: models.SlotDinner, MealName: "Soup"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, plan.NumDays)
	assert.Len(t, plan.Meals, 3)

	loaded, err := svc.GetPlan(ctx, household.ID, plan.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Meals, 3)
	assert.Equal(t, 1, loaded.Meals[0].Day)
}

func TestCreatePlanRejectsOutOfRangeDay(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewMealPlanService(db)
	household := createHousehold(t, db, "Planners")

	_, err := svc.CreatePlan(ctx, household.ID, &types.MealPlanRequest{
		Name:    "Broken",
		NumDays: 3,
		Meals: []types.PlannedMealEntry{
			{Day: 4, Slot: models.SlotDinner, MealName: "Soup"},
		},
	})
	assert.ErrorIs(t, err, service.ErrMealOutOfRange)
}

func TestGetPlanScopedToHousehold(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewMealPlanService(db)

	owner := createHousehold(t, db, "Owner")
	other := createHousehold(t, db, "Other")

	plan, err := svc.CreatePlan(ctx, owner.ID, &types.MealPlanRequest{Name: "Mine", NumDays: 2})
	require.NoError(t, err)

	_, err = svc.GetPlan(ctx, other.ID, plan.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeletePlanRemovesMeals(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewMealPlanService(db)
	household := createHousehold(t, db, "Planners")

	plan, err := svc.CreatePlan(ctx, household.ID, &types.MealPlanRequest{
		Name:    "Doomed",
		NumDays: 2,
		Meals: []types.PlannedMealEntry{
			{Day: 1, Slot: models.SlotLunch, MealName: "Salad"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePlan(ctx, household.ID, plan.ID))

	var count int64
	require.NoError(t, db.Model(&models.PlannedMeal{}).Where("plan_id = ?", plan.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGeneratorSettingsDefaultsAndUpsert(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewMealPlanService(db)
	household := createHousehold(t, db, "Settings")

	defaults, err := svc.GetSettings(ctx, household.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, defaults.RepeatWindowDays)
	assert.Equal(t, 7, defaults.MinVegetablesPerWeek)
	assert.Equal(t, 4, defaults.MinProteinsPerWeek)

	updated, err := svc.UpsertSettings(ctx, household.ID, &types.GeneratorSettingsRequest{
		RepeatWindowDays:     5,
		MinVegetablesPerWeek: 10,
		MinFruitsPerWeek:     5,
		MinProteinsPerWeek:   6,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.RepeatWindowDays)

	again, err := svc.GetSettings(ctx, household.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, again.MinVegetablesPerWeek)

	// Upsert is idempotent on the household row.
	_, err = svc.UpsertSettings(ctx, household.ID, &types.GeneratorSettingsRequest{
		RepeatWindowDays:     2,
		MinVegetablesPerWeek: 8,
		MinFruitsPerWeek:     5,
		MinProteinsPerWeek:   6,
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.GeneratorSettings{}).Where("household_id = ?", household.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertSettingsStoresZeroTargets(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewMealPlanService(db)
	household := createHousehold(t, db, "No Fruit")

	// Zero disables a bucket and must survive the write untouched.
	saved, err := svc.UpsertSettings(ctx, household.ID, &types.GeneratorSettingsRequest{
		RepeatWindowDays:     3,
		MinVegetablesPerWeek: 7,
		MinFruitsPerWeek:     0,
		MinProteinsPerWeek:   0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, saved.MinFruitsPerWeek)

	back, err := svc.GetSettings(ctx, household.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, back.MinFruitsPerWeek)
	assert.Equal(t, 0, back.MinProteinsPerWeek)
	assert.Equal(t, 7, back.MinVegetablesPerWeek)
}

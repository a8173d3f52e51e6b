package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nutricoach/nutricoach-backend/internal/service"
	"github.com/nutricoach/nutricoach-backend/internal/testhelpers"
	"github.com/nutricoach/nutricoach-backend/internal/types"
)

func TestGenerateEmbedding(t *testing.T) {
	// "lentil soup": 2 words, 10 letters, 9 distinct (the second "l" repeats).
	vec := service.GenerateEmbedding("lentil soup")
	require.Len(t, vec.Slice(), 3)
	assert.Equal(t, float32(2), vec.Slice()[0])
	assert.Equal(t, float32(10), vec.Slice()[1])
	assert.Equal(t, float32(9), vec.Slice()[2])

	// Deterministic and case-insensitive.
	assert.Equal(t, service.GenerateEmbedding("Pasta"), service.GenerateEmbedding("pasta"))
}

func TestRecipeCRUD(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewRecipeService(db)
	userID := uuid.New()

	recipe, err := svc.CreateRecipe(ctx, userID, &types.RecipeRequest{
		Name:        " Lentil Curry ",
		Description: "Weeknight staple",
		Category:    "  Main  Course ",
		Ingredients: []string{"lentils", "coconut milk", "curry paste"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Lentil Curry", recipe.Name)
	assert.Equal(t, "main course", recipe.Category)
	assert.Equal(t, userID, recipe.CreatedBy)
	assert.Len(t, recipe.Embedding.Slice(), 3)

	updated, err := svc.UpdateRecipe(ctx, recipe.ID, &types.RecipeRequest{
		Name:        "Red Lentil Curry",
		Ingredients: []string{"red lentils", "coconut milk"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Red Lentil Curry", updated.Name)
	assert.NotEqual(t, recipe.Embedding, updated.Embedding)

	require.NoError(t, svc.DeleteRecipe(ctx, recipe.ID))
	_, err = svc.GetRecipe(ctx, recipe.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSearchRecipes(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewRecipeService(db)
	userID := uuid.New()

	_, err := svc.CreateRecipe(ctx, userID, &types.RecipeRequest{
		Name: "Lentil Curry", Category: "main", Ingredients: []string{"lentils"},
	})
	require.NoError(t, err)
	_, err = svc.CreateRecipe(ctx, userID, &types.RecipeRequest{
		Name: "Apple Pie", Category: "dessert", Ingredients: []string{"apples", "flour"},
	})
	require.NoError(t, err)

	found, err := svc.SearchRecipes(ctx, service.SearchOptions{Query: "curry"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Lentil Curry", found[0].Name)

	byCategory, err := svc.SearchRecipes(ctx, service.SearchOptions{Category: "Dessert"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Apple Pie", byCategory[0].Name)
}

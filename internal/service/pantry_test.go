package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nutricoach/nutricoach-backend/internal/models"
	"github.com/nutricoach/nutricoach-backend/internal/service"
	"github.com/nutricoach/nutricoach-backend/internal/testhelpers"
	"github.com/nutricoach/nutricoach-backend/internal/types"
)

func TestAddPantryItemDefaults(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewPantryService(db)
	household := createHousehold(t, db, "Pantry")

	item, err := svc.AddItem(ctx, household.ID, &types.PantryItemRequest{Name: " Oats "})
	require.NoError(t, err)
	assert.Equal(t, "Oats", item.Name)
	assert.Equal(t, 1.0, item.Quantity)
	assert.Equal(t, models.PantrySourceManual, item.Source)
}

func TestPantryItemsScopedToHousehold(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewPantryService(db)

	owner := createHousehold(t, db, "Owner")
	other := createHousehold(t, db, "Other")

	item, err := svc.AddItem(ctx, owner.ID, &types.PantryItemRequest{Name: "Milk", Quantity: 2, Unit: "l"})
	require.NoError(t, err)

	_, err = svc.GetItem(ctx, other.ID, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = svc.DeleteItem(ctx, other.ID, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	items, err := svc.ListItems(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListPantryItemsOrdersByExpiry(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewPantryService(db)
	household := createHousehold(t, db, "Pantry")

	soon := time.Now().Add(24 * time.Hour)
	later := time.Now().Add(30 * 24 * time.Hour)

	_, err := svc.AddItem(ctx, household.ID, &types.PantryItemRequest{Name: "Rice"})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, household.ID, &types.PantryItemRequest{Name: "Yogurt", ExpiresAt: &soon, Source: models.PantrySourceBarcode})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, household.ID, &types.PantryItemRequest{Name: "Cheese", ExpiresAt: &later})
	require.NoError(t, err)

	items, err := svc.ListItems(ctx, household.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Yogurt", items[0].Name)
	assert.Equal(t, "Cheese", items[1].Name)
	// No expiry date sorts last.
	assert.Equal(t, "Rice", items[2].Name)
}

func TestUpdatePantryItem(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewPantryService(db)
	household := createHousehold(t, db, "Pantry")

	item, err := svc.AddItem(ctx, household.ID, &types.PantryItemRequest{Name: "Beans", Quantity: 3, Unit: "cans"})
	require.NoError(t, err)

	updated, err := svc.UpdateItem(ctx, household.ID, item.ID, &types.PantryItemRequest{
		Name: "Black Beans", Quantity: 2, Unit: "cans",
	})
	require.NoError(t, err)
	assert.Equal(t, "Black Beans", updated.Name)
	assert.Equal(t, 2.0, updated.Quantity)
	// Source is preserved when the request omits it.
	assert.Equal(t, models.PantrySourceManual, updated.Source)
}

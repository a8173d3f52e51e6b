package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutricoach/nutricoach-backend/internal/models"
	"github.com/nutricoach/nutricoach-backend/internal/service"
	"github.com/nutricoach/nutricoach-backend/internal/testhelpers"
)

func TestNevoImportRows(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewNevoService(db, "")

	rows := []service.NevoRow{
		{Code: 1001, Name: "Broccoli raw", FoodGroup: "Vegetables", Kcal: 34, Protein: 2.8},
		{Code: 1002, Name: "Apple with skin", FoodGroup: "Fruits", Kcal: 52},
		{Code: 0, Name: "No code"},
		{Code: 1003, Name: ""},
	}

	result, err := svc.ImportRows(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 2, result.Skipped)

	var ing models.Ingredient
	require.NoError(t, db.Where("nevo_code = ?", 1001).First(&ing).Error)
	assert.Equal(t, "broccoli raw", ing.Name)
	assert.Equal(t, "Broccoli raw", ing.DisplayName)
	assert.Equal(t, "vegetables", ing.Category)
	assert.Equal(t, 34.0, ing.KcalPer100g)
}

func TestNevoImportUpdatesExisting(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	svc := service.NewNevoService(db, "")

	_, err := svc.ImportRows(ctx, []service.NevoRow{
		{Code: 1001, Name: "Broccoli raw", Kcal: 34},
	})
	require.NoError(t, err)

	result, err := svc.ImportRows(ctx, []service.NevoRow{
		{Code: 1001, Name: "Broccoli raw", Kcal: 35},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Updated)

	var ing models.Ingredient
	require.NoError(t, db.Where("nevo_code = ?", 1001).First(&ing).Error)
	assert.Equal(t, 35.0, ing.KcalPer100g)
}

func TestNevoRefresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"nevo_code":2001,"name":"Whole milk","food_group":"Dairy","energy_kcal":64}]`))
	}))
	defer server.Close()

	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewNevoService(db, server.URL)

	result, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
}

func TestNevoRefreshWithoutURL(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewNevoService(db, "")

	_, err := svc.Refresh(context.Background())
	assert.Error(t, err)
}

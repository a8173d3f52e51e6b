package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	env := setupTestEnv(t)

	w := performRequest(env.Router, "GET", "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "healthy", body["status"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := setupTestEnv(t)

	for _, path := range []string{
		"/api/v1/catalog/ingredients",
		"/api/v1/pantry/items",
		"/api/v1/meal-plans",
		"/api/v1/guardrails/ruleset",
		"/api/v1/protocols",
	} {
		w := performRequest(env.Router, "GET", path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "path %s", path)
	}
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "member@example.com", false)

	ingredient := map[string]interface{}{"name": "broccoli"}
	w := performRequest(env.Router, "POST", "/api/v1/catalog/ingredients", ingredient, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	constraint := map[string]interface{}{
		"diet_category": "Low Sodium",
		"category":      "cured meats",
		"action":        "avoid",
	}
	w = performRequest(env.Router, "POST", "/api/v1/rules/constraints", constraint, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	protocol := map[string]interface{}{"name": "Low-FODMAP"}
	w = performRequest(env.Router, "POST", "/api/v1/protocols", protocol, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCatalogAdminFlow(t *testing.T) {
	env := setupTestEnv(t)
	adminToken := env.registerUser(t, "admin@example.com", true)
	memberToken := env.registerUser(t, "member@example.com", false)

	w := performRequest(env.Router, "POST", "/api/v1/catalog/ingredients", map[string]interface{}{
		"name":          "Broccoli",
		"category":      "Vegetable",
		"kcal_per_100g": 34.0,
	}, adminToken)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)
	assert.Equal(t, "broccoli", created["name"])

	// Duplicate names conflict regardless of casing.
	w = performRequest(env.Router, "POST", "/api/v1/catalog/ingredients", map[string]interface{}{
		"name": "BROCCOLI",
	}, adminToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Reads are open to regular members.
	w = performRequest(env.Router, "GET", "/api/v1/catalog/ingredients", nil, memberToken)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["ingredients"], 1)
}

func TestProductPhotoUnavailableWithoutStorage(t *testing.T) {
	env := setupTestEnv(t)
	adminToken := env.registerUser(t, "admin@example.com", true)

	path := "/api/v1/catalog/products/" + uuid.NewString() + "/photo"
	w := performRequest(env.Router, "POST", path, nil, adminToken)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProtocolAssignFlow(t *testing.T) {
	env := setupTestEnv(t)
	adminToken := env.registerUser(t, "admin@example.com", true)
	memberToken := env.registerUser(t, "member@example.com", false)

	w := performRequest(env.Router, "POST", "/api/v1/protocols", map[string]interface{}{
		"name":        "Low-FODMAP",
		"description": "Elimination phase",
	}, adminToken)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)
	protocolID := created["id"].(string)

	w = performRequest(env.Router, "POST", "/api/v1/protocols", map[string]interface{}{
		"name": "Low-FODMAP",
	}, adminToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = performRequest(env.Router, "POST", "/api/v1/protocols/"+protocolID+"/rules", map[string]interface{}{
		"term":   "Garlic",
		"action": "avoid",
	}, adminToken)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Any household member can assign the protocol to their household.
	w = performRequest(env.Router, "POST", "/api/v1/protocols/"+protocolID+"/assign", nil, memberToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(env.Router, "GET", "/api/v1/protocols/"+protocolID, nil, memberToken)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Low-FODMAP", body["name"])

	w = performRequest(env.Router, "DELETE", "/api/v1/protocols/"+protocolID+"/assign", nil, memberToken)
	assert.Equal(t, http.StatusOK, w.Code)

	// Unassigning twice reports the missing assignment.
	w = performRequest(env.Router, "DELETE", "/api/v1/protocols/"+protocolID+"/assign", nil, memberToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvoidRuleCRUD(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "alice@example.com", false)

	w := performRequest(env.Router, "POST", "/api/v1/guardrails/avoid-rules", map[string]interface{}{
		"term":     "  Peanut ",
		"reason":   "allergy",
		"severity": 5,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)
	assert.Equal(t, "peanut", created["term"])
	ruleID := created["id"].(string)

	w = performRequest(env.Router, "GET", "/api/v1/guardrails/avoid-rules", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["rules"], 1)

	w = performRequest(env.Router, "PUT", "/api/v1/guardrails/avoid-rules/"+ruleID, map[string]interface{}{
		"term":     "peanut",
		"reason":   "severe allergy",
		"severity": 5,
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeBody(t, w)
	assert.Equal(t, "severe allergy", updated["reason"])

	w = performRequest(env.Router, "DELETE", "/api/v1/guardrails/avoid-rules/"+ruleID, nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(env.Router, "GET", "/api/v1/guardrails/avoid-rules", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Empty(t, body["rules"])
}

func TestAvoidRuleUnknownIDReturnsNotFound(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "alice@example.com", false)

	w := performRequest(env.Router, "PUT", "/api/v1/guardrails/avoid-rules/"+uuid.NewString(), map[string]interface{}{
		"term":     "peanut",
		"severity": 3,
	}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(env.Router, "DELETE", "/api/v1/guardrails/avoid-rules/"+uuid.NewString(), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRulesetMergesSourcesByPriority(t *testing.T) {
	env := setupTestEnv(t)
	adminToken := env.registerUser(t, "admin@example.com", true)
	memberToken := env.registerUser(t, "member@example.com", false)

	// Household avoid-rule, always included at top priority.
	w := performRequest(env.Router, "POST", "/api/v1/guardrails/avoid-rules", map[string]interface{}{
		"term":     "shellfish",
		"severity": 4,
	}, memberToken)
	require.Equal(t, http.StatusCreated, w.Code)

	// Catalog constraint, included only when its diet category is requested.
	w = performRequest(env.Router, "POST", "/api/v1/rules/constraints", map[string]interface{}{
		"diet_category": "Low Sodium",
		"category":      "cured meats",
		"action":        "avoid",
		"priority":      20,
	}, adminToken)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(env.Router, "GET", "/api/v1/guardrails/ruleset", nil, memberToken)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	rules := body["rules"].([]interface{})
	require.Len(t, rules, 1)

	w = performRequest(env.Router, "GET", "/api/v1/guardrails/ruleset?diet=low+sodium", nil, memberToken)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	rules = body["rules"].([]interface{})
	require.Len(t, rules, 2)

	first := rules[0].(map[string]interface{})
	second := rules[1].(map[string]interface{})
	assert.Equal(t, "shellfish", first["term"])
	assert.Equal(t, float64(100), first["priority"])
	assert.Equal(t, "cured meats", second["category"])
	assert.Equal(t, "constraint", second["ref"].(map[string]interface{})["kind"])
}

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterAndLoginFlow(t *testing.T) {
	env := setupTestEnv(t)

	w := performRequest(env.Router, "POST", "/api/v1/auth/register", map[string]interface{}{
		"name":           "Alice",
		"email":          "alice@example.com",
		"password":       "supersecret1",
		"household_name": "The Smiths",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])

	w = performRequest(env.Router, "POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "supersecret1",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.NotEmpty(t, body["token"])
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	env := setupTestEnv(t)

	payload := map[string]interface{}{
		"name":           "Alice",
		"email":          "alice@example.com",
		"password":       "supersecret1",
		"household_name": "The Smiths",
	}
	w := performRequest(env.Router, "POST", "/api/v1/auth/register", payload, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	// Same address, different casing.
	payload["email"] = "ALICE@example.com"
	w = performRequest(env.Router, "POST", "/api/v1/auth/register", payload, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := setupTestEnv(t)

	// Password below the minimum length.
	w := performRequest(env.Router, "POST", "/api/v1/auth/register", map[string]interface{}{
		"name":           "Alice",
		"email":          "alice@example.com",
		"password":       "short",
		"household_name": "The Smiths",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing household name.
	w = performRequest(env.Router, "POST", "/api/v1/auth/register", map[string]interface{}{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "supersecret1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	env := setupTestEnv(t)
	env.registerUser(t, "bob@example.com", false)

	w := performRequest(env.Router, "POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    "bob@example.com",
		"password": "not-the-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(env.Router, "POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "testpassword123",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nutricoach/nutricoach-backend/internal/models"
	"github.com/nutricoach/nutricoach-backend/internal/service"
	"github.com/nutricoach/nutricoach-backend/internal/testhelpers"
)

// testEnv bundles the router and services every handler test needs.
type testEnv struct {
	DB          *gorm.DB
	AuthService *service.AuthService
	Router      *gin.Engine
}

// setupTestEnv builds a router with every handler registered against an
// in-memory database. External integrations (Redis, S3, retailer API) are
// left unconfigured; the endpoints that need them degrade the same way they
// do in production.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	authService := service.NewAuthService(db, "test-secret")

	guardrailsService := service.NewGuardrailsService(db)
	rulesService := service.NewRulesService(db)

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	NewAuthHandler(authService).RegisterRoutes(v1)
	NewCatalogHandler(service.NewCatalogService(db), service.NewNevoService(db, ""), nil, authService).RegisterRoutes(v1)
	NewPantryHandler(service.NewPantryService(db), service.NewBarcodeService(nil, ""), service.NewRetailerService("", ""), authService, nil, nil).RegisterRoutes(v1)
	NewRecipeHandler(service.NewRecipeService(db), guardrailsService, authService).RegisterRoutes(v1)
	NewMealPlanHandler(service.NewMealPlanService(db), service.NewVarietyService(db), authService).RegisterRoutes(v1)
	NewGuardrailsHandler(guardrailsService, rulesService, authService).RegisterRoutes(v1)
	NewRulesHandler(rulesService, authService).RegisterRoutes(v1)
	NewProtocolHandler(service.NewProtocolService(db), authService).RegisterRoutes(v1)

	return &testEnv{DB: db, AuthService: authService, Router: router}
}

// registerUser creates a user through the auth service and returns a valid
// token. Admin users get their flag flipped in the database and a fresh
// token, since admin status is baked into the claims.
func (e *testEnv) registerUser(t *testing.T, email string, admin bool) string {
	t.Helper()

	token, err := e.AuthService.Register("Test User", email, "testpassword123", "Test Household")
	require.NoError(t, err)

	if admin {
		err = e.DB.Model(&models.User{}).Where("email = ?", email).Update("is_admin", true).Error
		require.NoError(t, err)
		token, err = e.AuthService.Login(email, "testpassword123")
		require.NoError(t, err)
	}
	return token
}

func performRequest(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

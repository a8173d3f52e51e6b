package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutricoach/nutricoach-backend/internal/models"
	"github.com/nutricoach/nutricoach-backend/internal/service"
	"github.com/nutricoach/nutricoach-backend/internal/testhelpers"
)

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")

	token, err := svc.Register("Alice", "alice@example.com", "supersecret", "The Smiths")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin)
	assert.NotEqual(t, claims.UserID, claims.HouseholdID)

	var user models.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&user).Error)
	assert.Equal(t, claims.UserID, user.ID)
	assert.Equal(t, claims.HouseholdID, user.HouseholdID)

	var household models.Household
	require.NoError(t, db.First(&household, "id = ?", user.HouseholdID).Error)
	assert.Equal(t, "The Smiths", household.Name)

	loginToken, err := svc.Login("Alice@Example.com ", "supersecret")
	require.NoError(t, err)
	require.NotEmpty(t, loginToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")

	_, err := svc.Register("Alice", "alice@example.com", "supersecret", "Home")
	require.NoError(t, err)

	_, err = svc.Register("Other Alice", "ALICE@example.com", "differentpw", "Other Home")
	assert.ErrorIs(t, err, service.ErrUserExists)
}

func TestLoginWrongPassword(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")

	_, err := svc.Register("Alice", "alice@example.com", "supersecret", "Home")
	require.NoError(t, err)

	_, err = svc.Login("alice@example.com", "wrongpassword")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "supersecret")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestValidateTokenRejectsForgedSignature(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)

	issuer := service.NewAuthService(db, "secret-a")
	verifier := service.NewAuthService(db, "secret-b")

	token, err := issuer.Register("Alice", "alice@example.com", "supersecret", "Home")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

package auth_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loksangam/internal/auth"
	"loksangam/internal/models"
)

func TestIssueAndParseToken(t *testing.T) {
	user := &models.User{ID: 7, Email: "alice@x.com", Role: models.RoleAdmin}

	token, tokenID, err := auth.IssueToken("test-secret", user, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, tokenID)

	claims, err := auth.ParseToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, tokenID, claims.ID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	user := &models.User{ID: 7, Role: models.RoleUser}
	token, _, err := auth.IssueToken("test-secret", user, time.Hour)
	require.NoError(t, err)

	_, err = auth.ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	user := &models.User{ID: 7, Role: models.RoleUser}
	token, _, err := auth.IssueToken("test-secret", user, -time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseToken("test-secret", token)
	assert.Error(t, err)
}

func TestExtractBearer(t *testing.T) {
	r := httptest.NewRequest("GET", "/events", nil)
	r.Header.Set("Authorization", "Bearer tok123")

	token, err := auth.ExtractBearer(r)
	require.NoError(t, err)
	assert.Equal(t, "tok123", token)
}

func TestExtractBearerMissingHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/events", nil)

	_, err := auth.ExtractBearer(r)
	assert.Error(t, err)
}

func TestExtractBearerMalformedHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/events", nil)
	r.Header.Set("Authorization", "tok123")

	_, err := auth.ExtractBearer(r)
	assert.Error(t, err)
}

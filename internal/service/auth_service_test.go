package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
	appErrors "github.com/jdoner02/cyber-department-schedule-sub000/pkg/errors"
)

func newTestAuthService() *AuthService {
	return NewAuthService(nil, nil, AuthConfig{AccessTokenSecret: "secret", Issuer: "schedule-api"})
}

func TestAuthServiceIssueAndValidate(t *testing.T) {
	svc := newTestAuthService()

	token, expiresAt, err := svc.IssueToken("u-1", "chair@ewu.edu", models.RoleChair, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, models.RoleChair, claims.Role)
	assert.Equal(t, "schedule-api", claims.Issuer)
}

func TestAuthServiceRejectsBadTokens(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.ValidateToken("garbage")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	other := NewAuthService(nil, nil, AuthConfig{AccessTokenSecret: "other", Issuer: "schedule-api"})
	token, _, err := other.IssueToken("u-1", "", models.RoleViewer, time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err, "signature from another secret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		UserID: "u-1",
		Role:   models.RoleViewer,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "schedule-api",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.Error(t, err, "expired")

	noRole := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{UserID: "u-1", RegisteredClaims: jwt.RegisteredClaims{Issuer: "schedule-api"}})
	signed, err = noRole.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.Error(t, err, "role is required")
}

func TestAuthServiceIssueTokenValidatesRole(t *testing.T) {
	_, _, err := newTestAuthService().IssueToken("u-1", "", "superuser", time.Hour)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/highrangestar/quotation-api/internal/config"
	"github.com/highrangestar/quotation-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningKey = "test-signing-key"

func newTestValidator() *JWTValidator {
	return NewJWTValidator(&config.AuthConfig{
		Issuer:     "hrs-auth",
		SigningKey: testSigningKey,
	})
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSigningKey))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	v := newTestValidator()
	userID := uuid.New()

	tokenString := signToken(t, jwt.MapClaims{
		"iss":   "hrs-auth",
		"sub":   userID.String(),
		"name":  "Test User",
		"email": "test.user@highrangestar.com",
		"roles": []string{"office"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	userCtx, err := v.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID, userCtx.UserID)
	assert.Equal(t, "Test User", userCtx.DisplayName)
	assert.Equal(t, "test.user@highrangestar.com", userCtx.Email)
	assert.Equal(t, []domain.StaffRole{domain.RoleOffice}, userCtx.Roles)
	assert.True(t, userCtx.CanWrite())
	assert.False(t, userCtx.IsAdmin())
}

func TestValidateTokenExpired(t *testing.T) {
	v := newTestValidator()

	tokenString := signToken(t, jwt.MapClaims{
		"iss": "hrs-auth",
		"sub": uuid.New().String(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := v.ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	v := newTestValidator()

	tokenString := signToken(t, jwt.MapClaims{
		"iss": "someone-else",
		"sub": uuid.New().String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenWrongKey(t *testing.T) {
	v := newTestValidator()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "hrs-auth",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("other-key"))
	require.NoError(t, err)

	_, err = v.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenDerivesUserIDFromEmail(t *testing.T) {
	v := newTestValidator()

	tokenString := signToken(t, jwt.MapClaims{
		"iss":   "hrs-auth",
		"email": "office@highrangestar.com",
		"role":  "viewer",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	first, err := v.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.UserID)

	second, err := v.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID, "derived id is stable")
	assert.False(t, second.CanWrite())
}

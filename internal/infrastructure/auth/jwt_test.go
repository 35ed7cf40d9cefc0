package auth

import (
	"testing"
	"time"

	"github.com/distriflow/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	cfg := config.JWTConfig{
		Secret: "test-secret-key-at-least-32-chars",
		Issuer: "test-issuer",
	}
	return NewTokenService(cfg)
}

func TestNewTokenService(t *testing.T) {
	cfg := config.JWTConfig{
		Secret: "test-secret",
		Issuer: "test-issuer",
	}

	svc := NewTokenService(cfg)

	assert.NotNil(t, svc)
	assert.Equal(t, []byte(cfg.Secret), svc.secret)
	assert.Equal(t, cfg.Issuer, svc.issuer)
}

func TestValidateToken_Success(t *testing.T) {
	svc := newTestTokenService()
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "CLIENT")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)

	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "CLIENT", claims.Role)
	assert.Equal(t, "test-issuer", claims.Issuer)

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestValidateToken_ExpiredToken(t *testing.T) {
	svc := newTestTokenService()
	svc.expiration = -time.Minute

	token, err := svc.GenerateToken(uuid.New(), "ADMIN")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.GenerateToken(uuid.New(), "CLIENT")
	require.NoError(t, err)

	other := NewTokenService(config.JWTConfig{
		Secret: "another-secret-key-32-chars-long!",
		Issuer: "test-issuer",
	})

	_, err = other.ValidateToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.GenerateToken(uuid.New(), "CLIENT")
	require.NoError(t, err)

	other := NewTokenService(config.JWTConfig{
		Secret: "test-secret-key-at-least-32-chars",
		Issuer: "other-issuer",
	})

	_, err = other.ValidateToken(token)

	assert.ErrorIs(t, err, ErrWrongIssuer)
}

func TestValidateToken_MalformedToken(t *testing.T) {
	svc := newTestTokenService()

	_, err := svc.ValidateToken("not-a-jwt")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_MissingRole(t *testing.T) {
	svc := newTestTokenService()

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: uuid.New().String(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)

	assert.ErrorIs(t, err, ErrMissingRole)
}

func TestValidateToken_MissingUserID(t *testing.T) {
	svc := newTestTokenService()

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: "CLIENT",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)

	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestValidateToken_RejectsUnsignedToken(t *testing.T) {
	svc := newTestTokenService()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: uuid.New().String(),
		Role:   "ADMIN",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}
